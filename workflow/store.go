package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rehhab/pos-terminal/models"
)

// Gateway is the slice of the POS backend the table workflow consumes.
// *gateway.Client satisfies it; tests substitute a mock.
type Gateway interface {
	ListTables(ctx context.Context) ([]models.RawTable, error)
	OpenTable(ctx context.Context, tableID uint) (json.RawMessage, error)
	AddItem(ctx context.Context, orderID, productID uint, qty int) error
	CloseOrder(ctx context.Context, orderID uint, tip decimal.Decimal, paymentType string) error
}

// Notifier receives user-facing messages. The terminal prints them; tests
// record them.
type Notifier interface {
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

// StateError is a local precondition violation: the action was rejected
// before any gateway call was made and no state changed.
type StateError struct {
	Code    string
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

// Store owns the canonical table list for one waiter session and dispatches
// every table/order action. All mutations flow through it: optimistic local
// patches for open/close, full server-authoritative reloads for item
// mutations, and nothing else touches the list.
//
// The store is not safe for concurrent use; the terminal drives it from a
// single event loop, mirroring the one-action-at-a-time UI it replaces.
type Store struct {
	gw     Gateway
	notify Notifier

	tables []models.Table

	// inFlight guards against double-dispatch per table (the moral
	// equivalent of disabling a button while its request runs)
	inFlight map[uint]bool

	modal Modal
	// modalEpoch increments on every modal change so a response that
	// arrives after its modal was dismissed can be recognized and dropped
	modalEpoch uint64
}

// NewStore creates a workflow store. One store per session; the table list
// starts empty until the first LoadTables.
func NewStore(gw Gateway, notify Notifier) *Store {
	return &Store{
		gw:       gw,
		notify:   notify,
		inFlight: make(map[uint]bool),
	}
}

// Tables returns a snapshot copy of the canonical table list
func (s *Store) Tables() []models.Table {
	out := make([]models.Table, len(s.tables))
	copy(out, s.tables)
	return out
}

// TableByID looks up a table in local state
func (s *Store) TableByID(tableID uint) (models.Table, bool) {
	for _, t := range s.tables {
		if t.ID == tableID {
			return t, true
		}
	}
	return models.Table{}, false
}

// tableByOrderID finds the table currently owning the given order
func (s *Store) tableByOrderID(orderID uint) (models.Table, bool) {
	for _, t := range s.tables {
		if t.OrderID != nil && *t.OrderID == orderID {
			return t, true
		}
	}
	return models.Table{}, false
}

// LoadTables fetches and normalizes the full table list, replacing local
// state wholesale. On failure the previous list is kept untouched: stale
// but consistent, recoverable with a manual refresh.
func (s *Store) LoadTables(ctx context.Context) error {
	raw, err := s.gw.ListTables(ctx)
	if err != nil {
		s.notify.Error(fmt.Sprintf("Failed to load tables: %v", err))
		return err
	}

	tables := make([]models.Table, 0, len(raw))
	for _, r := range raw {
		t := NormalizeTable(r)
		if t.Inconsistent() {
			s.notify.Warn(fmt.Sprintf("Table %d is occupied but has no order; use force-free to recover it", t.Number))
		}
		tables = append(tables, t)
	}
	s.tables = tables
	return nil
}

// OpenTable opens a FREE table. On success exactly that table transitions
// to OCCUPIED with the new order reference (optimistic patch, no reload)
// and the add-item modal is activated for the order.
//
// If the gateway responds but no order id can be extracted, local state can
// no longer be trusted and a full reload is forced.
func (s *Store) OpenTable(ctx context.Context, tableID uint) error {
	table, ok := s.TableByID(tableID)
	if !ok {
		err := &StateError{Code: "TABLE_NOT_FOUND", Message: fmt.Sprintf("table %d not found", tableID)}
		s.notify.Error(err.Message)
		return err
	}
	if s.inFlight[tableID] {
		err := &StateError{Code: "ACTION_IN_FLIGHT", Message: fmt.Sprintf("table %d already has an action in progress", table.Number)}
		s.notify.Warn(err.Message)
		return err
	}
	if table.Status != models.StatusFree {
		err := &StateError{Code: "TABLE_NOT_FREE", Message: fmt.Sprintf("table %d is not available to open", table.Number)}
		s.notify.Warn(err.Message)
		return err
	}

	s.inFlight[tableID] = true
	defer delete(s.inFlight, tableID)

	raw, err := s.gw.OpenTable(ctx, tableID)
	if err != nil {
		s.notify.Error(fmt.Sprintf("Failed to open table %d: %v", table.Number, err))
		return err
	}

	orderID, ok := ExtractOrderID(raw)
	if !ok {
		// The table may or may not be open server-side now; resync
		s.notify.Error(fmt.Sprintf("Could not determine the new order for table %d; reloading", table.Number))
		if loadErr := s.LoadTables(ctx); loadErr != nil {
			log.Printf("reload after failed order-id extraction also failed: %v", loadErr)
		}
		return fmt.Errorf("open table %d: no order id in gateway response", tableID)
	}

	s.patchTable(tableID, models.StatusOccupied, &orderID)
	s.setModal(Modal{Kind: ModalAddItem, OrderID: orderID, TableID: tableID})
	s.notify.Success(fmt.Sprintf("Table %d opened", table.Number))
	return nil
}

// AddItem appends a product to an order. Quantity is clamped to at least 1.
// Success dismisses the add-item modal and triggers a full reload so
// derived state (order totals shown on tables) stays consistent with the
// server; the low request volume of a POS terminal makes the extra fetch a
// non-issue.
func (s *Store) AddItem(ctx context.Context, orderID, productID uint, qty int) error {
	if qty < 1 {
		qty = 1
	}

	table, ok := s.tableByOrderID(orderID)
	if !ok {
		err := &StateError{Code: "ORDER_NOT_FOUND", Message: fmt.Sprintf("no occupied table holds order %d", orderID)}
		s.notify.Warn(err.Message)
		return err
	}
	if table.Status != models.StatusOccupied {
		err := &StateError{Code: "TABLE_NOT_OCCUPIED", Message: fmt.Sprintf("table %d is not occupied", table.Number)}
		s.notify.Warn(err.Message)
		return err
	}
	if s.inFlight[table.ID] {
		err := &StateError{Code: "ACTION_IN_FLIGHT", Message: fmt.Sprintf("table %d already has an action in progress", table.Number)}
		s.notify.Warn(err.Message)
		return err
	}

	s.inFlight[table.ID] = true
	defer delete(s.inFlight, table.ID)

	epoch := s.modalEpoch
	if err := s.gw.AddItem(ctx, orderID, productID, qty); err != nil {
		s.notify.Error(fmt.Sprintf("Failed to add product: %v", err))
		return err
	}

	if epoch != s.modalEpoch {
		// The add-item modal was dismissed while the request was in
		// flight; drop the response. The next refresh picks up the item.
		log.Printf("discarding add-item response for order %d: modal no longer active", orderID)
		return nil
	}

	if s.modal.Kind == ModalAddItem && s.modal.OrderID == orderID {
		s.DismissModal()
	}
	s.notify.Success("Product added")
	return s.LoadTables(ctx)
}

// CloseOrder finalizes payment for an order and frees its table. The tip is
// parsed leniently: empty or invalid input means 0, and negatives are
// clamped to 0. An empty payment type defaults to CASH.
//
// The close modal is dismissed whether the call succeeds or fails; only the
// table state reflects the outcome. That asymmetry is inherited behavior,
// kept deliberately (see DESIGN.md).
func (s *Store) CloseOrder(ctx context.Context, orderID uint, tip, paymentType string) error {
	table, ok := s.tableByOrderID(orderID)
	if !ok {
		err := &StateError{Code: "ORDER_NOT_FOUND", Message: fmt.Sprintf("no occupied table holds order %d", orderID)}
		s.notify.Warn(err.Message)
		return err
	}
	if table.Status != models.StatusOccupied {
		err := &StateError{Code: "TABLE_NOT_OCCUPIED", Message: fmt.Sprintf("table %d is not occupied", table.Number)}
		s.notify.Warn(err.Message)
		return err
	}
	if s.inFlight[table.ID] {
		err := &StateError{Code: "ACTION_IN_FLIGHT", Message: fmt.Sprintf("table %d already has an action in progress", table.Number)}
		s.notify.Warn(err.Message)
		return err
	}

	payment := strings.ToUpper(strings.TrimSpace(paymentType))
	if payment == "" {
		payment = models.PaymentCash
	}
	if !models.ValidPaymentType(payment) {
		err := &StateError{Code: "INVALID_PAYMENT_TYPE", Message: fmt.Sprintf("unknown payment type %q", paymentType)}
		s.notify.Warn(err.Message)
		return err
	}

	s.inFlight[table.ID] = true
	defer delete(s.inFlight, table.ID)

	// Close attempted means the modal exits, regardless of outcome
	if s.modal.Kind == ModalCloseOrder && s.modal.OrderID == orderID {
		defer s.DismissModal()
	}

	if err := s.gw.CloseOrder(ctx, orderID, ParseTip(tip), payment); err != nil {
		s.notify.Error(fmt.Sprintf("Failed to close order %d: %v", orderID, err))
		return err
	}

	s.patchTable(table.ID, models.StatusFree, nil)
	s.notify.Success(fmt.Sprintf("Order closed, table %d is free", table.Number))
	return nil
}

// ForceFreeTable marks an occupied table with no resolvable order as FREE
// locally, without any gateway call: there is no valid order to close. This
// is the recovery path for inconsistent data, not a normal flow, and it
// requires explicit confirmation.
func (s *Store) ForceFreeTable(tableID uint, confirmed bool) error {
	table, ok := s.TableByID(tableID)
	if !ok {
		err := &StateError{Code: "TABLE_NOT_FOUND", Message: fmt.Sprintf("table %d not found", tableID)}
		s.notify.Error(err.Message)
		return err
	}
	if table.Status == models.StatusFree {
		err := &StateError{Code: "TABLE_ALREADY_FREE", Message: fmt.Sprintf("table %d is already free", table.Number)}
		s.notify.Warn(err.Message)
		return err
	}
	if table.OrderID != nil {
		err := &StateError{Code: "TABLE_HAS_ORDER", Message: fmt.Sprintf("table %d has order %d; close the order instead", table.Number, *table.OrderID)}
		s.notify.Warn(err.Message)
		return err
	}
	if !confirmed {
		return &StateError{Code: "NOT_CONFIRMED", Message: "force-free requires confirmation"}
	}

	s.patchTable(tableID, models.StatusFree, nil)
	s.notify.Success(fmt.Sprintf("Table %d marked free", table.Number))
	return nil
}

// ActiveModal returns the current modal descriptor
func (s *Store) ActiveModal() Modal {
	return s.modal
}

// OpenAddItemModal activates the add-item modal for an order
func (s *Store) OpenAddItemModal(orderID uint) {
	s.setModal(Modal{Kind: ModalAddItem, OrderID: orderID})
}

// OpenCloseOrderModal activates the close-order modal
func (s *Store) OpenCloseOrderModal(orderID, tableID uint) {
	s.setModal(Modal{Kind: ModalCloseOrder, OrderID: orderID, TableID: tableID})
}

// OpenSummaryModal activates the order-summary modal
func (s *Store) OpenSummaryModal(orderID uint) {
	s.setModal(Modal{Kind: ModalSummary, OrderID: orderID})
}

// DismissModal clears the active modal. Responses still in flight for the
// dismissed modal will be discarded when they land.
func (s *Store) DismissModal() {
	s.modal = Modal{}
	s.modalEpoch++
}

func (s *Store) setModal(m Modal) {
	s.modal = m
	s.modalEpoch++
}

// patchTable rewrites status and order reference for exactly one table
func (s *Store) patchTable(tableID uint, status string, orderID *uint) {
	for i := range s.tables {
		if s.tables[i].ID != tableID {
			continue
		}
		s.tables[i].Status = status
		if orderID != nil {
			id := *orderID
			s.tables[i].OrderID = &id
			s.tables[i].Order = &models.OrderRef{ID: id}
		} else {
			s.tables[i].OrderID = nil
			s.tables[i].Order = nil
		}
		return
	}
}

// ParseTip coerces free-form tip input into a non-negative amount. Empty or
// unparseable input means no tip.
func ParseTip(input string) decimal.Decimal {
	input = strings.TrimSpace(input)
	if input == "" {
		return decimal.Zero
	}
	tip, err := decimal.NewFromString(input)
	if err != nil || tip.IsNegative() {
		return decimal.Zero
	}
	return tip
}
