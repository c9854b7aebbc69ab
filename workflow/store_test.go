package workflow

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rehhab/pos-terminal/models"
)

// mockGateway is a testify mock of the Gateway interface
type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) ListTables(ctx context.Context) ([]models.RawTable, error) {
	args := m.Called(ctx)
	if tables, ok := args.Get(0).([]models.RawTable); ok {
		return tables, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) OpenTable(ctx context.Context, tableID uint) (json.RawMessage, error) {
	args := m.Called(ctx, tableID)
	if raw, ok := args.Get(0).(json.RawMessage); ok {
		return raw, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) AddItem(ctx context.Context, orderID, productID uint, qty int) error {
	args := m.Called(ctx, orderID, productID, qty)
	return args.Error(0)
}

func (m *mockGateway) CloseOrder(ctx context.Context, orderID uint, tip decimal.Decimal, paymentType string) error {
	args := m.Called(ctx, orderID, tip, paymentType)
	return args.Error(0)
}

// recordingNotifier captures user-facing messages for assertions
type recordingNotifier struct {
	successes []string
	warnings  []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Warn(msg string)    { n.warnings = append(n.warnings, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }

// loadedStore builds a store pre-populated via LoadTables from raw records
func loadedStore(t *testing.T, gw *mockGateway, notify *recordingNotifier, raw []models.RawTable) *Store {
	t.Helper()
	store := NewStore(gw, notify)
	gw.On("ListTables", mock.Anything).Return(raw, nil).Once()
	require.NoError(t, store.LoadTables(context.Background()))
	return store
}

func twoTables() []models.RawTable {
	return []models.RawTable{
		{ID: 1, Number: 1, Status: "FREE"},
		{ID: 2, Number: 2, Status: "OCCUPIED", Order: json.RawMessage(`{"id":50}`)},
	}
}

func TestLoadTablesReplacesStateAndKeepsItOnFailure(t *testing.T) {
	gw := new(mockGateway)
	notify := new(recordingNotifier)
	store := loadedStore(t, gw, notify, twoTables())
	require.Len(t, store.Tables(), 2)

	// A failed reload keeps the previous list: stale but consistent
	gw.On("ListTables", mock.Anything).Return(nil, assert.AnError).Once()
	err := store.LoadTables(context.Background())
	assert.Error(t, err)
	assert.Len(t, store.Tables(), 2)
	assert.NotEmpty(t, notify.errors)
	gw.AssertExpectations(t)
}

func TestLoadTablesWarnsOnInconsistentTable(t *testing.T) {
	gw := new(mockGateway)
	notify := new(recordingNotifier)
	store := loadedStore(t, gw, notify, []models.RawTable{
		{ID: 9, Number: 9, Status: "OCCUPIED"},
	})

	table, ok := store.TableByID(9)
	require.True(t, ok)
	assert.True(t, table.Inconsistent())
	assert.NotEmpty(t, notify.warnings)
}

func TestOpenTableSuccess(t *testing.T) {
	gw := new(mockGateway)
	notify := new(recordingNotifier)
	store := loadedStore(t, gw, notify, twoTables())

	gw.On("OpenTable", mock.Anything, uint(1)).Return(json.RawMessage(`{"order":{"id":77}}`), nil).Once()

	require.NoError(t, store.OpenTable(context.Background(), 1))

	// Exactly one table transitioned, and it got the order reference
	opened, _ := store.TableByID(1)
	assert.Equal(t, models.StatusOccupied, opened.Status)
	require.NotNil(t, opened.OrderID)
	assert.Equal(t, uint(77), *opened.OrderID)

	other, _ := store.TableByID(2)
	assert.Equal(t, models.StatusOccupied, other.Status)
	require.NotNil(t, other.OrderID)
	assert.Equal(t, uint(50), *other.OrderID)

	// The add-item workflow opens for the new order
	modal := store.ActiveModal()
	assert.Equal(t, ModalAddItem, modal.Kind)
	assert.Equal(t, uint(77), modal.OrderID)

	gw.AssertExpectations(t)
}

func TestOpenTableRejectsNonFreeTableWithoutGatewayCall(t *testing.T) {
	gw := new(mockGateway)
	notify := new(recordingNotifier)
	store := loadedStore(t, gw, notify, twoTables())

	err := store.OpenTable(context.Background(), 2)

	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "TABLE_NOT_FREE", stateErr.Code)
	assert.NotEmpty(t, notify.warnings)

	// State untouched, no OpenTable call ever made
	table, _ := store.TableByID(2)
	assert.Equal(t, models.StatusOccupied, table.Status)
	gw.AssertNotCalled(t, "OpenTable", mock.Anything, mock.Anything)
}

func TestOpenTableUnknownResponseForcesReload(t *testing.T) {
	gw := new(mockGateway)
	notify := new(recordingNotifier)
	store := loadedStore(t, gw, notify, twoTables())

	gw.On("OpenTable", mock.Anything, uint(1)).Return(json.RawMessage(`{"status":"ok"}`), nil).Once()
	// The forced resync after extraction failure
	gw.On("ListTables", mock.Anything).Return(twoTables(), nil).Once()

	err := store.OpenTable(context.Background(), 1)
	assert.Error(t, err)

	table, _ := store.TableByID(1)
	assert.Equal(t, models.StatusFree, table.Status)
	assert.False(t, store.ActiveModal().Active())
	gw.AssertExpectations(t)
}

func TestOpenTableGatewayErrorLeavesStateIntact(t *testing.T) {
	gw := new(mockGateway)
	notify := new(recordingNotifier)
	store := loadedStore(t, gw, notify, twoTables())

	gw.On("OpenTable", mock.Anything, uint(1)).Return(nil, assert.AnError).Once()

	err := store.OpenTable(context.Background(), 1)
	assert.Error(t, err)

	table, _ := store.TableByID(1)
	assert.Equal(t, models.StatusFree, table.Status)
	assert.Nil(t, table.OrderID)
	assert.NotEmpty(t, notify.errors)
	gw.AssertExpectations(t)
}

func TestAddItemClampsQuantityAndReloads(t *testing.T) {
	gw := new(mockGateway)
	notify := new(recordingNotifier)
	store := loadedStore(t, gw, notify, twoTables())
	store.OpenAddItemModal(50)

	// qty 0 is clamped to 1 before the gateway sees it
	gw.On("AddItem", mock.Anything, uint(50), uint(3), 1).Return(nil).Once()
	gw.On("ListTables", mock.Anything).Return(twoTables(), nil).Once()

	require.NoError(t, store.AddItem(context.Background(), 50, 3, 0))

	assert.False(t, store.ActiveModal().Active(), "add-item modal should be dismissed")
	assert.NotEmpty(t, notify.successes)
	gw.AssertExpectations(t)
}

func TestAddItemRejectsUnknownOrderWithoutGatewayCall(t *testing.T) {
	gw := new(mockGateway)
	notify := new(recordingNotifier)
	store := loadedStore(t, gw, notify, twoTables())

	err := store.AddItem(context.Background(), 999, 3, 1)

	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "ORDER_NOT_FOUND", stateErr.Code)
	gw.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddItemDiscardsResponseAfterModalDismissal(t *testing.T) {
	gw := new(mockGateway)
	notify := new(recordingNotifier)
	store := loadedStore(t, gw, notify, twoTables())
	store.OpenAddItemModal(50)

	// The modal goes away while the request is in flight; the late
	// response must be ignored, and in particular must not reload
	gw.On("AddItem", mock.Anything, uint(50), uint(3), 2).Run(func(args mock.Arguments) {
		store.DismissModal()
	}).Return(nil).Once()

	require.NoError(t, store.AddItem(context.Background(), 50, 3, 2))

	assert.Empty(t, notify.successes)
	// Only the initial load; no reload for the discarded response
	gw.AssertNumberOfCalls(t, "ListTables", 1)
}

func TestCloseOrderDefaultsAndFreesTable(t *testing.T) {
	gw := new(mockGateway)
	notify := new(recordingNotifier)
	store := loadedStore(t, gw, notify, twoTables())
	store.OpenCloseOrderModal(50, 2)

	// Empty tip and empty payment type become 0 and CASH
	gw.On("CloseOrder", mock.Anything, uint(50), decimal.Zero, models.PaymentCash).Return(nil).Once()

	require.NoError(t, store.CloseOrder(context.Background(), 50, "", ""))

	closed, _ := store.TableByID(2)
	assert.Equal(t, models.StatusFree, closed.Status)
	assert.Nil(t, closed.OrderID)
	assert.Nil(t, closed.Order)

	// The other table did not change
	other, _ := store.TableByID(1)
	assert.Equal(t, models.StatusFree, other.Status)

	assert.False(t, store.ActiveModal().Active())
	gw.AssertExpectations(t)
}

func TestCloseOrderFailureKeepsTableButDismissesModal(t *testing.T) {
	gw := new(mockGateway)
	notify := new(recordingNotifier)
	store := loadedStore(t, gw, notify, twoTables())
	store.OpenCloseOrderModal(50, 2)

	gw.On("CloseOrder", mock.Anything, uint(50), mock.Anything, models.PaymentCard).Return(assert.AnError).Once()

	err := store.CloseOrder(context.Background(), 50, "2.50", "CARD")
	assert.Error(t, err)

	table, _ := store.TableByID(2)
	assert.Equal(t, models.StatusOccupied, table.Status)
	require.NotNil(t, table.OrderID)

	// Close attempted means the modal exits even on failure
	assert.False(t, store.ActiveModal().Active())
	assert.NotEmpty(t, notify.errors)
	gw.AssertExpectations(t)
}

func TestCloseOrderRejectsInvalidPaymentType(t *testing.T) {
	gw := new(mockGateway)
	notify := new(recordingNotifier)
	store := loadedStore(t, gw, notify, twoTables())

	err := store.CloseOrder(context.Background(), 50, "0", "BITCOIN")

	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "INVALID_PAYMENT_TYPE", stateErr.Code)
	gw.AssertNotCalled(t, "CloseOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestForceFreeTable(t *testing.T) {
	gw := new(mockGateway)
	notify := new(recordingNotifier)
	store := loadedStore(t, gw, notify, []models.RawTable{
		{ID: 1, Number: 1, Status: "OCCUPIED"}, // inconsistent: no order
		{ID: 2, Number: 2, Status: "OCCUPIED", OrderID: uintPtr(50)},
	})

	// Unconfirmed: nothing happens
	err := store.ForceFreeTable(1, false)
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "NOT_CONFIRMED", stateErr.Code)
	table, _ := store.TableByID(1)
	assert.Equal(t, models.StatusOccupied, table.Status)

	// A table with a resolvable order must be closed, not force-freed
	err = store.ForceFreeTable(2, true)
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "TABLE_HAS_ORDER", stateErr.Code)

	// Confirmed on the inconsistent table: local-only transition to FREE
	require.NoError(t, store.ForceFreeTable(1, true))
	table, _ = store.TableByID(1)
	assert.Equal(t, models.StatusFree, table.Status)
	assert.Nil(t, table.OrderID)

	// No gateway interaction of any kind beyond the initial load
	gw.AssertNotCalled(t, "CloseOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	gw.AssertNumberOfCalls(t, "ListTables", 1)
}

func TestModalMutualExclusion(t *testing.T) {
	gw := new(mockGateway)
	notify := new(recordingNotifier)
	store := NewStore(gw, notify)

	store.OpenAddItemModal(1)
	store.OpenSummaryModal(2)
	store.OpenCloseOrderModal(3, 4)

	// Opening a modal replaces the previous one; only the last survives
	modal := store.ActiveModal()
	assert.Equal(t, ModalCloseOrder, modal.Kind)
	assert.Equal(t, uint(3), modal.OrderID)
	assert.Equal(t, uint(4), modal.TableID)

	store.DismissModal()
	assert.False(t, store.ActiveModal().Active())
}

func TestParseTip(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "0"},
		{"  ", "0"},
		{"abc", "0"},
		{"-3", "0"},
		{"2.50", "2.5"},
		{"0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTip(tt.input).String())
		})
	}
}
