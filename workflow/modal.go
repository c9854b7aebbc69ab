package workflow

// ModalKind identifies which transient workflow modal is active
type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalAddItem
	ModalCloseOrder
	ModalSummary
)

func (k ModalKind) String() string {
	switch k {
	case ModalAddItem:
		return "add-item"
	case ModalCloseOrder:
		return "close-order"
	case ModalSummary:
		return "order-summary"
	default:
		return "none"
	}
}

// Modal describes the single active workflow modal. The store holds at most
// one descriptor, which is what makes the modals mutually exclusive: opening
// one replaces whatever was active before.
type Modal struct {
	Kind    ModalKind
	OrderID uint
	// TableID is only set for the close-order modal, which needs to know
	// which table to free on success
	TableID uint
}

// Active reports whether any modal is currently open
func (m Modal) Active() bool {
	return m.Kind != ModalNone
}
