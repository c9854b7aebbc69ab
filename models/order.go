package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineItem is one product+quantity entry within an order
type LineItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"-"`
	ProductID uint            `gorm:"not null;index" json:"productId"`
	Name      string          `gorm:"not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity  int             `gorm:"not null;check:quantity > 0" json:"quantity"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName specifies the table name for the LineItem model
func (LineItem) TableName() string {
	return "order_items"
}

// ItemTotal returns price multiplied by quantity for this line
func (li LineItem) ItemTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Order is the set of line items a table has accrued since it was opened.
// Total comes from the gateway and is authoritative; ComputedTotal exists
// to check the invariant, not to replace it.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	TableID     uint            `gorm:"not null;index" json:"tableId"`
	Items       []LineItem      `gorm:"foreignKey:OrderID" json:"items"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total"`
	Closed      bool            `gorm:"not null;default:false" json:"closed"`
	Tip         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"tip"`
	PaymentType string          `json:"paymentType,omitempty"` // CASH, CARD, TRANSFER

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ComputedTotal sums price*quantity over all line items
func (o Order) ComputedTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range o.Items {
		sum = sum.Add(li.ItemTotal())
	}
	return sum
}

// Payment types accepted by the close-order operation
const (
	PaymentCash     = "CASH"
	PaymentCard     = "CARD"
	PaymentTransfer = "TRANSFER"
)

// ValidPaymentType reports whether pt is one of the accepted payment types
func ValidPaymentType(pt string) bool {
	switch pt {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}
