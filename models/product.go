package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a menu product. The waiter workflow only reads products (via
// search) as input to item-add; creation and edits happen through the admin
// CRUD surface.
type Product struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Name     string          `gorm:"not null;index" json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Enabled  bool            `gorm:"not null;default:true" json:"enabled"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
