package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Table status values. BUSY is accepted from the wire as an alias of
// OCCUPIED and is rewritten during normalization, so code that works with
// canonical tables never sees it.
const (
	StatusFree     = "FREE"
	StatusOccupied = "OCCUPIED"
	StatusClosed   = "CLOSED"
	StatusBusy     = "BUSY"
)

// OrderRef is the lightweight order reference a table carries while it is
// occupied. The full order (items, total) lives in Order and is fetched on
// demand.
type OrderRef struct {
	ID uint `json:"id"`
}

// Table is the canonical in-memory representation of a restaurant table.
// Instances are produced by workflow.NormalizeTable; raw gateway records
// must never be used directly.
//
// Invariant: OrderID is non-nil if and only if Status != FREE. A table that
// violates this (occupied with no resolvable order) is a data inconsistency
// the workflow surfaces to the user.
type Table struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Number   int       `gorm:"not null;uniqueIndex" json:"number"`
	Capacity int       `gorm:"not null;default:4" json:"capacity"`
	Status   string    `gorm:"not null;default:'FREE'" json:"status"` // FREE, OCCUPIED, CLOSED
	OrderID  *uint     `gorm:"index" json:"orderId,omitempty"`
	Order    *OrderRef `gorm:"-" json:"order,omitempty"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Table model
func (Table) TableName() string {
	return "dining_tables"
}

// Inconsistent reports whether the table claims to be in use but carries no
// resolvable order reference. Such tables can only be recovered through an
// explicit force-free action.
func (t Table) Inconsistent() bool {
	return t.Status != StatusFree && t.OrderID == nil
}

// RawTable is the wire shape of a table record as the gateway returns it.
// Different backend versions populate different combinations of the order
// fields; NormalizeTable resolves them with a fixed precedence.
type RawTable struct {
	ID       uint            `json:"id"`
	Number   int             `json:"number"`
	Capacity int             `json:"capacity"`
	Status   string          `json:"status"`
	OrderID  *uint           `json:"orderId"`
	Order    json.RawMessage `json:"order"`
}
