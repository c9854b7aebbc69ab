package workflow

import (
	"encoding/json"
	"strings"

	"github.com/rehhab/pos-terminal/models"
)

// NormalizeTable maps a raw gateway table record into the canonical Table
// representation. It is the single place raw shapes are interpreted; every
// table entering the store goes through it exactly once, at ingestion.
//
// Field precedence for the order reference:
//  1. a nested order object with an id
//  2. a bare orderId field
//  3. neither present: orderId and order are nil
//
// Status is upper-cased, defaults to CLOSED when absent, and BUSY is
// rewritten to OCCUPIED. A FREE table never keeps an order reference, no
// matter what the wire says.
func NormalizeTable(raw models.RawTable) models.Table {
	status := strings.ToUpper(strings.TrimSpace(raw.Status))
	if status == "" {
		status = models.StatusClosed
	}
	if status == models.StatusBusy {
		status = models.StatusOccupied
	}

	table := models.Table{
		ID:       raw.ID,
		Number:   raw.Number,
		Capacity: raw.Capacity,
		Status:   status,
	}

	if id, ok := nestedOrderID(raw.Order); ok {
		table.OrderID = &id
		table.Order = &models.OrderRef{ID: id}
	} else if raw.OrderID != nil && *raw.OrderID != 0 {
		id := *raw.OrderID
		table.OrderID = &id
		table.Order = &models.OrderRef{ID: id}
	}

	if table.Status == models.StatusFree {
		table.OrderID = nil
		table.Order = nil
	}

	return table
}

// nestedOrderID pulls the id out of a nested order object, if there is one
func nestedOrderID(raw json.RawMessage) (uint, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var order struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(raw, &order); err != nil || order.ID == 0 {
		return 0, false
	}
	return order.ID, true
}

// ExtractOrderID resolves the new order id from an open-table response.
// Backends return the reference in one of four shapes, tried in order:
// a nested order object, a bare orderId field, a bare id field, or a raw
// numeric body. No match is a hard error: the caller cannot trust its
// local state and must do a full reload.
func ExtractOrderID(raw json.RawMessage) (uint, bool) {
	var envelope struct {
		Order *struct {
			ID uint `json:"id"`
		} `json:"order"`
		OrderID *uint `json:"orderId"`
		ID      *uint `json:"id"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		switch {
		case envelope.Order != nil && envelope.Order.ID != 0:
			return envelope.Order.ID, true
		case envelope.OrderID != nil && *envelope.OrderID != 0:
			return *envelope.OrderID, true
		case envelope.ID != nil && *envelope.ID != 0:
			return *envelope.ID, true
		}
	}

	var id uint
	if err := json.Unmarshal(raw, &id); err == nil && id != 0 {
		return id, true
	}
	return 0, false
}
