// Package orderview holds the detail view-model for a single order: the
// snapshot shown by the order-summary modal, including line-item deletion.
package orderview

import (
	"context"
	"fmt"

	"github.com/rehhab/pos-terminal/models"
)

// Gateway is the slice of the POS backend the view-model consumes
type Gateway interface {
	GetOrder(ctx context.Context, orderID uint) (*models.Order, error)
	DeleteItem(ctx context.Context, orderID, itemID uint) (*models.Order, error)
}

// Notifier receives user-facing messages
type Notifier interface {
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

// View holds at most one order snapshot at a time. The snapshot is whatever
// the gateway last returned; totals are never recomputed locally after a
// mutation, because the server is authoritative for money.
type View struct {
	gw     Gateway
	notify Notifier

	order  models.Order
	loaded bool
}

// New creates an order detail view-model
func New(gw Gateway, notify Notifier) *View {
	return &View{gw: gw, notify: notify}
}

// Order returns the current snapshot. Before a successful Load, or after a
// failed one, this is the explicit empty order: zero items, zero total. The
// user sees an honest empty state instead of fabricated content.
func (v *View) Order() models.Order {
	return v.order
}

// Loaded reports whether the snapshot reflects a successful fetch
func (v *View) Loaded() bool {
	return v.loaded
}

// Load fetches the order snapshot. On failure the view holds the empty
// order and the error is surfaced.
func (v *View) Load(ctx context.Context, orderID uint) error {
	order, err := v.gw.GetOrder(ctx, orderID)
	if err != nil {
		v.order = models.Order{ID: orderID}
		v.loaded = false
		v.notify.Error(fmt.Sprintf("Failed to load order %d: %v", orderID, err))
		return err
	}
	v.order = *order
	v.loaded = true
	return nil
}

// DeleteLineItem removes one line item after explicit confirmation. On
// success the snapshot is replaced with the post-delete order the gateway
// returns; on failure the snapshot is left exactly as it was.
func (v *View) DeleteLineItem(ctx context.Context, itemID uint, confirmed bool) error {
	if !v.loaded {
		err := fmt.Errorf("no order loaded")
		v.notify.Warn("No order is loaded")
		return err
	}
	if !confirmed {
		return fmt.Errorf("delete line item %d: not confirmed", itemID)
	}

	updated, err := v.gw.DeleteItem(ctx, v.order.ID, itemID)
	if err != nil {
		v.notify.Error(fmt.Sprintf("Failed to delete item: %v", err))
		return err
	}
	if updated != nil {
		v.order = *updated
	} else {
		// Gateway answered with an empty body; refetch rather than guess
		// at the new totals
		return v.Load(ctx, v.order.ID)
	}
	v.notify.Success("Item removed")
	return nil
}

// Discard drops the snapshot; called when the summary modal closes
func (v *View) Discard() {
	v.order = models.Order{}
	v.loaded = false
}
