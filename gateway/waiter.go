package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rehhab/pos-terminal/models"
)

// ListTables fetches all raw table records. Normalization is the caller's
// job (workflow.NormalizeTable); this layer does not interpret shapes.
func (c *Client) ListTables(ctx context.Context) ([]models.RawTable, error) {
	var tables []models.RawTable
	if err := c.request(ctx, http.MethodGet, "/waiter/tables", nil, nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// OpenTable opens a FREE table and returns the raw response body. Backends
// disagree on the shape of the new order reference (nested order object,
// bare id, or a plain number), so the workflow layer extracts the id.
func (c *Client) OpenTable(ctx context.Context, tableID uint) (json.RawMessage, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/waiter/tables/%d/open", tableID)
	if err := c.request(ctx, http.MethodPost, path, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// FreeTable asks the gateway to mark a table free without closing an order
func (c *Client) FreeTable(ctx context.Context, tableID uint) error {
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/waiter/tables/%d/free", tableID), nil, nil, nil)
}

// ResetTable resets a table to its initial state on the gateway side
func (c *Client) ResetTable(ctx context.Context, tableID uint) error {
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/waiter/tables/%d/reset", tableID), nil, nil, nil)
}

// AddItem appends qty units of a product to an order
func (c *Client) AddItem(ctx context.Context, orderID, productID uint, qty int) error {
	query := url.Values{}
	query.Set("productId", strconv.FormatUint(uint64(productID), 10))
	query.Set("qty", strconv.Itoa(qty))
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/waiter/orders/%d/items", orderID), query, nil, nil)
}

// DeleteItem removes a line item and returns the updated order as the
// gateway reports it. A gateway that answers with an empty body yields nil.
func (c *Client) DeleteItem(ctx context.Context, orderID, itemID uint) (*models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("/waiter/orders/%d/items/%d", orderID, itemID)
	if err := c.request(ctx, http.MethodDelete, path, nil, nil, &order); err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

// CloseOrder finalizes payment for an order. The caller is responsible for
// tip/paymentType defaults; this layer sends exactly what it is given.
func (c *Client) CloseOrder(ctx context.Context, orderID uint, tip decimal.Decimal, paymentType string) error {
	query := url.Values{}
	query.Set("tip", tip.String())
	query.Set("paymentType", paymentType)
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/waiter/orders/%d/close", orderID), query, nil, nil)
}

// GetOrder fetches one order with its line items and total
func (c *Client) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := c.request(ctx, http.MethodGet, fmt.Sprintf("/waiter/orders/%d", orderID), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// SearchProducts queries the product catalog by name fragment
func (c *Client) SearchProducts(ctx context.Context, q string) ([]models.Product, error) {
	query := url.Values{}
	query.Set("q", q)
	var products []models.Product
	if err := c.request(ctx, http.MethodGet, "/products/search", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}
