package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rehhab/pos-terminal/models"
)

// Admin CRUD surface: GET/POST/PUT/DELETE /admin/{users|products|tables}.
// Admin-managed tables are returned in canonical form by the gateway, so no
// normalization is involved here.

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.request(ctx, http.MethodGet, "/admin/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	var created models.User
	if err := c.request(ctx, http.MethodPost, "/admin/users", nil, u, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateUser(ctx context.Context, id uint, u models.User) (*models.User, error) {
	var updated models.User
	if err := c.request(ctx, http.MethodPut, fmt.Sprintf("/admin/users/%d", id), nil, u, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d", id), nil, nil, nil)
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.request(ctx, http.MethodGet, "/admin/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	var created models.Product
	if err := c.request(ctx, http.MethodPost, "/admin/products", nil, p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id uint, p models.Product) (*models.Product, error) {
	var updated models.Product
	if err := c.request(ctx, http.MethodPut, fmt.Sprintf("/admin/products/%d", id), nil, p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/admin/products/%d", id), nil, nil, nil)
}

func (c *Client) ListAdminTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := c.request(ctx, http.MethodGet, "/admin/tables", nil, nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func (c *Client) CreateTable(ctx context.Context, t models.Table) (*models.Table, error) {
	var created models.Table
	if err := c.request(ctx, http.MethodPost, "/admin/tables", nil, t, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateTable(ctx context.Context, id uint, t models.Table) (*models.Table, error) {
	var updated models.Table
	if err := c.request(ctx, http.MethodPut, fmt.Sprintf("/admin/tables/%d", id), nil, t, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteTable(ctx context.Context, id uint) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/admin/tables/%d", id), nil, nil, nil)
}
