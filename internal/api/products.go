package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yudhapr/pasarloak/internal/model"
)

// ProductQuery holds the optional catalog filters for GET /products.
// Zero values are omitted from the query string.
type ProductQuery struct {
	Search     string
	CategoryID int64
	Sort       string // newest | price_asc | price_desc
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryID > 0 {
		v.Set("category_id", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

// Products lists the catalog with optional filters.
func (c *Client) Products(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	var out dataEnvelope[[]model.Product]
	if err := c.do(ctx, http.MethodGet, "/products", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetProduct fetches a single product detail.
func (c *Client) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var out dataEnvelope[model.Product]
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ProductsByUser lists one seller's products, used by the seller
// dashboard and the public seller page.
func (c *Client) ProductsByUser(ctx context.Context, userID int64) ([]model.Product, error) {
	var out dataEnvelope[[]model.Product]
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/user/%d", userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateProduct lists a new item for sale.
func (c *Client) CreateProduct(ctx context.Context, p model.NewProduct) (*model.Product, error) {
	var out dataEnvelope[model.Product]
	if err := c.do(ctx, http.MethodPost, "/products", nil, p, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// UpdateProduct edits an existing listing owned by the caller.
func (c *Client) UpdateProduct(ctx context.Context, id int64, p model.NewProduct) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), nil, p, nil)
}

// DeleteProduct removes a listing owned by the caller.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil, nil)
}

// Categories lists all product categories.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var out dataEnvelope[[]model.Category]
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
