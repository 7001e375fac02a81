package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yudhapr/pasarloak/internal/model"
)

type addCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

// Cart lists the authenticated user's cart rows.
func (c *Client) Cart(ctx context.Context) ([]model.CartItem, error) {
	var out dataEnvelope[[]model.CartItem]
	if err := c.do(ctx, http.MethodGet, "/cart", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// AddToCart puts quantity units of a product in the cart.
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) error {
	return c.do(ctx, http.MethodPost, "/cart", nil, addCartRequest{ProductID: productID, Quantity: quantity}, nil)
}

// UpdateCartItem sets the quantity of an existing cart row.
func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/cart/%d", itemID), nil, updateCartRequest{Quantity: quantity}, nil)
}

// RemoveCartItem deletes a cart row.
func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/%d", itemID), nil, nil, nil)
}
