package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yudhapr/pasarloak/internal/model"
)

// OrderRequest is the POST /orders payload. The endpoint accepts
// exactly one product per order; multi-item checkouts issue one
// request per cart line.
type OrderRequest struct {
	ProductID       int64  `json:"product_id"`
	SellerID        int64  `json:"seller_id"`
	Quantity        int    `json:"quantity"`
	PaymentMethod   string `json:"payment_method"`
	ShippingAddress string `json:"shipping_address"`
	Notes           string `json:"notes"`
}

type createOrderResponse struct {
	OrderID int64 `json:"order_id"`
}

type updateStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// CreateOrder places a single-product order and returns its id.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (int64, error) {
	var out createOrderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", nil, req, &out); err != nil {
		return 0, err
	}
	return out.OrderID, nil
}

// Orders lists the caller's orders: purchases for buyers, incoming
// sales for sellers. The backend decides based on the token.
func (c *Client) Orders(ctx context.Context) ([]model.Order, error) {
	var out dataEnvelope[[]model.Order]
	if err := c.do(ctx, http.MethodGet, "/orders", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetOrder fetches one order with its joined display fields.
func (c *Client) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	var out dataEnvelope[model.Order]
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// UpdateOrderStatus requests a status transition. The backend enforces
// the legal transitions and permissions; a rejection comes back as
// *Error carrying the backend's message.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/orders/%d/status", id), nil, updateStatusRequest{Status: status}, nil)
}

// AddReview submits the buyer's one-time review for a delivered order.
func (c *Client) AddReview(ctx context.Context, id int64, review model.Review) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/review", id), nil, review, nil)
}
