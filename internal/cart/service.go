// Package cart synchronizes the server-owned cart. Mutations call the
// backend, re-fetch the authoritative list, and announce the change on
// the event bus; nothing is merged optimistically on the client.
package cart

import (
	"context"
	"fmt"

	"github.com/yudhapr/pasarloak/internal/event"
	"github.com/yudhapr/pasarloak/internal/model"
)

// ShippingCost is the flat shipping fee the storefront charges per
// checkout, in rupiah.
const ShippingCost = 25000

// Backend is the cart slice of the REST client.
type Backend interface {
	Cart(ctx context.Context) ([]model.CartItem, error)
	AddToCart(ctx context.Context, productID int64, quantity int) error
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) error
	RemoveCartItem(ctx context.Context, itemID int64) error
}

type Service struct {
	backend Backend
	bus     *event.Bus
}

func NewService(backend Backend, bus *event.Bus) *Service {
	return &Service{backend: backend, bus: bus}
}

// Items fetches the current cart.
func (s *Service) Items(ctx context.Context) ([]model.CartItem, error) {
	return s.backend.Cart(ctx)
}

// Add puts a product in the cart and returns the re-synced list.
func (s *Service) Add(ctx context.Context, productID int64, quantity int) ([]model.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}
	if err := s.backend.AddToCart(ctx, productID, quantity); err != nil {
		return nil, err
	}
	return s.resync(ctx)
}

// UpdateQuantity sets a cart row's quantity and re-syncs. Quantities
// below one are rejected locally; removal is a separate action.
func (s *Service) UpdateQuantity(ctx context.Context, itemID int64, quantity int) ([]model.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("cart: quantity must be at least 1")
	}
	if err := s.backend.UpdateCartItem(ctx, itemID, quantity); err != nil {
		return nil, err
	}
	return s.resync(ctx)
}

// Remove deletes a cart row and re-syncs.
func (s *Service) Remove(ctx context.Context, itemID int64) ([]model.CartItem, error) {
	if err := s.backend.RemoveCartItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.resync(ctx)
}

func (s *Service) resync(ctx context.Context) ([]model.CartItem, error) {
	items, err := s.backend.Cart(ctx)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(event.CartChanged)
	return items, nil
}

// Subtotal sums the line totals.
func Subtotal(items []model.CartItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Subtotal()
	}
	return sum
}

// Total is the amount due at checkout: subtotal plus flat shipping.
func Total(items []model.CartItem) float64 {
	return Subtotal(items) + ShippingCost
}
