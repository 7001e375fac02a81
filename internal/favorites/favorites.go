// Package favorites keeps the device-local list of favorited product
// ids. The list never leaves the device: it is persisted in the local
// store, overwritten whole on every change, and announced on the event
// bus for the header badge.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/yudhapr/pasarloak/internal/api"
	"github.com/yudhapr/pasarloak/internal/event"
	"github.com/yudhapr/pasarloak/internal/model"
	"github.com/yudhapr/pasarloak/internal/store"
)

type Manager struct {
	store store.Store
	bus   *event.Bus
}

func NewManager(st store.Store, bus *event.Bus) *Manager {
	return &Manager{store: st, bus: bus}
}

// List returns the favorited product ids, oldest first. A missing key
// is an empty list.
func (m *Manager) List(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := m.store.GetJSON(ctx, store.KeyFavorites, &ids); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	return ids, nil
}

// Contains reports whether a product is favorited.
func (m *Manager) Contains(ctx context.Context, productID int64) (bool, error) {
	ids, err := m.List(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, productID), nil
}

// Toggle adds the product if absent and removes it if present,
// returning the new favorited state.
func (m *Manager) Toggle(ctx context.Context, productID int64) (bool, error) {
	ids, err := m.List(ctx)
	if err != nil {
		return false, err
	}
	i := slices.Index(ids, productID)
	favorited := i < 0
	if favorited {
		ids = append(ids, productID)
	} else {
		ids = slices.Delete(ids, i, i+1)
	}
	if err := m.save(ctx, ids); err != nil {
		return false, err
	}
	return favorited, nil
}

// Remove drops the product from the list; removing an absent product
// is a no-op that still reports success.
func (m *Manager) Remove(ctx context.Context, productID int64) error {
	ids, err := m.List(ctx)
	if err != nil {
		return err
	}
	i := slices.Index(ids, productID)
	if i < 0 {
		return nil
	}
	return m.save(ctx, slices.Delete(ids, i, i+1))
}

func (m *Manager) save(ctx context.Context, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	if err := m.store.SetJSON(ctx, store.KeyFavorites, ids); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	m.bus.Publish(event.FavoritesChanged)
	return nil
}

// Catalog is the product slice of the REST client used to resolve ids
// for display.
type Catalog interface {
	Products(ctx context.Context, q api.ProductQuery) ([]model.Product, error)
}

// Products resolves the favorited ids against a single catalog fetch
// and filters locally, in favorite order. Products that no longer
// exist in the listing are skipped.
func (m *Manager) Products(ctx context.Context, catalog Catalog) ([]model.Product, error) {
	ids, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	listing, err := catalog.Products(ctx, api.ProductQuery{})
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.Product, len(listing))
	for _, p := range listing {
		byID[p.ID] = p
	}
	products := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}
