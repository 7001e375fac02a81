package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yudhapr/pasarloak/internal/event"
	"github.com/yudhapr/pasarloak/internal/model"
)

type fakeBackend struct {
	items      []model.CartItem
	fetchCount int

	addErr    error
	updateErr error
	removeErr error
}

func (f *fakeBackend) Cart(context.Context) ([]model.CartItem, error) {
	f.fetchCount++
	return f.items, nil
}

func (f *fakeBackend) AddToCart(_ context.Context, productID int64, quantity int) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.items = append(f.items, model.CartItem{
		ID:        int64(len(f.items) + 1),
		ProductID: productID,
		Quantity:  quantity,
	})
	return nil
}

func (f *fakeBackend) UpdateCartItem(_ context.Context, itemID int64, quantity int) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.items {
		if f.items[i].ID == itemID {
			f.items[i].Quantity = quantity
		}
	}
	return nil
}

func (f *fakeBackend) RemoveCartItem(_ context.Context, itemID int64) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	kept := f.items[:0]
	for _, item := range f.items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	f.items = kept
	return nil
}

func drained(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestAdd_ResyncsAndAnnounces(t *testing.T) {
	backend := &fakeBackend{}
	bus := event.NewBus()
	ch, cancel := bus.Subscribe(event.CartChanged)
	defer cancel()

	svc := NewService(backend, bus)
	items, err := svc.Add(context.Background(), 42, 2)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, int64(42), items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, backend.fetchCount)
	assert.True(t, drained(ch))
}

func TestAdd_QuantityFloorsAtOne(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewService(backend, event.NewBus())

	items, err := svc.Add(context.Background(), 42, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestAdd_BackendFailureSkipsResyncAndEvent(t *testing.T) {
	backend := &fakeBackend{addErr: errors.New("boom")}
	bus := event.NewBus()
	ch, cancel := bus.Subscribe(event.CartChanged)
	defer cancel()

	svc := NewService(backend, bus)
	_, err := svc.Add(context.Background(), 42, 1)
	assert.Error(t, err)
	assert.Zero(t, backend.fetchCount)
	assert.False(t, drained(ch))
}

func TestUpdateQuantity_RejectsBelowOneLocally(t *testing.T) {
	backend := &fakeBackend{items: []model.CartItem{{ID: 1, ProductID: 42, Quantity: 2}}}
	svc := NewService(backend, event.NewBus())

	_, err := svc.UpdateQuantity(context.Background(), 1, 0)
	assert.Error(t, err)
	assert.Equal(t, 2, backend.items[0].Quantity)
	assert.Zero(t, backend.fetchCount)
}

func TestUpdateQuantity_ReturnsServerList(t *testing.T) {
	backend := &fakeBackend{items: []model.CartItem{{ID: 1, ProductID: 42, Quantity: 2}}}
	svc := NewService(backend, event.NewBus())

	items, err := svc.UpdateQuantity(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestRemove_DropsRowAndAnnounces(t *testing.T) {
	backend := &fakeBackend{items: []model.CartItem{
		{ID: 1, ProductID: 42, Quantity: 1},
		{ID: 2, ProductID: 43, Quantity: 1},
	}}
	bus := event.NewBus()
	ch, cancel := bus.Subscribe(event.CartChanged)
	defer cancel()

	svc := NewService(backend, bus)
	items, err := svc.Remove(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ID)
	assert.True(t, drained(ch))
}

func TestTotals(t *testing.T) {
	items := []model.CartItem{
		{Price: 150000, Quantity: 2},
		{Price: 80000, Quantity: 1},
	}
	assert.Equal(t, float64(380000), Subtotal(items))
	assert.Equal(t, float64(380000+ShippingCost), Total(items))

	// Shipping is charged even on an empty computation; callers guard
	// with the empty-cart check before ever showing a total.
	assert.Equal(t, float64(ShippingCost), Total(nil))
}
