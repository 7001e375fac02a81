// Package checkout drives a purchase from cart or "buy now" through
// order creation, payment confirmation, shipment and delivery. The
// backend order endpoint accepts one product per order, so a cart of N
// lines fans out into N concurrent creations whose results are settled
// and partitioned before anything else happens.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yudhapr/pasarloak/internal/api"
	"github.com/yudhapr/pasarloak/internal/model"
)

// Validation failures, raised before any network call goes out.
var (
	ErrAddressRequired = errors.New("Alamat pengiriman wajib diisi")
	ErrEmptyCart       = errors.New("Keranjang kosong")
	ErrRatingRange     = errors.New("Rating harus antara 1 sampai 5")
)

// Backend is the slice of the REST client the orchestrator needs.
type Backend interface {
	CreateOrder(ctx context.Context, req api.OrderRequest) (int64, error)
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	AddReview(ctx context.Context, id int64, review model.Review) error
}

// Orchestrator coordinates the multi-call order workflow. It holds no
// state of its own; every method leaves the system well-defined even
// on partial failure.
type Orchestrator struct {
	backend Backend
}

func New(backend Backend) *Orchestrator {
	return &Orchestrator{backend: backend}
}

// Result is a settled checkout: the ids of every order that was
// created, and one message per line item that was not. Successes are
// permanent — there is no compensating rollback — so a partial failure
// leaves real orders the user reconciles through order history.
type Result struct {
	OrderIDs []int64
	Failures []string
}

// Proceed reports whether the caller should navigate on to the order
// list. Only a fully clean checkout proceeds.
func (r *Result) Proceed() bool { return len(r.Failures) == 0 }

// Err aggregates the per-item failure messages into the single banner
// the storefront shows, or nil for a clean checkout.
func (r *Result) Err() error {
	if r.Proceed() {
		return nil
	}
	return fmt.Errorf("Sebagian pesanan gagal: %s", strings.Join(r.Failures, ", "))
}

// Checkout creates one order per cart line, concurrently, then
// confirms every created order. Validation failures return before any
// request is issued. The confirm step is best-effort: an order whose
// confirm fails stays pending and remains payable through PayNow.
func (o *Orchestrator) Checkout(ctx context.Context, items []model.CartItem, paymentMethod, shippingAddress string) (*Result, error) {
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, ErrAddressRequired
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	creations := make([]func(context.Context) (int64, error), len(items))
	for i, item := range items {
		req := api.OrderRequest{
			ProductID:       item.ProductID,
			SellerID:        item.SellerID,
			Quantity:        item.Quantity,
			PaymentMethod:   paymentMethod,
			ShippingAddress: shippingAddress,
		}
		creations[i] = func(ctx context.Context) (int64, error) {
			return o.backend.CreateOrder(ctx, req)
		}
	}

	result := &Result{}
	for i, out := range settleAll(ctx, creations) {
		if out.err != nil {
			result.Failures = append(result.Failures, api.Message(out.err, fmt.Sprintf("Item %d gagal", i+1)))
			continue
		}
		result.OrderIDs = append(result.OrderIDs, out.value)
	}

	// All creations have settled; confirms go out only now, and only
	// for orders that exist.
	o.confirmAll(ctx, result.OrderIDs)

	return result, nil
}

// confirmAll marks freshly created orders as confirmed (the storefront
// treats "pay now" as happening at checkout time). Failures are logged
// and swallowed.
func (o *Orchestrator) confirmAll(ctx context.Context, orderIDs []int64) {
	if len(orderIDs) == 0 {
		return
	}
	confirms := make([]func(context.Context) (struct{}, error), len(orderIDs))
	for i, id := range orderIDs {
		confirms[i] = func(ctx context.Context) (struct{}, error) {
			return struct{}{}, o.backend.UpdateOrderStatus(ctx, id, model.StatusConfirmed)
		}
	}
	for i, out := range settleAll(ctx, confirms) {
		if out.err != nil {
			log.Printf("checkout: auto-confirm order %d failed: %v", orderIDs[i], out.err)
		}
	}
}

// BuyNow is the single-item path that bypasses the cart: one creation,
// one best-effort confirm, and a transient success notice for the UI
// to flash before moving to the order list.
func (o *Orchestrator) BuyNow(ctx context.Context, product *model.Product, quantity int, paymentMethod, shippingAddress string) (int64, string, error) {
	if quantity < 1 {
		quantity = 1
	}
	req := api.OrderRequest{
		ProductID:       product.ID,
		SellerID:        product.UserID,
		Quantity:        quantity,
		PaymentMethod:   paymentMethod,
		ShippingAddress: shippingAddress,
	}
	orderID, err := o.backend.CreateOrder(ctx, req)
	if err != nil {
		return 0, "", errors.New(api.Message(err, "Gagal membuat pesanan"))
	}
	if err := o.backend.UpdateOrderStatus(ctx, orderID, model.StatusConfirmed); err != nil {
		log.Printf("checkout: auto-confirm order %d failed: %v", orderID, err)
	}
	return orderID, fmt.Sprintf("Pesanan dibuat (#%d) dan ditandai terbayar", orderID), nil
}

// SetStatus is the thin uniform transition request. The backend
// enforces legality; callers use the model guards to decide what to
// offer, but a stale local status is not a reason to refuse to send.
func (o *Orchestrator) SetStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	return o.backend.UpdateOrderStatus(ctx, orderID, status)
}

// PayNow moves a pending order to confirmed on the buyer's explicit
// action and returns the re-fetched order. On rejection the caller's
// copy stays as it was and the backend's message is surfaced.
func (o *Orchestrator) PayNow(ctx context.Context, order *model.Order) (*model.Order, error) {
	if err := o.SetStatus(ctx, order.ID, model.StatusConfirmed); err != nil {
		return nil, errors.New(api.Message(err, "Gagal memperbarui status"))
	}
	return o.backend.GetOrder(ctx, order.ID)
}

// MarkShipped is the seller's confirmed→shipped action.
func (o *Orchestrator) MarkShipped(ctx context.Context, order *model.Order) (*model.Order, error) {
	return o.transition(ctx, order, model.StatusShipped, "Gagal update status")
}

// MarkReceived is the buyer's shipped→delivered action; a delivered
// order unlocks the one-time review.
func (o *Orchestrator) MarkReceived(ctx context.Context, order *model.Order) (*model.Order, error) {
	return o.transition(ctx, order, model.StatusDelivered, "Gagal memperbarui status")
}

func (o *Orchestrator) transition(ctx context.Context, order *model.Order, to model.OrderStatus, fallback string) (*model.Order, error) {
	if err := o.SetStatus(ctx, order.ID, to); err != nil {
		return nil, errors.New(api.Message(err, fallback))
	}
	updated := *order
	updated.Status = to
	return &updated, nil
}

// SubmitReview validates the rating range locally, posts the review,
// and re-fetches the order so server-assigned review fields come back
// with it.
func (o *Orchestrator) SubmitReview(ctx context.Context, orderID int64, rating int, comment string) (*model.Order, error) {
	review := model.Review{Rating: rating, Comment: comment}
	if !review.Valid() {
		return nil, ErrRatingRange
	}
	if err := o.backend.AddReview(ctx, orderID, review); err != nil {
		return nil, err
	}
	return o.backend.GetOrder(ctx, orderID)
}
