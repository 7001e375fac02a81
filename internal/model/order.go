package model

// OrderStatus is the backend-owned state of an order as observed by the
// client. From the client's perspective the chain only ever moves
// forward: pending → confirmed → shipped → delivered. Cancellation is
// reachable from pending/confirmed but is performed entirely
// server-side; this client never sends it.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// Predecessor returns the status an order must currently be in before
// the client may request a transition to target. The bool is false for
// targets the client never requests (pending, cancelled).
func Predecessor(target OrderStatus) (OrderStatus, bool) {
	switch target {
	case StatusConfirmed:
		return StatusPending, true
	case StatusShipped:
		return StatusConfirmed, true
	case StatusDelivered:
		return StatusShipped, true
	}
	return "", false
}

// CanTransition reports whether moving from → to follows the forward
// chain. The backend is authoritative; this only gates what the client
// offers as an action.
func CanTransition(from, to OrderStatus) bool {
	pred, ok := Predecessor(to)
	return ok && from == pred
}

// Payment methods accepted by the checkout form.
const (
	PaymentTransfer = "transfer"
	PaymentCOD      = "cod"
	PaymentEwallet  = "ewallet"
)

// Order is the backend's order row joined with product, seller and
// buyer display fields, exactly as GET /orders/{id} returns it. The
// client holds it as a transient, re-fetchable read copy and never
// mutates status except through an accepted transition request.
type Order struct {
	ID              int64       `json:"id"`
	Status          OrderStatus `json:"status"`
	TotalPrice      float64     `json:"total_price"`
	PaymentMethod   string      `json:"payment_method"`
	ShippingAddress string      `json:"shipping_address"`
	CreatedAt       string      `json:"created_at"`
	ProductID       int64       `json:"product_id"`
	ProductName     string      `json:"product_name"`
	Quantity        int         `json:"quantity"`
	SellerID        int64       `json:"seller_id"`
	SellerName      string      `json:"seller_name"`
	BuyerID         int64       `json:"buyer_id"`
	BuyerName       string      `json:"buyer_name"`
	Rating          *int        `json:"rating,omitempty"`
	Review          *string     `json:"review,omitempty"`
}

// CanPay reports whether the buyer's "Pay Now" action applies.
func (o *Order) CanPay() bool { return o.Status == StatusPending }

// CanShip reports whether the seller's "mark shipped" action applies.
func (o *Order) CanShip() bool { return o.Status == StatusConfirmed }

// CanReceive reports whether the buyer's "mark received" action applies.
func (o *Order) CanReceive() bool { return o.Status == StatusShipped }

// CanReview reports whether the one-time review form is unlocked. The
// backend enforces uniqueness; the client additionally hides the form
// once a rating is present on the fetched order.
func (o *Order) CanReview() bool { return o.Status == StatusDelivered && o.Rating == nil }

// Review is the buyer's one-time rating of a delivered order.
type Review struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Valid checks the client-side rating range before anything is sent.
func (r Review) Valid() bool { return r.Rating >= 1 && r.Rating <= 5 }
