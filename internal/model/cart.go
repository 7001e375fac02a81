package model

// CartItem is one line of the server-side cart as GET /cart returns
// it. The client never mutates these locally; quantity changes and
// removals go through the backend and the list is re-fetched.
//
// Fields:
//  ID          – cart row identifier (not the product id).
//  ProductID   – product being purchased.
//  Name        – product name; some backend versions emit product_name
//                instead, resolved by DisplayName.
//  Price       – unit price at the time the item was added.
//  Quantity    – requested quantity, always ≥ 1.
//  Image       – primary product image path.
//  SellerID    – owner of the product, required by order creation.
type CartItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	Name        string  `json:"name"`
	ProductName string  `json:"product_name,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image,omitempty"`
	SellerID    int64   `json:"seller_id"`
}

// DisplayName prefers name over product_name, matching how the
// storefront renders cart rows.
func (i CartItem) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.ProductName
}

// Subtotal is the line total for this item.
func (i CartItem) Subtotal() float64 { return i.Price * float64(i.Quantity) }
