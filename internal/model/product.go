package model

// Product mirrors the backend's product listing. Image holds the
// primary image path; Images, when present, holds the full gallery.
//
// Condition is one of the backend's enum values (like_new, good, fair,
// poor); ConditionLabel maps them to the display strings used across
// the storefront.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Condition   string   `json:"condition"`
	Image       string   `json:"image"`
	Images      []string `json:"images,omitempty"`
	CategoryID  int64    `json:"category_id"`
	UserID      int64    `json:"user_id"`
	SellerName  string   `json:"seller_name,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

var conditionLabels = map[string]string{
	"like_new": "Seperti Baru",
	"good":     "Baik",
	"fair":     "Cukup",
	"poor":     "Rusak",
}

// ConditionLabel returns the human-readable label for a product
// condition, falling back to the raw value for unknown conditions.
func ConditionLabel(condition string) string {
	if label, ok := conditionLabels[condition]; ok {
		return label
	}
	return condition
}

// NewProduct is the payload for POST /products and PUT /products/{id}.
// Images carries server-side paths previously obtained from the upload
// endpoint, never raw file contents.
type NewProduct struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Stock       int      `json:"stock"`
	Condition   string   `json:"condition"`
	CategoryID  int64    `json:"category_id"`
	Images      []string `json:"images,omitempty"`
}

// Category is a product category row.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
