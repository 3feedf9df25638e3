package model

// WishlistItem is one saved product. The wishlist has set semantics by
// product id; adding an already-present id is a no-op.
type WishlistItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
}
