package model

// CartItem is one line of a session's cart, keyed by product id
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
	Variant  string  `json:"variant,omitempty"`
}

// CartTotal sums price x quantity over the items. Totals are always derived,
// never stored, so the snapshot and the displayed number cannot drift.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// CartCount sums the quantities over the items
func CartCount(items []CartItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
