package model

// CartItem is a single product line in a session cart.
type CartItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

// CartSummary is the full state of a session cart. TotalQuantity and
// ItemsCount are always recomputed from Items, never cached.
type CartSummary struct {
	Items         []CartItem `json:"items"`
	TotalQuantity int64      `json:"totalQuantity"`
	ItemsCount    int        `json:"itemsCount"`
}

// NewCartSummary builds a summary from the given items, computing totals.
func NewCartSummary(items []CartItem) CartSummary {
	var total int64
	for _, item := range items {
		total += item.Quantity
	}
	return CartSummary{
		Items:         items,
		TotalQuantity: total,
		ItemsCount:    len(items),
	}
}

// UpdateAction is the direction of a cart quantity update.
type UpdateAction string

const (
	ActionIncrease UpdateAction = "increase"
	ActionDecrease UpdateAction = "decrease"
)

// IsValid reports whether the action is one of the two known directions.
func (a UpdateAction) IsValid() bool {
	return a == ActionIncrease || a == ActionDecrease
}
