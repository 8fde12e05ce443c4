package cache

import (
	"context"

	"github.com/cloudcar/shopcache/internal/domain/model"
)

// CartStore defines the interface for per-session cart state, held as one
// grouped record per session with a field per product.
type CartStore interface {
	// Items returns every product line in the session's cart.
	// An absent cart yields an empty slice, not an error.
	Items(ctx context.Context, sessionID string) ([]model.CartItem, error)

	// Quantity returns the current quantity of a product in the cart.
	// Returns ok=false if the product is not present.
	Quantity(ctx context.Context, sessionID, productID string) (qty int64, ok bool, err error)

	// Increment atomically adjusts a product's quantity by delta, creating
	// the field if absent, and returns the new quantity.
	Increment(ctx context.Context, sessionID, productID string, delta int64) (int64, error)

	// Remove deletes a product's field from the cart entirely, regardless of
	// its quantity. Removing an absent product is not an error.
	Remove(ctx context.Context, sessionID, productID string) error
}
