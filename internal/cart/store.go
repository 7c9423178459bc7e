// Package cart keeps per-visitor shopping carts keyed by the cart cookie.
package cart

import (
	"context"
)

// Store holds cart lines as product id -> quantity.
type Store interface {
	Get(ctx context.Context, cartID string) (map[uint]int, error)
	// Add increments the quantity of productID by one and returns the cart.
	Add(ctx context.Context, cartID string, productID uint) (map[uint]int, error)
	Remove(ctx context.Context, cartID string, productID uint) (map[uint]int, error)
	Clear(ctx context.Context, cartID string) error
}
