package repository

import (
	"context"

	"github.com/cloudcar/shopcache/internal/domain/model"
)

// ProductRepository defines the interface for product catalog reads.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type ProductRepository interface {
	// List retrieves all catalog products, newest first.
	// Returns an empty slice when the catalog is empty.
	List(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product.
	// Returns ErrProductNotFound if the product does not exist.
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}
