package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the persistence port for products
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByMasterCode finds a product by its master code
	FindByMasterCode(ctx context.Context, masterCode string) (*Product, error)

	// List returns products ordered by master code
	List(ctx context.Context, offset, limit int) ([]Product, int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete removes a product
	Delete(ctx context.Context, id uuid.UUID) error
}
