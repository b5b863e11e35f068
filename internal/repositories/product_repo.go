package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"orderms/internal/models"
)

// ProductFilter narrows product listings. Zero-valued fields are ignored.
// Search matches the name case-insensitively, or the exact price when the
// term parses as a decimal.
type ProductFilter struct {
	Search   string
	Name     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	MinStock *int
	MaxStock *int
}

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	Search(ctx context.Context, filter ProductFilter, page, size int, sortBy, sortDir string) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// GetByIDForUpdate locks the product row until the surrounding
	// transaction ends. Outside a transaction it behaves like GetByID.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error)
	// FindByIDs loads the given products in one query; missing ids are
	// silently absent from the result.
	FindByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
