package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"orderms/internal/models"
)

// OrderFilter narrows order listings. Nil fields are ignored. UserIDs comes
// from resolving an email-substring search to matching user ids.
type OrderFilter struct {
	TotalPrice *decimal.Decimal
	UserIDs    []string
	UserID     *string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	StartDate  *time.Time
	EndDate    *time.Time
}

// OrderRepository defines the interface for order data access. Orders are
// immutable once created, so there is no update or delete.
type OrderRepository interface {
	// GetByID loads an order together with its items in one round trip.
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Search(ctx context.Context, filter OrderFilter, page, size int, sortBy, sortDir string) ([]models.Order, int64, error)
	Create(ctx context.Context, order *models.Order) error
}
