package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"orderms/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

var orderSortColumns = map[string]string{
	"createdAt":  "created_at",
	"totalPrice": "total_price",
}

// GetByID loads an order together with its items in a single query plan.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Search retrieves a filtered, sorted page of orders with their items, plus
// the total count of matches.
func (r *GORMOrderRepository) Search(ctx context.Context, filter OrderFilter, page, size int, sortBy, sortDir string) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})

	if filter.TotalPrice != nil {
		query = query.Where("total_price = ?", *filter.TotalPrice)
	}
	if len(filter.UserIDs) > 0 {
		query = query.Where("user_id IN ?", filter.UserIDs)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.MinPrice != nil {
		query = query.Where("total_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("total_price <= ?", *filter.MaxPrice)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	column, ok := orderSortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.ToLower(sortDir) == "asc" {
		direction = "ASC"
	}

	var orders []models.Order
	err := query.Preload("Items").
		Order(column + " " + direction).
		Offset(page * size).
		Limit(size).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search orders: %w", err)
	}
	return orders, total, nil
}

// Create persists an order and cascades its items.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}
