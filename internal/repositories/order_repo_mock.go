package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"orderms/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := order
	copied.Items = append([]models.OrderItem(nil), order.Items...)
	return &copied, nil
}

// Search returns a filtered page of orders, newest first.
func (r *MockOrderRepository) Search(_ context.Context, filter OrderFilter, page, size int, _, _ string) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if matchesOrderFilter(order, filter) {
			matched = append(matched, order)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := page * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func matchesOrderFilter(order models.Order, filter OrderFilter) bool {
	if filter.TotalPrice != nil && !order.TotalPrice.Equal(*filter.TotalPrice) {
		return false
	}
	if len(filter.UserIDs) > 0 {
		if order.UserID == nil {
			return false
		}
		found := false
		for _, id := range filter.UserIDs {
			if *order.UserID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.UserID != nil && (order.UserID == nil || *order.UserID != *filter.UserID) {
		return false
	}
	if filter.MinPrice != nil && order.TotalPrice.LessThan(*filter.MinPrice) {
		return false
	}
	if filter.MaxPrice != nil && order.TotalPrice.GreaterThan(*filter.MaxPrice) {
		return false
	}
	if filter.StartDate != nil && order.CreatedAt.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && order.CreatedAt.After(*filter.EndDate) {
		return false
	}
	return true
}

// Create adds a new order.
func (r *MockOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	order.CreatedAt = time.Now().UTC()
	r.orders[order.ID] = *order
	return nil
}

func (r *MockOrderRepository) snapshot() map[string]models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]models.Order, len(r.orders))
	for id, o := range r.orders {
		snap[id] = o
	}
	return snap
}

func (r *MockOrderRepository) restore(snap map[string]models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = snap
}

var _ OrderRepository = (*MockOrderRepository)(nil)
