package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orderms/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// Search returns a filtered page of products sorted by name.
func (r *MockProductRepository) Search(_ context.Context, filter ProductFilter, page, size int, _, sortDir string) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if matchesProductFilter(p, filter) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if strings.EqualFold(sortDir, "desc") {
			return matched[i].Name > matched[j].Name
		}
		return matched[i].Name < matched[j].Name
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

func matchesProductFilter(p models.Product, filter ProductFilter) bool {
	if filter.Search != "" {
		if price, err := decimal.NewFromString(filter.Search); err == nil {
			if !p.Price.Equal(price) {
				return false
			}
		} else if !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			return false
		}
	}
	if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
		return false
	}
	if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
		return false
	}
	if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
		return false
	}
	if filter.MinStock != nil && p.Stock < *filter.MinStock {
		return false
	}
	if filter.MaxStock != nil && p.Stock > *filter.MaxStock {
		return false
	}
	return true
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, &models.ProductNotFoundError{ID: id}
	}
	return &product, nil
}

// GetByIDForUpdate behaves like GetByID; the mock has no row locks.
func (r *MockProductRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error) {
	return r.GetByID(ctx, id)
}

// FindByIDs returns the products whose ids are known, skipping misses.
func (r *MockProductRepository) FindByIDs(_ context.Context, ids []string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			products = append(products, product)
		}
	}
	return products, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return &models.ProductNotFoundError{ID: product.ID}
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return &models.ProductNotFoundError{ID: id}
	}
	delete(r.products, id)
	return nil
}

// Count returns the number of stored products.
func (r *MockProductRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

func (r *MockProductRepository) snapshot() map[string]models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]models.Product, len(r.products))
	for id, p := range r.products {
		snap[id] = p
	}
	return snap
}

func (r *MockProductRepository) restore(snap map[string]models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = snap
}

var _ ProductRepository = (*MockProductRepository)(nil)
