package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"orderms/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

var productSortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"stock":     "stock",
	"createdAt": "created_at",
}

// Search retrieves a filtered, sorted page of products plus the total count.
func (r *GORMProductRepository) Search(ctx context.Context, filter ProductFilter, page, size int, sortBy, sortDir string) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.Search != "" {
		if price, err := decimal.NewFromString(filter.Search); err == nil {
			query = query.Where("price = ?", price)
		} else {
			query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
		}
	}
	if filter.Name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinStock != nil {
		query = query.Where("stock >= ?", *filter.MinStock)
	}
	if filter.MaxStock != nil {
		query = query.Where("stock <= ?", *filter.MaxStock)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	column, ok := productSortColumns[sortBy]
	if !ok {
		column = "name"
	}
	direction := "ASC"
	if strings.ToLower(sortDir) == "desc" {
		direction = "DESC"
	}

	var products []models.Product
	err := query.Order(column + " " + direction).
		Offset(page * size).
		Limit(size).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.ProductNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetByIDForUpdate locks the product row for the rest of the transaction.
// SQLite has a single writer and rejects FOR UPDATE, so the lock clause is
// applied on postgres only.
func (r *GORMProductRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var product models.Product
	if err := query.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.ProductNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to lock product %s: %w", id, err)
	}
	return &product, nil
}

// FindByIDs loads a set of products in a single query.
func (r *GORMProductRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products by ids: %w", err)
	}
	return products, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &models.ProductNotFoundError{ID: product.ID}
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &models.ProductNotFoundError{ID: id}
	}
	return nil
}

// Count returns the number of catalog entries.
func (r *GORMProductRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}
