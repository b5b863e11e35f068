package services

import (
	"context"

	"orderms/internal/models"
	"orderms/internal/repositories"
)

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// SearchProducts retrieves a filtered page of products.
func (s *ProductService) SearchProducts(ctx context.Context, filter repositories.ProductFilter, page, size int, sortBy, sortDir string) (*models.PageResponse[models.Product], error) {
	products, total, err := s.repo.Search(ctx, filter, page, size, sortBy, sortDir)
	if err != nil {
		return nil, err
	}
	resp := models.NewPageResponse(products, page, size, total)
	return &resp, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	return s.repo.Create(ctx, product)
}

// UpdateProduct loads the product and applies the mutable fields.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, details *models.Product) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Name = details.Name
	product.Price = details.Price
	product.Stock = details.Stock
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
