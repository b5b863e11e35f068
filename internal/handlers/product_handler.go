package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"orderms/internal/models"
	"orderms/internal/repositories"
	"orderms/internal/services"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts returns a filtered, paginated page of products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		Search: c.Query("search"),
		Name:   c.Query("name"),
	}
	if v := c.Query("minPrice"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(models.NewErrorResponse("BAD_REQUEST", "Invalid minPrice: "+v))
		}
		filter.MinPrice = &price
	}
	if v := c.Query("maxPrice"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(models.NewErrorResponse("BAD_REQUEST", "Invalid maxPrice: "+v))
		}
		filter.MaxPrice = &price
	}
	if v := c.QueryInt("minStock", -1); v >= 0 {
		filter.MinStock = &v
	}
	if v := c.QueryInt("maxStock", -1); v >= 0 {
		filter.MaxStock = &v
	}

	page, err := h.service.SearchProducts(
		c.UserContext(),
		filter,
		c.QueryInt("page", 0),
		c.QueryInt("size", 10),
		c.Query("sortBy", "name"),
		c.Query("sortDir", "asc"),
	)
	if err != nil {
		log.Printf("Error searching products: %v", err)
		return writeDomainError(c, err)
	}
	return c.JSON(page)
}

// HandleGetProductByID retrieves a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(c.UserContext(), productID)
	if err != nil {
		var notFound *models.ProductNotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(models.NewErrorResponse("NOT_FOUND", err.Error()))
		}
		log.Printf("Error getting product %s: %v", productID, err)
		return writeDomainError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a catalog entry.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.ProductCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return writeBodyParseError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationError(c, err)
	}
	if !req.Price.IsPositive() {
		return c.Status(fiber.StatusBadRequest).
			JSON(models.NewErrorResponse("BAD_REQUEST", "Price must be positive"))
	}

	product := &models.Product{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	}
	if err := h.service.CreateProduct(c.UserContext(), product); err != nil {
		log.Printf("Error creating product: %v", err)
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces a product's mutable fields.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	var details models.Product
	if err := c.BodyParser(&details); err != nil {
		return writeBodyParseError(c, err)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), productID, &details)
	if err != nil {
		var notFound *models.ProductNotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(models.NewErrorResponse("NOT_FOUND", err.Error()))
		}
		log.Printf("Error updating product %s: %v", productID, err)
		return writeDomainError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product from the catalog.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), productID); err != nil {
		var notFound *models.ProductNotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(models.NewErrorResponse("NOT_FOUND", err.Error()))
		}
		log.Printf("Error deleting product %s: %v", productID, err)
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product " + productID + " deleted successfully",
	})
}
