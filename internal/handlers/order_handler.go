package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"orderms/internal/middleware"
	"orderms/internal/models"
	"orderms/internal/repositories"
	"orderms/internal/services"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Post("/calculate", h.HandleCalculateCart)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

// HandleGetOrders returns a filtered, paginated page of order summaries.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	query := services.OrderSearchQuery{
		Search:  c.Query("search"),
		UserID:  c.Query("userId"),
		Page:    c.QueryInt("page", 0),
		Size:    c.QueryInt("size", 10),
		SortBy:  c.Query("sortBy", "createdAt"),
		SortDir: c.Query("sortDir", "desc"),
	}
	if v := c.Query("minPrice"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(models.NewErrorResponse("BAD_REQUEST", "Invalid minPrice: "+v))
		}
		query.MinPrice = &price
	}
	if v := c.Query("maxPrice"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(models.NewErrorResponse("BAD_REQUEST", "Invalid maxPrice: "+v))
		}
		query.MaxPrice = &price
	}
	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(models.NewErrorResponse("BAD_REQUEST", "Invalid startDate: "+v))
		}
		query.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(models.NewErrorResponse("BAD_REQUEST", "Invalid endDate: "+v))
		}
		query.EndDate = &t
	}

	page, err := h.service.SearchOrders(c.UserContext(), query)
	if err != nil {
		log.Printf("Error searching orders: %v", err)
		return writeDomainError(c, err)
	}
	return c.JSON(page)
}

// HandleGetOrderByID retrieves a single order with its items.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(c.UserContext(), orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(models.NewErrorResponse("NOT_FOUND", "Order not found with id: "+orderID))
		}
		log.Printf("Error getting order %s: %v", orderID, err)
		return writeDomainError(c, err)
	}
	return c.JSON(order)
}

// HandleCreateOrder places an order from the submitted cart. The total is
// computed server-side; prices are snapshotted from the catalog.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req models.CartCalculationRequest
	if err := c.BodyParser(&req); err != nil {
		return writeBodyParseError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationError(c, err)
	}

	actorID := ""
	if actor := middleware.ActorFromContext(c); actor != nil && actor.ID != services.SystemActorID {
		actorID = actor.ID
	}

	order, err := h.service.PlaceOrder(c.UserContext(), &req, actorID)
	if err != nil {
		log.Printf("Error placing order: %v", err)
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleCalculateCart previews a cart's pricing and availability without
// touching stock.
func (h *OrderHandler) HandleCalculateCart(c *fiber.Ctx) error {
	var req models.CartCalculationRequest
	if err := c.BodyParser(&req); err != nil {
		return writeBodyParseError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationError(c, err)
	}

	resp, err := h.service.CalculateCart(c.UserContext(), &req)
	if err != nil {
		log.Printf("Error calculating cart: %v", err)
		return writeDomainError(c, err)
	}
	return c.JSON(resp)
}
