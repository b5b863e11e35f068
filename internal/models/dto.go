package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserDTO is the user shape embedded in auth responses.
type UserDTO struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// LoginResponse carries a freshly issued token pair. ExpiresIn is the access
// token lifetime in seconds.
type LoginResponse struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	TokenType    string  `json:"tokenType"`
	ExpiresIn    int64   `json:"expiresIn"`
	User         UserDTO `json:"user"`
}

// RefreshTokenRequest is the body of POST /api/auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ValidationResponse is the body of GET /api/auth/validate on success.
type ValidationResponse struct {
	Valid bool   `json:"valid"`
	Email string `json:"email"`
}

// CartItem is one submitted cart line. Duplicate product ids are allowed and
// treated as independent lines.
type CartItem struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CartCalculationRequest is the body of both the cart preview and the order
// creation endpoints.
type CartCalculationRequest struct {
	Items []CartItem `json:"items" validate:"required,min=1,dive"`
}

// CartItemDetails is one evaluated preview line, in the same position as the
// submitted line. Unavailable lines carry a zero item total and the stock
// actually left.
type CartItemDetails struct {
	ProductID      string          `json:"productId"`
	ProductName    string          `json:"productName"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Quantity       int             `json:"quantity"`
	ItemTotal      decimal.Decimal `json:"itemTotal"`
	Available      bool            `json:"available"`
	AvailableStock int             `json:"availableStock"`
}

// CartCalculationResponse is the preview result. Unavailable lines do not
// contribute to the totals.
type CartCalculationResponse struct {
	Items      []CartItemDetails `json:"items"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	TotalItems int               `json:"totalItems"`
}

// OrderItemResponse is an order line enriched with the product name for
// listing screens.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	ItemTotal   decimal.Decimal `json:"itemTotal"`
}

// OrderSummaryResponse is the optimized order shape returned by listings.
type OrderSummaryResponse struct {
	ID         string              `json:"id"`
	CreatedAt  time.Time           `json:"createdAt"`
	TotalPrice decimal.Decimal     `json:"totalPrice"`
	UserID     *string             `json:"userId"`
	UserEmail  string              `json:"userEmail"`
	TotalItems int                 `json:"totalItems"`
	OrderItems []OrderItemResponse `json:"orderItems"`
}

// PageResponse is the paging envelope shared by all listing endpoints.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// NewPageResponse fills in the derived paging fields.
func NewPageResponse[T any](content []T, page, size int, totalElements int64) PageResponse[T] {
	totalPages := 0
	if size > 0 {
		totalPages = int((totalElements + int64(size) - 1) / int64(size))
	}
	return PageResponse[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: totalElements,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}

// ProductCreateRequest is the body of POST /api/products.
type ProductCreateRequest struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock" validate:"gte=0"`
}

// ErrorResponse is the uniform failure body.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewErrorResponse stamps an error body with the current UTC time.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
