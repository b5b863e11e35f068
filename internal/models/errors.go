package models

import "errors"

// Domain errors surfaced to clients. Handlers map these onto HTTP statuses;
// services never retry them. The messages are part of the external contract.
var (
	ErrEmptyCart          = errors.New("Order must contain at least one item")
	ErrConflict           = errors.New("Please retry")
	ErrTimeout            = errors.New("Request timed out")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrUnauthenticated    = errors.New("Token is invalid or expired")
)

// ProductNotFoundError reports a cart line referencing an id missing from
// the catalog. A bad reference is a caller bug, not an availability issue.
type ProductNotFoundError struct {
	ID string
}

func (e *ProductNotFoundError) Error() string {
	return "Product not found with id: " + e.ID
}

// InsufficientStockError reports a line whose quantity exceeds the stock
// visible inside the placement transaction.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return "Insufficient stock for product: " + e.ProductName
}

// InvalidLineError reports a malformed pricing line. The reason is shown to
// the client verbatim.
type InvalidLineError struct {
	Reason string
}

func (e *InvalidLineError) Error() string {
	return e.Reason
}

// TokenError is a coded authentication failure for the refresh endpoint.
type TokenError struct {
	Code    string
	Message string
}

func (e *TokenError) Error() string {
	return e.Message
}
