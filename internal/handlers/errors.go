package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"orderms/internal/models"
	"orderms/internal/repositories"
)

// writeDomainError maps an error from the services onto the HTTP contract.
// Validation and domain errors surface unchanged as 400; store conflicts are
// 409 and retryable by the caller; deadline overruns are 504.
func writeDomainError(c *fiber.Ctx, err error) error {
	var (
		notFound     *models.ProductNotFoundError
		insufficient *models.InsufficientStockError
		invalidLine  *models.InvalidLineError
	)
	switch {
	case errors.Is(err, models.ErrEmptyCart),
		errors.As(err, &notFound),
		errors.As(err, &insufficient),
		errors.As(err, &invalidLine):
		return c.Status(fiber.StatusBadRequest).
			JSON(models.NewErrorResponse("BAD_REQUEST", err.Error()))
	case errors.Is(err, models.ErrConflict):
		return c.Status(fiber.StatusConflict).
			JSON(models.NewErrorResponse("CONFLICT", err.Error()))
	case errors.Is(err, models.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusGatewayTimeout).
			JSON(models.NewErrorResponse("TIMEOUT", models.ErrTimeout.Error()))
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(models.NewErrorResponse("NOT_FOUND", "Resource not found"))
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(models.NewErrorResponse("INTERNAL_ERROR", "An unexpected error occurred"))
	}
}

// writeValidationError renders validator failures as a single 400 body.
func writeValidationError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		parts := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			parts = append(parts, fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
		}
		return c.Status(fiber.StatusBadRequest).
			JSON(models.NewErrorResponse("BAD_REQUEST", strings.Join(parts, "; ")))
	}
	return c.Status(fiber.StatusBadRequest).
		JSON(models.NewErrorResponse("BAD_REQUEST", err.Error()))
}

// writeBodyParseError rejects malformed request bodies.
func writeBodyParseError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).
		JSON(models.NewErrorResponse("BAD_REQUEST", "Invalid request body: "+err.Error()))
}
