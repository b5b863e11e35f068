package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderms/internal/models"
	"orderms/internal/repositories"
)

func domainErrorResponse(t *testing.T, err error) (int, models.ErrorResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeDomainError(c, err)
	})

	resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, testErr)
	defer resp.Body.Close()

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestWriteDomainErrorBadRequest(t *testing.T) {
	for _, err := range []error{
		models.ErrEmptyCart,
		&models.ProductNotFoundError{ID: "p-1"},
		&models.InsufficientStockError{ProductName: "Webcam HD"},
		&models.InvalidLineError{Reason: "OrderItem quantity must be positive"},
	} {
		status, body := domainErrorResponse(t, err)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "BAD_REQUEST", body.Error)
		assert.Equal(t, err.Error(), body.Message)
	}
}

func TestWriteDomainErrorConflict(t *testing.T) {
	status, body := domainErrorResponse(t, models.ErrConflict)

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body.Error)
	assert.Equal(t, "Please retry", body.Message)
}

func TestWriteDomainErrorTimeout(t *testing.T) {
	for _, err := range []error{models.ErrTimeout, context.DeadlineExceeded} {
		status, body := domainErrorResponse(t, err)
		assert.Equal(t, http.StatusGatewayTimeout, status)
		assert.Equal(t, "TIMEOUT", body.Error)
		assert.Equal(t, "Request timed out", body.Message)
	}
}

func TestWriteDomainErrorNotFound(t *testing.T) {
	status, body := domainErrorResponse(t, repositories.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Error)
}

func TestWriteDomainErrorUnknown(t *testing.T) {
	status, body := domainErrorResponse(t, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body.Error)
	assert.Equal(t, "An unexpected error occurred", body.Message)
}
