package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"orderms/internal/models"
	"orderms/internal/services"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/validate", h.HandleValidate)
	authRoutes.Post("/refresh", h.HandleRefresh)
}

// HandleLogin authenticates credentials and issues an access/refresh pair.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return writeBodyParseError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationError(c, err)
	}

	resp, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		log.Printf("Login failed for %s: %v", req.Email, err)
		return c.Status(fiber.StatusUnauthorized).
			JSON(models.NewErrorResponse("INVALID_CREDENTIALS", models.ErrInvalidCredentials.Error()))
	}
	return c.JSON(resp)
}

// HandleValidate reports whether the bearer access token is valid.
func (h *AuthHandler) HandleValidate(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).
			JSON(models.NewErrorResponse("INVALID_HEADER", "Authorization header missing or invalid format"))
	}

	email, err := h.authService.ValidateAccess(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).
			JSON(models.NewErrorResponse("INVALID_TOKEN", "Token is invalid or expired"))
	}
	return c.JSON(models.ValidationResponse{Valid: true, Email: email})
}

// HandleRefresh exchanges a refresh token for a new token pair.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	var req models.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return writeBodyParseError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationError(c, err)
	}

	resp, err := h.authService.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		var tokenErr *models.TokenError
		if errors.As(err, &tokenErr) {
			return c.Status(fiber.StatusUnauthorized).
				JSON(models.NewErrorResponse(tokenErr.Code, tokenErr.Message))
		}
		return c.Status(fiber.StatusUnauthorized).
			JSON(models.NewErrorResponse("TOKEN_REFRESH_ERROR", "Failed to refresh token"))
	}
	return c.JSON(resp)
}
