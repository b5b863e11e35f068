package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"orderms/internal/models"
	"orderms/internal/services"
)

// ActorKey is the fiber locals key under which the authenticated Actor is
// stored for downstream handlers.
const ActorKey = "actor"

// AuthRequired rejects requests that do not carry a valid bearer credential.
// Both credential families are accepted: access JWTs and the static
// integration token; the resolved Actor lands in the request locals.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).
				JSON(models.NewErrorResponse("INVALID_HEADER", "Authorization header missing or invalid format"))
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).
				JSON(models.NewErrorResponse("INVALID_HEADER", "Authorization header missing or invalid format"))
		}

		actor, err := authService.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).
				JSON(models.NewErrorResponse("INVALID_TOKEN", "Token is invalid or expired"))
		}

		c.Locals(ActorKey, actor)
		return c.Next()
	}
}

// ActorFromContext returns the Actor set by AuthRequired, or nil on
// unauthenticated routes.
func ActorFromContext(c *fiber.Ctx) *models.Actor {
	actor, _ := c.Locals(ActorKey).(*models.Actor)
	return actor
}
