package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// ServiceName identifies this backend in the ping response.
const ServiceName = "Order Management Backend"

// HandlePing is the unauthenticated liveness endpoint.
func HandlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":   "pong",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   ServiceName,
		"status":    "healthy",
	})
}
