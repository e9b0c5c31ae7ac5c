package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// bearerToken extracts the bearer token from the Authorization header, or
// returns an empty string.
func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
