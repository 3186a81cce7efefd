package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// HeaderName is the request header carrying the API key.
const HeaderName = "X-API-Key"

// Config holds configuration for the auth middleware.
type Config struct {
	// ApiKey is the expected key. An empty key disables the check.
	ApiKey string
	// Skip lists path prefixes served without a key.
	Skip []string
}

// New creates an API key middleware.
func New(cfg Config) fiber.Handler {
	expected := []byte(cfg.ApiKey)

	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		for _, prefix := range cfg.Skip {
			if strings.HasPrefix(c.Path(), prefix) {
				return c.Next()
			}
		}

		key := c.Get(HeaderName)
		if key == "" {
			key = c.Query("api_key")
		}
		if subtle.ConstantTimeCompare([]byte(key), expected) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}
		return c.Next()
	}
}
