package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// HeaderName is the response header carrying the request ID.
	HeaderName = "X-Ray-ID"
	// LocalsKey is the fiber.Ctx locals key read by logger.WithRayID.
	LocalsKey = "ray_id"
)

// New creates a middleware assigning every request a RayID. An incoming
// X-Ray-ID header is kept so requests can be traced across services.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalsKey, id)
		c.Set(HeaderName, id)
		return c.Next()
	}
}
