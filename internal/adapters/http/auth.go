package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware rejects /v1 requests without a bearer token. It checks
// presence only; token verification happens at the gateway. Health,
// readiness, metrics, and docs stay open for probes and dashboards.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		switch {
		case path == "/v1/health", path == "/v1/ready":
			return c.Next()
		case !strings.HasPrefix(path, "/v1/"):
			return c.Next()
		}

		auth := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(auth, "Bearer ") || len(auth) <= len("Bearer ") {
			return errUnauthorized(c, "missing bearer token")
		}
		return c.Next()
	}
}
