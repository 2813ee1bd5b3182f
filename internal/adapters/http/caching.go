package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != "GET" {
			return err
		}

		// Don't override if already set
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		// Default cache times by endpoint pattern
		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0" // GraphQL varies wildly

		case strings.HasPrefix(path, "/v1/workers/ranked"):
			ttl = "private, max-age=60" // Ranking depends on the seeker

		case strings.HasPrefix(path, "/v1/workers/nearby"):
			ttl = "public, max-age=120" // 2 min for location queries

		case strings.HasPrefix(path, "/v1/workers/"):
			ttl = "public, max-age=300" // 5 min for single worker

		case strings.HasPrefix(path, "/v1/geocode/"):
			ttl = "public, max-age=3600" // Place labels barely change

		case strings.HasPrefix(path, "/v1/mothers/"):
			ttl = "private, max-age=0" // Personal data, never shared caches

		case path == "/v1/directory/status":
			ttl = "public, max-age=60" // Directory stats: 1 min

		case strings.HasPrefix(path, "/v1/"):
			ttl = "private, max-age=60" // Careful default for API endpoints
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
