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

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0" // GraphQL varies wildly

		case strings.HasPrefix(path, "/v1/geocode"):
			ttl = "public, max-age=3600" // Geocoding results are stable

		case strings.HasPrefix(path, "/v1/routes/preview"):
			ttl = "public, max-age=600" // Road routes rarely change

		case strings.HasPrefix(path, "/v1/trips"):
			ttl = "private, max-age=60" // Trip data is per-user

		case strings.HasPrefix(path, "/v1/invites"):
			ttl = "private, no-store" // Invites change on answer

		case strings.HasPrefix(path, "/v1/"):
			ttl = "private, max-age=60" // Default for API endpoints
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
