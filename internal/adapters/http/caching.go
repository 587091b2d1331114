package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses that did not set one.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet || c.Get("Cache-Control") != "" {
			return err
		}
		if ttl := cacheControlFor(c.Path()); ttl != "" {
			c.Set("Cache-Control", ttl)
		}
		return err
	}
}

func cacheControlFor(path string) string {
	// legacy aliases share the policy of their successor
	if rest, ok := strings.CutPrefix(path, "/api/v1"); ok {
		path = "/v1" + rest
	}

	switch {
	case path == "/v1/health" || path == "/v1/ready":
		return "public, max-age=10"
	case path == "/metrics":
		return "no-cache"
	case strings.HasPrefix(path, "/v1/users/"), strings.HasPrefix(path, "/v1/planner/"):
		// follow state and random composition
		return "private, no-store"
	case strings.HasPrefix(path, "/v1/artists"):
		return "public, max-age=600"
	case strings.HasPrefix(path, "/v1/spots/along-route"):
		return "public, max-age=60"
	case strings.HasPrefix(path, "/v1/spots/"):
		return "public, max-age=600"
	case strings.HasPrefix(path, "/v1/maps/"), strings.HasPrefix(path, "/bff/maps/"):
		return "public, max-age=120"
	case strings.HasPrefix(path, "/v1/"):
		return "public, max-age=300"
	}
	return ""
}
