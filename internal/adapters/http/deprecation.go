package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const httpDate = "Mon, 02 Jan 2006 15:04:05 GMT"

// Deprecation describes a retired route prefix and its successor.
type Deprecation struct {
	Prefix    string    // e.g. "/api/v1"
	Successor string    // prefix that replaces it, e.g. "/v1"
	Sunset    time.Time // date the prefix stops answering
	// Renamed maps legacy path segments to their current names.
	Renamed map[string]string
}

// successorPath maps a legacy path to its current location.
func (d Deprecation) successorPath(path string) string {
	segs := strings.Split(strings.TrimPrefix(path, d.Prefix), "/")
	for i, s := range segs {
		if to, ok := d.Renamed[s]; ok {
			segs[i] = to
		}
	}
	return d.Successor + strings.Join(segs, "/")
}

// DeprecationMiddleware adds Deprecation, Sunset, Link and Warning headers.
func DeprecationMiddleware(d Deprecation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// RFC 8594
		c.Set("Deprecation", "true")
		c.Set("Sunset", d.Sunset.UTC().Format(httpDate))

		if d.Successor != "" {
			c.Set("Link", fmt.Sprintf(`<%s>; rel="successor-version"`, d.successorPath(c.Path())))
		}

		days := time.Until(d.Sunset).Hours() / 24
		c.Set("Warning", fmt.Sprintf(`299 - "Deprecated API, will sunset in %.0f days"`, days))

		return c.Next()
	}
}
