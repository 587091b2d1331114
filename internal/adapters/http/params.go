package http

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
)

// parseFloats splits a comma separated list of exactly n floats.
func parseFloats(raw string, n int) ([]float64, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma separated numbers", n)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// parseBBox parses "minLat,minLng,maxLat,maxLng".
func parseBBox(raw string) (domain.Bounds, error) {
	v, err := parseFloats(raw, 4)
	if err != nil {
		return domain.Bounds{}, fmt.Errorf("%w: bbox must be 'minLat,minLng,maxLat,maxLng'", domain.ErrInvalidInput)
	}
	b := domain.Bounds{MinLat: v[0], MinLng: v[1], MaxLat: v[2], MaxLng: v[3]}
	if !b.Valid() {
		return domain.Bounds{}, fmt.Errorf("%w: bbox out of range or min greater than max", domain.ErrInvalidInput)
	}
	return b, nil
}

// parseLatLng parses "lat,lng". An empty string yields nil.
func parseLatLng(raw string) (*domain.GeoPoint, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := parseFloats(raw, 2)
	if err != nil {
		return nil, fmt.Errorf("%w: origin must be 'lat,lng'", domain.ErrInvalidInput)
	}
	p := domain.GeoPoint{Lat: v[0], Lng: v[1]}
	if !p.Valid() {
		return nil, fmt.Errorf("%w: origin out of range", domain.ErrInvalidInput)
	}
	return &p, nil
}

// paramID reads a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryLangs reads "langs" (comma separated), falling back to the single "lang".
func queryLangs(c *fiber.Ctx) []string {
	raw := c.Query("langs")
	if raw == "" {
		raw = c.Query("lang")
	}
	var langs []string
	for _, l := range strings.Split(raw, ",") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}

func queryOptionalInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
	}
	return &v, nil
}

func queryOptionalInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
	}
	return &v, nil
}

// queryFloat returns def for an absent key and rejects non-numeric or
// non-finite values.
func queryFloat(c *fiber.Ctx, key string, def float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a finite number", domain.ErrInvalidInput, key)
	}
	return v, nil
}

// queryOptionalBool accepts 0/1 as well as true/false.
func queryOptionalBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be 0 or 1", domain.ErrInvalidInput, key)
	}
	return &v, nil
}

// contentFilter reads the shared content query parameters.
func contentFilter(c *fiber.Ctx) (domain.ContentFilter, error) {
	f := domain.ContentFilter{
		Languages: queryLangs(c),
		Limit:     c.QueryInt("limit", 50),
	}
	var err error
	if f.MinDuration, err = queryOptionalInt(c, "min_duration"); err != nil {
		return f, err
	}
	if f.MaxDuration, err = queryOptionalInt(c, "max_duration"); err != nil {
		return f, err
	}
	return f, nil
}

// ListResponse is the envelope of unpaginated listings.
type ListResponse struct {
	Count int `json:"count"`
	Items any `json:"items"`
}

func listOf[T any](items []T) ListResponse {
	if items == nil {
		items = []T{}
	}
	return ListResponse{Count: len(items), Items: items}
}
