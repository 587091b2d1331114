package usecases

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/goccy/go-json"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/core/ports"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/geospatial"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/metrics"
)

const (
	maxSpotLimit      = 200
	defaultSpotLimit  = 50
	maxCorridorBuffer = 5000.0
	defaultCorridorM  = 300.0
)

// SpotService handles spot-related business logic.
type SpotService struct {
	spots    ports.SpotRepository
	contents ports.ContentRepository
	cache    ports.CacheService
}

// NewSpotService creates a new SpotService.
func NewSpotService(spots ports.SpotRepository, contents ports.ContentRepository, cache ports.CacheService) *SpotService {
	return &SpotService{spots: spots, contents: contents, cache: cache}
}

// InBounds returns spots inside f.Bounds sorted by distance from origin.
// A nil origin measures from the center of the box.
func (s *SpotService) InBounds(ctx context.Context, f domain.SpotFilter, origin *domain.GeoPoint) ([]domain.Spot, error) {
	if !f.Bounds.Valid() {
		return nil, fmt.Errorf("%w: bbox must be minLat,minLng,maxLat,maxLng within range", domain.ErrInvalidInput)
	}
	if origin != nil && !origin.Valid() {
		return nil, fmt.Errorf("%w: origin out of range", domain.ErrInvalidInput)
	}
	if f.Limit <= 0 || f.Limit > maxSpotLimit {
		f.Limit = defaultSpotLimit
	}

	o := geospatial.BoundsCenter(f.Bounds)
	if origin != nil {
		o = *origin
	}

	special := "any"
	if f.IsSpecial != nil {
		special = fmt.Sprint(*f.IsSpecial)
	}
	cacheKey := fmt.Sprintf("spots:bbox:%.5f:%.5f:%.5f:%.5f:%s:%s:%.5f:%.5f:%d",
		f.Bounds.MinLat, f.Bounds.MinLng, f.Bounds.MaxLat, f.Bounds.MaxLng,
		special, f.Query, o.Lat, o.Lng, f.Limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var spots []domain.Spot
			if err := json.Unmarshal(data, &spots); err == nil {
				return spots, nil
			}
		}
	}

	// the whole box is fetched; the limit applies after the distance sort
	spots, err := s.spots.InBounds(ctx, domain.SpotFilter{Bounds: f.Bounds, IsSpecial: f.IsSpecial, Query: f.Query})
	if err != nil {
		return nil, err
	}

	for i := range spots {
		m := geospatial.Haversine(o.Lat, o.Lng, spots[i].Location.Lat, spots[i].Location.Lng)
		d := math.Round(m) / 1000
		spots[i].DistanceKm = &d
	}
	slices.SortStableFunc(spots, func(a, b domain.Spot) int {
		return cmp.Compare(*a.DistanceKm, *b.DistanceKm)
	})
	if len(spots) > f.Limit {
		spots = spots[:f.Limit]
	}

	// Cache for 5 minutes
	if s.cache != nil {
		if data, err := json.Marshal(spots); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}
	return spots, nil
}

// AlongRoute returns the spots within bufferM meters of the encoded route,
// nearest to the route first. A zero bufferM applies the default corridor;
// the match reports the buffer actually used.
func (s *SpotService) AlongRoute(ctx context.Context, encoded string, bufferM float64, limit int) (*domain.RouteMatch, error) {
	route, err := geospatial.DecodePolyline(encoded)
	if err != nil {
		metrics.PolylineDecodeErrors.Inc()
		return nil, err
	}
	if len(route) == 0 {
		return nil, fmt.Errorf("%w: polyline has no points", domain.ErrInvalidInput)
	}
	if bufferM == 0 {
		bufferM = defaultCorridorM
	}
	if math.IsNaN(bufferM) || bufferM < 0 || bufferM > maxCorridorBuffer {
		return nil, fmt.Errorf("%w: buffer_m must be between 1 and %.0f", domain.ErrInvalidInput, maxCorridorBuffer)
	}
	if limit <= 0 || limit > maxSpotLimit {
		limit = defaultSpotLimit
	}

	bounds, _ := geospatial.RouteBounds(route, bufferM)
	candidates, err := s.spots.InBounds(ctx, domain.SpotFilter{Bounds: bounds})
	if err != nil {
		return nil, err
	}

	points := make([]domain.GeoPoint, len(candidates))
	for i, sp := range candidates {
		points[i] = sp.Location
	}

	matches := geospatial.FilterAlongRoute(points, route, bufferM)
	metrics.CorridorMatches.Observe(float64(len(matches)))
	out := make([]domain.RouteSpot, 0, len(matches))
	for _, m := range matches {
		out = append(out, domain.RouteSpot{Spot: candidates[m.Index], RouteDistanceM: math.Round(m.DistanceM*10) / 10})
	}
	slices.SortStableFunc(out, func(a, b domain.RouteSpot) int {
		if c := cmp.Compare(a.RouteDistanceM, b.RouteDistanceM); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return &domain.RouteMatch{Route: route, BufferM: bufferM, Spots: out}, nil
}

// GetByID returns a single spot.
func (s *SpotService) GetByID(ctx context.Context, id int64) (*domain.Spot, error) {
	cacheKey := fmt.Sprintf("spots:id:%d", id)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var spot domain.Spot
			if err := json.Unmarshal(data, &spot); err == nil {
				return &spot, nil
			}
		}
	}

	spot, err := s.spots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(spot); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600) // 10 min for single spot
		}
	}
	return spot, nil
}

// Contents returns the contents featured at a spot.
func (s *SpotService) Contents(ctx context.Context, spotID int64, f domain.ContentFilter) ([]domain.Content, error) {
	if _, err := s.GetByID(ctx, spotID); err != nil {
		return nil, err
	}
	f.SpotID = &spotID
	f.ArtistID = nil
	f.FollowerID = nil
	if err := normalizeContentFilter(&f); err != nil {
		return nil, err
	}
	return s.contents.Search(ctx, f)
}
