package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/core/ports"
)

// ErrMapsUnavailable is returned when no places provider is configured.
var ErrMapsUnavailable = fmt.Errorf("maps provider not configured: %w", domain.ErrUnavailable)

// MapsService fronts the places provider with a response cache.
type MapsService struct {
	places ports.PlacesClient
	cache  ports.CacheService
}

// NewMapsService creates a new MapsService. Both arguments may be nil.
func NewMapsService(places ports.PlacesClient, cache ports.CacheService) *MapsService {
	return &MapsService{places: places, cache: cache}
}

// Autocomplete returns place predictions for a partial query.
func (s *MapsService) Autocomplete(ctx context.Context, req domain.AutocompleteRequest) ([]domain.PlaceSuggestion, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: q is required", domain.ErrInvalidInput)
	}
	if req.Language == "" {
		req.Language = "ja"
	}
	key := fmt.Sprintf("maps:ac:%s:%s:%s:%d", req.Language, req.Query, originKey(req.Origin), req.RadiusM)
	return cached(ctx, s, key, 120, func() ([]domain.PlaceSuggestion, error) {
		return s.places.Autocomplete(ctx, req)
	})
}

// PlaceDetails resolves a place ID.
func (s *MapsService) PlaceDetails(ctx context.Context, placeID, lang string) (*domain.PlaceDetails, error) {
	if strings.TrimSpace(placeID) == "" {
		return nil, fmt.Errorf("%w: place_id is required", domain.ErrInvalidInput)
	}
	if lang == "" {
		lang = "ja"
	}
	key := fmt.Sprintf("maps:details:%s:%s", lang, placeID)
	return cached(ctx, s, key, 3600, func() (*domain.PlaceDetails, error) {
		return s.places.PlaceDetails(ctx, placeID, lang)
	})
}

// SearchText runs a free-text place search.
func (s *MapsService) SearchText(ctx context.Context, req domain.SearchTextRequest) ([]domain.PlaceDetails, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: q is required", domain.ErrInvalidInput)
	}
	if req.Limit < 1 || req.Limit > 20 {
		return nil, fmt.Errorf("%w: limit must be between 1 and 20", domain.ErrInvalidInput)
	}
	if req.Language == "" {
		req.Language = "ja"
	}
	if req.Region == "" {
		req.Region = "JP"
	}
	key := fmt.Sprintf("maps:search:%s:%s:%s:%s:%d:%d", req.Language, req.Region, req.Query, originKey(req.Origin), req.RadiusM, req.Limit)
	return cached(ctx, s, key, 300, func() ([]domain.PlaceDetails, error) {
		return s.places.SearchText(ctx, req)
	})
}

func originKey(p *domain.GeoPoint) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f,%.4f", p.Lat, p.Lng)
}

func cached[T any](ctx context.Context, s *MapsService, key string, ttl int, fetch func() (T, error)) (T, error) {
	var zero T
	if s.places == nil {
		return zero, ErrMapsUnavailable
	}
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var v T
			if err := json.Unmarshal(data, &v); err == nil {
				return v, nil
			}
		}
	}

	v, err := fetch()
	if err != nil {
		return zero, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(v); err == nil {
			_ = s.cache.Set(ctx, key, data, ttl)
		}
	}
	return v, nil
}
