// Package places is a client for the Google Places API (New).
package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/metrics"
)

const (
	detailsFieldMask = "id,displayName,formattedAddress,location"
	searchFieldMask  = "places.id,places.displayName,places.formattedAddress,places.location,places.types"

	autocompleteTimeout = 6 * time.Second
	detailsTimeout      = 6 * time.Second
)

// Config configures a Client.
type Config struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration // search-text timeout
	RatePerS float64
	Burst    int
}

// Client implements ports.PlacesClient. Calls are rate limited and go
// through a circuit breaker; failures are never retried.
type Client struct {
	cfg     Config
	http    *fasthttp.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// New creates a Client.
func New(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg: cfg,
		http: &fasthttp.Client{
			Name:                "bloomix-places",
			MaxConnsPerHost:     32,
			MaxIdleConnDuration: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerS), cfg.Burst),
		breaker: newBreaker("places"),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			// client mistakes say nothing about upstream health
			var up *domain.UpstreamError
			return err == nil || (errors.As(err, &up) && up.Status < 500)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			slog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type localizedText struct {
	Text string `json:"text"`
}

type place struct {
	ID               string         `json:"id"`
	DisplayName      *localizedText `json:"displayName"`
	FormattedAddress *string        `json:"formattedAddress"`
	Location         *latLng        `json:"location"`
	Types            []string       `json:"types"`
}

func (p place) toDomain(fallbackID string) domain.PlaceDetails {
	d := domain.PlaceDetails{PlaceID: p.ID, Address: p.FormattedAddress, Types: p.Types}
	if d.PlaceID == "" {
		d.PlaceID = fallbackID
	}
	if p.DisplayName != nil {
		name := p.DisplayName.Text
		d.Name = &name
	}
	if p.Location != nil {
		d.Location = &domain.GeoPoint{Lat: p.Location.Latitude, Lng: p.Location.Longitude}
	}
	return d
}

func bias(origin *domain.GeoPoint, radiusM int) *locationBias {
	if origin == nil || radiusM <= 0 {
		return nil
	}
	return &locationBias{Circle: circle{
		Center: latLng{Latitude: origin.Lat, Longitude: origin.Lng},
		Radius: float64(radiusM),
	}}
}

// Autocomplete calls places:autocomplete.
func (c *Client) Autocomplete(ctx context.Context, req domain.AutocompleteRequest) ([]domain.PlaceSuggestion, error) {
	body := struct {
		Input        string        `json:"input"`
		LanguageCode string        `json:"languageCode"`
		Origin       *latLng       `json:"origin,omitempty"`
		LocationBias *locationBias `json:"locationBias,omitempty"`
	}{Input: req.Query, LanguageCode: req.Language, LocationBias: bias(req.Origin, req.RadiusM)}
	if req.Origin != nil {
		body.Origin = &latLng{Latitude: req.Origin.Lat, Longitude: req.Origin.Lng}
	}

	var resp struct {
		Suggestions []struct {
			PlacePrediction *struct {
				PlaceID          string         `json:"placeId"`
				Place            string         `json:"place"`
				Text             *localizedText `json:"text"`
				StructuredFormat *struct {
					MainText      *localizedText `json:"mainText"`
					SecondaryText *localizedText `json:"secondaryText"`
				} `json:"structuredFormat"`
			} `json:"placePrediction"`
		} `json:"suggestions"`
	}
	if err := c.call(ctx, "autocomplete", fasthttp.MethodPost, c.cfg.BaseURL+"/places:autocomplete", "", body, autocompleteTimeout, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.PlaceSuggestion, 0, len(resp.Suggestions))
	for _, s := range resp.Suggestions {
		p := s.PlacePrediction
		if p == nil {
			continue
		}
		sug := domain.PlaceSuggestion{PlaceID: p.PlaceID}
		if sug.PlaceID == "" {
			sug.PlaceID = strings.TrimPrefix(p.Place, "places/")
		}
		if f := p.StructuredFormat; f != nil {
			if f.MainText != nil {
				sug.MainText = &f.MainText.Text
			}
			if f.SecondaryText != nil {
				sug.SecondaryText = &f.SecondaryText.Text
			}
		}
		switch {
		case p.Text != nil && p.Text.Text != "":
			sug.Description = p.Text.Text
		case sug.MainText != nil:
			sug.Description = *sug.MainText
		}
		out = append(out, sug)
	}
	return out, nil
}

// PlaceDetails calls places/{id}. An unknown place yields domain.ErrNotFound.
func (c *Client) PlaceDetails(ctx context.Context, placeID, lang string) (*domain.PlaceDetails, error) {
	endpoint := c.cfg.BaseURL + "/places/" + url.PathEscape(placeID) + "?languageCode=" + url.QueryEscape(lang)
	var p place
	err := c.call(ctx, "details", fasthttp.MethodGet, endpoint, detailsFieldMask, nil, detailsTimeout, &p)
	if err != nil {
		var up *domain.UpstreamError
		if errors.As(err, &up) && up.Status == fasthttp.StatusNotFound {
			return nil, fmt.Errorf("place %s: %w", placeID, domain.ErrNotFound)
		}
		return nil, err
	}
	d := p.toDomain(placeID)
	return &d, nil
}

// SearchText calls places:searchText.
func (c *Client) SearchText(ctx context.Context, req domain.SearchTextRequest) ([]domain.PlaceDetails, error) {
	body := struct {
		TextQuery      string        `json:"textQuery"`
		LanguageCode   string        `json:"languageCode"`
		RegionCode     string        `json:"regionCode"`
		MaxResultCount int           `json:"maxResultCount"`
		LocationBias   *locationBias `json:"locationBias,omitempty"`
	}{
		TextQuery:      req.Query,
		LanguageCode:   req.Language,
		RegionCode:     req.Region,
		MaxResultCount: req.Limit,
		LocationBias:   bias(req.Origin, req.RadiusM),
	}

	var resp struct {
		Places []place `json:"places"`
	}
	if err := c.call(ctx, "search_text", fasthttp.MethodPost, c.cfg.BaseURL+"/places:searchText", searchFieldMask, body, c.cfg.Timeout, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.PlaceDetails, 0, len(resp.Places))
	for _, p := range resp.Places {
		out = append(out, p.toDomain(""))
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, op, method, endpoint, fieldMask string, body any, timeout time.Duration, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.PlacesRequests.WithLabelValues(op, "rate_limited").Inc()
		return fmt.Errorf("places %s: %w: %v", op, domain.ErrUnavailable, err)
	}

	start := time.Now()
	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(method, endpoint, fieldMask, body, timeout)
	})
	metrics.PlacesLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.PlacesRequests.WithLabelValues(op, "breaker_open").Inc()
			return fmt.Errorf("places %s: %w: %v", op, domain.ErrUnavailable, err)
		}
		metrics.PlacesRequests.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("places %s: %w", op, err)
	}
	metrics.PlacesRequests.WithLabelValues(op, "ok").Inc()

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("places %s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) do(method, endpoint, fieldMask string, body any, timeout time.Duration) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoint)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	req.Header.Set("X-Goog-Api-Key", c.cfg.APIKey)
	if fieldMask != "" {
		req.Header.Set("X-Goog-FieldMask", fieldMask)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		req.SetBodyRaw(payload)
	}

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return nil, err
	}
	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		return nil, &domain.UpstreamError{Status: status, Body: string(resp.Body())}
	}
	return append([]byte(nil), resp.Body()...), nil
}
