package usecases_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/core/usecases"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/geospatial"
)

var tokyoBox = domain.Bounds{MinLat: 35.0, MinLng: 139.0, MaxLat: 36.0, MaxLng: 140.0}

func TestSpotService_InBounds_InvalidBox(t *testing.T) {
	svc := usecases.NewSpotService(&mockSpotRepo{}, &mockContentRepo{}, nil)

	boxes := []domain.Bounds{
		{MinLat: 36, MinLng: 139, MaxLat: 35, MaxLng: 140},  // inverted lat
		{MinLat: 35, MinLng: 140, MaxLat: 36, MaxLng: 139},  // inverted lng
		{MinLat: -91, MinLng: 139, MaxLat: 36, MaxLng: 140}, // out of range
	}
	for _, b := range boxes {
		_, err := svc.InBounds(context.Background(), domain.SpotFilter{Bounds: b}, nil)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("bounds %+v: expected ErrInvalidInput, got %v", b, err)
		}
	}
}

func TestSpotService_InBounds_SortsByDistanceFromCenter(t *testing.T) {
	repo := &mockSpotRepo{
		inBoundsFn: func(ctx context.Context, f domain.SpotFilter) ([]domain.Spot, error) {
			return []domain.Spot{
				{ID: 1, Name: "far", Location: domain.GeoPoint{Lat: 35.9, Lng: 139.9}},
				{ID: 2, Name: "center", Location: domain.GeoPoint{Lat: 35.5, Lng: 139.5}},
				{ID: 3, Name: "near", Location: domain.GeoPoint{Lat: 35.51, Lng: 139.5}},
			}, nil
		},
	}
	svc := usecases.NewSpotService(repo, &mockContentRepo{}, nil)

	spots, err := svc.InBounds(context.Background(), domain.SpotFilter{Bounds: tokyoBox, Limit: 2}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spots) != 2 {
		t.Fatalf("expected 2 spots, got %d", len(spots))
	}
	if spots[0].ID != 2 || spots[1].ID != 3 {
		t.Errorf("unexpected order: %d, %d", spots[0].ID, spots[1].ID)
	}
	if *spots[0].DistanceKm != 0 {
		t.Errorf("expected 0 km for center spot, got %f", *spots[0].DistanceKm)
	}
	if got := *spots[1].DistanceKm; got != 1.112 {
		t.Errorf("expected distance rounded to 1.112, got %v", got)
	}
}

func TestSpotService_InBounds_Origin(t *testing.T) {
	repo := &mockSpotRepo{
		inBoundsFn: func(ctx context.Context, f domain.SpotFilter) ([]domain.Spot, error) {
			return []domain.Spot{
				{ID: 1, Location: domain.GeoPoint{Lat: 35.5, Lng: 139.5}},
				{ID: 2, Location: domain.GeoPoint{Lat: 35.1, Lng: 139.1}},
			}, nil
		},
	}
	svc := usecases.NewSpotService(repo, &mockContentRepo{}, nil)

	origin := &domain.GeoPoint{Lat: 35.1, Lng: 139.1}
	spots, err := svc.InBounds(context.Background(), domain.SpotFilter{Bounds: tokyoBox}, origin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spots[0].ID != 2 {
		t.Errorf("expected spot nearest to origin first, got %d", spots[0].ID)
	}

	_, err = svc.InBounds(context.Background(), domain.SpotFilter{Bounds: tokyoBox}, &domain.GeoPoint{Lat: 100})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for bad origin, got %v", err)
	}
}

func TestSpotService_InBounds_Cache(t *testing.T) {
	calls := 0
	repo := &mockSpotRepo{
		inBoundsFn: func(ctx context.Context, f domain.SpotFilter) ([]domain.Spot, error) {
			calls++
			return []domain.Spot{{ID: 1, Location: domain.GeoPoint{Lat: 35.5, Lng: 139.5}}}, nil
		},
	}
	svc := usecases.NewSpotService(repo, &mockContentRepo{}, newMockCache())

	for i := 0; i < 3; i++ {
		spots, err := svc.InBounds(context.Background(), domain.SpotFilter{Bounds: tokyoBox}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(spots) != 1 {
			t.Fatalf("expected 1 spot, got %d", len(spots))
		}
	}
	if calls != 1 {
		t.Errorf("expected repository hit once, got %d", calls)
	}
}

func TestSpotService_AlongRoute(t *testing.T) {
	route := []domain.GeoPoint{{Lat: 35.0, Lng: 139.0}, {Lat: 35.0, Lng: 139.01}}
	var seen domain.Bounds
	repo := &mockSpotRepo{
		inBoundsFn: func(ctx context.Context, f domain.SpotFilter) ([]domain.Spot, error) {
			seen = f.Bounds
			return []domain.Spot{
				{ID: 1, Name: "north", Location: domain.GeoPoint{Lat: 35.001, Lng: 139.0}},
				{ID: 2, Name: "far", Location: domain.GeoPoint{Lat: 35.1, Lng: 139.0}},
				{ID: 3, Name: "start", Location: domain.GeoPoint{Lat: 35.0, Lng: 139.0}},
			}, nil
		},
	}
	svc := usecases.NewSpotService(repo, &mockContentRepo{}, nil)

	match, err := svc.AlongRoute(context.Background(), geospatial.EncodePolyline(route), 200, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(match.Route) != 2 {
		t.Fatalf("expected 2 route points, got %d", len(match.Route))
	}
	if match.BufferM != 200 {
		t.Errorf("expected buffer 200, got %v", match.BufferM)
	}
	spots := match.Spots
	for _, p := range route {
		if !seen.Contains(p) {
			t.Errorf("candidate bounds %+v do not contain route point %+v", seen, p)
		}
	}
	if len(spots) != 2 {
		t.Fatalf("expected 2 spots in corridor, got %d", len(spots))
	}
	if spots[0].ID != 3 || spots[1].ID != 1 {
		t.Errorf("unexpected order: %d, %d", spots[0].ID, spots[1].ID)
	}
	if spots[0].RouteDistanceM != 0 {
		t.Errorf("expected 0 m for spot on route, got %f", spots[0].RouteDistanceM)
	}
}

func TestSpotService_AlongRoute_BadInput(t *testing.T) {
	svc := usecases.NewSpotService(&mockSpotRepo{}, &mockContentRepo{}, nil)

	_, err := svc.AlongRoute(context.Background(), "_p~iF", 200, 10)
	var de *geospatial.DecodeError
	if !errors.As(err, &de) {
		t.Errorf("expected DecodeError, got %v", err)
	}

	_, err = svc.AlongRoute(context.Background(), "", 200, 10)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty route, got %v", err)
	}

	for _, buf := range []float64{10000, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = svc.AlongRoute(context.Background(), "_p~iF~ps|U", buf, 10)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for buffer %v, got %v", buf, err)
		}
	}
}

func TestSpotService_AlongRoute_DefaultBuffer(t *testing.T) {
	repo := &mockSpotRepo{
		inBoundsFn: func(ctx context.Context, f domain.SpotFilter) ([]domain.Spot, error) {
			return []domain.Spot{{ID: 7, Location: domain.GeoPoint{Lat: 38.5, Lng: -120.2}}}, nil
		},
	}
	svc := usecases.NewSpotService(repo, &mockContentRepo{}, nil)

	match, err := svc.AlongRoute(context.Background(), "_p~iF~ps|U_ulLnnqC_mqNvxq`@", 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.BufferM != 300 {
		t.Errorf("expected default buffer 300, got %v", match.BufferM)
	}
	if len(match.Spots) != 1 || match.Spots[0].ID != 7 {
		t.Errorf("expected spot on the first vertex, got %+v", match.Spots)
	}
}

func TestSpotService_Contents(t *testing.T) {
	var got domain.ContentFilter
	contents := &mockContentRepo{
		searchFn: func(ctx context.Context, f domain.ContentFilter) ([]domain.Content, error) {
			got = f
			return []domain.Content{{ID: 9}}, nil
		},
	}
	spots := &mockSpotRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Spot, error) {
			if id != 7 {
				return nil, domain.ErrNotFound
			}
			return &domain.Spot{ID: 7}, nil
		},
	}
	svc := usecases.NewSpotService(spots, contents, nil)

	items, err := svc.Contents(context.Background(), 7, domain.ContentFilter{Languages: []string{"ja"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 content, got %d", len(items))
	}
	if got.SpotID == nil || *got.SpotID != 7 {
		t.Errorf("expected spot filter 7, got %v", got.SpotID)
	}
	if got.Limit != 50 {
		t.Errorf("expected default limit 50, got %d", got.Limit)
	}

	if _, err := svc.Contents(context.Background(), 8, domain.ContentFilter{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
