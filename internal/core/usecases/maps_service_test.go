package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/core/usecases"
)

type mockPlaces struct {
	autocompleteCalls int
	lastSearch        domain.SearchTextRequest
}

func (m *mockPlaces) Autocomplete(ctx context.Context, req domain.AutocompleteRequest) ([]domain.PlaceSuggestion, error) {
	m.autocompleteCalls++
	return []domain.PlaceSuggestion{{PlaceID: "abc", Description: req.Query}}, nil
}

func (m *mockPlaces) PlaceDetails(ctx context.Context, placeID, lang string) (*domain.PlaceDetails, error) {
	if placeID == "missing" {
		return nil, domain.ErrNotFound
	}
	return &domain.PlaceDetails{PlaceID: placeID, Name: strPtr("Tokyo Dome")}, nil
}

func (m *mockPlaces) SearchText(ctx context.Context, req domain.SearchTextRequest) ([]domain.PlaceDetails, error) {
	m.lastSearch = req
	return []domain.PlaceDetails{{PlaceID: "p1"}}, nil
}

func TestMapsService_Autocomplete_Cached(t *testing.T) {
	places := &mockPlaces{}
	svc := usecases.NewMapsService(places, newMockCache())

	for i := 0; i < 2; i++ {
		got, err := svc.Autocomplete(context.Background(), domain.AutocompleteRequest{Query: "渋谷"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].Description != "渋谷" {
			t.Errorf("unexpected suggestions %+v", got)
		}
	}
	if places.autocompleteCalls != 1 {
		t.Errorf("expected one upstream call, got %d", places.autocompleteCalls)
	}
}

func TestMapsService_Validation(t *testing.T) {
	svc := usecases.NewMapsService(&mockPlaces{}, nil)
	ctx := context.Background()

	if _, err := svc.Autocomplete(ctx, domain.AutocompleteRequest{Query: "  "}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.PlaceDetails(ctx, "", "ja"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.SearchText(ctx, domain.SearchTextRequest{Query: "dome", Limit: 21}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMapsService_SearchText_Defaults(t *testing.T) {
	places := &mockPlaces{}
	svc := usecases.NewMapsService(places, nil)

	if _, err := svc.SearchText(context.Background(), domain.SearchTextRequest{Query: "dome", Limit: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if places.lastSearch.Language != "ja" || places.lastSearch.Region != "JP" {
		t.Errorf("expected ja/JP defaults, got %s/%s", places.lastSearch.Language, places.lastSearch.Region)
	}
}

func TestMapsService_Unavailable(t *testing.T) {
	svc := usecases.NewMapsService(nil, nil)
	_, err := svc.PlaceDetails(context.Background(), "abc", "ja")
	if !errors.Is(err, usecases.ErrMapsUnavailable) {
		t.Errorf("expected ErrMapsUnavailable, got %v", err)
	}
}
