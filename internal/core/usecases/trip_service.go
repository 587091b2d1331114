package usecases

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/geospatial"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/playlist"
)

// TripRequest asks for the spots along a route and a playlist for the ride.
type TripRequest struct {
	Polyline  string
	BufferM   float64
	SpotLimit int
	// Playlist is skipped when UserID is zero.
	UserID           int64
	DurationMinutes  int
	Languages        []string
	MediaTypes       []string
	ToleranceMinutes int
	MaxItems         int
}

// PlaylistRequest derives the playlist part of the trip request.
func (r TripRequest) PlaylistRequest() PlaylistRequest {
	return PlaylistRequest{
		UserID:           r.UserID,
		TargetMinutes:    r.DurationMinutes,
		Languages:        r.Languages,
		MediaTypes:       r.MediaTypes,
		ToleranceMinutes: r.ToleranceMinutes,
		MaxItems:         r.MaxItems,
	}
}

// TripService combines corridor spot lookup with playlist composition.
type TripService struct {
	spots   *SpotService
	planner *PlannerService
}

// NewTripService creates a new TripService.
func NewTripService(spots *SpotService, planner *PlannerService) *TripService {
	return &TripService{spots: spots, planner: planner}
}

// Plan decodes the route, finds spots along it and, for a known user,
// composes a playlist sized to the trip. A playlist that cannot be built
// for lack of follows or contents is reported in the plan, not as an error.
func (s *TripService) Plan(ctx context.Context, req TripRequest) (*domain.TripPlan, error) {
	ctx, span := tracer.Start(ctx, "TripService.Plan")
	defer span.End()

	match, err := s.spots.AlongRoute(ctx, req.Polyline, req.BufferM, req.SpotLimit)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("trip.route_points", len(match.Route)), attribute.Int("trip.spots", len(match.Spots)))

	plan := &domain.TripPlan{
		Route:    match.Route,
		Polyline: geospatial.EncodePolyline(match.Route),
		BufferM:  match.BufferM,
		Spots:    match.Spots,
	}
	if req.UserID == 0 {
		return plan, nil
	}

	pl, err := s.planner.Compose(ctx, req.PlaylistRequest())
	switch {
	case err == nil:
		plan.Playlist = pl
	case errors.Is(err, ErrNoFollows), errors.Is(err, playlist.ErrNoCandidates):
		plan.PlaylistErr = err.Error()
	default:
		return nil, fmt.Errorf("compose playlist: %w", err)
	}
	return plan, nil
}
