package workflows

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/core/usecases"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/geospatial"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/playlist"
)

// Activity names, as registered from the methods of TripActivities.
const (
	ActivityFindRouteSpots  = "FindRouteSpots"
	ActivityComposePlaylist = "ComposePlaylist"
)

// Application error types carried across the workflow boundary.
const (
	errTypeInvalidInput = "InvalidInput"
	errTypeNotFound     = "NotFound"
)

// TripActivities holds the activity implementations of the trip plan workflow.
type TripActivities struct {
	Trips   *usecases.TripService
	Planner *usecases.PlannerService
}

// PlaylistOutcome is the playlist of a trip, or the reason there is none.
type PlaylistOutcome struct {
	Playlist *domain.Playlist
	Reason   string
}

// FindRouteSpots decodes the route and finds the spots along it.
func (a *TripActivities) FindRouteSpots(ctx context.Context, req usecases.TripRequest) (*domain.TripPlan, error) {
	req.UserID = 0
	plan, err := a.Trips.Plan(ctx, req)
	if err != nil {
		return nil, classify(err)
	}
	return plan, nil
}

// ComposePlaylist builds the playlist for the ride. Missing follows or
// contents are an outcome, not a failure.
func (a *TripActivities) ComposePlaylist(ctx context.Context, req usecases.PlaylistRequest) (*PlaylistOutcome, error) {
	pl, err := a.Planner.Compose(ctx, req)
	switch {
	case err == nil:
		return &PlaylistOutcome{Playlist: pl}, nil
	case errors.Is(err, usecases.ErrNoFollows), errors.Is(err, playlist.ErrNoCandidates):
		activity.GetLogger(ctx).Info("trip without playlist", "user_id", req.UserID, "reason", err.Error())
		return &PlaylistOutcome{Reason: err.Error()}, nil
	}
	return nil, classify(err)
}

// classify marks errors that a retry cannot fix.
func classify(err error) error {
	var decode *geospatial.DecodeError
	switch {
	case errors.As(err, &decode),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, playlist.ErrInvalidArgument):
		return temporal.NewNonRetryableApplicationError(err.Error(), errTypeInvalidInput, err)
	case errors.Is(err, domain.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), errTypeNotFound, err)
	}
	return err
}
