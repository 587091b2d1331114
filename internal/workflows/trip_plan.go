package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/core/usecases"
)

// TripPlanInput is the input of the trip plan workflow.
type TripPlanInput struct {
	Request usecases.TripRequest
}

// TripPlanWorkflow finds the spots along a route and, for a known user,
// composes a playlist for the ride. The playlist step only runs once the
// route is known to be valid.
func TripPlanWorkflow(ctx workflow.Context, input TripPlanInput) (*domain.TripPlan, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting trip plan workflow", "userID", input.Request.UserID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Spots along the route
	var plan domain.TripPlan
	if err := workflow.ExecuteActivity(ctx, ActivityFindRouteSpots, input.Request).Get(ctx, &plan); err != nil {
		return nil, err
	}
	if input.Request.UserID == 0 {
		return &plan, nil
	}

	// Step 2: Playlist sized to the trip
	var outcome PlaylistOutcome
	if err := workflow.ExecuteActivity(ctx, ActivityComposePlaylist, input.Request.PlaylistRequest()).Get(ctx, &outcome); err != nil {
		return nil, err
	}
	plan.Playlist = outcome.Playlist
	plan.PlaylistErr = outcome.Reason

	logger.Info("Trip plan completed", "spots", len(plan.Spots), "playlist", plan.Playlist != nil)
	return &plan, nil
}
