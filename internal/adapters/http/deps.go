package http

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/rienbien8/Bloomix-backend/internal/adapters/postgres"
	"github.com/rienbien8/Bloomix-backend/internal/adapters/valkey"
	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/core/usecases"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/config"
)

// TripRunner plans trips in the background. StartTripPlan returns the
// identifier TripPlanResult is polled with; a run still in progress
// reports domain.ErrPending.
type TripRunner interface {
	StartTripPlan(ctx context.Context, req usecases.TripRequest) (string, error)
	TripPlanResult(ctx context.Context, id string) (*domain.TripPlan, error)
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Artists  *usecases.ArtistService
	Spots    *usecases.SpotService
	Contents *usecases.ContentService
	Follows  *usecases.FollowService
	Planner  *usecases.PlannerService
	Trips    *usecases.TripService
	Maps     *usecases.MapsService

	// TripRuns is nil when asynchronous trip plans are disabled.
	TripRuns TripRunner
	// PlannerDefaults fill playlist requests that omit a field.
	PlannerDefaults config.PlannerConfig

	NATS  *nats.Conn
	DB    *postgres.DB
	Cache *valkey.Cache
}

func (d *Dependencies) plannerDefaults() config.PlannerConfig {
	if len(d.PlannerDefaults.Languages) == 0 {
		return config.PlannerConfig{
			Languages:        []string{"ja"},
			MediaTypes:       []string{"youtube"},
			ToleranceMinutes: 5,
			MaxItems:         20,
		}
	}
	return d.PlannerDefaults
}
