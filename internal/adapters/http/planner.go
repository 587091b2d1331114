package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/core/usecases"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/validation"
)

// PlaylistRequest is the body of POST /v1/planner/playlist.
type PlaylistRequest struct {
	UserID            int64    `json:"user_id" validate:"required,gt=0"`
	TargetDurationMin int      `json:"target_duration_min" validate:"required,gt=0"`
	PreferredLangs    []string `json:"preferred_langs" validate:"omitempty,dive,required"`
	ContentTypes      []string `json:"content_types" validate:"omitempty,dive,required"`
	ToleranceMin      *int     `json:"tolerance_min" validate:"omitempty,gte=0"`
	MaxItems          *int     `json:"max_items" validate:"omitempty,min=1,max=100"`
}

func (r PlaylistRequest) toUsecase(deps *Dependencies) usecases.PlaylistRequest {
	def := deps.plannerDefaults()
	out := usecases.PlaylistRequest{
		UserID:           r.UserID,
		TargetMinutes:    r.TargetDurationMin,
		Languages:        r.PreferredLangs,
		MediaTypes:       r.ContentTypes,
		ToleranceMinutes: def.ToleranceMinutes,
		MaxItems:         def.MaxItems,
	}
	if len(out.Languages) == 0 {
		out.Languages = def.Languages
	}
	if len(out.MediaTypes) == 0 {
		out.MediaTypes = def.MediaTypes
	}
	if r.ToleranceMin != nil {
		out.ToleranceMinutes = *r.ToleranceMin
	}
	if r.MaxItems != nil {
		out.MaxItems = *r.MaxItems
	}
	return out
}

// TripPlanRequest is the body of POST /v1/planner/trips. The playlist part is
// skipped when user_id is absent.
type TripPlanRequest struct {
	Polyline       string   `json:"polyline" validate:"required"`
	BufferM        float64  `json:"buffer_m" validate:"gte=0,lte=5000"`
	SpotLimit      int      `json:"spot_limit" validate:"gte=0,lte=200"`
	UserID         int64    `json:"user_id" validate:"gte=0"`
	DurationMin    int      `json:"duration_min" validate:"gte=0"`
	PreferredLangs []string `json:"preferred_langs" validate:"omitempty,dive,required"`
	ContentTypes   []string `json:"content_types" validate:"omitempty,dive,required"`
	ToleranceMin   *int     `json:"tolerance_min" validate:"omitempty,gte=0"`
	MaxItems       *int     `json:"max_items" validate:"omitempty,min=1,max=100"`
}

func (r TripPlanRequest) toUsecase(deps *Dependencies) usecases.TripRequest {
	pl := PlaylistRequest{
		UserID:            r.UserID,
		TargetDurationMin: r.DurationMin,
		PreferredLangs:    r.PreferredLangs,
		ContentTypes:      r.ContentTypes,
		ToleranceMin:      r.ToleranceMin,
		MaxItems:          r.MaxItems,
	}.toUsecase(deps)
	return usecases.TripRequest{
		Polyline:         r.Polyline,
		BufferM:          r.BufferM,
		SpotLimit:        r.SpotLimit,
		UserID:           pl.UserID,
		DurationMinutes:  pl.TargetMinutes,
		Languages:        pl.Languages,
		MediaTypes:       pl.MediaTypes,
		ToleranceMinutes: pl.ToleranceMinutes,
		MaxItems:         pl.MaxItems,
	}
}

// bind parses and validates a JSON body into v. When it reports false the
// error response has already been written.
func bind(c *fiber.Ctx, v any) (bool, error) {
	if err := c.BodyParser(v); err != nil {
		return false, errBadRequest(c, "invalid request body")
	}
	if err := validation.Struct(v); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return false, errValidation(c, verr)
		}
		return false, errBadRequest(c, err.Error())
	}
	return true, nil
}

// ComposePlaylistHandler builds a playlist sized to the requested duration
// from the contents of the artists the user follows.
func ComposePlaylistHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req PlaylistRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		pl, err := deps.Planner.Compose(c.UserContext(), req.toUsecase(deps))
		if err != nil {
			return mapError(c, err)
		}
		if pl.Entries == nil {
			pl.Entries = []domain.PlaylistEntry{}
		}
		return c.JSON(pl)
	}
}

// PlannerContentsHandler lists the shortest contents of the pool.
func PlannerContentsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		contents, err := deps.Planner.DebugContents(c.UserContext(), c.QueryInt("limit", 50))
		if err != nil {
			return mapError(c, err)
		}
		if contents == nil {
			contents = []domain.Content{}
		}
		return c.JSON(contents)
	}
}

// PlannerHealthHandler describes the planner.
func PlannerHealthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"service":   "planner",
			"algorithm": "greedy",
			"features":  []string{"playlist_generation", "content_optimization", "trip_planning"},
		})
	}
}

// PlanTripHandler returns the spots along a route and a playlist for the ride.
func PlanTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req TripPlanRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		plan, err := deps.Trips.Plan(c.UserContext(), req.toUsecase(deps))
		if err != nil {
			return mapError(c, err)
		}
		if plan.Spots == nil {
			plan.Spots = []domain.RouteSpot{}
		}
		return c.JSON(plan)
	}
}

// StartTripPlanHandler starts a trip plan in the background.
func StartTripPlanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.TripRuns == nil {
			return errUnavailable(c, "asynchronous trip planning is disabled")
		}
		var req TripPlanRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		id, err := deps.TripRuns.StartTripPlan(c.UserContext(), req.toUsecase(deps))
		if err != nil {
			return mapError(c, err)
		}
		c.Location("/v1/planner/trips/" + id)
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"id": id, "status": "running"})
	}
}

// TripPlanResultHandler returns a background trip plan once it is done.
func TripPlanResultHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.TripRuns == nil {
			return errUnavailable(c, "asynchronous trip planning is disabled")
		}
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trip plan id is required")
		}
		plan, err := deps.TripRuns.TripPlanResult(c.UserContext(), id)
		if errors.Is(err, domain.ErrPending) {
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"id": id, "status": "running"})
		}
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(fiber.Map{"id": id, "status": "completed", "plan": plan})
	}
}
