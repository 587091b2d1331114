package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/core/ports"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/metrics"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/playlist"
)

var tracer = otel.Tracer("github.com/rienbien8/Bloomix-backend/internal/core/usecases")

// ErrNoFollows is returned when a playlist is requested for a user who follows nobody.
var ErrNoFollows = fmt.Errorf("user follows no artists: %w", domain.ErrNotFound)

// PlaylistRequest asks for a playlist sized to TargetMinutes.
type PlaylistRequest struct {
	UserID           int64
	TargetMinutes    int
	Languages        []string
	MediaTypes       []string
	ToleranceMinutes int
	MaxItems         int
}

// FollowSetSource yields the artists a user follows.
type FollowSetSource interface {
	FollowSet(ctx context.Context, userID int64) (domain.FollowSet, error)
}

// PlannerService composes playlists from the contents of followed artists.
type PlannerService struct {
	users     ports.UserRepository
	follows   FollowSetSource
	contents  ports.ContentRepository
	publisher ports.EventPublisher
	newRand   func() *rand.Rand
}

// NewPlannerService creates a new PlannerService. publisher may be nil.
func NewPlannerService(users ports.UserRepository, follows FollowSetSource, contents ports.ContentRepository, publisher ports.EventPublisher) *PlannerService {
	return &PlannerService{
		users:     users,
		follows:   follows,
		contents:  contents,
		publisher: publisher,
		newRand:   playlist.NewRand,
	}
}

// WithRand overrides the per-request generator factory.
func (s *PlannerService) WithRand(fn func() *rand.Rand) *PlannerService {
	s.newRand = fn
	return s
}

// Compose builds a playlist for req.UserID.
func (s *PlannerService) Compose(ctx context.Context, req PlaylistRequest) (*domain.Playlist, error) {
	ctx, span := tracer.Start(ctx, "PlannerService.Compose")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("user.id", req.UserID),
		attribute.Int("playlist.target_min", req.TargetMinutes),
	)

	pl, err := s.compose(ctx, req)
	if err != nil {
		metrics.PlaylistsComposed.WithLabelValues(outcome(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	metrics.ObservePlaylist(len(pl.Entries), pl.Summary.EfficiencyScore)
	span.SetAttributes(
		attribute.Int("playlist.items", len(pl.Entries)),
		attribute.Float64("playlist.efficiency", pl.Summary.EfficiencyScore),
	)
	return pl, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrNoFollows):
		return "no_follows"
	case errors.Is(err, playlist.ErrNoCandidates):
		return "no_candidates"
	case errors.Is(err, playlist.ErrInvalidArgument):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "unknown_user"
	default:
		return "error"
	}
}

func (s *PlannerService) compose(ctx context.Context, req PlaylistRequest) (*domain.Playlist, error) {
	params := playlist.Params{
		TargetMinutes:    req.TargetMinutes,
		ToleranceMinutes: req.ToleranceMinutes,
		MaxItems:         req.MaxItems,
		Languages:        req.Languages,
		MediaTypes:       req.MediaTypes,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	follow, err := s.follows.FollowSet(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load follows: %w", err)
	}
	if len(follow) == 0 {
		return nil, ErrNoFollows
	}
	params.Follow = follow

	pool, err := s.contents.ListForArtists(ctx, follow.IDs())
	if err != nil {
		return nil, fmt.Errorf("load contents: %w", err)
	}
	if len(pool) == 0 {
		return nil, playlist.ErrNoCandidates
	}

	contentIDs := make([]int64, len(pool))
	for i, c := range pool {
		contentIDs[i] = c.ID
	}
	assoc, err := s.contents.Associations(ctx, contentIDs)
	if err != nil {
		return nil, fmt.Errorf("load associations: %w", err)
	}

	pl, err := playlist.Compose(pool, params, playlist.NewIndex(assoc), s.newRand())
	if err != nil {
		return nil, err
	}

	if _, err := playlist.CheckedScore(pl.Summary.TotalDurationMin, req.TargetMinutes, req.ToleranceMinutes); errors.Is(err, playlist.ErrDivisionGuard) {
		slog.WarnContext(ctx, "zero tolerance overage scored with penalty",
			"user_id", req.UserID, "overage_min", pl.Summary.OverageMin)
	}

	s.publish(ctx, req.UserID, pl)
	return pl, nil
}

func (s *PlannerService) publish(ctx context.Context, userID int64, pl *domain.Playlist) {
	if s.publisher == nil {
		return
	}
	event := &domain.PlaylistEvent{
		UserID:          userID,
		TargetMinutes:   pl.Summary.TargetDurationMin,
		TotalMinutes:    pl.Summary.TotalDurationMin,
		Items:           len(pl.Entries),
		EfficiencyScore: pl.Summary.EfficiencyScore,
		At:              time.Now().UTC(),
	}
	if err := s.publisher.PublishPlaylistComposed(ctx, event); err != nil {
		slog.WarnContext(ctx, "publish playlist event failed", "user_id", userID, "error", err)
	}
}

// DebugContents lists the shortest contents, for inspecting the pool.
func (s *PlannerService) DebugContents(ctx context.Context, limit int) ([]domain.Content, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	return s.contents.Search(ctx, domain.ContentFilter{Limit: limit})
}
