package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/core/ports"
)

// FollowService manages which artists a user follows.
type FollowService struct {
	users     ports.UserRepository
	artists   ports.ArtistRepository
	follows   ports.FollowRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
}

// NewFollowService creates a new FollowService. cache and publisher may be nil.
func NewFollowService(users ports.UserRepository, artists ports.ArtistRepository, follows ports.FollowRepository, cache ports.CacheService, publisher ports.EventPublisher) *FollowService {
	return &FollowService{users: users, artists: artists, follows: follows, cache: cache, publisher: publisher}
}

func followSetKey(userID int64) string {
	return fmt.Sprintf("follows:user:%d", userID)
}

// List returns the artists userID follows, most recent first.
func (s *FollowService) List(ctx context.Context, userID int64) ([]domain.FollowedArtist, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.ListArtists(ctx, userID)
}

// Follow adds artistID to userID's follows. Following twice is not an error.
func (s *FollowService) Follow(ctx context.Context, userID, artistID int64) (domain.FollowStatus, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return "", err
	}
	if _, err := s.artists.GetByID(ctx, artistID); err != nil {
		return "", err
	}

	status, err := s.follows.Follow(ctx, userID, artistID)
	if err != nil {
		return "", fmt.Errorf("follow: %w", err)
	}
	if status == domain.FollowCreated {
		s.changed(ctx, userID, artistID, "follow")
	}
	return status, nil
}

// Unfollow removes artistID from userID's follows. Missing follows are ignored.
func (s *FollowService) Unfollow(ctx context.Context, userID, artistID int64) error {
	if err := s.follows.Unfollow(ctx, userID, artistID); err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	s.changed(ctx, userID, artistID, "unfollow")
	return nil
}

// FollowSet returns the IDs userID follows, read through the cache.
func (s *FollowService) FollowSet(ctx context.Context, userID int64) (domain.FollowSet, error) {
	key := followSetKey(userID)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var ids []int64
			if err := json.Unmarshal(data, &ids); err == nil {
				return domain.NewFollowSet(ids...), nil
			}
		}
	}

	ids, err := s.follows.ArtistIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(ids); err == nil {
			_ = s.cache.Set(ctx, key, data, 300)
		}
	}
	return domain.NewFollowSet(ids...), nil
}

// InvalidateFollowSet drops the cached follow set of userID.
func (s *FollowService) InvalidateFollowSet(ctx context.Context, userID int64) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, followSetKey(userID))
}

func (s *FollowService) changed(ctx context.Context, userID, artistID int64, action string) {
	if err := s.InvalidateFollowSet(ctx, userID); err != nil {
		slog.WarnContext(ctx, "follow set invalidation failed", "user_id", userID, "error", err)
	}
	if s.publisher == nil {
		return
	}
	event := &domain.FollowEvent{UserID: userID, ArtistID: artistID, Action: action, At: time.Now().UTC()}
	if err := s.publisher.PublishFollowChanged(ctx, event); err != nil {
		slog.WarnContext(ctx, "publish follow event failed", "user_id", userID, "error", err)
	}
}
