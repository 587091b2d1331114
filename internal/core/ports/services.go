package ports

import (
	"context"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishFollowChanged(ctx context.Context, event *domain.FollowEvent) error
	PublishPlaylistComposed(ctx context.Context, event *domain.PlaylistEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeFollowChanged(ctx context.Context, handler func(ctx context.Context, event *domain.FollowEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// PlacesClient proxies place search to an external maps provider.
type PlacesClient interface {
	Autocomplete(ctx context.Context, req domain.AutocompleteRequest) ([]domain.PlaceSuggestion, error)
	PlaceDetails(ctx context.Context, placeID, lang string) (*domain.PlaceDetails, error)
	SearchText(ctx context.Context, req domain.SearchTextRequest) ([]domain.PlaceDetails, error)
}
