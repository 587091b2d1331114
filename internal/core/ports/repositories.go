package ports

import (
	"context"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
)

// UserRepository reads users.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpsertBatch(ctx context.Context, users []domain.User) error
}

// ArtistRepository persists artists.
type ArtistRepository interface {
	UpsertBatch(ctx context.Context, artists []domain.Artist) error
	GetByID(ctx context.Context, id int64) (*domain.Artist, error)
	// List returns a page of artists and the total number of matches.
	List(ctx context.Context, f domain.ArtistFilter) ([]domain.Artist, int, error)
}

// SpotRepository persists spots and their artist/content bridges.
type SpotRepository interface {
	UpsertBatch(ctx context.Context, spots []domain.Spot) error
	LinkArtists(ctx context.Context, links []domain.SpotArtistLink) error
	LinkContents(ctx context.Context, links []domain.SpotContentLink) error
	GetByID(ctx context.Context, id int64) (*domain.Spot, error)
	// InBounds returns spots inside f.Bounds, unordered.
	InBounds(ctx context.Context, f domain.SpotFilter) ([]domain.Spot, error)
}

// ContentRepository persists contents.
type ContentRepository interface {
	UpsertBatch(ctx context.Context, contents []domain.Content) error
	// Search returns contents ordered by duration (unknown last) then id.
	Search(ctx context.Context, f domain.ContentFilter) ([]domain.Content, error)
	// ListForArtists returns contents attributed to any of artistIDs, directly
	// or through a spot linked to the artist.
	ListForArtists(ctx context.Context, artistIDs []int64) ([]domain.Content, error)
	// Associations loads direct and spot-bridged artist links for contentIDs.
	Associations(ctx context.Context, contentIDs []int64) (domain.ContentAssociations, error)
}

// FollowRepository persists user → artist follows.
type FollowRepository interface {
	// ListArtists returns followed artists, most recently followed first.
	ListArtists(ctx context.Context, userID int64) ([]domain.FollowedArtist, error)
	ArtistIDs(ctx context.Context, userID int64) ([]int64, error)
	Follow(ctx context.Context, userID, artistID int64) (domain.FollowStatus, error)
	Unfollow(ctx context.Context, userID, artistID int64) error
}
