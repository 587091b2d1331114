package usecases

import (
	"context"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/core/ports"
)

// ArtistService handles artist lookups.
type ArtistService struct {
	artists ports.ArtistRepository
}

// NewArtistService creates a new ArtistService.
func NewArtistService(artists ports.ArtistRepository) *ArtistService {
	return &ArtistService{artists: artists}
}

// List returns a page of artists matching f, and the total match count.
func (s *ArtistService) List(ctx context.Context, f domain.ArtistFilter) ([]domain.Artist, int, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		f.Limit = 200
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.artists.List(ctx, f)
}

// GetByID returns a single artist.
func (s *ArtistService) GetByID(ctx context.Context, id int64) (*domain.Artist, error) {
	return s.artists.GetByID(ctx, id)
}
