package usecases

import (
	"context"
	"fmt"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/core/ports"
)

// ContentService handles content search.
type ContentService struct {
	contents ports.ContentRepository
	users    ports.UserRepository
}

// NewContentService creates a new ContentService.
func NewContentService(contents ports.ContentRepository, users ports.UserRepository) *ContentService {
	return &ContentService{contents: contents, users: users}
}

// Search performs a cross search over contents.
func (s *ContentService) Search(ctx context.Context, f domain.ContentFilter) ([]domain.Content, error) {
	f.FollowerID = nil
	if err := normalizeContentFilter(&f); err != nil {
		return nil, err
	}
	return s.contents.Search(ctx, f)
}

// ForUser returns contents featured at spots of the artists userID follows.
func (s *ContentService) ForUser(ctx context.Context, userID int64, f domain.ContentFilter) ([]domain.Content, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	f.SpotID = nil
	f.ArtistID = nil
	f.FollowerID = &userID
	if err := normalizeContentFilter(&f); err != nil {
		return nil, err
	}
	return s.contents.Search(ctx, f)
}

func normalizeContentFilter(f *domain.ContentFilter) error {
	if f.MinDuration != nil && *f.MinDuration < 0 {
		return fmt.Errorf("%w: min_duration must not be negative", domain.ErrInvalidInput)
	}
	if f.MaxDuration != nil && *f.MaxDuration < 0 {
		return fmt.Errorf("%w: max_duration must not be negative", domain.ErrInvalidInput)
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	return nil
}
