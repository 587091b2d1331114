package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
)

// --- Mock UserRepository ---

type mockUserRepo struct {
	users map[int64]domain.User
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return &u, nil
}

func (m *mockUserRepo) UpsertBatch(ctx context.Context, users []domain.User) error { return nil }

// --- Mock ArtistRepository ---

type mockArtistRepo struct {
	listFn    func(ctx context.Context, f domain.ArtistFilter) ([]domain.Artist, int, error)
	getByIDFn func(ctx context.Context, id int64) (*domain.Artist, error)
}

func (m *mockArtistRepo) UpsertBatch(ctx context.Context, artists []domain.Artist) error {
	return nil
}

func (m *mockArtistRepo) GetByID(ctx context.Context, id int64) (*domain.Artist, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Artist{ID: id}, nil
}

func (m *mockArtistRepo) List(ctx context.Context, f domain.ArtistFilter) ([]domain.Artist, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, f)
	}
	return nil, 0, nil
}

// --- Mock SpotRepository ---

type mockSpotRepo struct {
	inBoundsFn func(ctx context.Context, f domain.SpotFilter) ([]domain.Spot, error)
	getByIDFn  func(ctx context.Context, id int64) (*domain.Spot, error)
}

func (m *mockSpotRepo) UpsertBatch(ctx context.Context, spots []domain.Spot) error { return nil }
func (m *mockSpotRepo) LinkArtists(ctx context.Context, links []domain.SpotArtistLink) error {
	return nil
}
func (m *mockSpotRepo) LinkContents(ctx context.Context, links []domain.SpotContentLink) error {
	return nil
}

func (m *mockSpotRepo) GetByID(ctx context.Context, id int64) (*domain.Spot, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSpotRepo) InBounds(ctx context.Context, f domain.SpotFilter) ([]domain.Spot, error) {
	if m.inBoundsFn != nil {
		return m.inBoundsFn(ctx, f)
	}
	return nil, nil
}

// --- Mock ContentRepository ---

type mockContentRepo struct {
	searchFn         func(ctx context.Context, f domain.ContentFilter) ([]domain.Content, error)
	listForArtistsFn func(ctx context.Context, ids []int64) ([]domain.Content, error)
	associationsFn   func(ctx context.Context, ids []int64) (domain.ContentAssociations, error)
}

func (m *mockContentRepo) UpsertBatch(ctx context.Context, contents []domain.Content) error {
	return nil
}

func (m *mockContentRepo) Search(ctx context.Context, f domain.ContentFilter) ([]domain.Content, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, f)
	}
	return nil, nil
}

func (m *mockContentRepo) ListForArtists(ctx context.Context, ids []int64) ([]domain.Content, error) {
	if m.listForArtistsFn != nil {
		return m.listForArtistsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockContentRepo) Associations(ctx context.Context, ids []int64) (domain.ContentAssociations, error) {
	if m.associationsFn != nil {
		return m.associationsFn(ctx, ids)
	}
	return domain.ContentAssociations{}, nil
}

// --- Mock FollowRepository ---

type mockFollowRepo struct {
	mu      sync.Mutex
	follows map[int64][]int64 // user → artists
	calls   int
}

func (m *mockFollowRepo) ListArtists(ctx context.Context, userID int64) ([]domain.FollowedArtist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.FollowedArtist
	for _, id := range m.follows[userID] {
		out = append(out, domain.FollowedArtist{Artist: domain.Artist{ID: id}})
	}
	return out, nil
}

func (m *mockFollowRepo) ArtistIDs(ctx context.Context, userID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return append([]int64(nil), m.follows[userID]...), nil
}

func (m *mockFollowRepo) Follow(ctx context.Context, userID, artistID int64) (domain.FollowStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.follows[userID] {
		if id == artistID {
			return domain.FollowExists, nil
		}
	}
	if m.follows == nil {
		m.follows = map[int64][]int64{}
	}
	m.follows[userID] = append(m.follows[userID], artistID)
	return domain.FollowCreated, nil
}

func (m *mockFollowRepo) Unfollow(ctx context.Context, userID, artistID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.follows[userID]
	for i, id := range ids {
		if id == artistID {
			m.follows[userID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu        sync.Mutex
	follows   []domain.FollowEvent
	playlists []domain.PlaylistEvent
}

func (m *mockPublisher) PublishFollowChanged(ctx context.Context, e *domain.FollowEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.follows = append(m.follows, *e)
	return nil
}

func (m *mockPublisher) PublishPlaylistComposed(ctx context.Context, e *domain.PlaylistEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playlists = append(m.playlists, *e)
	return nil
}

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool { return &v }
func int64Ptr(v int64) *int64 { return &v }
