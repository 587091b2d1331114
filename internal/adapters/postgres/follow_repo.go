package postgres

import (
	"context"
	"fmt"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
)

// FollowRepo implements ports.FollowRepository over user_artist.
type FollowRepo struct {
	db *DB
}

func NewFollowRepo(db *DB) *FollowRepo {
	return &FollowRepo{db: db}
}

func (r *FollowRepo) ListArtists(ctx context.Context, userID int64) ([]domain.FollowedArtist, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT a.id, a.name, a.category, a.description, a.image_url, a.created_at, a.updated_at,
		       ua.registered_at
		FROM user_artist ua
		JOIN artists a ON a.id = ua.artist_id
		WHERE ua.user_id = $1
		ORDER BY ua.registered_at DESC, a.id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.FollowedArtist{}
	for rows.Next() {
		var f domain.FollowedArtist
		if err := rows.Scan(
			&f.ID, &f.Name, &f.Category, &f.Description, &f.ImageURL, &f.CreatedAt, &f.UpdatedAt,
			&f.RegisteredAt,
		); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FollowRepo) ArtistIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT artist_id FROM user_artist WHERE user_id = $1 ORDER BY artist_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Follow inserts the pair; an existing follow reports FollowExists.
func (r *FollowRepo) Follow(ctx context.Context, userID, artistID int64) (domain.FollowStatus, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		INSERT INTO user_artist (user_id, artist_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, artistID)
	if err != nil {
		return "", fmt.Errorf("insert follow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.FollowExists, nil
	}
	return domain.FollowCreated, nil
}

func (r *FollowRepo) Unfollow(ctx context.Context, userID, artistID int64) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM user_artist WHERE user_id = $1 AND artist_id = $2`, userID, artistID)
	return err
}
