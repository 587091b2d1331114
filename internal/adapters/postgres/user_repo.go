package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
)

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, username, created_at, updated_at FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return &u, nil
}

// UpsertBatch inserts users keyed by username. A non-zero ID is kept.
func (r *UserRepo) UpsertBatch(ctx context.Context, users []domain.User) error {
	batch := &pgx.Batch{}
	explicit := false
	for _, u := range users {
		if u.ID > 0 {
			explicit = true
			batch.Queue(`
				INSERT INTO users (id, username) VALUES ($1, $2)
				ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username, updated_at = now()
			`, u.ID, u.Username)
			continue
		}
		batch.Queue(`
			INSERT INTO users (username) VALUES ($1)
			ON CONFLICT (username) DO NOTHING
		`, u.Username)
	}
	if err := r.db.execBatch(ctx, batch); err != nil {
		return err
	}
	if explicit {
		return r.db.syncSequence(ctx, "users")
	}
	return nil
}
