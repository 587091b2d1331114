package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
)

// ArtistRepo implements ports.ArtistRepository.
type ArtistRepo struct {
	db *DB
}

func NewArtistRepo(db *DB) *ArtistRepo {
	return &ArtistRepo{db: db}
}

const artistColumns = `id, name, category, description, image_url, created_at, updated_at`

func scanArtist(row pgx.Row, a *domain.Artist) error {
	return row.Scan(&a.ID, &a.Name, &a.Category, &a.Description, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt)
}

// UpsertBatch inserts artists keyed by ID when set, by name otherwise.
func (r *ArtistRepo) UpsertBatch(ctx context.Context, artists []domain.Artist) error {
	batch := &pgx.Batch{}
	explicit := false
	for _, a := range artists {
		if a.ID > 0 {
			explicit = true
			batch.Queue(`
				INSERT INTO artists (id, name, category, description, image_url)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO UPDATE
				SET name = EXCLUDED.name, category = EXCLUDED.category,
				    description = EXCLUDED.description, image_url = EXCLUDED.image_url, updated_at = now()
			`, a.ID, a.Name, a.Category, a.Description, a.ImageURL)
			continue
		}
		batch.Queue(`
			INSERT INTO artists (name, category, description, image_url)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO UPDATE
			SET category = EXCLUDED.category, description = EXCLUDED.description,
			    image_url = EXCLUDED.image_url, updated_at = now()
		`, a.Name, a.Category, a.Description, a.ImageURL)
	}
	if err := r.db.execBatch(ctx, batch); err != nil {
		return err
	}
	if explicit {
		return r.db.syncSequence(ctx, "artists")
	}
	return nil
}

func (r *ArtistRepo) GetByID(ctx context.Context, id int64) (*domain.Artist, error) {
	var a domain.Artist
	row := r.db.Pool.QueryRow(ctx, `SELECT `+artistColumns+` FROM artists WHERE id = $1`, id)
	if err := scanArtist(row, &a); err != nil {
		return nil, notFound(err, "artist", id)
	}
	return &a, nil
}

// List filters by name/description substring and exact category, ordered by name.
func (r *ArtistRepo) List(ctx context.Context, f domain.ArtistFilter) ([]domain.Artist, int, error) {
	var where []string
	var args []any
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM artists`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count artists: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	rows, err := r.db.Pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM artists%s
		ORDER BY name, id
		LIMIT $%d OFFSET $%d
	`, artistColumns, clause, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	artists := []domain.Artist{}
	for rows.Next() {
		var a domain.Artist
		if err := scanArtist(rows, &a); err != nil {
			return nil, 0, err
		}
		artists = append(artists, a)
	}
	return artists, total, rows.Err()
}
