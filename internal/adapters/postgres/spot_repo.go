package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
)

// SpotRepo implements ports.SpotRepository with plain lat/lng columns.
type SpotRepo struct {
	db *DB
}

// NewSpotRepo creates a new SpotRepo.
func NewSpotRepo(db *DB) *SpotRepo {
	return &SpotRepo{db: db}
}

const spotColumns = `id, name, lat, lng, type, is_special, dwell_min, address, place_id, description, created_at, updated_at`

func scanSpot(row pgx.Row, s *domain.Spot) error {
	return row.Scan(
		&s.ID, &s.Name, &s.Location.Lat, &s.Location.Lng,
		&s.Type, &s.IsSpecial, &s.DwellMin, &s.Address, &s.PlaceID, &s.Description,
		&s.CreatedAt, &s.UpdatedAt,
	)
}

// UpsertBatch inserts many spots using pgx.Batch. Spots with an ID are
// updated in place.
func (r *SpotRepo) UpsertBatch(ctx context.Context, spots []domain.Spot) error {
	batch := &pgx.Batch{}
	explicit := false
	for _, s := range spots {
		if s.ID > 0 {
			explicit = true
			batch.Queue(`
				INSERT INTO spots (id, name, lat, lng, type, is_special, dwell_min, address, place_id, description)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				ON CONFLICT (id) DO UPDATE
				SET name = EXCLUDED.name, lat = EXCLUDED.lat, lng = EXCLUDED.lng,
				    type = EXCLUDED.type, is_special = EXCLUDED.is_special,
				    dwell_min = EXCLUDED.dwell_min, address = EXCLUDED.address,
				    place_id = EXCLUDED.place_id, description = EXCLUDED.description,
				    updated_at = now()
			`, s.ID, s.Name, s.Location.Lat, s.Location.Lng, s.Type, s.IsSpecial,
				s.DwellMin, s.Address, s.PlaceID, s.Description)
			continue
		}
		batch.Queue(`
			INSERT INTO spots (name, lat, lng, type, is_special, dwell_min, address, place_id, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, s.Name, s.Location.Lat, s.Location.Lng, s.Type, s.IsSpecial,
			s.DwellMin, s.Address, s.PlaceID, s.Description)
	}
	if err := r.db.execBatch(ctx, batch); err != nil {
		return err
	}
	if explicit {
		return r.db.syncSequence(ctx, "spots")
	}
	return nil
}

// LinkArtists records spot ↔ artist bridges; existing links are kept.
func (r *SpotRepo) LinkArtists(ctx context.Context, links []domain.SpotArtistLink) error {
	batch := &pgx.Batch{}
	for _, l := range links {
		batch.Queue(`
			INSERT INTO spot_artist (spot_id, artist_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, l.SpotID, l.ArtistID)
	}
	return r.db.execBatch(ctx, batch)
}

// LinkContents records spot ↔ content bridges; existing links are kept.
func (r *SpotRepo) LinkContents(ctx context.Context, links []domain.SpotContentLink) error {
	batch := &pgx.Batch{}
	for _, l := range links {
		batch.Queue(`
			INSERT INTO spot_content (spot_id, content_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, l.SpotID, l.ContentID)
	}
	return r.db.execBatch(ctx, batch)
}

// GetByID returns a spot by ID.
func (r *SpotRepo) GetByID(ctx context.Context, id int64) (*domain.Spot, error) {
	var s domain.Spot
	row := r.db.Pool.QueryRow(ctx, `SELECT `+spotColumns+` FROM spots WHERE id = $1`, id)
	if err := scanSpot(row, &s); err != nil {
		return nil, notFound(err, "spot", id)
	}
	return &s, nil
}

// InBounds returns spots inside the box. Rows are unordered; callers sort
// by distance. f.Limit caps the candidate set when positive.
func (r *SpotRepo) InBounds(ctx context.Context, f domain.SpotFilter) ([]domain.Spot, error) {
	b := f.Bounds
	args := []any{b.MinLat, b.MaxLat, b.MinLng, b.MaxLng}
	where := []string{"lat BETWEEN $1 AND $2", "lng BETWEEN $3 AND $4"}
	if f.IsSpecial != nil {
		args = append(args, *f.IsSpecial)
		where = append(where, fmt.Sprintf("is_special = $%d", len(args)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%[1]d OR description ILIKE $%[1]d)", len(args)))
	}
	query := `SELECT ` + spotColumns + ` FROM spots WHERE ` + strings.Join(where, " AND ")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spots := []domain.Spot{}
	for rows.Next() {
		var s domain.Spot
		if err := scanSpot(rows, &s); err != nil {
			return nil, err
		}
		spots = append(spots, s)
	}
	return spots, rows.Err()
}
