package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
)

// ContentRepo implements ports.ContentRepository.
type ContentRepo struct {
	db *DB
}

func NewContentRepo(db *DB) *ContentRepo {
	return &ContentRepo{db: db}
}

const contentColumns = `c.id, c.title, c.media_type, c.media_url, c.youtube_id, c.lang,
	c.thumbnail_url, c.duration_min, c.artist_id, a.name, c.created_at, c.updated_at`

func scanContent(row pgx.Row, c *domain.Content) error {
	var dur *int16
	if err := row.Scan(
		&c.ID, &c.Title, &c.MediaType, &c.MediaURL, &c.YoutubeID, &c.Lang,
		&c.ThumbnailURL, &dur, &c.ArtistID, &c.ArtistName, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return err
	}
	if dur != nil {
		d := int(*dur)
		c.DurationMin = &d
	}
	return nil
}

func collectContents(rows pgx.Rows) ([]domain.Content, error) {
	defer rows.Close()
	contents := []domain.Content{}
	for rows.Next() {
		var c domain.Content
		if err := scanContent(rows, &c); err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

// UpsertBatch inserts contents; an ID makes the row updatable.
func (r *ContentRepo) UpsertBatch(ctx context.Context, contents []domain.Content) error {
	batch := &pgx.Batch{}
	explicit := false
	for _, c := range contents {
		if c.ID > 0 {
			explicit = true
			batch.Queue(`
				INSERT INTO contents (id, title, media_type, media_url, youtube_id, lang, thumbnail_url, duration_min, artist_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (id) DO UPDATE
				SET title = EXCLUDED.title, media_type = EXCLUDED.media_type,
				    media_url = EXCLUDED.media_url, youtube_id = EXCLUDED.youtube_id,
				    lang = EXCLUDED.lang, thumbnail_url = EXCLUDED.thumbnail_url,
				    duration_min = EXCLUDED.duration_min, artist_id = EXCLUDED.artist_id,
				    updated_at = now()
			`, c.ID, c.Title, c.MediaType, c.MediaURL, c.YoutubeID, c.Lang,
				c.ThumbnailURL, c.DurationMin, c.ArtistID)
			continue
		}
		batch.Queue(`
			INSERT INTO contents (title, media_type, media_url, youtube_id, lang, thumbnail_url, duration_min, artist_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, c.Title, c.MediaType, c.MediaURL, c.YoutubeID, c.Lang,
			c.ThumbnailURL, c.DurationMin, c.ArtistID)
	}
	if err := r.db.execBatch(ctx, batch); err != nil {
		return err
	}
	if explicit {
		return r.db.syncSequence(ctx, "contents")
	}
	return nil
}

// Search filters contents by spot, by artist through the spot bridge and by
// follower through followed artists' spots. Contents with a known duration
// come first, shortest first, then by id.
func (r *ContentRepo) Search(ctx context.Context, f domain.ContentFilter) ([]domain.Content, error) {
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.SpotID != nil {
		where = append(where, `EXISTS (SELECT 1 FROM spot_content sc
			WHERE sc.content_id = c.id AND sc.spot_id = `+arg(*f.SpotID)+`)`)
	}
	if f.ArtistID != nil {
		where = append(where, `EXISTS (SELECT 1 FROM spot_content sc
			JOIN spot_artist sa ON sa.spot_id = sc.spot_id
			WHERE sc.content_id = c.id AND sa.artist_id = `+arg(*f.ArtistID)+`)`)
	}
	if f.FollowerID != nil {
		where = append(where, `EXISTS (SELECT 1 FROM spot_content sc
			JOIN spot_artist sa ON sa.spot_id = sc.spot_id
			JOIN user_artist ua ON ua.artist_id = sa.artist_id
			WHERE sc.content_id = c.id AND ua.user_id = `+arg(*f.FollowerID)+`)`)
	}
	if len(f.Languages) > 0 {
		where = append(where, "c.lang = ANY("+arg(f.Languages)+")")
	}
	if f.MinDuration != nil {
		where = append(where, "c.duration_min >= "+arg(*f.MinDuration))
	}
	if f.MaxDuration != nil {
		where = append(where, "c.duration_min <= "+arg(*f.MaxDuration))
	}

	query := `SELECT ` + contentColumns + ` FROM contents c LEFT JOIN artists a ON a.id = c.artist_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.duration_min IS NULL, c.duration_min, c.id LIMIT " + arg(f.Limit)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search contents: %w", err)
	}
	return collectContents(rows)
}

// ListForArtists returns contents attributed directly to artistIDs, then
// those reached through a spot linked to one of them. A content matching
// both ways appears once, in the direct group.
func (r *ContentRepo) ListForArtists(ctx context.Context, artistIDs []int64) ([]domain.Content, error) {
	if len(artistIDs) == 0 {
		return []domain.Content{}, nil
	}
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+contentColumns+`
		FROM contents c
		LEFT JOIN artists a ON a.id = c.artist_id
		WHERE c.artist_id = ANY($1)
		   OR EXISTS (SELECT 1 FROM spot_content sc
		              JOIN spot_artist sa ON sa.spot_id = sc.spot_id
		              WHERE sc.content_id = c.id AND sa.artist_id = ANY($1))
		ORDER BY (c.artist_id IS NOT NULL AND c.artist_id = ANY($1)) DESC, c.id
	`, artistIDs)
	if err != nil {
		return nil, fmt.Errorf("list contents for artists: %w", err)
	}
	return collectContents(rows)
}

// Associations loads the direct artist and the spot-bridged artists of each
// content, plus the names of every artist referenced.
func (r *ContentRepo) Associations(ctx context.Context, contentIDs []int64) (domain.ContentAssociations, error) {
	assoc := domain.ContentAssociations{
		Direct:      map[int64][]int64{},
		Bridged:     map[int64][]int64{},
		ArtistNames: map[int64]string{},
	}
	if len(contentIDs) == 0 {
		return assoc, nil
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT c.id, c.artist_id, 0 AS bridged
		FROM contents c
		WHERE c.id = ANY($1) AND c.artist_id IS NOT NULL
		UNION
		SELECT sc.content_id, sa.artist_id, 1 AS bridged
		FROM spot_content sc
		JOIN spot_artist sa ON sa.spot_id = sc.spot_id
		WHERE sc.content_id = ANY($1)
		ORDER BY 3, 1, 2
	`, contentIDs)
	if err != nil {
		return assoc, fmt.Errorf("content associations: %w", err)
	}
	defer rows.Close()

	artistSet := map[int64]struct{}{}
	for rows.Next() {
		var contentID, artistID int64
		var bridged int
		if err := rows.Scan(&contentID, &artistID, &bridged); err != nil {
			return assoc, err
		}
		if bridged == 0 {
			assoc.Direct[contentID] = append(assoc.Direct[contentID], artistID)
		} else {
			assoc.Bridged[contentID] = append(assoc.Bridged[contentID], artistID)
		}
		artistSet[artistID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return assoc, err
	}
	if len(artistSet) == 0 {
		return assoc, nil
	}

	ids := make([]int64, 0, len(artistSet))
	for id := range artistSet {
		ids = append(ids, id)
	}
	nameRows, err := r.db.Pool.Query(ctx, `SELECT id, name FROM artists WHERE id = ANY($1)`, ids)
	if err != nil {
		return assoc, fmt.Errorf("artist names: %w", err)
	}
	defer nameRows.Close()
	for nameRows.Next() {
		var id int64
		var name string
		if err := nameRows.Scan(&id, &name); err != nil {
			return assoc, err
		}
		assoc.ArtistNames[id] = name
	}
	return assoc, nameRows.Err()
}
