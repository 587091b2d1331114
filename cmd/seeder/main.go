package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"github.com/rienbien8/Bloomix-backend/internal/adapters/postgres"
	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/config"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/logging"
)

// batchSize bounds the rows queued in one pgx batch.
const batchSize = 500

// Manifest is the seed file: the catalogue plus the bridges between it.
type Manifest struct {
	Users        []domain.User            `json:"users"`
	Artists      []domain.Artist          `json:"artists"`
	Spots        []domain.Spot            `json:"spots"`
	Contents     []domain.Content         `json:"contents"`
	SpotArtists  []domain.SpotArtistLink  `json:"spot_artists"`
	SpotContents []domain.SpotContentLink `json:"spot_contents"`
	Follows      []FollowEntry            `json:"follows"`
}

type FollowEntry struct {
	UserID   int64 `json:"user_id"`
	ArtistID int64 `json:"artist_id"`
}

func main() {
	cfg, err := config.Load("bloomix-seeder")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text", "bloomix-seeder")

	manifestPath := "manifest.json"
	if len(os.Args) > 1 {
		manifestPath = os.Args[1]
	}
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		log.Fatalf("read manifest: %v", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		log.Fatalf("parse manifest: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	start := time.Now()
	if err := seed(ctx, db, &m); err != nil {
		color.Red("FAIL %v", err)
		os.Exit(1)
	}
	color.New(color.Bold).Printf("seeded %s in %s\n", manifestPath, time.Since(start).Round(time.Millisecond))
}

// seed writes parents before the bridges that reference them.
func seed(ctx context.Context, db *postgres.DB, m *Manifest) error {
	users := postgres.NewUserRepo(db)
	artists := postgres.NewArtistRepo(db)
	spots := postgres.NewSpotRepo(db)
	contents := postgres.NewContentRepo(db)
	follows := postgres.NewFollowRepo(db)

	steps := []struct {
		name string
		run  func() (int, error)
	}{
		{"users", func() (int, error) { return inChunks(m.Users, func(b []domain.User) error { return users.UpsertBatch(ctx, b) }) }},
		{"artists", func() (int, error) {
			return inChunks(m.Artists, func(b []domain.Artist) error { return artists.UpsertBatch(ctx, b) })
		}},
		{"spots", func() (int, error) { return inChunks(m.Spots, func(b []domain.Spot) error { return spots.UpsertBatch(ctx, b) }) }},
		{"contents", func() (int, error) {
			return inChunks(m.Contents, func(b []domain.Content) error { return contents.UpsertBatch(ctx, b) })
		}},
		{"spot_artists", func() (int, error) {
			return inChunks(m.SpotArtists, func(b []domain.SpotArtistLink) error { return spots.LinkArtists(ctx, b) })
		}},
		{"spot_contents", func() (int, error) {
			return inChunks(m.SpotContents, func(b []domain.SpotContentLink) error { return spots.LinkContents(ctx, b) })
		}},
		{"follows", func() (int, error) {
			for _, f := range m.Follows {
				if _, err := follows.Follow(ctx, f.UserID, f.ArtistID); err != nil {
					return 0, fmt.Errorf("user %d artist %d: %w", f.UserID, f.ArtistID, err)
				}
			}
			return len(m.Follows), nil
		}},
	}

	for _, s := range steps {
		n, err := s.run()
		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		slog.Debug("seed step done", "step", s.name, "rows", n)
		color.Green("OK  %-14s %6d", s.name, n)
	}
	return nil
}

func inChunks[T any](items []T, write func([]T) error) (int, error) {
	for start := 0; start < len(items); start += batchSize {
		end := min(start+batchSize, len(items))
		if err := write(items[start:end]); err != nil {
			return start, err
		}
	}
	return len(items), nil
}
