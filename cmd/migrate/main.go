package main

import (
	"context"
	"log"
	"os"

	"github.com/fatih/color"

	"github.com/rienbien8/Bloomix-backend/internal/adapters/postgres"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/config"
	"github.com/rienbien8/Bloomix-backend/migrations"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|list>")
	}

	switch os.Args[1] {
	case "list":
		names, err := migrationNames()
		if err != nil {
			log.Fatalf("list: %v", err)
		}
		for _, n := range names {
			color.Cyan("  %s", n)
		}
		return
	case "up":
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}

	cfg, err := config.Load("bloomix-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	applied := 0
	err = db.Migrate(ctx, migrations.FS, func(name string) {
		applied++
		color.Green("OK  %s", name)
	})
	if err != nil {
		color.Red("FAIL %v", err)
		os.Exit(1)
	}
	color.New(color.Bold).Printf("%d migrations applied\n", applied)
}
