package main

import (
	"io/fs"
	"slices"

	"github.com/rienbien8/Bloomix-backend/migrations"
)

// migrationNames lists the embedded migrations in the order they run.
func migrationNames() ([]string, error) {
	names, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}
