package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

// Migrate executes every *.sql file of fsys in name order and reports the
// applied file names. Statements must be idempotent.
func (db *DB) Migrate(ctx context.Context, fsys fs.FS, applied func(name string)) error {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	slices.Sort(names)

	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			continue
		}
		if _, err := db.Pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("exec %s: %w", name, err)
		}
		if applied != nil {
			applied(name)
		}
	}
	return nil
}
