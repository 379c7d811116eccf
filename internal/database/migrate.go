package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// MigrationFiles lists the "*.<direction>.sql" files in fsys in the order
// they must run: ascending for up, descending for down.
func MigrationFiles(fsys fs.FS, direction string) ([]string, error) {
	if direction != "up" && direction != "down" {
		return nil, fmt.Errorf("direction must be 'up' or 'down', got %q", direction)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migration directory: %w", err)
	}

	suffix := "." + direction + ".sql"
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), suffix) {
			files = append(files, entry.Name())
		}
	}

	slices.Sort(files)
	if direction == "down" {
		slices.Reverse(files)
	}
	return files, nil
}

// Migrate applies every migration for direction, each in its own transaction.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS, direction string) (int, error) {
	files, err := MigrationFiles(fsys, direction)
	if err != nil {
		return 0, err
	}

	for _, filename := range files {
		content, err := fs.ReadFile(fsys, filename)
		if err != nil {
			return 0, fmt.Errorf("read migration file %s: %w", filename, err)
		}

		zap.L().Info("running migration", zap.String("file", filename))
		err = WithRetry(ctx, db, DefaultTxOptions(), func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, string(content))
			return err
		})
		if err != nil {
			return 0, fmt.Errorf("execute migration %s: %w", filename, err)
		}
	}

	return len(files), nil
}
