package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

const migrationTable = "schema_migrations"

// Migrate applies (up) or reverts (down) the *.{up,down}.sql files found at
// the root of fsys. Applied versions are recorded in schema_migrations so
// repeated runs are idempotent. It returns the files that were executed.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS, direction Direction) ([]string, error) {
	if direction != DirectionUp && direction != DirectionDown {
		return nil, fmt.Errorf("unknown migration direction %q", direction)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+migrationTable+` (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return nil, fmt.Errorf("ensure migration table: %w", err)
	}

	files, err := migrationFiles(fsys, direction)
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, filename := range files {
		version := strings.TrimSuffix(filename, "."+string(direction)+".sql")

		applied, err := isApplied(ctx, db, version)
		if err != nil {
			return ran, fmt.Errorf("check migration %s: %w", version, err)
		}
		if applied == (direction == DirectionUp) {
			continue
		}

		content, err := fs.ReadFile(fsys, filename)
		if err != nil {
			return ran, fmt.Errorf("read migration file %s: %w", filename, err)
		}

		err = WithTransaction(ctx, db, DefaultTxOptions(), func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(content)); err != nil {
				return fmt.Errorf("execute migration %s: %w", filename, err)
			}
			if direction == DirectionUp {
				_, err = tx.ExecContext(ctx, `INSERT INTO `+migrationTable+` (version) VALUES ($1)`, version)
			} else {
				_, err = tx.ExecContext(ctx, `DELETE FROM `+migrationTable+` WHERE version = $1`, version)
			}
			if err != nil {
				return fmt.Errorf("record migration %s: %w", version, err)
			}
			return nil
		})
		if err != nil {
			return ran, err
		}
		ran = append(ran, filename)
	}

	return ran, nil
}

func migrationFiles(fsys fs.FS, direction Direction) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migration directory: %w", err)
	}

	suffix := "." + string(direction) + ".sql"
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), suffix) {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)
	if direction == DirectionDown {
		for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
			files[i], files[j] = files[j], files[i]
		}
	}
	return files, nil
}

func isApplied(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM `+migrationTable+` WHERE version = $1)`,
		version).Scan(&exists)
	return exists, err
}
