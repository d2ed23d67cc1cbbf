package datastores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"
)

const (
	migrationTable  = "schema_migrations"
	migrateUpMark   = "-- +migrate Up"
	migrateDownMark = "-- +migrate Down"
)

// applyMigrations executes the *.sql files found at the root of fsys in
// lexical order, each at most once. Applied files are recorded in
// [migrationTable].
func applyMigrations(ctx context.Context, db *sql.DB, fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && path.Ext(entry.Name()) == ".sql" {
			files = append(files, entry.Name())
		}
	}
	slices.Sort(files)

	_, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		applied, err := isApplied(ctx, db, file)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		up := upMigration(string(content))
		if strings.TrimSpace(up) == "" {
			continue
		}

		if err := applyMigration(ctx, db, file, up); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, name, up string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint: errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, up); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`,
		name, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// upMigration returns the SQL between the Up and Down marks, or the whole
// content when there is no Up mark.
func upMigration(content string) string {
	_, up, found := strings.Cut(content, migrateUpMark)
	if !found {
		return content
	}
	up, _, _ = strings.Cut(up, migrateDownMark)
	return up
}

func isApplied(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var found int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM `+migrationTable+` WHERE name = ?`, name).Scan(&found)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	default:
		return false, err
	}
}
