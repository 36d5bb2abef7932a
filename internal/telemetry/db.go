package telemetry

import (
	"database/sql"
	"embed"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/hallgate/hallgated/internal/security"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps a SQLite connection with the PRAGMAs the core needs for a
// single-writer telemetry sink.
type DB struct {
	*sql.DB
}

// Open opens (creating if necessary) the SQLite database at path,
// applies performance PRAGMAs, and migrates it to the latest schema.
func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if err := security.ValidateExportPath(path); err != nil {
			return nil, fmt.Errorf("telemetry: database path rejected: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %q: %w", path, err)
	}

	db := &DB{sqlDB}
	if err := db.applyPragmas(); err != nil {
		db.Close()
		return nil, err
	}
	if err := db.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) applyPragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("telemetry: pragma %q: %w", p, err)
		}
	}
	return nil
}
