package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS time_logs (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		clock_in_local  TEXT NOT NULL,
		clock_in_utc    TEXT NOT NULL,
		clock_out_local TEXT,
		clock_out_utc   TEXT,
		timezone        TEXT NOT NULL,
		note            TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_time_logs_user_in ON time_logs(user_id, clock_in_utc)`,

	// At most one open record per user.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_time_logs_open ON time_logs(user_id) WHERE clock_out_local IS NULL`,

	// Records force-closed by the shift cap are flagged.
	`ALTER TABLE time_logs ADD COLUMN auto_closed INTEGER NOT NULL DEFAULT 0`,
}
