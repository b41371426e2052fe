package database

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBPath returns the default path of the tide table database
func DBPath() string {
	return filepath.Join("data", "nz-tides.db")
}

// Open opens the database at dbPath and ensures the tide table schema exists.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	// Set pragmas for performance
	_, _ = db.Exec("PRAGMA journal_mode=WAL")
	_, _ = db.Exec("PRAGMA synchronous=NORMAL")
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS tide_tables (
			port TEXT NOT NULL,
			year INTEGER NOT NULL,
			content TEXT NOT NULL,
			imported_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (port, year)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating tide_tables table: %w", err)
	}
	return nil
}
