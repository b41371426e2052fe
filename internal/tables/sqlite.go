package tables

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/ngmaloney/nz-tides/internal/database"
	"github.com/ngmaloney/nz-tides/internal/models"
)

// SQLiteSource serves tables stored in the tide_tables table of a SQLite
// database. Safe for concurrent use.
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLiteSource opens (and if needed creates) the database at dbPath
func OpenSQLiteSource(dbPath string) (*SQLiteSource, error) {
	db, err := database.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &SQLiteSource{db: db}, nil
}

// NewSQLiteSource wraps an already open database. The tide_tables schema must exist.
func NewSQLiteSource(db *sql.DB) *SQLiteSource {
	return &SQLiteSource{db: db}
}

// Close closes the underlying database
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Open implements Source
func (s *SQLiteSource) Open(ctx context.Context, port models.Port, year int) (io.ReadCloser, error) {
	var content string
	err := s.db.QueryRowContext(ctx,
		"SELECT content FROM tide_tables WHERE port = ? AND year = ?",
		port.Key(), year,
	).Scan(&content)

	if err == sql.ErrNoRows {
		return nil, notFound(port, year)
	}
	if err != nil {
		return nil, fmt.Errorf("querying tide table: %w", err)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

// Years implements YearLister
func (s *SQLiteSource) Years(ctx context.Context, port models.Port) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT year FROM tide_tables WHERE port = ? ORDER BY year", port.Key())
	if err != nil {
		return nil, fmt.Errorf("querying years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("scanning year: %w", err)
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

// NeedsImport reports whether the database holds no tables yet
func (s *SQLiteSource) NeedsImport(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tide_tables").Scan(&count); err != nil {
		return false, fmt.Errorf("counting tide tables: %w", err)
	}
	return count == 0, nil
}

// saveTableQuery stores (or replaces) the table for a port and year
const saveTableQuery = `
	INSERT INTO tide_tables (port, year, content, imported_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(port, year) DO UPDATE SET
		content = excluded.content,
		imported_at = excluded.imported_at
`
