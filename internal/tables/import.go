package tables

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sync"
)

var importMu sync.Mutex

// Import copies every <port>/<year>.csv table found in fsys into the SQLite
// source, replacing existing tables. Files that are not tables are skipped.
// Progress messages are sent on progressChan when it is non-nil.
func (s *SQLiteSource) Import(ctx context.Context, fsys fs.FS, progressChan chan<- string) (int, error) {
	importMu.Lock()
	defer importMu.Unlock()

	sendProgress := func(msg string) {
		if progressChan != nil {
			progressChan <- msg
		}
	}

	type table struct {
		path    string
		content string
	}
	var found []table

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".csv" {
			return nil
		}
		if _, _, err := ParseTablePath(p); err != nil {
			sendProgress(fmt.Sprintf("Skipping %s: %v", p, err))
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		found = append(found, table{path: p, content: string(data)})
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walking tables: %w", err)
	}

	sendProgress(fmt.Sprintf("Found %d tide tables", len(found)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() // Rollback on error

	stmt, err := tx.PrepareContext(ctx, saveTableQuery)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for _, t := range found {
		port, year, _ := ParseTablePath(t.path)
		if _, err := stmt.ExecContext(ctx, port.Key(), year, t.content); err != nil {
			return count, fmt.Errorf("inserting %s: %w", t.path, err)
		}
		count++
		sendProgress(fmt.Sprintf("Imported %s %d", port, year))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	sendProgress(fmt.Sprintf("Successfully imported %d tide tables", count))
	return count, nil
}
