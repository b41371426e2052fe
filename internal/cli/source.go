package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ngmaloney/nz-tides/data"
	"github.com/ngmaloney/nz-tides/internal/config"
	"github.com/ngmaloney/nz-tides/internal/tables"
	"github.com/ngmaloney/nz-tides/internal/tides"
)

// openSource builds the configured table source. A SQLite database with no
// tables is filled from the bundled tables first unless deferImport is set,
// in which case the caller is responsible for importing.
func (a *app) openSource(ctx context.Context, deferImport bool) (tables.Source, error) {
	switch a.cfg.Source {
	case config.SourceEmbedded:
		return tables.NewFSSource(data.Tables), nil

	case config.SourceDir:
		return tables.NewDirSource(a.cfg.DataDir), nil

	case config.SourceHTTP:
		return tables.NewHTTPSource(a.cfg.BaseURL, a.cfg.HTTPTimeout), nil

	case config.SourceSQLite:
		src, err := a.openSQLite()
		if err != nil {
			return nil, err
		}
		if deferImport {
			return src, nil
		}

		needed, err := src.NeedsImport(ctx)
		if err != nil {
			return nil, err
		}
		if needed {
			a.logger.Info("importing bundled tide tables", "db", a.cfg.DBPath)
			if _, err := src.Import(ctx, data.Tables, nil); err != nil {
				return nil, err
			}
		}
		return src, nil
	}

	return nil, fmt.Errorf("unknown source %q", a.cfg.Source)
}

func (a *app) openSQLite() (*tables.SQLiteSource, error) {
	if dir := filepath.Dir(a.cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	src, err := tables.OpenSQLiteSource(a.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, src)
	return src, nil
}

func (a *app) resolver(ctx context.Context) (*tides.Resolver, error) {
	src, err := a.openSource(ctx, false)
	if err != nil {
		return nil, err
	}
	return tides.NewResolver(src, a.logger), nil
}
