package tables

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"github.com/ngmaloney/nz-tides/internal/models"
)

// FSSource reads tables laid out as <port>/<year>.csv in a file system,
// typically an embed.FS or a data directory.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource creates a source over fsys
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource creates a source over a directory on disk
func NewDirSource(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir))
}

// Open implements Source
func (s *FSSource) Open(ctx context.Context, port models.Port, year int) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.fsys.Open(TablePath(port, year))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(port, year)
	}
	if err != nil {
		return nil, fmt.Errorf("opening table: %w", err)
	}
	return f, nil
}

// Years implements YearLister
func (s *FSSource) Years(ctx context.Context, port models.Port) ([]int, error) {
	entries, err := fs.ReadDir(s.fsys, port.Key())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s tables: %w", port.Key(), err)
	}

	var years []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		p, year, err := ParseTablePath(port.Key() + "/" + entry.Name())
		if err != nil || p != port {
			continue
		}
		years = append(years, year)
	}
	sort.Ints(years)
	return years, nil
}
