// Package tables provides access to raw per-port, per-year tide tables.
//
// A table is an opaque text blob with one line per day of the year. Sources
// only locate and return the blob; interpreting it is left to the tides
// package.
package tables

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/ngmaloney/nz-tides/internal/models"
)

// ErrNotFound is returned by a Source that holds no table for the requested
// port and year.
var ErrNotFound = errors.New("tide table not found")

// Source provides the raw tide table for a port and year
type Source interface {
	// Open returns a reader over the table. Errors wrapping ErrNotFound
	// mean the table does not exist.
	Open(ctx context.Context, port models.Port, year int) (io.ReadCloser, error)
}

// YearLister is implemented by sources that can enumerate their tables.
type YearLister interface {
	Years(ctx context.Context, port models.Port) ([]int, error)
}

// TablePath returns the slash-separated location of a port's table for a
// year, relative to the data root: "<port key>/<year>.csv".
func TablePath(port models.Port, year int) string {
	return path.Join(port.Key(), strconv.Itoa(year)+".csv")
}

// ParseTablePath is the inverse of TablePath.
func ParseTablePath(p string) (models.Port, int, error) {
	dir, file := path.Split(path.Clean(p))
	dir = strings.TrimSuffix(dir, "/")
	if dir == "" || path.Dir(dir) != "." || path.Ext(file) != ".csv" {
		return 0, 0, fmt.Errorf("%q is not a <port>/<year>.csv table path", p)
	}

	port, err := models.ParsePort(dir)
	if err != nil {
		return 0, 0, err
	}
	year, err := strconv.Atoi(strings.TrimSuffix(file, ".csv"))
	if err != nil {
		return 0, 0, fmt.Errorf("table %q has no year: %w", p, err)
	}
	return port, year, nil
}

func notFound(port models.Port, year int) error {
	return fmt.Errorf("%s: %w", TablePath(port, year), ErrNotFound)
}
