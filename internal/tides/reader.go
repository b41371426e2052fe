package tides

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ngmaloney/nz-tides/internal/logging"
	"github.com/ngmaloney/nz-tides/internal/models"
	"github.com/ngmaloney/nz-tides/internal/tables"
)

const dateFormat = "2006/01/02"

// Reader fetches the raw record for one day from a port's yearly tide table
type Reader struct {
	source tables.Source
	logger *log.Logger
}

// NewReader creates a reader over source. A nil logger discards diagnostics.
func NewReader(source tables.Source, logger *log.Logger) *Reader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Reader{source: source, logger: logger}
}

// FetchRecordLine returns the record for date's calendar day, verbatim apart
// from the line terminator. Line i of the table holds day-of-year i+1.
func (r *Reader) FetchRecordLine(ctx context.Context, port models.Port, date time.Time) (string, error) {
	year := date.Year()
	r.logger.Debug("opening tide table", "path", tables.TablePath(port, year))

	rc, err := r.source.Open(ctx, port, year)
	if errors.Is(err, tables.ErrNotFound) {
		r.logger.Warn("port data not found", "port", port.ID(), "year", year)
		return "", &PortDataNotFoundError{Port: port, Year: year}
	}
	if err != nil {
		return "", fmt.Errorf("opening %s tide table for %d: %w", port, year, err)
	}
	defer rc.Close()

	index := date.YearDay() - 1
	scanner := bufio.NewScanner(rc)
	for line := 0; scanner.Scan(); line++ {
		if line == index {
			record := scanner.Text()
			r.logger.Debug("tide record", "port", port.ID(), "date", date.Format(dateFormat), "record", record)
			return record, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading %s tide table for %d: %w", port, year, err)
	}

	return "", &FormatError{
		Port:   port,
		Date:   date,
		Reason: fmt.Sprintf("table has no record for day %d of %d", index+1, year),
	}
}
