package tides

import (
	"errors"
	"fmt"
	"time"

	"github.com/ngmaloney/nz-tides/internal/models"
)

var (
	// ErrPortDataNotFound matches any *PortDataNotFoundError.
	ErrPortDataNotFound = errors.New("port data not found")

	// ErrFormatMismatch matches any *FormatError.
	ErrFormatMismatch = errors.New("tide record format mismatch")
)

// PortDataNotFoundError reports that no tide table exists for a port and
// year. It is the expected outcome of querying outside the available data.
type PortDataNotFoundError struct {
	Port models.Port
	Year int
}

func (e *PortDataNotFoundError) Error() string {
	return fmt.Sprintf("the port %s (%s) data was not found for the year %d", e.Port, e.Port.ID(), e.Year)
}

// Is makes errors.Is(err, ErrPortDataNotFound) hold.
func (e *PortDataNotFoundError) Is(target error) bool {
	return target == ErrPortDataNotFound
}

// FormatError reports a tide record that cannot be trusted: its embedded
// date disagrees with the date it was fetched for, or a field is malformed.
type FormatError struct {
	Port   models.Port
	Date   time.Time
	Record string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%s tide record for %s: %s", e.Port, e.Date.Format(dateFormat), e.Reason)
	if e.Record != "" {
		msg += fmt.Sprintf(" (record %q)", e.Record)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrFormatMismatch) hold.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormatMismatch
}
