package tides

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ngmaloney/nz-tides/internal/models"
)

// Record layout, comma delimited:
//
//	[0] day of month   [1] weekday (ignored)   [2] month, 1-based   [3] year
//	[4,6,8,10] tide time "HH:MM"   [5,7,9,11] tide height in metres
//
// Trailing pairs are empty on days with fewer than four tides.
const (
	fieldDay       = 0
	fieldMonth     = 2
	fieldYear      = 3
	firstTideField = 4

	minTides     = 2
	maxTides     = 4
	recordFields = firstTideField + 2*maxTides
)

// DecodeDay parses a day record into its tide events, in record order.
//
// The record only carries times and heights. Polarity comes from the first
// two tides (the higher one is the high tide) and then alternates. The
// record's own date must match date, otherwise a *FormatError is returned.
func DecodeDay(port models.Port, date time.Time, record string) ([]models.TideEvent, error) {
	fail := func(err error, format string, args ...interface{}) error {
		return &FormatError{Port: port, Date: date, Record: record, Reason: fmt.Sprintf(format, args...), Err: err}
	}

	fields := strings.Split(record, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < firstTideField+2*minTides {
		return nil, fail(nil, "has %d fields, want at least %d", len(fields), firstTideField+2*minTides)
	}

	if err := checkDate(fields, date); err != nil {
		return nil, fail(err, "date does not match")
	}

	var events []models.TideEvent
	var prev models.TideType
	for i := 0; i < maxTides; i++ {
		timeField := firstTideField + 2*i
		if timeField >= len(fields) || fields[timeField] == "" {
			if i < minTides {
				return nil, fail(nil, "has %d tides, want at least %d", i, minTides)
			}
			if err := checkRestEmpty(fields, timeField); err != nil {
				return nil, fail(nil, "%v", err)
			}
			break
		}
		if timeField+1 >= len(fields) {
			return nil, fail(nil, "tide %d has no height", i+1)
		}

		at, err := parseTideTime(date, fields[timeField])
		if err != nil {
			return nil, fail(err, "tide %d has a bad time %q", i+1, fields[timeField])
		}
		height, err := strconv.ParseFloat(fields[timeField+1], 64)
		if err != nil {
			return nil, fail(err, "tide %d has a bad height %q", i+1, fields[timeField+1])
		}
		if math.IsNaN(height) || math.IsInf(height, 0) {
			return nil, fail(nil, "tide %d has a bad height %q", i+1, fields[timeField+1])
		}

		events = append(events, models.TideEvent{Port: port, Time: at, Height: height})

		switch i {
		case 0:
		case 1:
			// The first tide is low only if the second rises above it.
			first := models.TideHigh
			if events[1].Height > events[0].Height {
				first = models.TideLow
			}
			events[0].Type = first
			events[1].Type = first.Opposite()
			prev = events[1].Type
		default:
			events[i].Type = prev.Opposite()
			prev = events[i].Type
		}
	}

	if len(fields) > recordFields {
		if err := checkRestEmpty(fields, recordFields); err != nil {
			return nil, fail(nil, "%v", err)
		}
	}

	return events, nil
}

// checkDate compares the record's day, month and year with date.
func checkDate(fields []string, date time.Time) error {
	want := [...]struct {
		name  string
		field int
		value int
	}{
		{"day", fieldDay, date.Day()},
		{"month", fieldMonth, int(date.Month())},
		{"year", fieldYear, date.Year()},
	}

	for _, w := range want {
		got, err := strconv.Atoi(fields[w.field])
		if err != nil {
			return fmt.Errorf("bad %s %q: %w", w.name, fields[w.field], err)
		}
		if got != w.value {
			return fmt.Errorf("record %s is %d, want %d", w.name, got, w.value)
		}
	}
	return nil
}

func checkRestEmpty(fields []string, from int) error {
	for i := from; i < len(fields); i++ {
		if fields[i] != "" {
			return fmt.Errorf("unexpected value %q in field %d", fields[i], i)
		}
	}
	return nil
}

// parseTideTime combines date's calendar day with an "HH:MM" clock time.
func parseTideTime(date time.Time, s string) (time.Time, error) {
	clock, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, date.Location()), nil
}
