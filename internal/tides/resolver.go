// Package tides resolves high and low tides from published tide tables.
//
// Every query re-reads and re-decodes the relevant day records; nothing is
// cached between calls, so a Resolver is safe for concurrent use as long as
// its table source is.
package tides

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ngmaloney/nz-tides/internal/logging"
	"github.com/ngmaloney/nz-tides/internal/models"
	"github.com/ngmaloney/nz-tides/internal/tables"
)

// maxTypeSteps bounds NextOfType/PreviousOfType. Tides alternate, so the
// wanted type is at most two steps away on well-formed data.
const maxTypeSteps = 4

// Resolver answers tide queries against a table source
type Resolver struct {
	reader *Reader
	logger *log.Logger
}

// NewResolver creates a resolver reading tables from source. A nil logger
// discards diagnostics.
func NewResolver(source tables.Source, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Resolver{
		reader: NewReader(source, logger),
		logger: logger,
	}
}

// GetTidesForDate returns the tides for date's calendar day at port, in
// chronological order. The result always holds between two and four events.
func (r *Resolver) GetTidesForDate(ctx context.Context, port models.Port, date time.Time) ([]models.TideEvent, error) {
	record, err := r.reader.FetchRecordLine(ctx, port, date)
	if err != nil {
		return nil, err
	}

	events, err := DecodeDay(port, date, record)
	if err != nil {
		r.logger.Warn("tide record rejected", "port", port.ID(), "date", date.Format(dateFormat), "err", err)
		return nil, err
	}
	return events, nil
}

// Next returns the tide following e. If e is the last tide of its day the
// first tide of the next day is returned.
//
// An event that does not appear in its own day's table at all is treated
// like the last tide of the day.
func (r *Resolver) Next(ctx context.Context, e models.TideEvent) (models.TideEvent, error) {
	levels, err := r.GetTidesForDate(ctx, e.Port, e.Time)
	if err != nil {
		return models.TideEvent{}, err
	}

	for i := 0; i < len(levels)-1; i++ {
		if e.Matches(levels[i]) {
			return levels[i+1], nil
		}
	}
	if !e.Matches(levels[len(levels)-1]) {
		r.logger.Warn("tide not in its day's table, continuing with the next day", "tide", e)
	}

	levels, err = r.GetTidesForDate(ctx, e.Port, addDays(e.Time, 1))
	if err != nil {
		return models.TideEvent{}, err
	}
	return levels[0], nil
}

// Previous returns the tide preceding e. If e is the first tide of its day
// the last tide of the previous day is returned.
//
// An event that does not appear in its own day's table at all is treated
// like the first tide of the day.
func (r *Resolver) Previous(ctx context.Context, e models.TideEvent) (models.TideEvent, error) {
	levels, err := r.GetTidesForDate(ctx, e.Port, e.Time)
	if err != nil {
		return models.TideEvent{}, err
	}

	for i := len(levels) - 1; i > 0; i-- {
		if e.Matches(levels[i]) {
			return levels[i-1], nil
		}
	}
	if !e.Matches(levels[0]) {
		r.logger.Warn("tide not in its day's table, continuing with the previous day", "tide", e)
	}

	levels, err = r.GetTidesForDate(ctx, e.Port, addDays(e.Time, -1))
	if err != nil {
		return models.TideEvent{}, err
	}
	return levels[len(levels)-1], nil
}

// NextOfType returns the first tide of type typ after e.
func (r *Resolver) NextOfType(ctx context.Context, e models.TideEvent, typ models.TideType) (models.TideEvent, error) {
	return r.stepUntil(ctx, e, typ, r.Next)
}

// PreviousOfType returns the last tide of type typ before e.
func (r *Resolver) PreviousOfType(ctx context.Context, e models.TideEvent, typ models.TideType) (models.TideEvent, error) {
	return r.stepUntil(ctx, e, typ, r.Previous)
}

func (r *Resolver) stepUntil(ctx context.Context, e models.TideEvent, typ models.TideType,
	step func(context.Context, models.TideEvent) (models.TideEvent, error)) (models.TideEvent, error) {
	cur := e
	for i := 0; i < maxTypeSteps; i++ {
		next, err := step(ctx, cur)
		if err != nil {
			return models.TideEvent{}, err
		}
		if next.Type == typ {
			return next, nil
		}
		cur = next
	}
	return models.TideEvent{}, fmt.Errorf("no %s tide within %d tides of %s", typ, maxTypeSteps, e)
}

// After returns the first tabulated tide at port later than t's minute.
func (r *Resolver) After(ctx context.Context, port models.Port, t time.Time) (models.TideEvent, error) {
	levels, err := r.GetTidesForDate(ctx, port, t)
	if err != nil {
		return models.TideEvent{}, err
	}

	for _, level := range levels {
		if level.Time.After(t) && !models.SameMinute(level.Time, t) {
			return level, nil
		}
	}
	return r.Next(ctx, levels[len(levels)-1])
}

// Before returns the last tabulated tide at port earlier than t's minute.
func (r *Resolver) Before(ctx context.Context, port models.Port, t time.Time) (models.TideEvent, error) {
	levels, err := r.GetTidesForDate(ctx, port, t)
	if err != nil {
		return models.TideEvent{}, err
	}

	for i := len(levels) - 1; i >= 0; i-- {
		if levels[i].Time.Before(t) && !models.SameMinute(levels[i].Time, t) {
			return levels[i], nil
		}
	}
	return r.Previous(ctx, levels[0])
}

// addDays moves t's calendar date by n days, keeping its location.
func addDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}
