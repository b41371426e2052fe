package models

import (
	"fmt"
	"time"
)

// TideType represents whether a tide is high or low
type TideType string

const (
	TideHigh TideType = "H"
	TideLow  TideType = "L"
)

// Opposite returns the other tide type.
func (t TideType) Opposite() TideType {
	if t == TideHigh {
		return TideLow
	}
	return TideHigh
}

func (t TideType) String() string {
	if t == TideHigh {
		return "High"
	}
	return "Low"
}

// TideEvent represents a single high or low tide occurrence
type TideEvent struct {
	Port   Port      `json:"port"`
	Time   time.Time `json:"time"`
	Height float64   `json:"height"` // metres above chart datum
	Type   TideType  `json:"type"`
}

// IsHighTide reports whether the event is a high tide.
func (e TideEvent) IsHighTide() bool {
	return e.Type == TideHigh
}

// IsLowTide reports whether the event is a low tide.
func (e TideEvent) IsLowTide() bool {
	return !e.IsHighTide()
}

// Matches reports whether o is the same tide as e: same port and the same
// calendar minute. Seconds and below are ignored.
func (e TideEvent) Matches(o TideEvent) bool {
	return e.Port == o.Port && SameMinute(e.Time, o.Time)
}

func (e TideEvent) String() string {
	return fmt.Sprintf("TideLevel for %s @ %s H:%.2f %s",
		e.Port, e.Time.Format("2006/01/02 15:04"), e.Height, e.Type)
}

// SameMinute compares two instants by year, day of year, hour and minute as
// observed in each time's own location.
func SameMinute(a, b time.Time) bool {
	return a.Year() == b.Year() &&
		a.YearDay() == b.YearDay() &&
		a.Hour() == b.Hour() &&
		a.Minute() == b.Minute()
}
