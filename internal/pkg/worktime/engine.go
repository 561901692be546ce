// Package worktime projects absolute instants into the application timezone
// and compares them against shift boundaries.
//
// Calendar dates are carried as time.Time values at 00:00 UTC of the civil
// date, so they compare and persist the same way regardless of where the
// process runs. The host's local timezone is never consulted.
package worktime

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"
)

const DateLayout = "2006-01-02"

var ErrInvalidTimezone = errors.New("invalid application timezone")

// Boundary is the position of an instant relative to a shift boundary.
type Boundary int

const (
	Before Boundary = iota
	WithinTolerance
	After
)

func (b Boundary) String() string {
	switch b {
	case Before:
		return "BEFORE"
	case WithinTolerance:
		return "WITHIN_TOLERANCE"
	case After:
		return "AFTER"
	default:
		return fmt.Sprintf("Boundary(%d)", int(b))
	}
}

type Engine struct {
	loc   *time.Location
	clock Clock
}

// NewEngine builds an engine for a single IANA timezone.
func NewEngine(timezone string, clock Clock) (*Engine, error) {
	if timezone == "" || timezone == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, timezone)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, timezone, err)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{loc: loc, clock: clock}, nil
}

// MustEngine is NewEngine for wiring code and tests with known-good zones.
func MustEngine(timezone string, clock Clock) *Engine {
	e, err := NewEngine(timezone, clock)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Engine) NowUTC() time.Time {
	return e.clock.Now().UTC()
}

// LocalDate returns the civil date of instant in the application timezone.
func (e *Engine) LocalDate(instant time.Time) time.Time {
	local := instant.In(e.loc)
	return civil(local.Year(), local.Month(), local.Day())
}

func (e *Engine) Today() time.Time {
	return e.LocalDate(e.NowUTC())
}

func (e *Engine) CurrentYear() int {
	return e.YearOf(e.NowUTC())
}

// YearOf returns the calendar year of instant in the application timezone.
func (e *Engine) YearOf(instant time.Time) int {
	return instant.In(e.loc).Year()
}

// MinutesSinceMidnight returns 0..1439 for instant in the application timezone.
func (e *Engine) MinutesSinceMidnight(instant time.Time) int {
	local := instant.In(e.loc)
	return local.Hour()*60 + local.Minute()
}

// CompareToShiftBoundary places instant relative to shiftHour:00 local time.
// [boundary, boundary+tolerance) counts as WithinTolerance, at second precision.
func (e *Engine) CompareToShiftBoundary(instant time.Time, shiftHour int, tolerance time.Duration) Boundary {
	offset := e.sinceMidnight(instant)
	boundary := time.Duration(shiftHour) * time.Hour

	switch {
	case offset < boundary:
		return Before
	case offset < boundary+tolerance:
		return WithinTolerance
	default:
		return After
	}
}

// ParseDate reads a bare YYYY-MM-DD in the application timezone.
func (e *Engine) ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, e.loc)
	if err != nil {
		return time.Time{}, err
	}
	return civil(t.Year(), t.Month(), t.Day()), nil
}

func (e *Engine) sinceMidnight(instant time.Time) time.Duration {
	local := instant.In(e.loc)
	return time.Duration(local.Hour())*time.Hour +
		time.Duration(local.Minute())*time.Minute +
		time.Duration(local.Second())*time.Second
}

// FormatDate renders a civil date value.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

func civil(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
