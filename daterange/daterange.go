// Package daterange validates user-supplied calendar date ranges against the
// station's recording history. All dates are interpreted in a fixed reference
// offset so range semantics do not depend on the viewer's local zone.
package daterange

import (
	"errors"
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// DefaultEarliestDate is the first day the station has records for.
const DefaultEarliestDate = "2024-11-15"

// DefaultUTCOffsetHours is the station's reference offset from UTC.
const DefaultUTCOffsetHours = 8

var (
	ErrBadDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrStartTooEarly = errors.New("start date is before the earliest available record")
	ErrEndInFuture   = errors.New("end date is in the future")
	ErrStartAfterEnd = errors.New("start date is after end date")
)

// Range is a validated, inclusive query window. Start is midnight of the start
// day and End is the last second of the end day, both in the reference zone.
type Range struct {
	Start   time.Time
	End     time.Time
	SameDay bool
}

// StartDate returns the start day as an ISO calendar-date string.
func (r Range) StartDate() string {
	return r.Start.Format(dayLayout)
}

// EndDate returns the end day as an ISO calendar-date string.
func (r Range) EndDate() string {
	return r.End.Format(dayLayout)
}

// Validator checks calendar date ranges. The zero value is not usable; build
// one with New or Default.
type Validator struct {
	earliest time.Time
	zone     *time.Location
}

// New builds a Validator with the given earliest day (YYYY-MM-DD) and
// reference offset in whole hours from UTC.
func New(earliestDate string, utcOffsetHours int) (Validator, error) {
	zone := time.FixedZone(fmt.Sprintf("UTC%+d", utcOffsetHours), utcOffsetHours*3600)
	earliest, err := time.ParseInLocation(dayLayout, earliestDate, zone)
	if err != nil {
		return Validator{}, fmt.Errorf("parse earliest date %q: %w", earliestDate, err)
	}
	return Validator{earliest: earliest, zone: zone}, nil
}

// Default returns a Validator with the station defaults.
func Default() Validator {
	v, err := New(DefaultEarliestDate, DefaultUTCOffsetHours)
	if err != nil {
		panic(err) // the default constants parse
	}
	return v
}

// Zone returns the fixed reference zone.
func (v Validator) Zone() *time.Location {
	return v.zone
}

// Validate turns two calendar-date strings into a Range. now is supplied by
// the caller so validation stays deterministic. Exactly one outcome is
// produced: a Range or the first failing check in order (bad date, start too
// early, end in future, start after end).
func (v Validator) Validate(start, end string, now time.Time) (Range, error) {
	startDay, err := time.ParseInLocation(dayLayout, start, v.zone)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrBadDate, start)
	}
	endDay, err := time.ParseInLocation(dayLayout, end, v.zone)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrBadDate, end)
	}

	if startDay.Before(v.earliest) {
		return Range{}, ErrStartTooEarly
	}

	today := dayStart(now.In(v.zone))
	if endDay.After(today) {
		return Range{}, ErrEndInFuture
	}

	if startDay.After(endDay) {
		return Range{}, ErrStartAfterEnd
	}

	return Range{
		Start:   startDay,
		End:     endDay.Add(24*time.Hour - time.Second),
		SameDay: startDay.Format(dayLayout) == endDay.Format(dayLayout),
	}, nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
