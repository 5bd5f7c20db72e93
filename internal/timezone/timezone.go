// Package timezone converts between venue-local wall-clock values and UTC
// instants for one configured IANA zone.
package timezone

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/codr1/Matchpoint/internal/apperr"
	"github.com/codr1/Matchpoint/internal/timeslot"
)

const (
	DefaultZone = "Europe/Sofia"
	DateLayout  = "2006-01-02"
)

type Converter struct {
	name string
	loc  *time.Location
}

// New loads the named zone once. An empty name selects DefaultZone.
func New(name string) (*Converter, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return &Converter{name: name, loc: loc}, nil
}

// MustNew is for tests and static wiring.
func MustNew(name string) *Converter {
	c, err := New(name)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Converter) Name() string { return c.name }

func (c *Converter) Location() *time.Location { return c.loc }

// ParseDate parses a local YYYY-MM-DD calendar date.
func (c *Converter) ParseDate(date string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, c.loc)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid date %q: expected YYYY-MM-DD", date)
	}
	return day, nil
}

// LocalToUTC resolves a local date and HH:MM clock time to a UTC instant.
// Wall-clock times skipped by a DST transition are rejected.
func (c *Converter) LocalToUTC(date, clock string) (time.Time, error) {
	day, err := c.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := timeslot.ParseClock(clock)
	if err != nil {
		return time.Time{}, apperr.Wrap(apperr.KindValidation, err, err.Error())
	}

	hour, minute := minutes/60, minutes%60
	local := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, c.loc)
	if local.Hour() != hour || local.Minute() != minute || local.Day() != day.Day() {
		return time.Time{}, apperr.Validation("local time %s %s does not exist in %s", date, clock, c.name)
	}
	return local.UTC(), nil
}

// UTCToLocalMinutes returns minutes since local midnight at instant.
func (c *Converter) UTCToLocalMinutes(instant time.Time) int {
	local := instant.In(c.loc)
	return local.Hour()*60 + local.Minute()
}

// LocalDayBoundsUTC returns [start, end) of the local calendar day in UTC.
// The window is 23 or 25 hours long on DST transition days.
func (c *Converter) LocalDayBoundsUTC(date string) (time.Time, time.Time, error) {
	day, err := c.ParseDate(date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, c.loc)
	end := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, c.loc)
	return start.UTC(), end.UTC(), nil
}
