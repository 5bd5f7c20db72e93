// Package timeslot does the wall-clock arithmetic for venue slot grids. All
// values are minutes since local midnight.
package timeslot

import (
	"fmt"
	"strconv"
	"strings"
)

const MinutesPerDay = 24 * 60

// FormatError is returned when a clock value is not HH:MM.
type FormatError struct {
	Value string
}

func (e FormatError) Error() string {
	return fmt.Sprintf("invalid time format %q: expected HH:MM", e.Value)
}

type Slot struct {
	StartMinutes int
	EndMinutes   int
}

// TimeToMinutes parses HH:MM (a trailing :SS from SQL TIME columns is
// accepted and ignored). 24:00 is accepted as end of day.
func TimeToMinutes(text string) (int, error) {
	value := strings.TrimSpace(text)
	if len(value) == 8 && value[5] == ':' {
		if _, err := parseDigits(value[6:8]); err != nil {
			return 0, FormatError{Value: text}
		}
		value = value[:5]
	}
	if len(value) != 5 || value[2] != ':' {
		return 0, FormatError{Value: text}
	}

	hours, err := parseDigits(value[:2])
	if err != nil {
		return 0, FormatError{Value: text}
	}
	minutes, err := parseDigits(value[3:])
	if err != nil {
		return 0, FormatError{Value: text}
	}
	if minutes > 59 || hours > 24 || (hours == 24 && minutes != 0) {
		return 0, FormatError{Value: text}
	}
	return hours*60 + minutes, nil
}

// ParseClock parses a caller-supplied wall-clock time. Only HH:MM in
// 00:00-23:59 is accepted; seconds are rejected rather than dropped.
func ParseClock(text string) (int, error) {
	if len(text) != 5 || text[2] != ':' {
		return 0, FormatError{Value: text}
	}
	minutes, err := TimeToMinutes(text)
	if err != nil || minutes >= MinutesPerDay {
		return 0, FormatError{Value: text}
	}
	return minutes, nil
}

func parseDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

func MinutesToTime(totalMinutes int) string {
	if totalMinutes < 0 {
		totalMinutes = 0
	}
	return fmt.Sprintf("%02d:%02d", totalMinutes/60, totalMinutes%60)
}

// GenerateSlots returns the contiguous grid [open+k*d, open+(k+1)*d) that
// fits before close. A remainder shorter than duration is dropped.
func GenerateSlots(openMinutes, closeMinutes, durationMinutes int) []Slot {
	if durationMinutes <= 0 || closeMinutes <= openMinutes {
		return nil
	}
	slots := make([]Slot, 0, (closeMinutes-openMinutes)/durationMinutes)
	for start := openMinutes; start+durationMinutes <= closeMinutes; start += durationMinutes {
		slots = append(slots, Slot{StartMinutes: start, EndMinutes: start + durationMinutes})
	}
	return slots
}

func IsSlotAligned(minutes, openMinutes, durationMinutes int) bool {
	if durationMinutes <= 0 || minutes < openMinutes {
		return false
	}
	return (minutes-openMinutes)%durationMinutes == 0
}

// Overlaps is the half-open interval test shared with bookings.
func (s Slot) Overlaps(otherStart, otherEnd int) bool {
	return s.StartMinutes < otherEnd && otherStart < s.EndMinutes
}

func (s Slot) Within(openMinutes, closeMinutes int) bool {
	return s.StartMinutes >= openMinutes && s.EndMinutes <= closeMinutes
}

func (s Slot) Duration() int {
	return s.EndMinutes - s.StartMinutes
}

func (s Slot) StartTime() string { return MinutesToTime(s.StartMinutes) }

func (s Slot) EndTime() string { return MinutesToTime(s.EndMinutes) }

func (s Slot) String() string {
	return s.StartTime() + "-" + s.EndTime()
}
