package bookings

import (
	"context"
	"time"

	"github.com/codr1/Matchpoint/internal/apperr"
	"github.com/codr1/Matchpoint/internal/venues"
)

const (
	SlotFree     = "free"
	SlotOccupied = "occupied"
)

type SlotStatus struct {
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Status    string    `json:"status"`
	MatchID   string    `json:"matchId,omitempty"`
}

type DaySchedule struct {
	VenueID string       `json:"venueId"`
	Date    string       `json:"date"`
	Slots   []SlotStatus `json:"slots"`
}

// DaySlots lays the venue's slot grid over the local date and marks each
// slot free or occupied from the bookings intersecting that day. Slots
// whose local start does not exist on the date (DST gap) are omitted.
func (l *Ledger) DaySlots(ctx context.Context, venue venues.Venue, date string) (DaySchedule, error) {
	booked, err := l.ListForVenueAndDay(ctx, venue.ID, date)
	if err != nil {
		return DaySchedule{}, err
	}

	schedule := DaySchedule{VenueID: venue.ID, Date: date, Slots: []SlotStatus{}}
	for _, slot := range venue.Slots() {
		startAt, err := l.tz.LocalToUTC(date, slot.StartTime())
		if err != nil {
			if apperr.Is(err, apperr.KindValidation) {
				continue
			}
			return DaySchedule{}, err
		}
		endAt := startAt.Add(venue.SlotDuration())

		status := SlotStatus{
			StartTime: slot.StartTime(),
			EndTime:   slot.EndTime(),
			StartAt:   startAt,
			EndAt:     endAt,
			Status:    SlotFree,
		}
		for _, b := range booked {
			if b.StartAt.Before(endAt) && startAt.Before(b.EndAt) {
				status.Status = SlotOccupied
				status.MatchID = b.MatchID
				break
			}
		}
		schedule.Slots = append(schedule.Slots, status)
	}
	return schedule, nil
}
