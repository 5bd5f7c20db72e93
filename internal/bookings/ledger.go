// Package bookings owns the reserved venue intervals. For a venue, no two
// bookings overlap under [start, end) semantics.
package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Matchpoint/internal/apperr"
	"github.com/codr1/Matchpoint/internal/db"
	dbgen "github.com/codr1/Matchpoint/internal/db/generated"
	"github.com/codr1/Matchpoint/internal/timezone"
	"github.com/codr1/Matchpoint/internal/venues"
)

type Booking struct {
	ID        string    `json:"id"`
	VenueID   string    `json:"venueId"`
	MatchID   string    `json:"matchId"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func fromRow(row dbgen.Booking) Booking {
	return Booking{
		ID:        row.ID,
		VenueID:   row.VenueID,
		MatchID:   row.MatchID,
		StartAt:   row.StartAt.UTC(),
		EndAt:     row.EndAt.UTC(),
		CreatedAt: row.CreatedAt.UTC(),
	}
}

type Ledger struct {
	db    *db.DB
	tz    *timezone.Converter
	clock clockwork.Clock
}

func NewLedger(database *db.DB, tz *timezone.Converter, clock clockwork.Clock) *Ledger {
	return &Ledger{db: database, tz: tz, clock: clock}
}

// CheckAvailability reports whether no booking for venueID overlaps
// [start, end).
func (l *Ledger) CheckAvailability(ctx context.Context, venueID string, start, end time.Time) (bool, error) {
	if !start.Before(end) {
		return false, apperr.Validation("start must be before end")
	}
	count, err := l.db.Queries.CountOverlappingBookings(ctx, dbgen.CountOverlappingBookingsParams{
		VenueID: venueID,
		StartAt: db.Timestamp(start),
		EndAt:   db.Timestamp(end),
	})
	if err != nil {
		return false, fmt.Errorf("count overlapping bookings: %w", err)
	}
	return count == 0, nil
}

// Create reserves [start, end) on venueID for matchID in its own
// transaction.
func (l *Ledger) Create(ctx context.Context, venueID, matchID string, start, end time.Time) (Booking, error) {
	var booking Booking
	err := l.db.RunInTxWithRetry(ctx, func(tx *db.DB) error {
		var err error
		booking, err = l.CreateTx(ctx, tx, venueID, matchID, start, end)
		return err
	})
	if err != nil {
		return Booking{}, err
	}
	return booking, nil
}

// CreateTx runs Create on the caller's transaction. The transaction holds
// the SQLite write lock from BEGIN IMMEDIATE, so the overlap check and the
// insert cannot interleave with another writer.
func (l *Ledger) CreateTx(ctx context.Context, tx *db.DB, venueID, matchID string, start, end time.Time) (Booking, error) {
	logger := log.Ctx(ctx).With().Str("venue_id", venueID).Str("match_id", matchID).Logger()

	venue, err := venues.Load(ctx, tx.Queries, venueID)
	if err != nil {
		return Booking{}, err
	}
	start, end = db.Timestamp(start), db.Timestamp(end)
	if err := venue.CheckInterval(l.tz, start, end); err != nil {
		return Booking{}, err
	}

	overlapping, err := tx.Queries.CountOverlappingBookings(ctx, dbgen.CountOverlappingBookingsParams{
		VenueID: venueID,
		StartAt: start,
		EndAt:   end,
	})
	if err != nil {
		return Booking{}, fmt.Errorf("count overlapping bookings: %w", err)
	}
	if overlapping > 0 {
		logger.Debug().Time("start_at", start).Msg("Booking rejected: slot already booked")
		return Booking{}, apperr.Conflict("venue %s is already booked for %s", venueID, start.Format(time.RFC3339))
	}

	booking := Booking{
		ID:        uuid.NewString(),
		VenueID:   venueID,
		MatchID:   matchID,
		StartAt:   start,
		EndAt:     end,
		CreatedAt: db.Timestamp(l.clock.Now()),
	}
	err = tx.Queries.CreateBooking(ctx, dbgen.CreateBookingParams{
		ID:        booking.ID,
		VenueID:   booking.VenueID,
		MatchID:   booking.MatchID,
		StartAt:   booking.StartAt,
		EndAt:     booking.EndAt,
		CreatedAt: booking.CreatedAt,
	})
	if err != nil {
		if db.IsConstraintViolation(err) {
			logger.Debug().Err(err).Msg("Booking rejected by unique constraint")
			return Booking{}, apperr.Wrap(apperr.KindConflict, err, "slot or match is already booked")
		}
		return Booking{}, fmt.Errorf("create booking: %w", err)
	}

	logger.Debug().Str("booking_id", booking.ID).Time("start_at", start).Msg("Booking created")
	return booking, nil
}

// Delete removes the booking owned by matchID. Missing bookings are not an
// error.
func (l *Ledger) Delete(ctx context.Context, matchID string) error {
	return l.db.RunInTxWithRetry(ctx, func(tx *db.DB) error {
		_, err := l.DeleteTx(ctx, tx, matchID)
		return err
	})
}

// DeleteTx reports whether a booking was removed.
func (l *Ledger) DeleteTx(ctx context.Context, tx *db.DB, matchID string) (bool, error) {
	removed, err := tx.Queries.DeleteBookingByMatch(ctx, matchID)
	if err != nil {
		return false, fmt.Errorf("delete booking: %w", err)
	}
	return removed > 0, nil
}

func (l *Ledger) GetForMatch(ctx context.Context, matchID string) (Booking, error) {
	row, err := l.db.Queries.GetBookingByMatch(ctx, matchID)
	if err != nil {
		if db.IsNotFound(err) {
			return Booking{}, apperr.NotFound("no booking for match %s", matchID)
		}
		return Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return fromRow(row), nil
}

// ListForVenueBetween returns bookings intersecting [windowStart, windowEnd)
// ordered by start.
func (l *Ledger) ListForVenueBetween(ctx context.Context, venueID string, windowStart, windowEnd time.Time) ([]Booking, error) {
	rows, err := l.db.Queries.ListBookingsForVenueBetween(ctx, dbgen.ListBookingsForVenueBetweenParams{
		VenueID:     venueID,
		WindowStart: db.Timestamp(windowStart),
		WindowEnd:   db.Timestamp(windowEnd),
	})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	result := make([]Booking, 0, len(rows))
	for _, row := range rows {
		result = append(result, fromRow(row))
	}
	return result, nil
}

// ListForVenueAndDay returns bookings intersecting the local calendar day.
func (l *Ledger) ListForVenueAndDay(ctx context.Context, venueID, date string) ([]Booking, error) {
	start, end, err := l.tz.LocalDayBoundsUTC(date)
	if err != nil {
		return nil, err
	}
	return l.ListForVenueBetween(ctx, venueID, start, end)
}
