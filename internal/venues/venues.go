// Package venues is the venue catalog. A venue's opening hours and slot
// duration define the grid every booking must align to.
package venues

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Matchpoint/internal/apperr"
	"github.com/codr1/Matchpoint/internal/db"
	dbgen "github.com/codr1/Matchpoint/internal/db/generated"
	"github.com/codr1/Matchpoint/internal/sports"
	"github.com/codr1/Matchpoint/internal/timeslot"
	"github.com/codr1/Matchpoint/internal/timezone"
)

type Venue struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	City                string       `json:"city"`
	Address             string       `json:"address"`
	SportType           sports.Sport `json:"sportType"`
	CapacityPlayers     int          `json:"capacityPlayers"`
	Latitude            *float64     `json:"latitude,omitempty"`
	Longitude           *float64     `json:"longitude,omitempty"`
	OpeningTime         string       `json:"openingTime"`
	ClosingTime         string       `json:"closingTime"`
	SlotDurationMinutes int          `json:"slotDurationMinutes"`

	openMinutes  int
	closeMinutes int
}

func fromRow(row dbgen.Venue) (Venue, error) {
	v := Venue{
		ID:                  row.ID,
		Name:                row.Name,
		City:                row.City,
		Address:             row.Address,
		SportType:           sports.Sport(row.SportType),
		CapacityPlayers:     int(row.CapacityPlayers),
		SlotDurationMinutes: int(row.SlotDurationMinutes),
	}
	if row.Latitude.Valid {
		v.Latitude = &row.Latitude.Float64
	}
	if row.Longitude.Valid {
		v.Longitude = &row.Longitude.Float64
	}
	if err := v.setHours(row.OpeningTime, row.ClosingTime); err != nil {
		return Venue{}, fmt.Errorf("venue %s: %w", row.ID, err)
	}
	return v, nil
}

func (v *Venue) setHours(opening, closing string) error {
	open, err := timeslot.TimeToMinutes(opening)
	if err != nil {
		return err
	}
	closeMin, err := timeslot.TimeToMinutes(closing)
	if err != nil {
		return err
	}
	v.openMinutes, v.closeMinutes = open, closeMin
	v.OpeningTime = timeslot.MinutesToTime(open)
	v.ClosingTime = timeslot.MinutesToTime(closeMin)
	return nil
}

// Hours returns opening and closing time in minutes since local midnight.
func (v Venue) Hours() (int, int) {
	return v.openMinutes, v.closeMinutes
}

func (v Venue) SlotDuration() time.Duration {
	return time.Duration(v.SlotDurationMinutes) * time.Minute
}

// Slots returns the venue's daily slot grid.
func (v Venue) Slots() []timeslot.Slot {
	return timeslot.GenerateSlots(v.openMinutes, v.closeMinutes, v.SlotDurationMinutes)
}

// CheckSlotStart validates a local start minute against the grid and
// working hours.
func (v Venue) CheckSlotStart(startMinutes int) error {
	if !timeslot.IsSlotAligned(startMinutes, v.openMinutes, v.SlotDurationMinutes) {
		return apperr.Validation("start time %s is not aligned to the %d minute grid starting at %s",
			timeslot.MinutesToTime(startMinutes), v.SlotDurationMinutes, v.OpeningTime)
	}
	slot := timeslot.Slot{StartMinutes: startMinutes, EndMinutes: startMinutes + v.SlotDurationMinutes}
	if !slot.Within(v.openMinutes, v.closeMinutes) {
		return apperr.Validation("slot %s is outside working hours %s-%s", slot, v.OpeningTime, v.ClosingTime)
	}
	return nil
}

// CheckInterval validates an absolute [start, end) interval: exactly one
// slot long, aligned in venue-local time and inside working hours.
func (v Venue) CheckInterval(tz *timezone.Converter, start, end time.Time) error {
	if !start.Before(end) {
		return apperr.Validation("start must be before end")
	}
	if end.Sub(start) != v.SlotDuration() {
		return apperr.Validation("booking must last exactly %d minutes", v.SlotDurationMinutes)
	}
	return v.CheckSlotStart(tz.UTCToLocalMinutes(start))
}

// Load reads one venue through q, which may be bound to a transaction.
func Load(ctx context.Context, q *dbgen.Queries, id string) (Venue, error) {
	row, err := q.GetVenue(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return Venue{}, apperr.NotFound("venue %s not found", id)
		}
		return Venue{}, fmt.Errorf("get venue: %w", err)
	}
	return fromRow(row)
}

type Catalog struct {
	db    *db.DB
	clock clockwork.Clock
}

func NewCatalog(database *db.DB, clock clockwork.Clock) *Catalog {
	return &Catalog{db: database, clock: clock}
}

func (c *Catalog) Get(ctx context.Context, id string) (Venue, error) {
	return Load(ctx, c.db.Queries, id)
}

type Filter struct {
	City  string
	Sport string
}

func (c *Catalog) List(ctx context.Context, filter Filter) ([]Venue, error) {
	rows, err := c.db.Queries.ListVenues(ctx, dbgen.ListVenuesParams{
		City:      strings.TrimSpace(filter.City),
		SportType: strings.ToLower(strings.TrimSpace(filter.Sport)),
	})
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	venues := make([]Venue, 0, len(rows))
	for _, row := range rows {
		v, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, nil
}

type CreateParams struct {
	Name                string   `yaml:"name" json:"name"`
	City                string   `yaml:"city" json:"city"`
	Address             string   `yaml:"address" json:"address"`
	SportType           string   `yaml:"sport_type" json:"sportType"`
	CapacityPlayers     int      `yaml:"capacity_players" json:"capacityPlayers"`
	Latitude            *float64 `yaml:"latitude" json:"latitude"`
	Longitude           *float64 `yaml:"longitude" json:"longitude"`
	OpeningTime         string   `yaml:"opening_time" json:"openingTime"`
	ClosingTime         string   `yaml:"closing_time" json:"closingTime"`
	SlotDurationMinutes int      `yaml:"slot_duration_minutes" json:"slotDurationMinutes"`
}

func (p CreateParams) validate() (Venue, error) {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.City) == "" || strings.TrimSpace(p.Address) == "" {
		return Venue{}, apperr.Validation("venue name, city and address are required")
	}
	sport, err := sports.ParseSport(p.SportType)
	if err != nil {
		return Venue{}, err
	}
	if p.CapacityPlayers <= 0 {
		return Venue{}, apperr.Validation("capacity must be positive")
	}
	if p.SlotDurationMinutes <= 0 {
		return Venue{}, apperr.Validation("slot duration must be positive")
	}

	v := Venue{
		Name:                strings.TrimSpace(p.Name),
		City:                strings.TrimSpace(p.City),
		Address:             strings.TrimSpace(p.Address),
		SportType:           sport,
		CapacityPlayers:     p.CapacityPlayers,
		Latitude:            p.Latitude,
		Longitude:           p.Longitude,
		SlotDurationMinutes: p.SlotDurationMinutes,
	}
	if err := v.setHours(p.OpeningTime, p.ClosingTime); err != nil {
		return Venue{}, apperr.Wrap(apperr.KindValidation, err, err.Error())
	}
	if len(v.Slots()) == 0 {
		return Venue{}, apperr.Validation("working hours %s-%s fit no %d minute slot",
			v.OpeningTime, v.ClosingTime, v.SlotDurationMinutes)
	}
	return v, nil
}

// Create inserts a venue. A venue with the same name, city and address is
// a Conflict.
func (c *Catalog) Create(ctx context.Context, params CreateParams) (Venue, error) {
	v, err := params.validate()
	if err != nil {
		return Venue{}, err
	}
	v.ID = uuid.NewString()

	err = c.db.RunInTxWithRetry(ctx, func(tx *db.DB) error {
		existing, err := tx.Queries.CountVenuesByIdentity(ctx, dbgen.CountVenuesByIdentityParams{
			Name:    v.Name,
			City:    v.City,
			Address: v.Address,
		})
		if err != nil {
			return fmt.Errorf("check venue identity: %w", err)
		}
		if existing > 0 {
			return apperr.Conflict("venue %q at %s, %s already exists", v.Name, v.Address, v.City)
		}

		err = tx.Queries.CreateVenue(ctx, dbgen.CreateVenueParams{
			ID:                  v.ID,
			Name:                v.Name,
			City:                v.City,
			Address:             v.Address,
			SportType:           string(v.SportType),
			CapacityPlayers:     int64(v.CapacityPlayers),
			Latitude:            nullFloat(v.Latitude),
			Longitude:           nullFloat(v.Longitude),
			OpeningTime:         v.OpeningTime,
			ClosingTime:         v.ClosingTime,
			SlotDurationMinutes: int64(v.SlotDurationMinutes),
			CreatedAt:           db.Timestamp(c.clock.Now()),
		})
		if err != nil {
			if db.IsConstraintViolation(err) {
				return apperr.Conflict("venue %q at %s, %s already exists", v.Name, v.Address, v.City)
			}
			return fmt.Errorf("create venue: %w", err)
		}
		return nil
	})
	if err != nil {
		return Venue{}, err
	}

	log.Ctx(ctx).Info().Str("venue_id", v.ID).Str("venue_name", v.Name).Msg("Venue created")
	return v, nil
}

func nullFloat(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}
