package matches

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
	"github.com/codr1/Matchpoint/internal/bookings"
	"github.com/codr1/Matchpoint/internal/db"
	dbgen "github.com/codr1/Matchpoint/internal/db/generated"
	"github.com/codr1/Matchpoint/internal/lock"
	"github.com/codr1/Matchpoint/internal/sports"
	"github.com/codr1/Matchpoint/internal/timeslot"
	"github.com/codr1/Matchpoint/internal/timezone"
	"github.com/codr1/Matchpoint/internal/venues"
)

// CancellationCutoff is the minimum time left before start for an
// organizer to cancel.
const CancellationCutoff = 24 * time.Hour

type Service struct {
	db     *db.DB
	ledger *bookings.Ledger
	tz     *timezone.Converter
	clock  clockwork.Clock
	locker lock.Locker
}

func NewService(database *db.DB, ledger *bookings.Ledger, tz *timezone.Converter, clock clockwork.Clock, locker lock.Locker) *Service {
	return &Service{db: database, ledger: ledger, tz: tz, clock: clock, locker: locker}
}

type CreateParams struct {
	OrganizerID string
	Sport       string
	VenueID     string
	// Date and StartTime are venue-local, YYYY-MM-DD and HH:MM.
	Date      string
	StartTime string
	MinSkill  string
	MaxSkill  string
	Format    string
}

func (s *Service) CreateMatch(ctx context.Context, params CreateParams) (View, error) {
	minLevel, maxLevel, err := sports.ParseSkillRange(params.MinSkill, params.MaxSkill)
	if err != nil {
		return View{}, err
	}
	sport, err := sports.ParseSport(params.Sport)
	if err != nil {
		return View{}, err
	}

	venue, err := venues.Load(ctx, s.db.Queries, params.VenueID)
	if err != nil {
		return View{}, err
	}
	if venue.SportType != sport {
		return View{}, apperr.Validation("venue %s hosts %s, not %s", venue.ID, venue.SportType, sport)
	}

	capacity, err := sports.ComputeCapacity(sport, params.Format, venue.CapacityPlayers)
	if err != nil {
		return View{}, err
	}

	startMinutes, err := timeslot.ParseClock(params.StartTime)
	if err != nil {
		return View{}, apperr.Wrap(apperr.KindValidation, err, err.Error())
	}
	if err := venue.CheckSlotStart(startMinutes); err != nil {
		return View{}, err
	}

	start, err := s.tz.LocalToUTC(params.Date, params.StartTime)
	if err != nil {
		return View{}, err
	}
	end := start.Add(venue.SlotDuration())
	now := s.clock.Now()
	if !start.After(now) {
		return View{}, apperr.Validation("match must start in the future")
	}

	stamp := db.Timestamp(now)
	match := Match{
		ID:             uuid.NewString(),
		OrganizerID:    params.OrganizerID,
		Sport:          sport,
		VenueID:        venue.ID,
		StartTime:      start,
		NumberOfTeams:  capacity.NumberOfTeams,
		PlayersPerTeam: capacity.PlayersPerTeam,
		Format:         capacity.Format,
		MinSkillLevel:  minLevel,
		MaxSkillLevel:  maxLevel,
		Status:         StatusOpen,
		CreatedAt:      stamp,
		UpdatedAt:      stamp,
	}

	err = s.db.RunInTxWithRetry(ctx, func(tx *db.DB) error {
		if err := tx.Queries.CreateMatch(ctx, dbgen.CreateMatchParams{
			ID:             match.ID,
			OrganizerID:    match.OrganizerID,
			Sport:          string(match.Sport),
			VenueID:        match.VenueID,
			StartTime:      db.Timestamp(match.StartTime),
			NumberOfTeams:  int64(match.NumberOfTeams),
			PlayersPerTeam: int64(match.PlayersPerTeam),
			Format:         sql.NullString{String: string(match.Format), Valid: match.Format != ""},
			MinSkillLevel:  string(match.MinSkillLevel),
			MaxSkillLevel:  string(match.MaxSkillLevel),
			Status:         string(match.Status),
			CreatedAt:      match.CreatedAt,
			UpdatedAt:      match.UpdatedAt,
		}); err != nil {
			return fmt.Errorf("create match: %w", err)
		}
		_, err := s.ledger.CreateTx(ctx, tx, venue.ID, match.ID, start, end)
		return err
	})
	if err != nil {
		return View{}, err
	}

	log.Ctx(ctx).Info().
		Str("match_id", match.ID).
		Str("venue_id", venue.ID).
		Str("organizer_id", match.OrganizerID).
		Time("start_time", start).
		Msg("Match created")
	return newView(match, 0), nil
}

// Patch carries the fields a match update may set. Status is accepted only
// so that attempts to set it can be rejected.
type Patch struct {
	MinSkillLevel *string
	MaxSkillLevel *string
	Status        *string
}

func (p Patch) empty() bool {
	return p.MinSkillLevel == nil && p.MaxSkillLevel == nil && p.Status == nil
}

func (s *Service) UpdateMatch(ctx context.Context, matchID, organizerID string, patch Patch) (View, error) {
	err := s.db.RunInTxWithRetry(ctx, func(tx *db.DB) error {
		match, err := Load(ctx, tx.Queries, matchID)
		if err != nil {
			return err
		}
		if match.OrganizerID != organizerID {
			return apperr.Forbidden("only the organizer can update match %s", matchID)
		}
		if patch.Status != nil {
			return apperr.Validation("status cannot be changed by update; cancel the match instead")
		}
		if patch.empty() {
			return nil
		}
		if match.Status.Terminal() {
			return apperr.Validation("match %s is %s and can no longer change", matchID, match.Status)
		}

		minValue, maxValue := string(match.MinSkillLevel), string(match.MaxSkillLevel)
		if patch.MinSkillLevel != nil {
			minValue = strings.TrimSpace(*patch.MinSkillLevel)
		}
		if patch.MaxSkillLevel != nil {
			maxValue = strings.TrimSpace(*patch.MaxSkillLevel)
		}
		minLevel, maxLevel, err := sports.ParseSkillRange(minValue, maxValue)
		if err != nil {
			return err
		}

		if err := tx.Queries.UpdateMatchSkillRange(ctx, dbgen.UpdateMatchSkillRangeParams{
			MinSkillLevel: string(minLevel),
			MaxSkillLevel: string(maxLevel),
			UpdatedAt:     db.Timestamp(s.clock.Now()),
			ID:            matchID,
		}); err != nil {
			return fmt.Errorf("update skill range: %w", err)
		}
		return nil
	})
	if err != nil {
		return View{}, err
	}
	return s.GetMatch(ctx, matchID)
}

// CancelMatch marks the match canceled and releases its booking. It holds
// the match lock so it cannot interleave with a join or leave.
func (s *Service) CancelMatch(ctx context.Context, matchID, organizerID string) (View, error) {
	unlock, err := s.locker.Acquire(ctx, lock.MatchKey(matchID))
	if err != nil {
		return View{}, err
	}
	defer unlock()

	logger := log.Ctx(ctx).With().Str("match_id", matchID).Logger()
	err = s.db.RunInTxWithRetry(ctx, func(tx *db.DB) error {
		match, err := Load(ctx, tx.Queries, matchID)
		if err != nil {
			return err
		}
		if match.OrganizerID != organizerID {
			return apperr.Forbidden("only the organizer can cancel match %s", matchID)
		}
		if match.Status.Terminal() {
			return apperr.Validation("match %s is already %s", matchID, match.Status)
		}
		now := s.clock.Now()
		if match.StartTime.Sub(now) < CancellationCutoff {
			return apperr.Validation("matches can only be canceled at least %s before start", CancellationCutoff)
		}

		if err := tx.Queries.UpdateMatchStatus(ctx, dbgen.UpdateMatchStatusParams{
			Status:    string(StatusCanceled),
			UpdatedAt: db.Timestamp(now),
			ID:        matchID,
		}); err != nil {
			return fmt.Errorf("cancel match: %w", err)
		}
		removed, err := s.ledger.DeleteTx(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if !removed {
			logger.Warn().Msg("Canceled match had no booking")
		}
		return nil
	})
	if err != nil {
		return View{}, err
	}

	logger.Info().Str("organizer_id", organizerID).Msg("Match canceled")
	return s.GetMatch(ctx, matchID)
}

func (s *Service) GetMatch(ctx context.Context, matchID string) (View, error) {
	row, err := s.db.Queries.GetMatchWithCount(ctx, matchID)
	if err != nil {
		if db.IsNotFound(err) {
			return View{}, apperr.NotFound("match %s not found", matchID)
		}
		return View{}, fmt.Errorf("get match: %w", err)
	}
	return viewFromRow(row), nil
}

func viewFromRow(row dbgen.GetMatchWithCountRow) View {
	return newView(FromRow(dbgen.Match{
		ID:             row.ID,
		OrganizerID:    row.OrganizerID,
		Sport:          row.Sport,
		VenueID:        row.VenueID,
		StartTime:      row.StartTime,
		NumberOfTeams:  row.NumberOfTeams,
		PlayersPerTeam: row.PlayersPerTeam,
		Format:         row.Format,
		MinSkillLevel:  row.MinSkillLevel,
		MaxSkillLevel:  row.MaxSkillLevel,
		Status:         row.Status,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}), row.ParticipantCount)
}

type Filter struct {
	Sport   string
	Status  string
	VenueID string
}

// ListMatches returns matches newest first.
func (s *Service) ListMatches(ctx context.Context, filter Filter) ([]View, error) {
	params := dbgen.ListMatchesParams{VenueID: strings.TrimSpace(filter.VenueID)}
	if filter.Sport != "" {
		sport, err := sports.ParseSport(filter.Sport)
		if err != nil {
			return nil, err
		}
		params.Sport = string(sport)
	}
	if filter.Status != "" {
		status, err := ParseStatus(strings.ToLower(strings.TrimSpace(filter.Status)))
		if err != nil {
			return nil, err
		}
		params.Status = string(status)
	}

	rows, err := s.db.Queries.ListMatches(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	result := make([]View, 0, len(rows))
	for _, row := range rows {
		// Both sqlc row types carry identical columns.
		result = append(result, viewFromRow(dbgen.GetMatchWithCountRow(row)))
	}
	return result, nil
}
