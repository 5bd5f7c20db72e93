// Package participation runs join, leave and kick operations. Every
// mutation holds the match lock and recomputes the match status from the
// participant count inside one transaction.
package participation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Matchpoint/internal/apperr"
	"github.com/codr1/Matchpoint/internal/db"
	dbgen "github.com/codr1/Matchpoint/internal/db/generated"
	"github.com/codr1/Matchpoint/internal/lock"
	"github.com/codr1/Matchpoint/internal/matches"
	"github.com/codr1/Matchpoint/internal/sports"
)

// EligibilityProvider answers whether a user's recorded skill for sport
// lies within [minLevel, maxLevel].
type EligibilityProvider interface {
	MeetsRequirement(ctx context.Context, userID string, sport sports.Sport, minLevel, maxLevel sports.SkillLevel) (bool, error)
}

type Participant struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	MatchID  string    `json:"matchId"`
	Team     int       `json:"team"`
	JoinedAt time.Time `json:"joinedAt"`
}

func fromRow(row dbgen.Participation) Participant {
	return Participant{
		ID:       row.ID,
		UserID:   row.UserID,
		MatchID:  row.MatchID,
		Team:     int(row.Team),
		JoinedAt: row.JoinedAt.UTC(),
	}
}

type Coordinator struct {
	db          *db.DB
	locker      lock.Locker
	eligibility EligibilityProvider
	clock       clockwork.Clock
}

func NewCoordinator(database *db.DB, locker lock.Locker, eligibility EligibilityProvider, clock clockwork.Clock) *Coordinator {
	return &Coordinator{db: database, locker: locker, eligibility: eligibility, clock: clock}
}

// withMatch holds the match lock and runs fn in a transaction with the
// match re-read under that lock.
func (c *Coordinator) withMatch(ctx context.Context, matchID string, fn func(tx *db.DB, match matches.Match) error) error {
	unlock, err := c.locker.Acquire(ctx, lock.MatchKey(matchID))
	if err != nil {
		return err
	}
	defer unlock()

	return c.db.RunInTxWithRetry(ctx, func(tx *db.DB) error {
		match, err := matches.Load(ctx, tx.Queries, matchID)
		if err != nil {
			return err
		}
		return fn(tx, match)
	})
}

// syncStatus recomputes open/full from the row count and persists it when
// it changed.
func (c *Coordinator) syncStatus(ctx context.Context, tx *db.DB, match matches.Match, logger zerolog.Logger) error {
	count, err := tx.Queries.CountParticipations(ctx, match.ID)
	if err != nil {
		return fmt.Errorf("count participations: %w", err)
	}
	status := matches.StatusForCount(int(count), match.Capacity())
	if status == match.Status {
		return nil
	}
	if err := tx.Queries.UpdateMatchStatus(ctx, dbgen.UpdateMatchStatusParams{
		Status:    string(status),
		UpdatedAt: db.Timestamp(c.clock.Now()),
		ID:        match.ID,
	}); err != nil {
		return fmt.Errorf("update match status: %w", err)
	}
	logger.Debug().
		Str("from_status", string(match.Status)).
		Str("to_status", string(status)).
		Int64("participants", count).
		Msg("Match status changed")
	return nil
}

func (c *Coordinator) JoinMatch(ctx context.Context, userID, matchID string, team int) (Participant, error) {
	logger := log.Ctx(ctx).With().Str("match_id", matchID).Str("user_id", userID).Logger()

	var joined Participant
	err := c.withMatch(ctx, matchID, func(tx *db.DB, match matches.Match) error {
		switch match.Status {
		case matches.StatusOpen:
		case matches.StatusFull:
			return apperr.Conflict("match %s is full", matchID)
		default:
			return apperr.Validation("cannot join match with status %s", match.Status)
		}
		if team < 1 || team > match.NumberOfTeams {
			return apperr.Validation("team must be between 1 and %d", match.NumberOfTeams)
		}

		existing, err := tx.Queries.CountParticipationsForUser(ctx, dbgen.CountParticipationsForUserParams{
			UserID:  userID,
			MatchID: matchID,
		})
		if err != nil {
			return fmt.Errorf("check participation: %w", err)
		}
		if existing > 0 {
			return apperr.Conflict("already participating in match %s", matchID)
		}

		eligible, err := c.eligibility.MeetsRequirement(ctx, userID, match.Sport, match.MinSkillLevel, match.MaxSkillLevel)
		if err != nil {
			return fmt.Errorf("check eligibility: %w", err)
		}
		if !eligible {
			logger.Debug().Msg("Join rejected: skill outside match range")
			return apperr.Forbidden("skill level for %s does not meet %s-%s", match.Sport, match.MinSkillLevel, match.MaxSkillLevel)
		}

		count, err := tx.Queries.CountParticipations(ctx, matchID)
		if err != nil {
			return fmt.Errorf("count participations: %w", err)
		}
		if int(count) >= match.Capacity() {
			return apperr.Conflict("match %s is full", matchID)
		}

		joined = Participant{
			ID:       uuid.NewString(),
			UserID:   userID,
			MatchID:  matchID,
			Team:     team,
			JoinedAt: db.Timestamp(c.clock.Now()),
		}
		if err := tx.Queries.CreateParticipation(ctx, dbgen.CreateParticipationParams{
			ID:       joined.ID,
			UserID:   joined.UserID,
			MatchID:  joined.MatchID,
			Team:     int64(joined.Team),
			JoinedAt: joined.JoinedAt,
		}); err != nil {
			if db.IsConstraintViolation(err) {
				return apperr.Wrap(apperr.KindConflict, err, "already participating in match "+matchID)
			}
			return fmt.Errorf("create participation: %w", err)
		}

		return c.syncStatus(ctx, tx, match, logger)
	})
	if err != nil {
		return Participant{}, err
	}

	logger.Info().Int("team", team).Msg("Player joined match")
	return joined, nil
}

func (c *Coordinator) LeaveMatch(ctx context.Context, userID, matchID string) error {
	logger := log.Ctx(ctx).With().Str("match_id", matchID).Str("user_id", userID).Logger()

	err := c.withMatch(ctx, matchID, func(tx *db.DB, match matches.Match) error {
		if match.Status.Terminal() {
			return apperr.Validation("cannot leave match with status %s", match.Status)
		}
		return c.deleteAndSync(ctx, tx, match, userID, logger)
	})
	if err != nil {
		return err
	}

	logger.Info().Msg("Player left match")
	return nil
}

func (c *Coordinator) RemoveParticipant(ctx context.Context, organizerID, matchID, targetUserID string) error {
	logger := log.Ctx(ctx).With().
		Str("match_id", matchID).
		Str("organizer_id", organizerID).
		Str("user_id", targetUserID).
		Logger()

	err := c.withMatch(ctx, matchID, func(tx *db.DB, match matches.Match) error {
		if match.Status.Terminal() {
			return apperr.Validation("cannot remove participants from match with status %s", match.Status)
		}
		if match.OrganizerID != organizerID {
			return apperr.Forbidden("only the organizer can remove participants")
		}
		if targetUserID == organizerID {
			return apperr.Validation("organizer cannot remove themselves from the match")
		}
		return c.deleteAndSync(ctx, tx, match, targetUserID, logger)
	})
	if err != nil {
		return err
	}

	logger.Info().Msg("Participant removed from match")
	return nil
}

func (c *Coordinator) deleteAndSync(ctx context.Context, tx *db.DB, match matches.Match, userID string, logger zerolog.Logger) error {
	removed, err := tx.Queries.DeleteParticipation(ctx, dbgen.DeleteParticipationParams{
		UserID:  userID,
		MatchID: match.ID,
	})
	if err != nil {
		return fmt.Errorf("delete participation: %w", err)
	}
	if removed == 0 {
		return apperr.NotFound("user %s is not participating in match %s", userID, match.ID)
	}
	return c.syncStatus(ctx, tx, match, logger)
}

// GetMatchParticipants lists participants by team, then join time. It
// takes no lock.
func (c *Coordinator) GetMatchParticipants(ctx context.Context, matchID string) ([]Participant, error) {
	if _, err := matches.Load(ctx, c.db.Queries, matchID); err != nil {
		return nil, err
	}
	rows, err := c.db.Queries.ListParticipationsByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	result := make([]Participant, 0, len(rows))
	for _, row := range rows {
		result = append(result, fromRow(row))
	}
	return result, nil
}
