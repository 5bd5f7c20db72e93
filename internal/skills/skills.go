// Package skills stores per-user sport skill levels and answers eligibility
// questions for match participation.
package skills

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
	"github.com/codr1/Matchpoint/internal/sports"
)

type Skill struct {
	ID         string            `json:"id"`
	UserID     string            `json:"userId"`
	Sport      sports.Sport      `json:"sport"`
	SkillLevel sports.SkillLevel `json:"skillLevel"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

func fromRow(row dbgen.UserSportSkill) Skill {
	return Skill{
		ID:         row.ID,
		UserID:     row.UserID,
		Sport:      sports.Sport(row.Sport),
		SkillLevel: sports.SkillLevel(row.SkillLevel),
		CreatedAt:  row.CreatedAt.UTC(),
		UpdatedAt:  row.UpdatedAt.UTC(),
	}
}

type Store struct {
	db    *db.DB
	clock clockwork.Clock
}

func NewStore(database *db.DB, clock clockwork.Clock) *Store {
	return &Store{db: database, clock: clock}
}

// MeetsRequirement reports whether userID has a recorded level for sport
// inside [minLevel, maxLevel]. A user with no recorded level is not
// eligible.
func (s *Store) MeetsRequirement(ctx context.Context, userID string, sport sports.Sport, minLevel, maxLevel sports.SkillLevel) (bool, error) {
	row, err := s.db.Queries.GetSkillForUserSport(ctx, dbgen.GetSkillForUserSportParams{
		UserID: userID,
		Sport:  string(sport),
	})
	if err != nil {
		if db.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("get skill: %w", err)
	}
	return sports.SkillLevel(row.SkillLevel).InRange(minLevel, maxLevel), nil
}

func (s *Store) Create(ctx context.Context, userID, sportValue, levelValue string) (Skill, error) {
	sport, err := sports.ParseSport(sportValue)
	if err != nil {
		return Skill{}, err
	}
	level, err := sports.ParseSkillLevel(levelValue)
	if err != nil {
		return Skill{}, err
	}

	now := db.Timestamp(s.clock.Now())
	skill := Skill{
		ID:         uuid.NewString(),
		UserID:     userID,
		Sport:      sport,
		SkillLevel: level,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = s.db.Queries.CreateSkill(ctx, dbgen.CreateSkillParams{
		ID:         skill.ID,
		UserID:     skill.UserID,
		Sport:      string(skill.Sport),
		SkillLevel: string(skill.SkillLevel),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		if db.IsConstraintViolation(err) {
			return Skill{}, apperr.Conflict("skill for %s already recorded", sport)
		}
		return Skill{}, fmt.Errorf("create skill: %w", err)
	}

	log.Ctx(ctx).Debug().Str("user_id", userID).Str("sport", string(sport)).Msg("Skill recorded")
	return skill, nil
}

func (s *Store) ListForUser(ctx context.Context, userID string) ([]Skill, error) {
	rows, err := s.db.Queries.ListSkillsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	result := make([]Skill, 0, len(rows))
	for _, row := range rows {
		result = append(result, fromRow(row))
	}
	return result, nil
}

// Update changes the level of one of userID's own skills.
func (s *Store) Update(ctx context.Context, userID, skillID, levelValue string) (Skill, error) {
	level, err := sports.ParseSkillLevel(levelValue)
	if err != nil {
		return Skill{}, err
	}

	var updated Skill
	err = s.db.RunInTxWithRetry(ctx, func(tx *db.DB) error {
		row, err := tx.Queries.GetSkill(ctx, skillID)
		if err != nil {
			if db.IsNotFound(err) {
				return apperr.NotFound("skill %s not found", skillID)
			}
			return fmt.Errorf("get skill: %w", err)
		}
		if row.UserID != userID {
			return apperr.Forbidden("skill %s belongs to another user", skillID)
		}

		now := db.Timestamp(s.clock.Now())
		if err := tx.Queries.UpdateSkillLevel(ctx, dbgen.UpdateSkillLevelParams{
			SkillLevel: string(level),
			UpdatedAt:  now,
			ID:         skillID,
		}); err != nil {
			return fmt.Errorf("update skill: %w", err)
		}
		updated = fromRow(row)
		updated.SkillLevel = level
		updated.UpdatedAt = now
		return nil
	})
	if err != nil {
		return Skill{}, err
	}
	return updated, nil
}
