package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Matchpoint/internal/db"
	dbgen "github.com/codr1/Matchpoint/internal/db/generated"
)

const (
	MatchCompletionJobName = "match_completion"
	matchCompletionTimeout = 30 * time.Second
)

// CompleteEndedMatches marks every open or full match whose booking ended
// at or before now as completed. It is a single conditional UPDATE, so
// concurrent runs from several instances converge on the same state.
func CompleteEndedMatches(ctx context.Context, database *db.DB, now time.Time) (int64, error) {
	if database == nil {
		return 0, fmt.Errorf("match completion requires database")
	}

	now = db.Timestamp(now)
	completed, err := database.Queries.CompleteEndedMatches(ctx, dbgen.CompleteEndedMatchesParams{
		UpdatedAt: now,
		Now:       now,
	})
	if err != nil {
		return 0, fmt.Errorf("complete ended matches: %w", err)
	}

	logger := log.Ctx(ctx)
	if completed > 0 {
		logger.Info().Int64("completed", completed).Time("now", now).Msg("Marked ended matches completed")
	} else {
		logger.Debug().Time("now", now).Msg("No ended matches to complete")
	}
	return completed, nil
}

// RegisterMatchCompletionJob registers the completion sweep on the
// singleton scheduler.
func RegisterMatchCompletionJob(database *db.DB, clock clockwork.Clock, cronExpr string) (gocron.Job, error) {
	svc, err := ServiceInstance()
	if err != nil {
		return nil, err
	}
	return svc.RegisterMatchCompletionJob(database, clock, cronExpr)
}

func (s *Service) RegisterMatchCompletionJob(database *db.DB, clock clockwork.Clock, cronExpr string) (gocron.Job, error) {
	if database == nil {
		return nil, fmt.Errorf("match completion job requires database")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	jobLogger := log.With().
		Str("component", "match_completion_job").
		Str("job_name", MatchCompletionJobName).
		Logger()

	return s.AddJob(MatchCompletionJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), matchCompletionTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if _, err := CompleteEndedMatches(ctx, database, clock.Now()); err != nil {
			jobLogger.Error().Err(err).Msg("Match completion sweep failed")
		}
	})
}
