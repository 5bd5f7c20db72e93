// cmd/server/app.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Matchpoint/internal/bookings"
	"github.com/codr1/Matchpoint/internal/config"
	"github.com/codr1/Matchpoint/internal/db"
	"github.com/codr1/Matchpoint/internal/lock"
	"github.com/codr1/Matchpoint/internal/matches"
	"github.com/codr1/Matchpoint/internal/participation"
	"github.com/codr1/Matchpoint/internal/ratelimit"
	"github.com/codr1/Matchpoint/internal/scheduler"
	"github.com/codr1/Matchpoint/internal/skills"
	"github.com/codr1/Matchpoint/internal/timezone"
	"github.com/codr1/Matchpoint/internal/venues"
)

// app holds the process-wide services shared by the HTTP handlers and the
// scheduler.
type app struct {
	db          *db.DB
	redis       *redis.Client
	catalog     *venues.Catalog
	ledger      *bookings.Ledger
	matches     *matches.Service
	coordinator *participation.Coordinator
	skills      *skills.Store
	limiter     *ratelimit.Limiter
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &app{db: database}

	tz, err := timezone.New(cfg.App.Timezone)
	if err != nil {
		a.Close()
		return nil, err
	}
	clock := clockwork.NewRealClock()

	locker, err := a.newLocker(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.limiter = ratelimit.New(&ratelimit.Config{
		Window:     time.Minute,
		MaxPerUser: cfg.RateLimit.WritesPerMinute,
		MaxPerIP:   cfg.RateLimit.IPWritesPerMinute,
		Clock:      clock,
	})
	a.catalog = venues.NewCatalog(database, clock)
	a.ledger = bookings.NewLedger(database, tz, clock)
	a.skills = skills.NewStore(database, clock)
	a.matches = matches.NewService(database, a.ledger, tz, clock, locker)
	a.coordinator = participation.NewCoordinator(database, locker, a.skills, clock)

	if err := scheduler.Init(scheduler.Options{Clock: clock, Location: tz.Location()}); err != nil {
		a.Close()
		return nil, fmt.Errorf("init scheduler: %w", err)
	}
	if _, err := scheduler.RegisterMatchCompletionJob(database, clock, cfg.Scheduler.CompletionCron); err != nil {
		a.Close()
		return nil, fmt.Errorf("register match completion job: %w", err)
	}

	log.Info().
		Str("timezone", tz.Name()).
		Str("lock_driver", cfg.Locks.Driver).
		Str("database", cfg.Database.Filename).
		Msg("Application initialized")
	return a, nil
}

func (a *app) newLocker(ctx context.Context, cfg *config.Config) (lock.Locker, error) {
	opts := lock.Options{
		WaitTimeout: cfg.Locks.WaitTimeout(),
		TTL:         cfg.Locks.TTL(),
	}
	if cfg.Locks.Driver != config.LockDriverRedis {
		return lock.NewLocalLocker(opts), nil
	}

	client, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.redis = client
	return lock.NewRedisLocker(client, opts), nil
}

func (a *app) Close() {
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close redis client")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}
}
