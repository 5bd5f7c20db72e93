// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	sqlite "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Matchpoint/internal/apperr"
	"github.com/codr1/Matchpoint/internal/config"
	dbgen "github.com/codr1/Matchpoint/internal/db/generated"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	defaultBusyTimeoutMS = 5000
	defaultMaxTxRetries  = 3
	retryBackoff         = 25 * time.Millisecond
)

type DB struct {
	*sql.DB
	Queries *dbgen.Queries

	maxTxRetries int
}

// New opens a SQLite database for the given data source name with the
// default busy timeout, applies embedded migrations, and returns a DB with
// generated queries bound to the connection.
func New(dataSourceName string) (*DB, error) {
	return open(dataSourceName, defaultBusyTimeoutMS, defaultMaxTxRetries)
}

// NewFromConfig opens the configured database, creating the database
// directory if needed, and applies migrations.
func NewFromConfig(cfg *config.Config) (*DB, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Filename), 0755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
		return open(cfg.Database.Filename, cfg.Database.BusyTimeoutMS, cfg.Database.MaxTxRetries)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}

func open(dataSourceName string, busyTimeoutMS, maxTxRetries int) (*DB, error) {
	if busyTimeoutMS <= 0 {
		busyTimeoutMS = defaultBusyTimeoutMS
	}
	if maxTxRetries <= 0 {
		maxTxRetries = defaultMaxTxRetries
	}

	sqlDB, err := sql.Open("sqlite3", BuildDSN(dataSourceName, busyTimeoutMS))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := runMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	return &DB{
		DB:           sqlDB,
		Queries:      dbgen.New(sqlDB),
		maxTxRetries: maxTxRetries,
	}, nil
}

// BuildDSN appends the connection parameters the service depends on:
// foreign keys, a busy timeout, IMMEDIATE transactions so writers take the
// database write lock at BEGIN, and WAL journaling. Parameters already
// present in the DSN are left alone.
func BuildDSN(dataSourceName string, busyTimeoutMS int) string {
	params := []struct{ key, value string }{
		{"_fk", "1"},
		{"_busy_timeout", fmt.Sprint(busyTimeoutMS)},
		{"_txlock", "immediate"},
		{"_journal_mode", "WAL"},
	}
	for _, p := range params {
		if strings.Contains(dataSourceName, p.key+"=") {
			continue
		}
		sep := "?"
		if strings.Contains(dataSourceName, "?") {
			sep = "&"
		}
		dataSourceName += sep + p.key + "=" + p.value
	}
	return dataSourceName
}

// runMigrations applies the embedded SQL migrations from migrationsFS to the provided database.
// A "no change" result is not treated as an error.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not create source: %w", err)
	}

	m, err := migrate.NewWithInstance(
		"iofs", source,
		"sqlite3", driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// MigrationsSource exposes the embedded migrations for the dbtools binary.
func MigrationsSource() (source.Driver, error) {
	return iofs.New(migrationsFS, "migrations")
}

// WithTx creates a new DB instance with the given transaction. Only
// Queries is bound to tx; the embedded *sql.DB is still the pool, and
// writing through it while an immediate transaction is open blocks until
// the busy timeout.
func (db *DB) WithTx(tx *sql.Tx) *DB {
	return &DB{
		DB:           db.DB,
		Queries:      dbgen.New(tx),
		maxTxRetries: db.maxTxRetries,
	}
}

// BeginTx starts a transaction
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	return tx, nil
}

// RunInTx runs the given function in a transaction. fn must go through
// the Queries of the *DB it receives.
func (db *DB) RunInTx(ctx context.Context, fn func(*DB) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	txDB := db.WithTx(tx)
	if err := fn(txDB); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("error rolling back: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing: %w", err)
	}

	return nil
}

// RunInTxWithRetry runs fn in a transaction, retrying when SQLite reports
// the database busy or locked. Once retries are exhausted the failure
// surfaces as a Conflict.
func (db *DB) RunInTxWithRetry(ctx context.Context, fn func(*DB) error) error {
	attempts := db.maxTxRetries
	if attempts <= 0 {
		attempts = defaultMaxTxRetries
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = db.RunInTx(ctx, fn)
		if err == nil || !IsTransient(err) {
			return err
		}

		log.Ctx(ctx).Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Msg("Transient store contention, retrying transaction")

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return apperr.Wrap(apperr.KindConflict, err, "store is busy, retry the request")
}

// IsTransient reports whether err is SQLite busy/locked contention.
func IsTransient(err error) bool {
	var sqliteErr sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite.ErrBusy || sqliteErr.Code == sqlite.ErrLocked
	}
	return false
}

// IsConstraintViolation reports whether err is a UNIQUE or PRIMARY KEY
// violation.
func IsConstraintViolation(err error) bool {
	var sqliteErr sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite.ErrConstraintPrimaryKey
	}
	return false
}

// IsNotFound reports whether err is sql.ErrNoRows.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Timestamp normalizes an instant for storage: UTC, second precision.
// Stored instants compare correctly as text only in this form.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
