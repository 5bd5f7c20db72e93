package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/codr1/Matchpoint/internal/db"
	dbgen "github.com/codr1/Matchpoint/internal/db/generated"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// VenueSeed describes a venue row. Zero fields take the defaults of a
// football pitch open 11:00-20:00 with 60 minute slots.
type VenueSeed struct {
	ID                  string
	Name                string
	City                string
	Address             string
	SportType           string
	CapacityPlayers     int
	OpeningTime         string
	ClosingTime         string
	SlotDurationMinutes int
}

func SeedVenue(t *testing.T, database *db.DB, seed VenueSeed) string {
	t.Helper()

	if seed.ID == "" {
		seed.ID = uuid.NewString()
	}
	if seed.Name == "" {
		seed.Name = "Pitch " + seed.ID[:8]
	}
	if seed.City == "" {
		seed.City = "Sofia"
	}
	if seed.Address == "" {
		seed.Address = "1 Vitosha Blvd"
	}
	if seed.SportType == "" {
		seed.SportType = "football"
	}
	if seed.CapacityPlayers == 0 {
		seed.CapacityPlayers = 10
	}
	if seed.OpeningTime == "" {
		seed.OpeningTime = "11:00"
	}
	if seed.ClosingTime == "" {
		seed.ClosingTime = "20:00"
	}
	if seed.SlotDurationMinutes == 0 {
		seed.SlotDurationMinutes = 60
	}

	err := database.Queries.CreateVenue(context.Background(), dbgen.CreateVenueParams{
		ID:                  seed.ID,
		Name:                seed.Name,
		City:                seed.City,
		Address:             seed.Address,
		SportType:           seed.SportType,
		CapacityPlayers:     int64(seed.CapacityPlayers),
		OpeningTime:         seed.OpeningTime,
		ClosingTime:         seed.ClosingTime,
		SlotDurationMinutes: int64(seed.SlotDurationMinutes),
		CreatedAt:           db.Timestamp(time.Now()),
	})
	if err != nil {
		t.Fatalf("seed venue: %v", err)
	}
	return seed.ID
}

// MatchSeed describes a match row and the booking it owns. No booking is
// written for canceled matches or when NoBooking is set.
type MatchSeed struct {
	ID             string
	OrganizerID    string
	Sport          string
	VenueID        string
	StartAt        time.Time
	Duration       time.Duration
	PlayersPerTeam int
	Format         string
	MinSkill       string
	MaxSkill       string
	Status         string
	NoBooking      bool
}

func SeedMatch(t *testing.T, database *db.DB, seed MatchSeed) string {
	t.Helper()

	if seed.ID == "" {
		seed.ID = uuid.NewString()
	}
	if seed.OrganizerID == "" {
		seed.OrganizerID = "organizer"
	}
	if seed.Sport == "" {
		seed.Sport = "football"
	}
	if seed.Duration == 0 {
		seed.Duration = time.Hour
	}
	if seed.PlayersPerTeam == 0 {
		seed.PlayersPerTeam = 5
	}
	if seed.MinSkill == "" {
		seed.MinSkill = "beginner"
	}
	if seed.MaxSkill == "" {
		seed.MaxSkill = "advanced"
	}
	if seed.Status == "" {
		seed.Status = "open"
	}

	ctx := context.Background()
	now := db.Timestamp(time.Now())
	start := db.Timestamp(seed.StartAt)
	err := database.RunInTx(ctx, func(tx *db.DB) error {
		if err := tx.Queries.CreateMatch(ctx, dbgen.CreateMatchParams{
			ID:             seed.ID,
			OrganizerID:    seed.OrganizerID,
			Sport:          seed.Sport,
			VenueID:        seed.VenueID,
			StartTime:      start,
			NumberOfTeams:  2,
			PlayersPerTeam: int64(seed.PlayersPerTeam),
			Format:         sql.NullString{String: seed.Format, Valid: seed.Format != ""},
			MinSkillLevel:  seed.MinSkill,
			MaxSkillLevel:  seed.MaxSkill,
			Status:         seed.Status,
			CreatedAt:      now,
			UpdatedAt:      now,
		}); err != nil {
			return err
		}
		if seed.Status == "canceled" || seed.NoBooking {
			return nil
		}
		return tx.Queries.CreateBooking(ctx, dbgen.CreateBookingParams{
			ID:        uuid.NewString(),
			VenueID:   seed.VenueID,
			MatchID:   seed.ID,
			StartAt:   start,
			EndAt:     start.Add(seed.Duration),
			CreatedAt: now,
		})
	})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}
	return seed.ID
}

func SeedParticipation(t *testing.T, database *db.DB, matchID, userID string, team int, joinedAt time.Time) {
	t.Helper()

	err := database.Queries.CreateParticipation(context.Background(), dbgen.CreateParticipationParams{
		ID:       uuid.NewString(),
		UserID:   userID,
		MatchID:  matchID,
		Team:     int64(team),
		JoinedAt: db.Timestamp(joinedAt),
	})
	if err != nil {
		t.Fatalf("seed participation: %v", err)
	}
}

func SeedSkill(t *testing.T, database *db.DB, userID, sport, level string) string {
	t.Helper()

	id := uuid.NewString()
	now := db.Timestamp(time.Now())
	err := database.Queries.CreateSkill(context.Background(), dbgen.CreateSkillParams{
		ID:         id,
		UserID:     userID,
		Sport:      sport,
		SkillLevel: level,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("seed skill: %v", err)
	}
	return id
}

// MatchStatus reads a match's persisted status.
func MatchStatus(t *testing.T, database *db.DB, matchID string) string {
	t.Helper()

	match, err := database.Queries.GetMatch(context.Background(), matchID)
	if err != nil {
		t.Fatalf("get match %s: %v", matchID, err)
	}
	return match.Status
}
