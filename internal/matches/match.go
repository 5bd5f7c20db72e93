// Package matches validates, creates and cancels matches. A match is
// created together with the booking of its venue slot.
package matches

import (
	"context"
	"fmt"
	"time"

	"github.com/codr1/Matchpoint/internal/apperr"
	"github.com/codr1/Matchpoint/internal/db"
	dbgen "github.com/codr1/Matchpoint/internal/db/generated"
	"github.com/codr1/Matchpoint/internal/sports"
)

type Status string

const (
	StatusOpen      Status = "open"
	StatusFull      Status = "full"
	StatusCanceled  Status = "canceled"
	StatusCompleted Status = "completed"
)

func ParseStatus(value string) (Status, error) {
	switch s := Status(value); s {
	case StatusOpen, StatusFull, StatusCanceled, StatusCompleted:
		return s, nil
	default:
		return "", apperr.Validation("unknown match status %q", value)
	}
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusCanceled || s == StatusCompleted
}

// StatusForCount projects a participant count onto open/full.
func StatusForCount(count, capacity int) Status {
	if count >= capacity {
		return StatusFull
	}
	return StatusOpen
}

type Match struct {
	ID             string            `json:"id"`
	OrganizerID    string            `json:"organizerId"`
	Sport          sports.Sport      `json:"sport"`
	VenueID        string            `json:"venueId"`
	StartTime      time.Time         `json:"startTime"`
	NumberOfTeams  int               `json:"numberOfTeams"`
	PlayersPerTeam int               `json:"playersPerTeam"`
	Format         sports.Format     `json:"format,omitempty"`
	MinSkillLevel  sports.SkillLevel `json:"minSkillLevel"`
	MaxSkillLevel  sports.SkillLevel `json:"maxSkillLevel"`
	Status         Status            `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

func (m Match) Capacity() int {
	return m.NumberOfTeams * m.PlayersPerTeam
}

// View is a match with its current participant count.
type View struct {
	Match
	Capacity         int `json:"capacity"`
	ParticipantCount int `json:"participantCount"`
}

func newView(m Match, count int64) View {
	return View{Match: m, Capacity: m.Capacity(), ParticipantCount: int(count)}
}

func FromRow(row dbgen.Match) Match {
	return Match{
		ID:             row.ID,
		OrganizerID:    row.OrganizerID,
		Sport:          sports.Sport(row.Sport),
		VenueID:        row.VenueID,
		StartTime:      row.StartTime.UTC(),
		NumberOfTeams:  int(row.NumberOfTeams),
		PlayersPerTeam: int(row.PlayersPerTeam),
		Format:         sports.Format(row.Format.String),
		MinSkillLevel:  sports.SkillLevel(row.MinSkillLevel),
		MaxSkillLevel:  sports.SkillLevel(row.MaxSkillLevel),
		Status:         Status(row.Status),
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}
}

// Load reads one match through q, which may be bound to a transaction.
func Load(ctx context.Context, q *dbgen.Queries, id string) (Match, error) {
	row, err := q.GetMatch(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return Match{}, apperr.NotFound("match %s not found", id)
		}
		return Match{}, fmt.Errorf("get match: %w", err)
	}
	return FromRow(row), nil
}
