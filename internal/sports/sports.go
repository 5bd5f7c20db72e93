// Package sports holds the per-sport capacity rules and the skill level
// ordering used for eligibility.
package sports

import (
	"strings"

	"github.com/codr1/Matchpoint/internal/apperr"
)

type Sport string

const (
	Football   Sport = "football"
	Basketball Sport = "basketball"
	Volleyball Sport = "volleyball"
	Tennis     Sport = "tennis"
	Padel      Sport = "padel"
)

type Format string

const (
	Singles Format = "singles"
	Doubles Format = "doubles"
)

// NumberOfTeams is the same for every supported sport.
const NumberOfTeams = 2

type rule struct {
	// formats maps an allowed format to players per team. Nil for team
	// sports, where players per team is derived from venue capacity.
	formats map[Format]int
}

var rules = map[Sport]rule{
	Football:   {},
	Basketball: {},
	Volleyball: {},
	Tennis:     {formats: map[Format]int{Singles: 1, Doubles: 2}},
	Padel:      {formats: map[Format]int{Doubles: 2}},
}

func ParseSport(value string) (Sport, error) {
	sport := Sport(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := rules[sport]; !ok {
		return "", apperr.Validation("unsupported sport %q", value)
	}
	return sport, nil
}

// UsesFormat reports whether matches of this sport require a format.
func (s Sport) UsesFormat() bool {
	return rules[s].formats != nil
}

// Capacity describes the team layout of a match.
type Capacity struct {
	NumberOfTeams  int
	PlayersPerTeam int
	Format         Format
}

func (c Capacity) Total() int {
	return c.NumberOfTeams * c.PlayersPerTeam
}

// ComputeCapacity derives the team layout for a match of sport at a venue
// holding venueCapacity players. Team sports split the venue capacity
// evenly; format sports take players per team from the format and must fit
// in the venue.
func ComputeCapacity(sport Sport, format string, venueCapacity int) (Capacity, error) {
	r, ok := rules[sport]
	if !ok {
		return Capacity{}, apperr.Validation("unsupported sport %q", sport)
	}
	format = strings.ToLower(strings.TrimSpace(format))

	if !sport.UsesFormat() {
		if format != "" {
			return Capacity{}, apperr.Validation("sport %s does not take a format", sport)
		}
		if venueCapacity%NumberOfTeams != 0 || venueCapacity/NumberOfTeams < 1 {
			return Capacity{}, apperr.Validation(
				"venue capacity %d cannot be split evenly into %d teams", venueCapacity, NumberOfTeams)
		}
		return Capacity{NumberOfTeams: NumberOfTeams, PlayersPerTeam: venueCapacity / NumberOfTeams}, nil
	}

	if format == "" {
		return Capacity{}, apperr.Validation("sport %s requires a format", sport)
	}
	perTeam, ok := r.formats[Format(format)]
	if !ok {
		return Capacity{}, apperr.Validation("format %q is not available for %s", format, sport)
	}
	capacity := Capacity{NumberOfTeams: NumberOfTeams, PlayersPerTeam: perTeam, Format: Format(format)}
	if capacity.Total() > venueCapacity {
		return Capacity{}, apperr.Validation(
			"%s %s needs %d players but the venue holds %d", sport, format, capacity.Total(), venueCapacity)
	}
	return capacity, nil
}

type SkillLevel string

const (
	Beginner     SkillLevel = "beginner"
	Intermediate SkillLevel = "intermediate"
	Advanced     SkillLevel = "advanced"
)

var skillRanks = map[SkillLevel]int{
	Beginner:     1,
	Intermediate: 2,
	Advanced:     3,
}

func ParseSkillLevel(value string) (SkillLevel, error) {
	level := SkillLevel(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := skillRanks[level]; !ok {
		return "", apperr.Validation("unknown skill level %q", value)
	}
	return level, nil
}

func (l SkillLevel) Rank() int {
	return skillRanks[l]
}

// ParseSkillRange parses both bounds and rejects min > max.
func ParseSkillRange(minValue, maxValue string) (SkillLevel, SkillLevel, error) {
	minLevel, err := ParseSkillLevel(minValue)
	if err != nil {
		return "", "", err
	}
	maxLevel, err := ParseSkillLevel(maxValue)
	if err != nil {
		return "", "", err
	}
	if minLevel.Rank() > maxLevel.Rank() {
		return "", "", apperr.Validation("min skill level %s is above max skill level %s", minLevel, maxLevel)
	}
	return minLevel, maxLevel, nil
}

// InRange reports whether l lies within [minLevel, maxLevel].
func (l SkillLevel) InRange(minLevel, maxLevel SkillLevel) bool {
	rank := l.Rank()
	return rank != 0 && rank >= minLevel.Rank() && rank <= maxLevel.Rank()
}
