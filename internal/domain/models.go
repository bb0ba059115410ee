package domain

import (
	"time"
)

// StatEvent is the closed set of outcomes a classified gesture can produce.
type StatEvent string

const (
	EventRebound     StatEvent = "rebound"
	EventShotAttempt StatEvent = "shot_attempt"
	EventShotMade    StatEvent = "shot_made"
	EventSteal       StatEvent = "steal"
	EventTurnover    StatEvent = "turnover"
	EventAssist      StatEvent = "assist"
)

// Label is the short human-readable form used in confirmation messages.
func (e StatEvent) Label() string {
	switch e {
	case EventRebound:
		return "Rebound"
	case EventShotAttempt:
		return "Shot Attempt"
	case EventShotMade:
		return "Shot Made"
	case EventSteal:
		return "Steal"
	case EventTurnover:
		return "Turnover"
	case EventAssist:
		return "Assist"
	}
	return string(e)
}

// PointsPerMade is the value of a recorded made shot.
const PointsPerMade = 2

type PlayerStat struct {
	ID             string
	Name           string
	Position       int // seed order, drives the two-team split
	Points         int
	Rebounds       int
	Assists        int
	Steals         int
	Turnovers      int
	ShotsMade      int
	ShotsAttempted int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FieldGoalPercentage is always derived, never stored. Zero attempts is
// defined as 0, not a division error.
func (p PlayerStat) FieldGoalPercentage() float64 {
	if p.ShotsAttempted == 0 {
		return 0
	}
	return 100 * float64(p.ShotsMade) / float64(p.ShotsAttempted)
}

// DragSample is one completed drag gesture, in surface coordinates where
// positive Y points down.
type DragSample struct {
	DX float64
	DY float64
}

// TeamSplit is the positional bisection of the ordered roster: the first
// half is the home bench, the second half the away bench.
type TeamSplit struct {
	Home []PlayerStat
	Away []PlayerStat
}

// Split partitions an ordered roster into two teams by position. Every
// player lands on exactly one side; with an odd count the extra slot
// goes to the away team.
func Split(players []PlayerStat) TeamSplit {
	mid := len(players) / 2
	return TeamSplit{
		Home: players[:mid],
		Away: players[mid:],
	}
}

// StatUpdate is what the hub fans out after an event is applied.
type StatUpdate struct {
	PlayerID string     `json:"playerId"`
	Event    StatEvent  `json:"event"`
	Player   PlayerStat `json:"player"`
	At       time.Time  `json:"at"`
}
