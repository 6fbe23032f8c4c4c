// Package model contains domain models passed between layers.
package model

import "time"

// EventType identifies a detected momentum occurrence.
type EventType string

// Momentum event types.
const (
	EventBreak        EventType = "break"
	EventRebreak      EventType = "rebreak"
	EventBigGame      EventType = "big_game"
	EventTiebreakWon  EventType = "tiebreak_won"
	EventTiebreakLost EventType = "tiebreak_lost"
	EventDoubleFault  EventType = "double_fault"
	EventPointStreak  EventType = "point_streak"
	EventErrorCluster EventType = "error_cluster"
)

// Tier ranks an event by severity and visual priority. 1 is the most significant.
type Tier int

// Event tiers.
const (
	TierMajor  Tier = 1
	TierMedium Tier = 2
	TierMinor  Tier = 3
)

// MomentumEvent is a discrete occurrence attributed to a game. Player is the
// beneficiary, except for error clusters where it is the player who erred.
type MomentumEvent struct {
	Game   int       `json:"game" yaml:"game"`     // 1-based game index
	Type   EventType `json:"type" yaml:"type"`     // event kind
	Tier   Tier      `json:"tier" yaml:"tier"`     // 1=major, 2=medium, 3=minor
	Name   string    `json:"name" yaml:"name"`     // human label, e.g. "Break (Djokovic)"
	Icon   string    `json:"icon" yaml:"icon"`     // glyph id
	Player Side      `json:"player" yaml:"player"` // player the event is attributed to
}

// Position is a coordinate in the normalized plot space: x spans [0,1000]
// across the match and y spans [0,280] with 140 as the neutral baseline.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// MomentumOutput is the final artifact of the momentum pipeline. States and
// Colors are index-aligned, one entry per game. Positions carries one extra
// leading anchor.
type MomentumOutput struct {
	States        []float64       `json:"states" yaml:"states"`
	Events        []MomentumEvent `json:"events" yaml:"events"`
	Colors        []string        `json:"colors" yaml:"colors"`
	Positions     []Position      `json:"positions" yaml:"positions"`
	SetSeparators []float64       `json:"setSeparators" yaml:"setSeparators"`
}

// Job asks the worker pool to (re)compute the momentum of a stored match.
type Job struct {
	MatchID  string    // catalog identifier
	Enqueued time.Time // when the job entered the queue
}
