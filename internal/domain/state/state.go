// Package state turns detected momentum events into one bounded momentum
// value per game. The scan carries an explicit accumulator from game to game:
// events override the value, quiet games decay it, and set ends damp it back
// toward neutral.
package state

import (
	"math"

	"github.com/okian/momentum/internal/domain/model"
)

// State bounds and step sizes.
const (
	MaxState = 2.0
	MinState = -2.0

	naturalDecayStep = 0.5
	setDampingStep   = 1.0
)

// Override magnitudes, applied with the beneficiary's sign.
const (
	breakMagnitude        = 2.0
	rebreakMagnitude      = 2.0 // a rebreak currently weighs the same as a break
	bigGameMagnitude      = 1.0
	streakMagnitude       = 1.0
	errorClusterMagnitude = 1.0
	doubleFaultMajor      = 2.0
	doubleFaultMinor      = 1.0
)

// Games during which decay is held off after an override.
const (
	shortHold = 1
	longHold  = 2

	rebreakWindow = 2 // games to look back for an opposing break
)

// hold tracks how many upcoming quiet games skip decay.
type hold struct {
	short int
	long  int
}

// accumulator is the mutable scan context threaded through the games.
type accumulator struct {
	current float64 // unclipped working value
	hold    hold
}

// Calculate returns one momentum state per game across all sets, each clipped
// to [MinState, MaxState]. Events outside [1, total games] never match a game
// and are ignored, as are unknown event types.
func Calculate(events []model.MomentumEvent, sets []model.Set) []float64 {
	total := model.TotalGames(sets)
	states := make([]float64, total)

	byGame := make(map[int][]model.MomentumEvent)
	for _, e := range events {
		byGame[e.Game] = append(byGame[e.Game], e)
	}

	setEnds := make(map[int]bool, len(sets))
	for _, g := range model.SetEndGames(sets) {
		setEnds[g] = true
	}

	var acc accumulator
	for g := 1; g <= total; g++ {
		acc = acc.step(g, byGame[g], events, setEnds[g])
		states[g-1] = clip(acc.current)
	}
	return states
}

// step advances the scan by one game.
func (a accumulator) step(game int, gameEvents, all []model.MomentumEvent, setEnd bool) accumulator {
	for _, e := range gameEvents {
		a = a.apply(game, e, all)
	}

	if len(gameEvents) == 0 {
		switch {
		case a.hold.short > 0:
			a.hold.short--
		case a.hold.long > 0:
			a.hold.long--
		default:
			a.current = towardZero(a.current, naturalDecayStep)
		}
	}

	if setEnd {
		a.current = towardZero(a.current, setDampingStep)
		a.hold = hold{}
	}
	return a
}

// apply overrides the working value for a single event. When several events
// share a game the last one wins.
func (a accumulator) apply(game int, e model.MomentumEvent, all []model.MomentumEvent) accumulator {
	sign := e.Player.Sign()

	switch e.Type {
	case model.EventBreak:
		if opposingBreakWithin(all, game, e.Player) {
			a.current = rebreakMagnitude * sign
		} else {
			a.current = breakMagnitude * sign
		}
		a.hold.long = longHold
	case model.EventRebreak, model.EventTiebreakWon:
		a.current = breakMagnitude * sign
		a.hold.long = longHold
	case model.EventBigGame:
		a.current = bigGameMagnitude * sign
		a.hold.long = longHold
	case model.EventPointStreak:
		a.current = streakMagnitude * sign
		a.hold.short = shortHold
	case model.EventErrorCluster:
		// the erring player's own side is pushed down
		a.current = -errorClusterMagnitude * sign
		a.hold.short = shortHold
	case model.EventDoubleFault:
		if e.Tier == model.TierMajor {
			a.current = -doubleFaultMajor * sign
		} else {
			a.current = -doubleFaultMinor * sign
		}
		a.hold.short = shortHold
	}
	return a
}

// opposingBreakWithin reports whether the opponent of player broke within the
// rebreakWindow games before game.
func opposingBreakWithin(events []model.MomentumEvent, game int, player model.Side) bool {
	for _, e := range events {
		if e.Type == model.EventBreak && e.Game < game && e.Game >= game-rebreakWindow && e.Player != player {
			return true
		}
	}
	return false
}

// towardZero moves v by step toward 0 without crossing it.
func towardZero(v, step float64) float64 {
	switch {
	case v > 0:
		return math.Max(0, v-step)
	case v < 0:
		return math.Min(0, v+step)
	}
	return v
}

func clip(v float64) float64 {
	return math.Max(MinState, math.Min(MaxState, v))
}
