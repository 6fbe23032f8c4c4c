// Package detect scans a match's point log and set metadata for discrete
// momentum events: breaks, big games, point streaks, error clusters and
// tiebreak outcomes.
package detect

import (
	"fmt"

	"github.com/okian/momentum/internal/domain/model"
)

// Default player labels used when a match carries no names.
const (
	DefaultPlayer1Name = "Player 1"
	DefaultPlayer2Name = "Player 2"
)

// Glyph ids attached to events.
const (
	IconPadlock   = "🔓"
	IconStar      = "⭐"
	IconLightning = "⚡"
	IconCross     = "❌"
	IconTrophy    = "🏆"
)

// Detection thresholds.
const (
	deuceScore       = 3 // both players at 40
	bigGameMinDeuces = 2
	streakMinLength  = 3
)

// Events detects momentum events in points (chronological) and sets. Each rule
// runs independently over the whole log, so one point may feed several events.
// The result is grouped by rule, not sorted by game.
func Events(points []model.Point, sets []model.Set, player1Name, player2Name string) []model.MomentumEvent {
	if player1Name == "" {
		player1Name = DefaultPlayer1Name
	}
	if player2Name == "" {
		player2Name = DefaultPlayer2Name
	}
	names := playerNames{player1: player1Name, player2: player2Name}

	events := make([]model.MomentumEvent, 0)
	for _, game := range groupByGame(points) {
		events = append(events, gameEvents(game, names)...)
	}
	events = append(events, pointStreaks(points, names)...)
	events = append(events, errorClusters(points, names)...)
	events = append(events, tiebreaks(sets, names)...)
	return events
}

type playerNames struct {
	player1 string
	player2 string
}

func (n playerNames) of(s model.Side) string {
	if s == model.Player1 {
		return n.player1
	}
	return n.player2
}

// groupByGame splits points into per-game slices, ordered by each game's first appearance.
func groupByGame(points []model.Point) [][]model.Point {
	index := make(map[int]int)
	var games [][]model.Point
	for _, p := range points {
		i, ok := index[p.Game]
		if !ok {
			i = len(games)
			index[p.Game] = i
			games = append(games, nil)
		}
		games[i] = append(games[i], p)
	}
	return games
}

// gameEvents emits the break and big-game events of a single game.
func gameEvents(game []model.Point, names playerNames) []model.MomentumEvent {
	if len(game) == 0 {
		return nil
	}
	number := game[0].Game
	server := game[0].Server
	winner := game[len(game)-1].Winner

	var out []model.MomentumEvent
	if winner != server {
		out = append(out, model.MomentumEvent{
			Game:   number,
			Type:   model.EventBreak,
			Tier:   model.TierMajor,
			Name:   fmt.Sprintf("Break (%s)", names.of(winner)),
			Icon:   IconPadlock,
			Player: winner,
		})
	}

	if countDeuces(game) >= bigGameMinDeuces {
		out = append(out, model.MomentumEvent{
			Game:   number,
			Type:   model.EventBigGame,
			Tier:   model.TierMedium,
			Name:   fmt.Sprintf("Big Game (%s)", names.of(winner)),
			Icon:   IconStar,
			Player: winner,
		})
	}
	return out
}

// countDeuces replays the game tally and counts every tied score at or beyond 40-40.
func countDeuces(game []model.Point) int {
	p1, p2, deuces := 0, 0, 0
	for _, p := range game {
		if p.Winner == model.Player1 {
			p1++
		} else {
			p2++
		}
		if p1 >= deuceScore && p2 >= deuceScore && p1 == p2 {
			deuces++
		}
	}
	return deuces
}

// pointStreaks finds maximal runs of consecutive points won by one player,
// ignoring game boundaries.
func pointStreaks(points []model.Point, names playerNames) []model.MomentumEvent {
	var out []model.MomentumEvent
	emit := func(player model.Side, length, game int) {
		if length < streakMinLength || player == "" {
			return
		}
		out = append(out, model.MomentumEvent{
			Game:   game,
			Type:   model.EventPointStreak,
			Tier:   model.TierMedium,
			Name:   fmt.Sprintf("%d-Point Streak (%s)", length, names.of(player)),
			Icon:   IconLightning,
			Player: player,
		})
	}

	var current model.Side
	length := 0
	for i, p := range points {
		if p.Winner == current {
			length++
			continue
		}
		if i > 0 {
			emit(current, length, points[i-1].Game)
		}
		current = p.Winner
		length = 1
	}
	// a streak running to the end of the log still counts
	if len(points) > 0 {
		emit(current, length, points[len(points)-1].Game)
	}
	return out
}

// errorClusters pairs adjacent unforced errors committed by the same player.
// A matched pair is consumed, so three in a row yield a single cluster.
func errorClusters(points []model.Point, names playerNames) []model.MomentumEvent {
	var out []model.MomentumEvent
	for i := 0; i < len(points)-1; i++ {
		first, second := committer(points[i]), committer(points[i+1])
		if first == "" || first != second {
			continue
		}
		out = append(out, model.MomentumEvent{
			Game:   points[i+1].Game,
			Type:   model.EventErrorCluster,
			Tier:   model.TierMinor,
			Name:   fmt.Sprintf("Error Cluster (%s)", names.of(first)),
			Icon:   IconCross,
			Player: first,
		})
		i++
	}
	return out
}

// committer returns the player who made the unforced error on p, i.e. the
// point's loser, or "" when p did not end in an unforced error.
func committer(p model.Point) model.Side {
	if p.Type != model.PointUnforcedError {
		return ""
	}
	return p.Winner.Opponent()
}

// tiebreaks emits a tiebreak_won event for each decided tiebreak set. The game
// is the set's local game count, not a global index.
func tiebreaks(sets []model.Set, names playerNames) []model.MomentumEvent {
	var out []model.MomentumEvent
	for _, s := range sets {
		if !s.Tiebreak || s.Winner == "" {
			continue
		}
		player := model.Player2
		if s.Winner == names.player1 {
			player = model.Player1
		}
		out = append(out, model.MomentumEvent{
			Game:   s.Games,
			Type:   model.EventTiebreakWon,
			Tier:   model.TierMajor,
			Name:   fmt.Sprintf("Tiebreak Won (%s)", s.Winner),
			Icon:   IconTrophy,
			Player: player,
		})
	}
	return out
}
