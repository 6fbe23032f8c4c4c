package model

import (
	"errors"
	"fmt"
)

// ErrInvalidMatch marks a match record that cannot be fed to the pipeline.
var ErrInvalidMatch = errors.New("invalid match")

// Limits on match size. The longest recorded set ran to 138 games.
const (
	MaxSetGames   = 200
	MaxTotalGames = 1000
)

// Validate checks the structural shape of a match record. The momentum
// pipeline never calls it; it is applied at the edges where records enter
// the system (catalog files, HTTP bodies).
func (m *Match) Validate() error {
	total := 0
	for i, s := range m.Sets {
		switch {
		case s.Games < 0:
			return fmt.Errorf("%w: set %d has negative game count %d", ErrInvalidMatch, i+1, s.Games)
		case s.Games > MaxSetGames:
			return fmt.Errorf("%w: set %d has %d games, want <= %d", ErrInvalidMatch, i+1, s.Games, MaxSetGames)
		}
		total += s.Games
		if total > MaxTotalGames {
			return fmt.Errorf("%w: match has more than %d games", ErrInvalidMatch, MaxTotalGames)
		}
	}
	for i, p := range m.PointSequence {
		switch {
		case p.Game < 1:
			return fmt.Errorf("%w: point %d has game %d, want >= 1", ErrInvalidMatch, i, p.Game)
		case !p.Winner.Valid():
			return fmt.Errorf("%w: point %d has unknown winner %q", ErrInvalidMatch, i, p.Winner)
		case !p.Server.Valid():
			return fmt.Errorf("%w: point %d has unknown server %q", ErrInvalidMatch, i, p.Server)
		case !p.Type.Valid():
			return fmt.Errorf("%w: point %d has unknown type %q", ErrInvalidMatch, i, p.Type)
		}
	}
	return nil
}
