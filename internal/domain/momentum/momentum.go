// Package momentum composes event detection, state calculation and visual
// mapping into the full momentum pipeline for a match.
package momentum

import (
	"context"
	"fmt"

	"github.com/okian/momentum/internal/domain/detect"
	"github.com/okian/momentum/internal/domain/model"
	"github.com/okian/momentum/internal/domain/state"
	"github.com/okian/momentum/internal/domain/visual"
)

// Calculate runs the pipeline for m: events are detected from the point log,
// folded into per-game states, and mapped to plot geometry. Set separators are
// added last. Every slice in the result is freshly allocated.
func Calculate(m model.Match) model.MomentumOutput {
	events := detect.Events(m.PointSequence, m.Sets, m.Player1.Name, m.Player2.Name)
	states := state.Calculate(events, m.Sets)
	v := visual.Map(states, events)

	return model.MomentumOutput{
		States:        states,
		Events:        events,
		Colors:        v.Colors,
		Positions:     v.Positions,
		SetSeparators: SetSeparators(m.Sets),
	}
}

// SetSeparators returns the x coordinate of every boundary between sets, one
// fewer than the number of sets. A match without games yields zeros.
func SetSeparators(sets []model.Set) []float64 {
	if len(sets) < 2 {
		return []float64{}
	}
	total := model.TotalGames(sets)
	ends := model.SetEndGames(sets)

	separators := make([]float64, 0, len(sets)-1)
	for _, end := range ends[:len(ends)-1] {
		x := 0.0
		if total > 0 {
			x = float64(end) / float64(total) * visual.Width
		}
		separators = append(separators, x)
	}
	return separators
}

// Calculator computes the momentum output of a match.
type Calculator interface {
	// Calculate runs the pipeline for m, honoring ctx for cancellation.
	Calculate(ctx context.Context, m model.Match) (model.MomentumOutput, error)
}

// Engine implements Calculator on top of the synchronous pipeline.
type Engine struct {
	player1Name string
	player2Name string
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDefaultPlayerNames sets the labels used when a match carries no player names.
func WithDefaultPlayerNames(player1, player2 string) Option {
	return func(e *Engine) {
		if player1 != "" {
			e.player1Name = player1
		}
		if player2 != "" {
			e.player2Name = player2
		}
	}
}

// NewEngine creates an Engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		player1Name: detect.DefaultPlayer1Name,
		player2Name: detect.DefaultPlayer2Name,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Calculate runs the pipeline unless ctx is already done. The pipeline itself
// never blocks, so cancellation is only observed before it starts.
func (e *Engine) Calculate(ctx context.Context, m model.Match) (model.MomentumOutput, error) {
	if err := ctx.Err(); err != nil {
		return model.MomentumOutput{}, fmt.Errorf("context cancelled: %w", err)
	}
	if m.Player1.Name == "" {
		m.Player1.Name = e.player1Name
	}
	if m.Player2.Name == "" {
		m.Player2.Name = e.player2Name
	}
	return Calculate(m), nil
}
