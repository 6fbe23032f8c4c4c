package simulate

import (
	"errors"
	"fmt"
	"slices"

	"github.com/okian/momentum/internal/domain/model"
	"github.com/okian/momentum/internal/domain/momentum"
	"github.com/okian/momentum/internal/domain/state"
	"github.com/okian/momentum/internal/domain/visual"
)

// VerifyOutput checks out against the structural guarantees of a momentum
// output for m. Every violation is reported; each wraps ErrInvariant.
func VerifyOutput(m model.Match, out model.MomentumOutput) error {
	total := model.TotalGames(m.Sets)
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...)))
	}

	if len(out.States) != total {
		fail("%d states for %d games", len(out.States), total)
	}
	if len(out.Colors) != len(out.States) {
		fail("%d colors for %d states", len(out.Colors), len(out.States))
	}
	for i, s := range out.States {
		if s < state.MinState || s > state.MaxState {
			fail("state %d is %v, outside [%v, %v]", i+1, s, state.MinState, state.MaxState)
		}
		if i < len(out.Colors) && out.Colors[i] != visual.Color(s) {
			fail("game %d has color %s, want %s", i+1, out.Colors[i], visual.Color(s))
		}
	}

	if len(out.Positions) != len(out.States)+1 {
		fail("%d positions for %d states", len(out.Positions), len(out.States))
	} else {
		if out.Positions[0] != (model.Position{X: 0, Y: visual.Baseline}) {
			fail("anchor is %+v", out.Positions[0])
		}
		for i, p := range out.Positions {
			if p.X < 0 || p.X > visual.Width || p.Y < 0 || p.Y > visual.Height {
				fail("position %d %+v is off the plot", i, p)
			}
			if i > 0 && p.X <= out.Positions[i-1].X {
				fail("position %d does not advance along x", i)
			}
		}
	}

	for _, e := range out.Events {
		if e.Game < 1 || e.Game > total {
			fail("%s event at game %d outside [1, %d]", e.Type, e.Game, total)
		}
	}

	wantSeparators := max(len(m.Sets)-1, 0)
	if len(out.SetSeparators) != wantSeparators {
		fail("%d set separators for %d sets", len(out.SetSeparators), len(m.Sets))
	}
	if positiveSets(m.Sets) {
		for i, x := range out.SetSeparators {
			if x <= 0 || x >= visual.Width {
				fail("separator %d at %v outside (0, %v)", i, x, visual.Width)
			}
			if i > 0 && x <= out.SetSeparators[i-1] {
				fail("separator %d does not advance", i)
			}
		}
	}

	return errors.Join(errs...)
}

// VerifyAgainstLocal checks that out equals the output the local pipeline
// computes for m.
func VerifyAgainstLocal(m model.Match, out model.MomentumOutput) error {
	want := momentum.Calculate(m)
	switch {
	case !slices.Equal(out.States, want.States):
		return fmt.Errorf("%w: states %v, want %v", ErrInvariant, out.States, want.States)
	case !slices.Equal(out.Colors, want.Colors):
		return fmt.Errorf("%w: colors differ from the local pipeline", ErrInvariant)
	case !slices.Equal(out.Events, want.Events):
		return fmt.Errorf("%w: %d events, want %d", ErrInvariant, len(out.Events), len(want.Events))
	case !slices.Equal(out.SetSeparators, want.SetSeparators):
		return fmt.Errorf("%w: set separators %v, want %v", ErrInvariant, out.SetSeparators, want.SetSeparators)
	}
	return nil
}

func positiveSets(sets []model.Set) bool {
	for _, s := range sets {
		if s.Games <= 0 {
			return false
		}
	}
	return true
}
