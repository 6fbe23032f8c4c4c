package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/momentum/internal/domain/model"
	"github.com/okian/momentum/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Run generates cfg.NumMatches matches, registers them with the service,
// fetches their momentum and verifies every output. It returns the run
// statistics; a non-nil error means the run or at least one match failed.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.NumMatches < 1 || cfg.Workers < 1 {
		return nil, fmt.Errorf("%w: need at least one match and one worker", ErrInvalidConfig)
	}

	log := logger.Named("simulate")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting momentum simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("matches", cfg.NumMatches),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return stats, err
	}

	matches := Generate(cfg.Seed, cfg.NumMatches)
	stats.MatchesGenerated = len(matches)

	if cfg.OutputFile != "" {
		if err := saveMatches(cfg.OutputFile, matches); err != nil {
			log.Warn(ctx, "failed to save generated matches", logger.Error(err))
		}
	}

	var registered, verified, failed, games, events atomic.Int64
	var mu sync.Mutex
	var firstErr error
	record := func(err error) {
		failed.Add(1)
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, m := range matches {
		g.Go(func() error {
			if _, err := client.Register(gctx, m); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				record(fmt.Errorf("register %s: %w", m.ID, err))
				return nil
			}
			registered.Add(1)

			out, err := client.Momentum(gctx, m.ID)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				record(fmt.Errorf("momentum %s: %w", m.ID, err))
				return nil
			}
			if err := VerifyOutput(m, out); err != nil {
				record(fmt.Errorf("match %s: %w", m.ID, err))
				return nil
			}
			if err := VerifyAgainstLocal(m, out); err != nil {
				record(fmt.Errorf("match %s: %w", m.ID, err))
				return nil
			}

			verified.Add(1)
			games.Add(int64(len(out.States)))
			events.Add(int64(len(out.Events)))
			if cfg.Verbose {
				log.Info(gctx, "match verified",
					logger.String("matchID", m.ID),
					logger.String("finalScore", m.FinalScore),
					logger.Int("games", len(out.States)),
					logger.Int("events", len(out.Events)),
				)
			}
			return nil
		})
	}
	waitErr := g.Wait()

	stats.MatchesRegistered = int(registered.Load())
	stats.MatchesVerified = int(verified.Load())
	stats.MatchesFailed = int(failed.Load())
	stats.GamesVerified = int(games.Load())
	stats.EventsSeen = int(events.Load())
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, log, stats)

	if waitErr != nil {
		return stats, fmt.Errorf("simulation interrupted: %w", waitErr)
	}
	if firstErr != nil {
		return stats, fmt.Errorf("%d of %d matches failed, first: %w", stats.MatchesFailed, stats.MatchesGenerated, firstErr)
	}
	log.Info(ctx, "simulation completed successfully")
	return stats, nil
}

// Generate deterministically produces n matches from seed.
func Generate(seed uint64, n int) []model.Match {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	matches := make([]model.Match, 0, n)
	for i := range n {
		matches = append(matches, GenerateMatch(rng, i, PickPlayers(rng)))
	}
	return matches
}

// saveMatches writes matches as an indented JSON array.
func saveMatches(filename string, matches []model.Match) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal matches: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var matchesPerSecond float64
	if stats.Duration > 0 {
		matchesPerSecond = float64(stats.MatchesVerified) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("matchesGenerated", stats.MatchesGenerated),
		logger.Int("matchesRegistered", stats.MatchesRegistered),
		logger.Int("matchesVerified", stats.MatchesVerified),
		logger.Int("matchesFailed", stats.MatchesFailed),
		logger.Int("gamesVerified", stats.GamesVerified),
		logger.Int("eventsSeen", stats.EventsSeen),
		logger.Duration("duration", stats.Duration),
		logger.Float64("matchesPerSecond", matchesPerSecond),
	)
}
