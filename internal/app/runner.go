package app

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"tilemerge/internal/bot"
	"tilemerge/internal/domain"
	"tilemerge/internal/ports"
)

// Decider chooses a move for a board. *bot.Agent satisfies it.
type Decider interface {
	Play(board domain.Board) (bot.Decision, error)
}

// RunOptions control a batch of episodes.
type RunOptions struct {
	Runs int
	// ContinueAfterWin keeps playing past the first winning tile instead of
	// ending the episode there.
	ContinueAfterWin bool
	// MaxMoves ends an episode after this many moves; 0 means no cap.
	MaxMoves int
}

// Runner drives the observe, decide, act cycle against a live surface.
// Exactly one decision is in flight at a time.
type Runner struct {
	observer ports.BoardObserver
	executor ports.MoveExecutor
	decider  Decider
	logger   runtime.Logger
}

// NewRunner wires a runner. All collaborators must be non-nil.
func NewRunner(observer ports.BoardObserver, executor ports.MoveExecutor, decider Decider, logger runtime.Logger) *Runner {
	return &Runner{
		observer: observer,
		executor: executor,
		decider:  decider,
		logger:   logger,
	}
}

// PlayEpisode plays the surface's current game until no move remains, the
// game is won (unless continuing), or the move cap is hit.
func (r *Runner) PlayEpisode(ctx context.Context, opts RunOptions) (domain.Episode, error) {
	var (
		board domain.Board
		score int
		moves int
		won   bool
		tiles map[int]int
	)

	for {
		if err := ctx.Err(); err != nil {
			return domain.Episode{}, err
		}
		snap, err := r.observer.Observe(ctx)
		if err != nil {
			return domain.Episode{}, fmt.Errorf("observe board: %w", err)
		}
		board, err = domain.NewBoard(snap.Values)
		if err != nil {
			return domain.Episode{}, fmt.Errorf("observe board: %w", err)
		}
		score = snap.Score
		tiles = domain.TrackTiles(tiles, board, domain.TrackedTileMin)

		if !won && board.HasWon() {
			won = true
			r.logger.Info("Runner: reached %d after %d moves, score %d", domain.WinningTile, moves, score)
			if !opts.ContinueAfterWin {
				break
			}
		}
		if opts.MaxMoves > 0 && moves >= opts.MaxMoves {
			r.logger.Debug("Runner: move cap %d reached", opts.MaxMoves)
			break
		}

		decision, err := r.decider.Play(board)
		if err != nil {
			return domain.Episode{}, fmt.Errorf("decide: %w", err)
		}
		if decision.None {
			r.logger.Debug("Runner: no legal move left, score %d max tile %d", score, board.MaxTile())
			break
		}
		if err := r.executor.Execute(ctx, decision.Move); err != nil {
			return domain.Episode{}, fmt.Errorf("execute %v: %w", decision.Move, err)
		}
		moves++
	}

	return domain.Episode{
		Score:   score,
		Moves:   moves,
		Won:     won,
		MaxTile: board.MaxTile(),
		Tiles:   tiles,
	}, nil
}

// Run plays opts.Runs episodes, restarting the surface between them, and
// returns stats updated with every finished episode.
func (r *Runner) Run(ctx context.Context, opts RunOptions, stats domain.RunStats) (domain.RunStats, error) {
	for i := 0; i < opts.Runs; i++ {
		if i > 0 {
			if err := r.executor.Restart(ctx); err != nil {
				return stats, fmt.Errorf("restart: %w", err)
			}
		}
		episode, err := r.PlayEpisode(ctx, opts)
		if err != nil {
			return stats, err
		}
		stats = stats.Record(episode)
		r.logger.Info("Runner: episode %d score %d won %t, wins %d win rate %.2f average %.0f",
			i, episode.Score, episode.Won, stats.Wins, stats.WinRate(), stats.AverageScore())
	}
	LogStats(r.logger, stats)
	return stats, nil
}

// LogStats writes the run summary.
func LogStats(logger runtime.Logger, stats domain.RunStats) {
	logger.WithFields(map[string]interface{}{
		"runs":      stats.Runs,
		"wins":      stats.Wins,
		"min_score": stats.MinScore,
		"max_score": stats.MaxScore,
		"best_tile": stats.BestTile,
	}).Info("Runner: win probability %.2f, average score %.0f", stats.WinRate(), stats.AverageScore())
	for _, tile := range domain.ReachTiles {
		logger.Info("Runner: %d reached %d times", tile, stats.Reached[tile])
	}
}
