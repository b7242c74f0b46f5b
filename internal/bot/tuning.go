package bot

import (
	"fmt"

	botinternal "tilemerge/internal/bot/internal"
)

const (
	// DefaultAlphaBetaDepth counts player moves, the root move included.
	DefaultAlphaBetaDepth = 4
	// DefaultExpectimaxDepth counts decision plies, each followed by a spawn.
	DefaultExpectimaxDepth = 3
	// MaxDepth is the deepest search a caller may request. Expectimax work is
	// bounded separately by its node budget.
	MaxDepth = 8
	// DefaultExpectimaxNodeBudget holds one expectimax decision to roughly a
	// quarter of a second.
	DefaultExpectimaxNodeBudget = 1 << 21
)

// Tuning groups the heuristic weights and the expectimax depth policy.
type Tuning struct {
	Corner  botinternal.HeuristicWeights
	Corners botinternal.HeuristicWeights
	Snake   botinternal.HeuristicWeights

	Phases     botinternal.PhaseThresholds
	PhaseDepth botinternal.PhaseDepth
}

// DefaultTuning weighs arrangement first and keeps empties as a strong tiebreaker.
// Expectimax drops one ply while the board is open, where chance nodes are widest.
var DefaultTuning = Tuning{
	Corner: botinternal.HeuristicWeights{
		Positional:   1.0,
		Monotonicity: 8.0,
		Empty:        24.0,
	},
	Corners: botinternal.HeuristicWeights{
		Positional:   1.0,
		Monotonicity: 8.0,
		Empty:        24.0,
	},
	Snake: botinternal.HeuristicWeights{
		Positional:   1.0,
		Monotonicity: 6.0,
		Empty:        20.0,
	},
	Phases: botinternal.DefaultPhaseThresholds,
	PhaseDepth: botinternal.PhaseDepth{
		Opening: -1,
		Mid:     0,
		End:     0,
	},
}

func validateDepth(depth int) error {
	if depth < 1 || depth > MaxDepth {
		return fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidDepth, depth, MaxDepth)
	}
	return nil
}
