package bot

import (
	"fmt"
	"strings"

	"tilemerge/internal/bot/internal"
	"tilemerge/internal/domain"
)

// Heuristic selects the scoring function used at search leaves.
type Heuristic int

const (
	HeuristicCorner Heuristic = iota
	HeuristicCorners
	HeuristicSnake
)

// Evaluator scores a board; higher is better.
type Evaluator func(board domain.Board) float64

var heuristicNames = [...]string{
	HeuristicCorner:  "CORNER",
	HeuristicCorners: "CORNERS",
	HeuristicSnake:   "SNAKE",
}

// CORNER builds toward the top-left cell.
var evaluators = [...]Evaluator{
	HeuristicCorner: func(b domain.Board) float64 {
		return internal.ScoreCorner(b, internal.CornerTopLeft, DefaultTuning.Corner)
	},
	HeuristicCorners: func(b domain.Board) float64 {
		return internal.ScoreCorners(b, DefaultTuning.Corners)
	},
	HeuristicSnake: func(b domain.Board) float64 {
		return internal.ScoreSnake(b, DefaultTuning.Snake)
	},
}

func (h Heuristic) String() string {
	if !h.Valid() {
		return fmt.Sprintf("Heuristic(%d)", int(h))
	}
	return heuristicNames[h]
}

// Valid reports whether h names a known heuristic.
func (h Heuristic) Valid() bool {
	return h >= 0 && int(h) < len(evaluators)
}

// Evaluator returns the scoring function for h.
func (h Heuristic) Evaluator() (Evaluator, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHeuristic, int(h))
	}
	return evaluators[h], nil
}

// Score evaluates board with h. Unknown heuristics score zero.
func (h Heuristic) Score(board domain.Board) float64 {
	if !h.Valid() {
		return 0
	}
	return evaluators[h](board)
}

// ParseHeuristic accepts the upper or lower case heuristic name.
func ParseHeuristic(s string) (Heuristic, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range heuristicNames {
		if n == name {
			return Heuristic(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownHeuristic, s)
}
