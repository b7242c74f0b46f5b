package bot

import (
	"errors"

	"tilemerge/internal/domain"
)

var (
	ErrUnknownHeuristic = errors.New("unknown heuristic")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrInvalidDepth     = errors.New("invalid search depth")
)

// Decision is the result of one search over a board snapshot.
type Decision struct {
	Move domain.Move
	// None is set when the board has no legal move; Move is then meaningless.
	None  bool
	Score float64
	Stats SearchStats
}

// SearchStats describes the work a search performed.
type SearchStats struct {
	// Depth is the deepest search that completed.
	Depth      int
	Nodes      int
	Leaves     int
	Cutoffs    int
	MemoHits   int
	MemoMisses int
	// Truncated is set when the node budget stopped a deeper expectimax pass.
	Truncated bool
}

func (s *SearchStats) add(other SearchStats) {
	s.Nodes += other.Nodes
	s.Leaves += other.Leaves
	s.Cutoffs += other.Cutoffs
	s.MemoHits += other.MemoHits
	s.MemoMisses += other.MemoMisses
}

// Brain is the interface that all search algorithms implement.
type Brain interface {
	Name() string
	Decide(board domain.Board, heuristic Heuristic, depth int) (Decision, error)
}
