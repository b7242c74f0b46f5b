package bot

import "tilemerge/internal/domain"

// SearchOptions tune a single search. The zero value searches sequentially in
// the fixed UP, DOWN, LEFT, RIGHT order with pruning and phase depth enabled.
type SearchOptions struct {
	// Order is a priority list for the moves tried at every alpha-beta node.
	// Moves it leaves out follow in fixed order; duplicates are ignored.
	Order []domain.Move
	// DisablePruning turns off the beta cutoff. Every layer maximises and beta
	// stays +Inf from the root down, so the cutoff never fires and this option
	// changes neither the decision nor the node count.
	DisablePruning bool
	// Parallel evaluates the root moves on separate goroutines.
	Parallel bool
	// Memo caches expectimax decision values within one search.
	Memo bool
	// FixedDepth turns off the expectimax phase depth adjustment.
	FixedDepth bool
	// NodeBudget caps the expectimax nodes of one decision. Zero or less
	// selects DefaultExpectimaxNodeBudget.
	NodeBudget int
}

// order returns Order completed to a permutation of AllMoves.
func (o SearchOptions) order() []domain.Move {
	if len(o.Order) == 0 {
		return domain.AllMoves[:]
	}
	seen := make(map[domain.Move]bool, len(domain.AllMoves))
	order := make([]domain.Move, 0, len(domain.AllMoves))
	add := func(m domain.Move) {
		if m.Valid() && !seen[m] {
			seen[m] = true
			order = append(order, m)
		}
	}
	for _, m := range o.Order {
		add(m)
	}
	for _, m := range domain.AllMoves {
		add(m)
	}
	return order
}

func (o SearchOptions) nodeBudget() int {
	if o.NodeBudget <= 0 {
		return DefaultExpectimaxNodeBudget
	}
	return o.NodeBudget
}

type rootChild struct {
	move  domain.Move
	board domain.Board
}

// rootChildren lists the legal root moves in the given order.
func rootChildren(board domain.Board, order []domain.Move) []rootChild {
	children := make([]rootChild, 0, len(order))
	for _, m := range order {
		next, _, changed := board.Apply(m)
		if changed {
			children = append(children, rootChild{move: m, board: next})
		}
	}
	return children
}

// better reports whether (score, move) beats the current best. Equal scores go
// to the move that comes first in UP, DOWN, LEFT, RIGHT, whatever order was searched.
func better(score float64, move domain.Move, best float64, bestMove domain.Move, found bool) bool {
	if !found || score > best {
		return true
	}
	return score == best && move < bestMove
}
