package bot

import (
	"sort"

	"tilemerge/internal/bot/internal"
	"tilemerge/internal/domain"
)

// OrderingContext holds the state for the move ordering pipeline.
type OrderingContext struct {
	Board domain.Board
	Moves []domain.Move
}

// OrderingRule represents a logic unit that can reorder the moves a search tries first.
// Rules must only permute Moves. With every layer maximising nothing is pruned,
// so an order changes the visiting sequence but never the work or the decision.
type OrderingRule interface {
	Name() string
	Apply(ctx *OrderingContext)
}

// PreferMergesRule tries the moves that gain the most score first.
type PreferMergesRule struct{}

func (r *PreferMergesRule) Name() string { return "PreferMerges" }

func (r *PreferMergesRule) Apply(ctx *OrderingContext) {
	gains := make(map[domain.Move]int, len(ctx.Moves))
	for _, m := range ctx.Moves {
		_, gained, _ := ctx.Board.Apply(m)
		gains[m] = gained
	}
	sort.SliceStable(ctx.Moves, func(i, j int) bool {
		return gains[ctx.Moves[i]] > gains[ctx.Moves[j]]
	})
}

// PreferCornerRule tries the moves that leave the largest tile in a corner first.
type PreferCornerRule struct{}

func (r *PreferCornerRule) Name() string { return "PreferCorner" }

func (r *PreferCornerRule) Apply(ctx *OrderingContext) {
	cornered := make(map[domain.Move]bool, len(ctx.Moves))
	for _, m := range ctx.Moves {
		next, _, changed := ctx.Board.Apply(m)
		cornered[m] = changed && internal.AnalyzeBoard(next).MaxInCorner
	}
	sort.SliceStable(ctx.Moves, func(i, j int) bool {
		return cornered[ctx.Moves[i]] && !cornered[ctx.Moves[j]]
	})
}

// DefaultOrderingRules run merges first, then corners, so corner moves lead
// and merges break ties between them. AlphaBetaBrain applies them before
// every search.
var DefaultOrderingRules = []OrderingRule{&PreferMergesRule{}, &PreferCornerRule{}}

// BuildOrder runs the rules over the fixed move order and returns the result.
func BuildOrder(board domain.Board, rules ...OrderingRule) []domain.Move {
	ctx := &OrderingContext{Board: board, Moves: append([]domain.Move(nil), domain.AllMoves[:]...)}
	for _, rule := range rules {
		rule.Apply(ctx)
	}
	return ctx.Moves
}
