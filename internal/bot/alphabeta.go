package bot

import (
	"math"
	"sync"

	"tilemerge/internal/domain"
)

type alphaBetaSearch struct {
	eval  Evaluator
	order []domain.Move
	prune bool
	stats SearchStats
}

// value searches the player's own moves only. Every layer maximises and beta
// is +Inf all the way down, so alpha only tightens and no sibling is ever cut;
// Cutoffs stays zero.
func (s *alphaBetaSearch) value(board domain.Board, depth int, alpha, beta float64) float64 {
	s.stats.Nodes++
	if depth == 0 {
		s.stats.Leaves++
		return s.eval(board)
	}

	best := math.Inf(-1)
	moved := false
	for _, m := range s.order {
		next, _, changed := board.Apply(m)
		if !changed {
			continue
		}
		moved = true
		v := s.value(next, depth-1, alpha, beta)
		if v > best {
			best = v
		}
		if best > alpha {
			alpha = best
		}
		if s.prune && best >= beta {
			s.stats.Cutoffs++
			break
		}
	}
	if !moved {
		s.stats.Leaves++
		return s.eval(board)
	}
	return best
}

// SearchAlphaBeta returns the best move for board searched to depth player moves.
func SearchAlphaBeta(board domain.Board, heuristic Heuristic, depth int, opts SearchOptions) (Decision, error) {
	eval, err := heuristic.Evaluator()
	if err != nil {
		return Decision{}, err
	}
	if err := validateDepth(depth); err != nil {
		return Decision{}, err
	}

	order := opts.order()
	children := rootChildren(board, order)
	if len(children) == 0 {
		return Decision{None: true, Score: eval(board), Stats: SearchStats{Depth: depth, Nodes: 1, Leaves: 1}}, nil
	}

	scores := make([]float64, len(children))
	stats := SearchStats{Depth: depth, Nodes: 1}

	if opts.Parallel {
		var wg sync.WaitGroup
		branchStats := make([]SearchStats, len(children))
		for i := range children {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				s := &alphaBetaSearch{eval: eval, order: order, prune: !opts.DisablePruning}
				scores[i] = s.value(children[i].board, depth-1, math.Inf(-1), math.Inf(1))
				branchStats[i] = s.stats
			}(i)
		}
		wg.Wait()
		for _, bs := range branchStats {
			stats.add(bs)
		}
	} else {
		s := &alphaBetaSearch{eval: eval, order: order, prune: !opts.DisablePruning}
		alpha := math.Inf(-1)
		for i, child := range children {
			scores[i] = s.value(child.board, depth-1, alpha, math.Inf(1))
			if scores[i] > alpha {
				alpha = scores[i]
			}
		}
		stats.add(s.stats)
	}

	return pick(children, scores, stats), nil
}

func pick(children []rootChild, scores []float64, stats SearchStats) Decision {
	d := Decision{Stats: stats}
	found := false
	for i, child := range children {
		if better(scores[i], child.move, d.Score, d.Move, found) {
			d.Move = child.move
			d.Score = scores[i]
			found = true
		}
	}
	return d
}
