package bot

import (
	"math"
	"sync"

	"tilemerge/internal/bot/brain"
	botinternal "tilemerge/internal/bot/internal"
	"tilemerge/internal/domain"
)

// expectimaxSearch explores one root branch. It lives across the deepening
// passes of a decision so its memo and node count carry over.
type expectimaxSearch struct {
	eval Evaluator
	memo *brain.Memory
	// budget caps stats.Nodes; zero means unlimited.
	budget    int
	exhausted bool
	stats     SearchStats
}

// visit counts a node and refuses once the budget is spent.
func (s *expectimaxSearch) visit() bool {
	if s.budget > 0 && s.stats.Nodes >= s.budget {
		s.exhausted = true
		return false
	}
	s.stats.Nodes++
	return true
}

// decision is the player node: the best chance value over legal moves.
func (s *expectimaxSearch) decision(board domain.Board, depth int) float64 {
	if !s.visit() {
		return 0
	}
	if depth == 0 {
		s.stats.Leaves++
		return s.eval(board)
	}
	if s.memo != nil {
		if v, ok := s.memo.Lookup(board, depth); ok {
			return v
		}
	}

	best := math.Inf(-1)
	moved := false
	for _, m := range domain.AllMoves {
		next, _, changed := board.Apply(m)
		if !changed {
			continue
		}
		moved = true
		v := s.chance(next, depth)
		if s.exhausted {
			return 0
		}
		if v > best {
			best = v
		}
	}
	if !moved {
		s.stats.Leaves++
		best = s.eval(board)
	}
	if s.memo != nil {
		s.memo.Store(board, depth, best)
	}
	return best
}

// chance averages the decision values of every spawn outcome.
func (s *expectimaxSearch) chance(board domain.Board, depth int) float64 {
	if !s.visit() {
		return 0
	}
	outcomes := board.SpawnOutcomes()
	if len(outcomes) == 0 {
		return s.decision(board, depth-1)
	}
	total := 0.0
	for _, o := range outcomes {
		total += o.Probability * s.decision(o.Board, depth-1)
		if s.exhausted {
			return 0
		}
	}
	return total
}

func (s *expectimaxSearch) finish() SearchStats {
	if s.memo != nil {
		s.stats.MemoHits = s.memo.Hits()
		s.stats.MemoMisses = s.memo.Misses()
	}
	return s.stats
}

func newExpectimaxSearch(eval Evaluator, memo bool) *expectimaxSearch {
	s := &expectimaxSearch{eval: eval}
	if memo {
		s.memo = brain.NewMemory(brain.DefaultMemoryLimit)
	}
	return s
}

// ExpectimaxDepth applies the phase depth policy of DefaultTuning to depth.
func ExpectimaxDepth(board domain.Board, depth int) int {
	phase := botinternal.DetectPhase(board, DefaultTuning.Phases)
	return DefaultTuning.PhaseDepth.AdjustDepth(depth, phase)
}

// SearchExpectimax returns the move with the highest expected value, modelling
// each spawn as a chance node weighted by its probability.
//
// The search deepens one ply at a time up to depth. The node budget is split
// evenly between the root moves; when a branch runs out, the deeper pass is
// dropped and the last complete pass decides. Depth 1 always completes.
func SearchExpectimax(board domain.Board, heuristic Heuristic, depth int, opts SearchOptions) (Decision, error) {
	eval, err := heuristic.Evaluator()
	if err != nil {
		return Decision{}, err
	}
	if err := validateDepth(depth); err != nil {
		return Decision{}, err
	}
	if !opts.FixedDepth {
		depth = ExpectimaxDepth(board, depth)
	}

	children := rootChildren(board, domain.AllMoves[:])
	if len(children) == 0 {
		return Decision{None: true, Score: eval(board), Stats: SearchStats{Depth: depth, Nodes: 1, Leaves: 1}}, nil
	}

	share := opts.nodeBudget() / len(children)
	if share < 1 {
		share = 1
	}
	searches := make([]*expectimaxSearch, len(children))
	for i := range searches {
		searches[i] = newExpectimaxSearch(eval, opts.Memo)
	}

	var scores []float64
	stats := SearchStats{Nodes: 1}
	for d := 1; d <= depth; d++ {
		if d == 2 {
			for _, s := range searches {
				s.budget = share
			}
		}
		pass, ok := expectimaxPass(children, searches, d, opts.Parallel)
		if !ok {
			stats.Truncated = true
			break
		}
		scores, stats.Depth = pass, d
	}
	for _, s := range searches {
		stats.add(s.finish())
	}
	return pick(children, scores, stats), nil
}

// expectimaxPass scores every root move to depth. It reports false when a
// branch ran out of budget.
func expectimaxPass(children []rootChild, searches []*expectimaxSearch, depth int, parallel bool) ([]float64, bool) {
	scores := make([]float64, len(children))
	if parallel {
		var wg sync.WaitGroup
		for i := range children {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				scores[i] = searches[i].chance(children[i].board, depth)
			}(i)
		}
		wg.Wait()
	} else {
		for i, child := range children {
			scores[i] = searches[i].chance(child.board, depth)
			if searches[i].exhausted {
				return nil, false
			}
		}
	}
	for _, s := range searches {
		if s.exhausted {
			return nil, false
		}
	}
	return scores, true
}
