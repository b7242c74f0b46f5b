package internal

// HeuristicWeights scale the ingredients a heuristic combines.
type HeuristicWeights struct {
	Positional   float64
	Monotonicity float64
	Empty        float64
}

// PhaseDepth holds the depth change applied in each search phase.
type PhaseDepth struct {
	Opening int
	Mid     int
	End     int
}

// ForPhase returns the depth delta that matches the supplied phase.
func (d PhaseDepth) ForPhase(phase GamePhase) int {
	switch phase {
	case PhaseOpening:
		return d.Opening
	case PhaseEnd:
		return d.End
	default:
		return d.Mid
	}
}

// AdjustDepth applies the phase delta to depth, never going below 1.
func (d PhaseDepth) AdjustDepth(depth int, phase GamePhase) int {
	adjusted := depth + d.ForPhase(phase)
	if adjusted < 1 {
		return 1
	}
	return adjusted
}
