package bot

import (
	"fmt"
	"strings"

	"tilemerge/internal/domain"
)

// Algorithm selects the search engine.
type Algorithm int

const (
	AlgorithmAlphaBeta Algorithm = iota
	AlgorithmExpectimax
)

var algorithmNames = [...]string{
	AlgorithmAlphaBeta:  "alphabeta",
	AlgorithmExpectimax: "expectimax",
}

var brainFactories = [...]func(SearchOptions) Brain{
	AlgorithmAlphaBeta: func(opts SearchOptions) Brain {
		return &AlphaBetaBrain{Options: opts, Rules: DefaultOrderingRules}
	},
	AlgorithmExpectimax: func(opts SearchOptions) Brain {
		return &ExpectimaxBrain{Options: opts}
	},
}

func (a Algorithm) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// Valid reports whether a names a known algorithm.
func (a Algorithm) Valid() bool {
	return a >= 0 && int(a) < len(brainFactories)
}

// DefaultDepth returns the depth used when a caller does not pick one.
func (a Algorithm) DefaultDepth() int {
	if a == AlgorithmExpectimax {
		return DefaultExpectimaxDepth
	}
	return DefaultAlphaBetaDepth
}

// ParseAlgorithm accepts "alphabeta", "alpha-beta", "ab", "expectimax" or "em".
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alphabeta", "alpha-beta", "ab":
		return AlgorithmAlphaBeta, nil
	case "expectimax", "em":
		return AlgorithmExpectimax, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// NewBrain creates a search brain for the specified algorithm.
func NewBrain(algorithm Algorithm, opts SearchOptions) (Brain, error) {
	if !algorithm.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(algorithm))
	}
	return brainFactories[algorithm](opts), nil
}

// AlphaBetaBrain orders moves with its rules before every search.
type AlphaBetaBrain struct {
	Options SearchOptions
	Rules   []OrderingRule
}

func (b *AlphaBetaBrain) Name() string { return AlgorithmAlphaBeta.String() }

func (b *AlphaBetaBrain) Decide(board domain.Board, heuristic Heuristic, depth int) (Decision, error) {
	opts := b.Options
	if len(opts.Order) == 0 && len(b.Rules) > 0 {
		opts.Order = BuildOrder(board, b.Rules...)
	}
	return SearchAlphaBeta(board, heuristic, depth, opts)
}

// ExpectimaxBrain searches over random spawns.
type ExpectimaxBrain struct {
	Options SearchOptions
}

func (b *ExpectimaxBrain) Name() string { return AlgorithmExpectimax.String() }

func (b *ExpectimaxBrain) Decide(board domain.Board, heuristic Heuristic, depth int) (Decision, error) {
	return SearchExpectimax(board, heuristic, depth, b.Options)
}
