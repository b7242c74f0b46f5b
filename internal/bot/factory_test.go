package bot

import (
	"errors"
	"reflect"
	"testing"

	"tilemerge/internal/domain"
)

func TestParseHeuristic(t *testing.T) {
	tests := []struct {
		in   string
		want Heuristic
	}{
		{in: "CORNER", want: HeuristicCorner},
		{in: "corners", want: HeuristicCorners},
		{in: " Snake ", want: HeuristicSnake},
	}
	for _, tt := range tests {
		got, err := ParseHeuristic(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("ParseHeuristic(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseHeuristic("diagonal"); !errors.Is(err, ErrUnknownHeuristic) {
		t.Fatalf("expected ErrUnknownHeuristic, got %v", err)
	}
}

func TestNewBrain(t *testing.T) {
	for _, name := range []string{"alphabeta", "ab", "Expectimax"} {
		algorithm, err := ParseAlgorithm(name)
		if err != nil {
			t.Fatalf("ParseAlgorithm(%q): %v", name, err)
		}
		brain, err := NewBrain(algorithm, SearchOptions{})
		if err != nil {
			t.Fatalf("NewBrain(%v): %v", algorithm, err)
		}
		if brain.Name() != algorithm.String() {
			t.Fatalf("Name = %q, want %q", brain.Name(), algorithm.String())
		}
	}
	if _, err := NewBrain(Algorithm(7), SearchOptions{}); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestBrainMatchesSelector(t *testing.T) {
	for _, b := range randomBoards(41, 10) {
		ab, _ := NewBrain(AlgorithmAlphaBeta, SearchOptions{})
		got, err := ab.Decide(b, HeuristicCorners, 2)
		if err != nil {
			t.Fatalf("Decide error: %v", err)
		}
		want, _ := BestMoveAlphaBeta(b, HeuristicCorners, 2)
		if got.Move != want.Move || got.Score != want.Score {
			t.Fatalf("ordered brain chose %v, selector chose %v", got.Move, want.Move)
		}
	}
}

func TestBuildOrder(t *testing.T) {
	// LEFT and RIGHT merge the pair; LEFT also keeps the 4 in the top-left corner.
	b := domain.MustBoard(
		4, 0, 0, 0,
		0, 0, 2, 2,
		0, 0, 0, 0,
		0, 0, 0, 0,
	)
	order := BuildOrder(b, &PreferMergesRule{})
	if !reflect.DeepEqual(order[:2], []domain.Move{domain.MoveLeft, domain.MoveRight}) {
		t.Fatalf("PreferMerges order = %v", order)
	}

	order = BuildOrder(b, DefaultOrderingRules...)
	if len(order) != len(domain.AllMoves) {
		t.Fatalf("order must permute all moves, got %v", order)
	}
	if order[0] != domain.MoveLeft {
		t.Fatalf("default order starts with %v, want LEFT", order[0])
	}
}

func TestNewAgent(t *testing.T) {
	profile := GetAgentProfile(0)
	agent, err := NewAgent(profile)
	if err != nil {
		t.Fatalf("NewAgent error: %v", err)
	}
	if agent.Depth != DefaultExpectimaxDepth || agent.Heuristic != HeuristicSnake {
		t.Fatalf("agent = %+v", agent)
	}

	b := domain.MustBoard(2, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 4)
	d, err := agent.Play(b)
	if err != nil || d.None {
		t.Fatalf("Play = %+v, %v", d, err)
	}

	if _, err := NewAgent(AgentProfile{Algorithm: "expectimax", Heuristic: "SNAKE", Depth: MaxDepth + 1}); !errors.Is(err, ErrInvalidDepth) {
		t.Fatalf("expected ErrInvalidDepth, got %v", err)
	}
	if _, err := NewAgent(AgentProfile{Algorithm: "minimax", Heuristic: "SNAKE"}); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestNewAgentUsesProfileSearchOptions(t *testing.T) {
	open := domain.MustBoard(2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2)
	tests := []struct {
		name       string
		fixedDepth bool
		want       int
	}{
		{name: "phase policy", fixedDepth: false, want: 1},
		{name: "fixed depth", fixedDepth: true, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent, err := NewAgent(AgentProfile{
				Algorithm:  "expectimax",
				Heuristic:  "CORNER",
				Depth:      2,
				Memo:       true,
				FixedDepth: tt.fixedDepth,
			})
			if err != nil {
				t.Fatalf("NewAgent error: %v", err)
			}
			d, err := agent.Play(open)
			if err != nil {
				t.Fatalf("Play error: %v", err)
			}
			if d.Stats.Depth != tt.want {
				t.Fatalf("Stats.Depth = %d, want %d", d.Stats.Depth, tt.want)
			}
		})
	}

	agent, _ := NewAgent(AgentProfile{Algorithm: "expectimax", Heuristic: "CORNER", Depth: 2, FixedDepth: true, NodeBudget: 1})
	d, err := agent.Play(open)
	if err != nil || d.None {
		t.Fatalf("Play = %+v, %v", d, err)
	}
	if !d.Stats.Truncated || d.Stats.Depth != 1 {
		t.Fatalf("node budget of 1 should stop after depth 1, got %+v", d.Stats)
	}
}
