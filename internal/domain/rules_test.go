package domain

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func TestApplyMergeAccounting(t *testing.T) {
	tests := []struct {
		name       string
		row        []int
		move       Move
		wantRow    []int
		wantGained int
	}{
		{name: "single pair", row: []int{2, 2, 0, 0}, move: MoveLeft, wantRow: []int{4, 0, 0, 0}, wantGained: 4},
		{name: "two pairs merge once each", row: []int{2, 2, 2, 2}, move: MoveLeft, wantRow: []int{4, 4, 0, 0}, wantGained: 8},
		{name: "merged tile does not merge again", row: []int{4, 2, 2, 0}, move: MoveLeft, wantRow: []int{4, 4, 0, 0}, wantGained: 4},
		{name: "slide with gap", row: []int{0, 2, 0, 2}, move: MoveLeft, wantRow: []int{4, 0, 0, 0}, wantGained: 4},
		{name: "three equal keeps leading pair", row: []int{2, 2, 2, 0}, move: MoveLeft, wantRow: []int{4, 2, 0, 0}, wantGained: 4},
		{name: "right merges from the far edge", row: []int{2, 2, 2, 0}, move: MoveRight, wantRow: []int{0, 0, 2, 4}, wantGained: 4},
		{name: "no merge between distinct tiles", row: []int{2, 4, 8, 16}, move: MoveLeft, wantRow: []int{2, 4, 8, 16}, wantGained: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make([]int, Cells)
			copy(values, tt.row)
			b := MustBoard(values...)

			next, gained, _ := b.Apply(tt.move)
			if got := next.Values()[:Size]; !reflect.DeepEqual(got, tt.wantRow) {
				t.Fatalf("row after %v = %v, want %v", tt.move, got, tt.wantRow)
			}
			if gained != tt.wantGained {
				t.Fatalf("gained = %d, want %d", gained, tt.wantGained)
			}
		})
	}
}

func TestApplyColumns(t *testing.T) {
	b := MustBoard(
		2, 0, 0, 0,
		2, 0, 0, 0,
		4, 0, 0, 0,
		4, 0, 0, 0,
	)

	up, gained, changed := b.Apply(MoveUp)
	if !changed {
		t.Fatal("UP should change the board")
	}
	if gained != 12 {
		t.Fatalf("gained = %d, want 12", gained)
	}
	want := MustBoard(
		4, 0, 0, 0,
		8, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
	)
	if up != want {
		t.Fatalf("UP result:\n%s\nwant:\n%s", up, want)
	}

	down, _, _ := b.Apply(MoveDown)
	wantDown := MustBoard(
		0, 0, 0, 0,
		0, 0, 0, 0,
		4, 0, 0, 0,
		8, 0, 0, 0,
	)
	if down != wantDown {
		t.Fatalf("DOWN result:\n%s\nwant:\n%s", down, wantDown)
	}
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	b := MustBoard(
		2, 2, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 4,
	)
	before := b.Values()
	_, _, _ = b.Apply(MoveLeft)
	_ = b.SpawnOutcomes()
	if got := b.Values(); !reflect.DeepEqual(got, before) {
		t.Fatalf("board mutated: %v, was %v", got, before)
	}
}

func TestIllegalMoveIdempotence(t *testing.T) {
	// Every row is packed to the left with no equal neighbours.
	b := MustBoard(
		2, 4, 0, 0,
		8, 2, 0, 0,
		4, 0, 0, 0,
		16, 32, 64, 0,
	)
	next, gained, changed := b.Apply(MoveLeft)
	if changed {
		t.Fatal("LEFT should not change a left-packed board")
	}
	if gained != 0 {
		t.Fatalf("gained = %d, want 0", gained)
	}
	if next != b {
		t.Fatalf("grid changed on illegal move:\n%s", next)
	}
}

func TestEndToEndLegalMoves(t *testing.T) {
	b := MustBoard(
		0, 0, 0, 0,
		0, 0, 2, 2,
		0, 0, 0, 0,
		0, 0, 0, 0,
	)

	legal := b.LegalMoves()
	if !b.IsLegal(MoveLeft) || !b.IsLegal(MoveRight) {
		t.Fatalf("LEFT and RIGHT must be legal, got %v", legal)
	}
	// The pair sits on row two, so UP and DOWN slide it to an edge row.
	if !reflect.DeepEqual(legal, []Move{MoveUp, MoveDown, MoveLeft, MoveRight}) {
		t.Fatalf("LegalMoves = %v, want all four", legal)
	}

	next, gained, _ := b.Apply(MoveLeft)
	if got := next.Values()[Size : 2*Size]; !reflect.DeepEqual(got, []int{4, 0, 0, 0}) {
		t.Fatalf("row two after LEFT = %v, want [4 0 0 0]", got)
	}
	if gained != 4 {
		t.Fatalf("gained = %d, want 4", gained)
	}
}

func TestVerticalMovesIllegalOnSingleRowAgainstEdge(t *testing.T) {
	b := MustBoard(
		2, 4, 2, 4,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
	)
	if b.IsLegal(MoveUp) {
		t.Fatal("UP must be illegal when every tile sits on the top edge")
	}
	if b.IsLegal(MoveLeft) || b.IsLegal(MoveRight) {
		t.Fatal("LEFT/RIGHT must be illegal for a full alternating row")
	}
	if !b.IsLegal(MoveDown) {
		t.Fatal("DOWN must be legal")
	}
	if got := b.LegalMoves(); !reflect.DeepEqual(got, []Move{MoveDown}) {
		t.Fatalf("LegalMoves = %v, want [DOWN]", got)
	}
}

func TestIsTerminal(t *testing.T) {
	full := MustBoard(
		2, 4, 2, 4,
		4, 2, 4, 2,
		2, 4, 2, 4,
		4, 2, 4, 2,
	)
	if !full.IsTerminal() {
		t.Fatal("checkerboard with no equal neighbours must be terminal")
	}
	if len(full.LegalMoves()) != 0 {
		t.Fatalf("terminal board has legal moves %v", full.LegalMoves())
	}

	mergeable := MustBoard(
		2, 2, 4, 8,
		4, 8, 16, 32,
		8, 16, 32, 64,
		16, 32, 64, 128,
	)
	if mergeable.IsTerminal() {
		t.Fatal("full board with an equal pair must not be terminal")
	}

	if !(Board{}).IsTerminal() {
		t.Fatal("all-empty board has no changing move")
	}
}

func TestSpawnOutcomesProbabilitiesSumToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		values := make([]int, Cells)
		for j := range values {
			if rng.Intn(3) > 0 {
				values[j] = 1 << (1 + rng.Intn(10))
			}
		}
		b := MustBoard(values...)
		outcomes := b.SpawnOutcomes()
		if b.CountEmpty() == 0 {
			if len(outcomes) != 0 {
				t.Fatalf("full board produced %d outcomes", len(outcomes))
			}
			continue
		}
		if len(outcomes) != 2*b.CountEmpty() {
			t.Fatalf("outcomes = %d, want %d", len(outcomes), 2*b.CountEmpty())
		}
		sum := 0.0
		for _, o := range outcomes {
			sum += o.Probability
			if o.Board.At(o.Cell.Row, o.Cell.Col) != o.Value {
				t.Fatalf("outcome board missing spawned tile %d at %+v", o.Value, o.Cell)
			}
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Fatalf("probabilities sum to %.12f", sum)
		}
	}
}

func TestSpawnOutcomesOrder(t *testing.T) {
	b := MustBoard(
		2, 2, 2, 2,
		2, 2, 2, 2,
		2, 2, 2, 0,
		2, 2, 2, 2,
	)
	outcomes := b.SpawnOutcomes()
	if len(outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(outcomes))
	}
	if outcomes[0].Value != 2 || outcomes[1].Value != 4 {
		t.Fatalf("values = %d,%d, want 2,4", outcomes[0].Value, outcomes[1].Value)
	}
	if outcomes[0].Probability != SpawnTwoProbability || outcomes[1].Probability != SpawnFourProbability {
		t.Fatalf("probabilities = %v,%v", outcomes[0].Probability, outcomes[1].Probability)
	}
	if outcomes[0].Cell != (Cell{Row: 2, Col: 3}) {
		t.Fatalf("cell = %+v, want {2 3}", outcomes[0].Cell)
	}
}
