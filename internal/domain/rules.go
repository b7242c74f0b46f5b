package domain

// moveLines holds, for each move, the four lines of cell indices ordered from
// the edge the tiles slide toward.
var moveLines = buildMoveLines()

func buildMoveLines() [4][Size][Size]int {
	var lines [4][Size][Size]int
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			lines[MoveUp][i][j] = j*Size + i
			lines[MoveDown][i][j] = (Size-1-j)*Size + i
			lines[MoveLeft][i][j] = i*Size + j
			lines[MoveRight][i][j] = i*Size + (Size - 1 - j)
		}
	}
	return lines
}

// Apply slides every tile toward the move's edge. Equal neighbours merge once
// per move; gained is the sum of the merged tile values. changed is false when
// the grid is identical afterwards, meaning the move is illegal.
func (b Board) Apply(m Move) (next Board, gained int, changed bool) {
	if !m.Valid() {
		return b, 0, false
	}
	next = b
	for _, line := range moveLines[m] {
		var in [Size]uint8
		for i, idx := range line {
			in[i] = b.cells[idx]
		}
		merged, score := mergeLine(in)
		gained += score
		for i, idx := range line {
			next.cells[idx] = merged[i]
		}
	}
	return next, gained, next != b
}

// mergeLine compacts a line toward index 0 and merges equal pairs. A tile
// produced by a merge is never merged again in the same call.
func mergeLine(in [Size]uint8) ([Size]uint8, int) {
	var out [Size]uint8
	n := 0
	score := 0
	var pending uint8
	for _, r := range in {
		if r == 0 {
			continue
		}
		if pending == r {
			out[n] = r + 1
			n++
			score += valueOf(r + 1)
			pending = 0
			continue
		}
		if pending != 0 {
			out[n] = pending
			n++
		}
		pending = r
	}
	if pending != 0 {
		out[n] = pending
	}
	return out, score
}

// LegalMoves returns the moves that change the grid, in tie-break order.
func (b Board) LegalMoves() []Move {
	moves := make([]Move, 0, len(AllMoves))
	for _, m := range AllMoves {
		if _, _, changed := b.Apply(m); changed {
			moves = append(moves, m)
		}
	}
	return moves
}

// IsLegal reports whether m changes the grid.
func (b Board) IsLegal(m Move) bool {
	_, _, changed := b.Apply(m)
	return changed
}

// IsTerminal reports whether no move changes the grid.
func (b Board) IsTerminal() bool {
	for _, m := range AllMoves {
		if _, _, changed := b.Apply(m); changed {
			return false
		}
	}
	return true
}

// SpawnOutcome is one possible random tile placement.
type SpawnOutcome struct {
	Cell        Cell
	Value       int
	Probability float64
	Board       Board // the board with the tile inserted
}

// SpawnOutcomes enumerates every empty cell crossed with {2, 4}. Cells are
// uniformly likely; a 2 appears with SpawnTwoProbability. The probabilities
// sum to 1 when at least one cell is empty; a full board yields nil.
func (b Board) SpawnOutcomes() []SpawnOutcome {
	empty := b.CountEmpty()
	if empty == 0 {
		return nil
	}
	pCell := 1.0 / float64(empty)
	out := make([]SpawnOutcome, 0, empty*2)
	for i, r := range b.cells {
		if r != 0 {
			continue
		}
		cell := Cell{Row: i / Size, Col: i % Size}
		out = append(out,
			SpawnOutcome{Cell: cell, Value: 2, Probability: pCell * SpawnTwoProbability, Board: b.withRank(i, 1)},
			SpawnOutcome{Cell: cell, Value: 4, Probability: pCell * SpawnFourProbability, Board: b.withRank(i, 2)},
		)
	}
	return out
}
