package internal

import (
	"math"

	"tilemerge/internal/domain"
)

// Corner names the cell a positional table is anchored to.
type Corner int

const (
	CornerTopLeft Corner = iota
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight
)

// AllCorners lists the corners in the order ScoreCorners visits them.
var AllCorners = [...]Corner{CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight}

func (c Corner) String() string {
	switch c {
	case CornerTopLeft:
		return "top-left"
	case CornerTopRight:
		return "top-right"
	case CornerBottomLeft:
		return "bottom-left"
	case CornerBottomRight:
		return "bottom-right"
	default:
		return "unknown"
	}
}

// distance returns the row and column offsets of (row, col) from the corner.
func (c Corner) distance(row, col int) (int, int) {
	dr, dc := row, col
	if c == CornerBottomLeft || c == CornerBottomRight {
		dr = domain.Size - 1 - row
	}
	if c == CornerTopRight || c == CornerBottomRight {
		dc = domain.Size - 1 - col
	}
	return dr, dc
}

type table [domain.Cells]float64

var (
	cornerTables = buildCornerTables()
	snakePath    = buildSnakePath()
	snakeTable   = buildSnakeTable()
)

// buildCornerTables weights each cell 2^(6-dr-dc), 64 at the corner down to 1
// at the opposite corner.
func buildCornerTables() [len(AllCorners)]table {
	var tables [len(AllCorners)]table
	for _, corner := range AllCorners {
		for row := 0; row < domain.Size; row++ {
			for col := 0; col < domain.Size; col++ {
				dr, dc := corner.distance(row, col)
				tables[corner][row*domain.Size+col] = math.Exp2(float64(2*(domain.Size-1) - dr - dc))
			}
		}
	}
	return tables
}

// buildSnakePath walks row 0 left to right, row 1 right to left and so on.
func buildSnakePath() [domain.Cells]int {
	var path [domain.Cells]int
	k := 0
	for row := 0; row < domain.Size; row++ {
		for j := 0; j < domain.Size; j++ {
			col := j
			if row%2 == 1 {
				col = domain.Size - 1 - j
			}
			path[k] = row*domain.Size + col
			k++
		}
	}
	return path
}

func buildSnakeTable() table {
	var t table
	for k, idx := range snakePath {
		t[idx] = math.Exp2(float64(domain.Cells-1-k) / 2)
	}
	return t
}

// CornerTable exposes the positional weights anchored at corner.
func CornerTable(corner Corner) [domain.Cells]float64 {
	return cornerTables[corner]
}

// SnakePath exposes the serpentine cell order, highest weight first.
func SnakePath() [domain.Cells]int {
	return snakePath
}

// Positional is the dot product of the weight table with the tile ranks.
func Positional(ranks [domain.Cells]uint8, weights [domain.Cells]float64) float64 {
	total := 0.0
	for i, r := range ranks {
		total += weights[i] * float64(r)
	}
	return total
}

// CornerMonotonicity returns a non-positive penalty: every step along a row or
// column that grows while moving away from the corner costs the rank increase.
func CornerMonotonicity(ranks [domain.Cells]uint8, corner Corner) float64 {
	penalty := 0
	for i := 0; i < domain.Size; i++ {
		for j := 0; j < domain.Size-1; j++ {
			// Row i, columns j and j+1, ordered nearest the corner first.
			penalty += climb(ranks, corner, i, j, i, j+1)
			// Column i, rows j and j+1.
			penalty += climb(ranks, corner, j, i, j+1, i)
		}
	}
	return -float64(penalty)
}

func climb(ranks [domain.Cells]uint8, corner Corner, r1, c1, r2, c2 int) int {
	dr1, dc1 := corner.distance(r1, c1)
	dr2, dc2 := corner.distance(r2, c2)
	near, far := r1*domain.Size+c1, r2*domain.Size+c2
	if dr2+dc2 < dr1+dc1 {
		near, far = far, near
	}
	if ranks[far] > ranks[near] {
		return int(ranks[far] - ranks[near])
	}
	return 0
}

// SnakeMonotonicity penalises every increase along the serpentine path.
func SnakeMonotonicity(ranks [domain.Cells]uint8) float64 {
	penalty := 0
	for k := 0; k < domain.Cells-1; k++ {
		here, next := ranks[snakePath[k]], ranks[snakePath[k+1]]
		if next > here {
			penalty += int(next - here)
		}
	}
	return -float64(penalty)
}

// EmptyCount counts cells holding no tile.
func EmptyCount(ranks [domain.Cells]uint8) float64 {
	n := 0
	for _, r := range ranks {
		if r == 0 {
			n++
		}
	}
	return float64(n)
}

func cornerArrangement(ranks [domain.Cells]uint8, corner Corner, w HeuristicWeights) float64 {
	return w.Positional*Positional(ranks, cornerTables[corner]) +
		w.Monotonicity*CornerMonotonicity(ranks, corner)
}

// ScoreCorner scores the board against a single anchored corner.
func ScoreCorner(board domain.Board, corner Corner, w HeuristicWeights) float64 {
	ranks := board.Ranks()
	return cornerArrangement(ranks, corner, w) + w.Empty*EmptyCount(ranks)
}

// ScoreCorners takes the best corner arrangement, so any corner may be built.
func ScoreCorners(board domain.Board, w HeuristicWeights) float64 {
	ranks := board.Ranks()
	best := math.Inf(-1)
	for _, corner := range AllCorners {
		if v := cornerArrangement(ranks, corner, w); v > best {
			best = v
		}
	}
	return best + w.Empty*EmptyCount(ranks)
}

// ScoreSnake rewards tiles laid out in descending order along the serpentine.
func ScoreSnake(board domain.Board, w HeuristicWeights) float64 {
	ranks := board.Ranks()
	return w.Positional*Positional(ranks, snakeTable) +
		w.Monotonicity*SnakeMonotonicity(ranks) +
		w.Empty*EmptyCount(ranks)
}
