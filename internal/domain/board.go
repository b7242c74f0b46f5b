package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGrid is returned when a snapshot cannot be turned into a Board.
var ErrInvalidGrid = errors.New("invalid grid")

// GridError describes why a snapshot was rejected. It unwraps to ErrInvalidGrid.
type GridError struct {
	Index  int // -1 when the snapshot size is wrong
	Value  int
	Reason string
}

func (e *GridError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid grid: %s", e.Reason)
	}
	return fmt.Sprintf("invalid grid: cell %d (row %d, col %d) = %d: %s", e.Index, e.Index/Size, e.Index%Size, e.Value, e.Reason)
}

func (e *GridError) Unwrap() error {
	return ErrInvalidGrid
}

// Cell addresses a grid position.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) index() int {
	return c.Row*Size + c.Col
}

// Board is an immutable 4x4 grid. Each cell holds the base-2 exponent of its
// tile (0 for empty), so a value of 2048 is stored as 11. Board is a plain
// array value: copying it copies the grid.
type Board struct {
	cells [Cells]uint8
}

// NewBoard validates a row-major snapshot of Size*Size tile values.
func NewBoard(values []int) (Board, error) {
	var b Board
	if len(values) != Cells {
		return b, &GridError{Index: -1, Value: len(values), Reason: fmt.Sprintf("expected %d cells, got %d", Cells, len(values))}
	}
	for i, v := range values {
		rank, err := rankOf(v)
		if err != nil {
			return Board{}, &GridError{Index: i, Value: v, Reason: err.Error()}
		}
		b.cells[i] = rank
	}
	return b, nil
}

// NewBoardFromGrid validates a 4x4 grid laid out as rows.
func NewBoardFromGrid(grid [][]int) (Board, error) {
	if len(grid) != Size {
		return Board{}, &GridError{Index: -1, Value: len(grid), Reason: fmt.Sprintf("expected %d rows, got %d", Size, len(grid))}
	}
	values := make([]int, 0, Cells)
	for r, row := range grid {
		if len(row) != Size {
			return Board{}, &GridError{Index: -1, Value: len(row), Reason: fmt.Sprintf("row %d has %d columns, want %d", r, len(row), Size)}
		}
		values = append(values, row...)
	}
	return NewBoard(values)
}

// MustBoard is NewBoard for literals in tests and fixtures. It panics on invalid input.
func MustBoard(values ...int) Board {
	b, err := NewBoard(values)
	if err != nil {
		panic(err)
	}
	return b
}

func rankOf(v int) (uint8, error) {
	switch {
	case v == 0:
		return 0, nil
	case v < 2:
		return 0, errors.New("tile must be 0 or a power of two >= 2")
	case v&(v-1) != 0:
		return 0, errors.New("tile is not a power of two")
	}
	rank := uint8(0)
	for v > 1 {
		v >>= 1
		rank++
	}
	if rank > MaxRank {
		return 0, fmt.Errorf("tile exceeds %d", 1<<MaxRank)
	}
	return rank, nil
}

func valueOf(rank uint8) int {
	if rank == 0 {
		return 0
	}
	return 1 << rank
}

// At returns the tile value at row, col.
func (b Board) At(row, col int) int {
	return valueOf(b.cells[row*Size+col])
}

// Rank returns the exponent stored at row, col (0 for empty).
func (b Board) Rank(row, col int) int {
	return int(b.cells[row*Size+col])
}

// Ranks returns the exponent grid. The result is a copy.
func (b Board) Ranks() [Cells]uint8 {
	return b.cells
}

// Values returns the row-major snapshot of tile values.
func (b Board) Values() []int {
	out := make([]int, Cells)
	for i, r := range b.cells {
		out[i] = valueOf(r)
	}
	return out
}

// Grid returns the board as rows of tile values.
func (b Board) Grid() [][]int {
	grid := make([][]int, Size)
	for r := 0; r < Size; r++ {
		grid[r] = make([]int, Size)
		for c := 0; c < Size; c++ {
			grid[r][c] = b.At(r, c)
		}
	}
	return grid
}

// WithTile returns a copy of the board with value placed at cell.
func (b Board) WithTile(cell Cell, value int) (Board, error) {
	if cell.Row < 0 || cell.Row >= Size || cell.Col < 0 || cell.Col >= Size {
		return b, &GridError{Index: -1, Value: value, Reason: fmt.Sprintf("cell %+v out of bounds", cell)}
	}
	rank, err := rankOf(value)
	if err != nil {
		return b, &GridError{Index: cell.index(), Value: value, Reason: err.Error()}
	}
	b.cells[cell.index()] = rank
	return b, nil
}

// withRank is the unchecked form of WithTile used on search paths.
func (b Board) withRank(idx int, rank uint8) Board {
	b.cells[idx] = rank
	return b
}

// EmptyCells lists the empty positions in row-major order.
func (b Board) EmptyCells() []Cell {
	out := make([]Cell, 0, Cells)
	for i, r := range b.cells {
		if r == 0 {
			out = append(out, Cell{Row: i / Size, Col: i % Size})
		}
	}
	return out
}

// CountEmpty returns the number of empty cells.
func (b Board) CountEmpty() int {
	count := 0
	for _, r := range b.cells {
		if r == 0 {
			count++
		}
	}
	return count
}

// MaxTile returns the largest tile value, or 0 for an empty grid.
func (b Board) MaxTile() int {
	var max uint8
	for _, r := range b.cells {
		if r > max {
			max = r
		}
	}
	return valueOf(max)
}

// HasWon reports whether any tile has reached WinningTile.
func (b Board) HasWon() bool {
	return b.MaxTile() >= WinningTile
}

// TileCounts counts tiles whose value is at least minValue, keyed by value.
func (b Board) TileCounts(minValue int) map[int]int {
	counts := make(map[int]int)
	for _, r := range b.cells {
		v := valueOf(r)
		if v != 0 && v >= minValue {
			counts[v]++
		}
	}
	return counts
}

func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%5d", b.At(r, c))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
