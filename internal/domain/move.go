package domain

import (
	"fmt"
	"strings"
)

// Move is a slide direction. The declaration order is the tie-break order.
type Move int

const (
	MoveUp Move = iota
	MoveDown
	MoveLeft
	MoveRight
)

// AllMoves lists every move in tie-break order: UP, DOWN, LEFT, RIGHT.
var AllMoves = [...]Move{MoveUp, MoveDown, MoveLeft, MoveRight}

func (m Move) String() string {
	switch m {
	case MoveUp:
		return "UP"
	case MoveDown:
		return "DOWN"
	case MoveLeft:
		return "LEFT"
	case MoveRight:
		return "RIGHT"
	default:
		return fmt.Sprintf("Move(%d)", int(m))
	}
}

// Valid reports whether m is one of the four directions.
func (m Move) Valid() bool {
	return m >= MoveUp && m <= MoveRight
}

// ParseMove accepts "up", "DOWN", "l", "R" and similar spellings.
func ParseMove(s string) (Move, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return MoveUp, nil
	case "down", "d":
		return MoveDown, nil
	case "left", "l":
		return MoveLeft, nil
	case "right", "r":
		return MoveRight, nil
	}
	return 0, fmt.Errorf("unknown move %q", s)
}
