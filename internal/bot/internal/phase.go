package internal

import "tilemerge/internal/domain"

// GamePhase describes how crowded the board is, which drives search depth.
type GamePhase int

const (
	// PhaseOpening indicates a mostly empty board with wide chance nodes.
	PhaseOpening GamePhase = iota
	// PhaseMid indicates a board between the opening and end thresholds.
	PhaseMid
	// PhaseEnd indicates a crowded board where each decision matters most.
	PhaseEnd
)

func (p GamePhase) String() string {
	switch p {
	case PhaseOpening:
		return "opening"
	case PhaseEnd:
		return "end"
	default:
		return "mid"
	}
}

// PhaseThresholds bound the phases by empty-cell count.
type PhaseThresholds struct {
	// OpeningMinEmpty is the smallest empty count still considered the opening.
	OpeningMinEmpty int
	// EndMaxEmpty is the largest empty count considered the end phase.
	EndMaxEmpty int
}

// DefaultPhaseThresholds splits the 16 cells into 9+ / 4-8 / 0-3 empties.
var DefaultPhaseThresholds = PhaseThresholds{OpeningMinEmpty: 9, EndMaxEmpty: 3}

// DetectPhase infers the phase from the board's empty-cell count.
func DetectPhase(board domain.Board, t PhaseThresholds) GamePhase {
	empty := board.CountEmpty()
	switch {
	case empty >= t.OpeningMinEmpty:
		return PhaseOpening
	case empty <= t.EndMaxEmpty:
		return PhaseEnd
	default:
		return PhaseMid
	}
}
