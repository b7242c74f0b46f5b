package internal

import "tilemerge/internal/domain"

// BoardStats summarises a board for heuristics and move ordering.
type BoardStats struct {
	Empty       int
	MaxRank     int
	MaxInCorner bool
	// MergePairs counts adjacent equal non-empty tiles along rows and columns.
	MergePairs int
}

// AnalyzeBoard performs a single pass over the grid.
func AnalyzeBoard(board domain.Board) BoardStats {
	ranks := board.Ranks()
	stats := BoardStats{}
	maxIdx := 0
	for i, r := range ranks {
		if r == 0 {
			stats.Empty++
			continue
		}
		if int(r) > stats.MaxRank {
			stats.MaxRank = int(r)
			maxIdx = i
		}
		col := i % domain.Size
		if col < domain.Size-1 && ranks[i+1] == r {
			stats.MergePairs++
		}
		if i+domain.Size < domain.Cells && ranks[i+domain.Size] == r {
			stats.MergePairs++
		}
	}
	if stats.MaxRank > 0 {
		row, col := maxIdx/domain.Size, maxIdx%domain.Size
		stats.MaxInCorner = (row == 0 || row == domain.Size-1) && (col == 0 || col == domain.Size-1)
	}
	return stats
}
