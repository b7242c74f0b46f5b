package bot

import "tilemerge/internal/domain"

// BestMoveAlphaBeta searches the player's moves to depth with the given heuristic.
// Decision.None is set when no move changes the board. Equal scores resolve
// to the first move in UP, DOWN, LEFT, RIGHT order.
func BestMoveAlphaBeta(board domain.Board, heuristic Heuristic, depth int) (Decision, error) {
	return SearchAlphaBeta(board, heuristic, depth, SearchOptions{})
}

// BestMoveExpectimax searches moves and spawns to depth with the given heuristic.
// The same inputs always produce the same Decision.
func BestMoveExpectimax(board domain.Board, heuristic Heuristic, depth int) (Decision, error) {
	return SearchExpectimax(board, heuristic, depth, SearchOptions{Memo: true})
}
