package domain

// Seats is the number of spectator slots an autoplay match advertises.
const Seats = 8

// MatchState captures the domain state for a single autoplay match instance.
type MatchState struct {
	Phase       Phase
	Spectators  map[string]bool
	OwnerUserID string
	Game        *Game
}

// OpenSlots returns how many spectators can still join.
func OpenSlots(state *MatchState) int {
	open := Seats - len(state.Spectators)
	if open < 0 {
		return 0
	}
	return open
}
