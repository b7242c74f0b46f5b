package domain

// Phase represents the lifecycle stage of a played game.
type Phase string

const (
	// PhaseLobby is the state before the first tiles are dealt.
	PhaseLobby Phase = "lobby"
	// PhasePlaying is the active state where moves are accepted.
	PhasePlaying Phase = "playing"
	// PhaseEnded is the state after no legal move remains or play was stopped.
	PhaseEnded Phase = "ended"
)

// Game is the live state of one episode as seen by the orchestration layer.
// The decision core only ever receives Game.Board.
type Game struct {
	Phase Phase
	Board Board
	Score int
	Moves int

	// Won is set the first time a tile reaches WinningTile and stays set.
	Won bool
	// LastMove is only meaningful when Moves > 0.
	LastMove Move
	// Tiles holds the most copies of each tile >= TrackedTileMin seen at once.
	Tiles map[int]int
}

// Episode summarises the game for run statistics.
func (g *Game) Episode() Episode {
	tiles := make(map[int]int, len(g.Tiles))
	for k, v := range g.Tiles {
		tiles[k] = v
	}
	return Episode{
		Score:   g.Score,
		Moves:   g.Moves,
		Won:     g.Won,
		MaxTile: g.Board.MaxTile(),
		Tiles:   tiles,
	}
}

// TrackedTileMin is the smallest tile value recorded in run statistics.
const TrackedTileMin = 256
