package app

import "tilemerge/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventGameStarted EventKind = "game_started"
	EventMoveApplied EventKind = "move_applied"
	EventTileSpawned EventKind = "tile_spawned"
	EventGameWon     EventKind = "game_won"
	EventGameEnded   EventKind = "game_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type GameStartedPayload struct {
	Board domain.Board
}

type MoveAppliedPayload struct {
	Move   domain.Move
	Gained int
	Score  int
	Board  domain.Board
}

type TileSpawnedPayload struct {
	Cell  domain.Cell
	Value int
}

type GameWonPayload struct {
	Score int
	Moves int
}

type GameEndedPayload struct {
	Episode domain.Episode
}
