package app

import (
	"errors"

	"lukechampine.com/frand"

	"tilemerge/internal/domain"
)

// Service contains the episode use-cases of a simulated game surface.
type Service struct {
	rng *frand.RNG
}

// NewService constructs a Service with provided rng or a freshly seeded default.
func NewService(rng *frand.RNG) *Service {
	if rng == nil {
		rng = frand.New()
	}
	return &Service{rng: rng}
}

var (
	ErrGameOver    = errors.New("game is over")
	ErrIllegalMove = errors.New("move does not change the board")
	ErrUnknownMove = errors.New("unknown move")
)

// StartGame deals InitialTiles random tiles onto an empty board.
func (s *Service) StartGame() (*domain.Game, []Event) {
	game := &domain.Game{Phase: domain.PhasePlaying}
	events := make([]Event, 0, InitialTiles+1)

	for i := 0; i < InitialTiles; i++ {
		if ev, ok := s.spawn(game); ok {
			events = append(events, ev)
		}
	}
	game.Tiles = domain.TrackTiles(nil, game.Board, domain.TrackedTileMin)

	events = append([]Event{{
		Kind:    EventGameStarted,
		Payload: GameStartedPayload{Board: game.Board},
	}}, events...)
	return game, events
}

// Step applies one move, spawns a tile and reports win and end transitions.
func (s *Service) Step(game *domain.Game, move domain.Move) ([]Event, error) {
	if game.Phase != domain.PhasePlaying {
		return nil, ErrGameOver
	}
	if !move.Valid() {
		return nil, ErrUnknownMove
	}
	next, gained, changed := game.Board.Apply(move)
	if !changed {
		return nil, ErrIllegalMove
	}

	game.Board = next
	game.Score += gained
	game.Moves++
	game.LastMove = move

	events := []Event{{
		Kind: EventMoveApplied,
		Payload: MoveAppliedPayload{
			Move:   move,
			Gained: gained,
			Score:  game.Score,
			Board:  next,
		},
	}}

	// A changing move always leaves at least one empty cell.
	if ev, ok := s.spawn(game); ok {
		events = append(events, ev)
	}
	game.Tiles = domain.TrackTiles(game.Tiles, game.Board, domain.TrackedTileMin)

	if !game.Won && game.Board.HasWon() {
		game.Won = true
		events = append(events, Event{
			Kind:    EventGameWon,
			Payload: GameWonPayload{Score: game.Score, Moves: game.Moves},
		})
	}

	if game.Board.IsTerminal() {
		events = append(events, s.EndGame(game)...)
	}
	return events, nil
}

// EndGame stops a game that is still playing.
func (s *Service) EndGame(game *domain.Game) []Event {
	if game.Phase == domain.PhaseEnded {
		return nil
	}
	game.Phase = domain.PhaseEnded
	return []Event{{
		Kind:    EventGameEnded,
		Payload: GameEndedPayload{Episode: game.Episode()},
	}}
}

// spawn places a 2 (probability 0.9) or a 4 on a uniformly chosen empty cell.
func (s *Service) spawn(game *domain.Game) (Event, bool) {
	empty := game.Board.EmptyCells()
	if len(empty) == 0 {
		return Event{}, false
	}
	cell := empty[s.rng.Intn(len(empty))]
	value := 2
	if s.rng.Intn(10) == 0 {
		value = 4
	}
	next, err := game.Board.WithTile(cell, value)
	if err != nil {
		return Event{}, false
	}
	game.Board = next
	return Event{
		Kind:    EventTileSpawned,
		Payload: TileSpawnedPayload{Cell: cell, Value: value},
	}, true
}
