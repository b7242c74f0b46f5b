package app

import (
	"context"
	"sync"

	"tilemerge/internal/domain"
	"tilemerge/internal/ports"
)

// SimulatedSurface is an in-memory live surface backed by Service.
// It implements both ports.BoardObserver and ports.MoveExecutor.
type SimulatedSurface struct {
	mu   sync.Mutex
	svc  *Service
	game *domain.Game
	// OnEvents, when set, receives the events of every start and step.
	OnEvents func([]Event)
}

var (
	_ ports.BoardObserver = (*SimulatedSurface)(nil)
	_ ports.MoveExecutor  = (*SimulatedSurface)(nil)
)

// NewSimulatedSurface starts the first game immediately.
func NewSimulatedSurface(svc *Service) *SimulatedSurface {
	game, _ := svc.StartGame()
	return &SimulatedSurface{svc: svc, game: game}
}

func (s *SimulatedSurface) Observe(ctx context.Context) (ports.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return ports.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return ports.Snapshot{Values: s.game.Board.Values(), Score: s.game.Score}, nil
}

func (s *SimulatedSurface) Execute(ctx context.Context, move domain.Move) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	events, err := s.svc.Step(s.game, move)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.emit(events)
	return nil
}

func (s *SimulatedSurface) Restart(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	game, events := s.svc.StartGame()
	s.game = game
	s.mu.Unlock()
	s.emit(events)
	return nil
}

// Game returns a copy of the current game state.
func (s *SimulatedSurface) Game() domain.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.game
}

func (s *SimulatedSurface) emit(events []Event) {
	if s.OnEvents != nil && len(events) > 0 {
		s.OnEvents(events)
	}
}
