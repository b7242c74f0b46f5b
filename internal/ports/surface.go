package ports

import (
	"context"

	"tilemerge/internal/domain"
)

// Snapshot is what an observer reads from the live surface.
type Snapshot struct {
	// Values is the 16-cell grid, row-major, each 0 or a power of two.
	Values []int
	// Score is the surface's own running score, when it exposes one.
	Score int
}

// BoardObserver reads the current grid from a live game surface.
type BoardObserver interface {
	// Observe returns the latest snapshot. Validation happens in the caller.
	Observe(ctx context.Context) (Snapshot, error)
}

// MoveExecutor delivers decisions to a live game surface.
type MoveExecutor interface {
	// Execute sends one move. The surface applies it and spawns its own tile.
	Execute(ctx context.Context, move domain.Move) error
	// Restart begins a fresh game on the surface.
	Restart(ctx context.Context) error
}
