package ports

import (
	"context"

	"tilemerge/internal/domain"
)

// StatsPort persists a user's run statistics.
type StatsPort interface {
	// GetStats returns the stored stats, or zero stats when none exist.
	GetStats(ctx context.Context, userID string) (domain.RunStats, error)

	// RecordEpisode folds one episode into the stored stats and returns the result.
	RecordEpisode(ctx context.Context, userID string, episode domain.Episode) (domain.RunStats, error)

	// InitStatsOnce creates an empty record for a new user.
	// Returns created=false when a record already existed.
	InitStatsOnce(ctx context.Context, userID string) (bool, error)
}
