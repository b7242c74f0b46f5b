package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tilemerge/internal/domain"
	"tilemerge/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	statsCollection = "autoplay"
	statsKey        = "run_stats_v1"

	// maxStatsWriteAttempts bounds the optimistic read-modify-write loop.
	maxStatsWriteAttempts = 3
)

// NakamaStatsAdapter stores run stats as a versioned storage object per user.
type NakamaStatsAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaStatsAdapter creates a new stats adapter.
func NewNakamaStatsAdapter(nk runtime.NakamaModule) *NakamaStatsAdapter {
	return &NakamaStatsAdapter{nk: nk}
}

// GetStats returns the stored stats, or zero stats when the user has none.
func (a *NakamaStatsAdapter) GetStats(ctx context.Context, userID string) (domain.RunStats, error) {
	stats, _, err := a.read(ctx, userID)
	return stats, err
}

// RecordEpisode folds the episode into the stored stats. Concurrent writers are
// detected through the object version and the update is retried.
func (a *NakamaStatsAdapter) RecordEpisode(ctx context.Context, userID string, episode domain.Episode) (domain.RunStats, error) {
	if userID == "" {
		return domain.RunStats{}, fmt.Errorf("userID is required")
	}

	for attempt := 0; attempt < maxStatsWriteAttempts; attempt++ {
		stats, version, err := a.read(ctx, userID)
		if err != nil {
			return domain.RunStats{}, err
		}
		if version == "" {
			version = "*"
		}

		next := stats.Record(episode)
		err = a.write(ctx, userID, next, version)
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			continue
		}
		if err != nil {
			return domain.RunStats{}, err
		}
		return next, nil
	}
	return domain.RunStats{}, fmt.Errorf("failed to record episode for %s: too many concurrent updates", userID)
}

// InitStatsOnce writes an empty record only if none exists.
func (a *NakamaStatsAdapter) InitStatsOnce(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("userID is required")
	}
	err := a.write(ctx, userID, domain.RunStats{}, "*")
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (a *NakamaStatsAdapter) read(ctx context.Context, userID string) (domain.RunStats, string, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{
		{
			Collection: statsCollection,
			Key:        statsKey,
			UserID:     userID,
		},
	})
	if err != nil {
		return domain.RunStats{}, "", fmt.Errorf("failed to read stats: %w", err)
	}
	if len(objects) == 0 {
		return domain.RunStats{}, "", nil
	}

	var stats domain.RunStats
	if err := json.Unmarshal([]byte(objects[0].GetValue()), &stats); err != nil {
		return domain.RunStats{}, "", fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return stats, objects[0].GetVersion(), nil
}

func (a *NakamaStatsAdapter) write(ctx context.Context, userID string, stats domain.RunStats, version string) error {
	value, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      statsCollection,
			Key:             statsKey,
			UserID:          userID,
			Value:           string(value),
			Version:         version,
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return err
		}
		return fmt.Errorf("failed to write stats: %w", err)
	}
	return nil
}

var _ ports.StatsPort = (*NakamaStatsAdapter)(nil)
