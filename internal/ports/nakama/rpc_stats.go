package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"tilemerge/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// StatsResponse is the stored stats plus the derived rates.
type StatsResponse struct {
	domain.RunStats
	WinRate      float64 `json:"win_rate"`
	AverageScore float64 `json:"average_score"`
}

func newStatsResponse(stats domain.RunStats) StatsResponse {
	return StatsResponse{
		RunStats:     stats,
		WinRate:      stats.WinRate(),
		AverageScore: stats.AverageScore(),
	}
}

// RpcRecordEpisode folds a client-played episode into the caller's stats.
func RpcRecordEpisode(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("Authentication required", codeUnauthenticated)
	}

	var episode domain.Episode
	if err := json.Unmarshal([]byte(payload), &episode); err != nil {
		return "", runtime.NewError("Invalid payload", codeInvalidArgument)
	}
	if episode.Score < 0 || episode.Moves < 0 || episode.MaxTile < 0 {
		return "", runtime.NewError("Episode values must not be negative", codeInvalidArgument)
	}

	stats, err := NewNakamaStatsAdapter(nk).RecordEpisode(ctx, userID, episode)
	if err != nil {
		logger.Error("RpcRecordEpisode [User:%s]: %v", userID, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}
	return marshalResponse(newStatsResponse(stats))
}

// RpcGetStats returns the caller's stored stats.
func RpcGetStats(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("Authentication required", codeUnauthenticated)
	}

	stats, err := NewNakamaStatsAdapter(nk).GetStats(ctx, userID)
	if err != nil {
		logger.Error("RpcGetStats [User:%s]: %v", userID, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}
	return marshalResponse(newStatsResponse(stats))
}
