package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// FindMatchRequest optionally asks for a specific agent configuration. Any
// setting forces a fresh match since running matches keep their own agent.
type FindMatchRequest struct {
	Algorithm string `json:"algorithm,omitempty"`
	Heuristic string `json:"heuristic,omitempty"`
	Depth     int    `json:"depth,omitempty"`
}

// FindMatchResponse is the payload returned to clients when requesting a match.
type FindMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcIDBestMove:          RpcBestMove,
		RpcIDLegalMoves:        RpcLegalMoves,
		RpcIDStartSession:      RpcStartSession,
		RpcIDRecordEpisode:     RpcRecordEpisode,
		RpcIDGetStats:          RpcGetStats,
		RpcIDFindAutoplayMatch: RpcFindAutoplayMatch,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return fmt.Errorf("failed to register rpc %s: %w", id, err)
		}
	}
	return nil
}

// RpcFindAutoplayMatch joins an existing lobby with spectator slots left, or
// creates a new autoplay match.
func RpcFindAutoplayMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	req := FindMatchRequest{}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("Invalid payload", codeInvalidArgument)
		}
	}
	custom := req.Algorithm != "" || req.Heuristic != "" || req.Depth != 0

	if !custom {
		query := fmt.Sprintf("+label.game:autoplay +label.%s:>=1", MatchLabelKey_OpenSlots)
		limit := 10
		authoritative := true
		minSize := 1
		maxSize := 8

		matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
		if err != nil {
			logger.Error("RpcFindAutoplayMatch [User:%s]: Failed to list matches: %v", userID, err)
			return "", err
		}
		if len(matches) > 0 {
			logger.Info("RpcFindAutoplayMatch [User:%s]: Found existing match %s", userID, matches[0].MatchId)
			return marshalResponse(FindMatchResponse{MatchID: matches[0].MatchId, IsNew: false})
		}
	}

	// The first spectator to join becomes the owner in MatchJoin.
	params := map[string]interface{}{}
	if req.Algorithm != "" {
		params["algorithm"] = req.Algorithm
	}
	if req.Heuristic != "" {
		params["heuristic"] = req.Heuristic
	}
	if req.Depth != 0 {
		params["depth"] = req.Depth
	}
	matchID, err := nk.MatchCreate(ctx, MatchNameAutoplay, params)
	if err != nil {
		logger.Error("RpcFindAutoplayMatch [User:%s]: Failed to create match: %v", userID, err)
		return "", err
	}

	logger.Info("RpcFindAutoplayMatch [User:%s]: Created new match %s", userID, matchID)
	return marshalResponse(FindMatchResponse{MatchID: matchID, IsNew: true})
}
