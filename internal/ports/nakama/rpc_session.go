package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"tilemerge/internal/app"
	"tilemerge/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// StartSessionRequest picks the settings a ticket pins. Empty fields take the
// server defaults.
type StartSessionRequest struct {
	Algorithm string `json:"algorithm,omitempty"`
	Heuristic string `json:"heuristic,omitempty"`
	Depth     int    `json:"depth,omitempty"`
}

// StartSessionResponse carries the signed ticket and the resolved settings.
type StartSessionResponse struct {
	Ticket    string `json:"ticket"`
	ExpiresIn int64  `json:"expires_in"`
	Algorithm string `json:"algorithm"`
	Heuristic string `json:"heuristic"`
	Depth     int    `json:"depth"`
}

// RpcStartSession validates the requested settings and signs them into a ticket
// that later best_move calls can present instead of repeating them.
func RpcStartSession(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("Authentication required", codeUnauthenticated)
	}
	if ticketService == nil {
		logger.Error("RpcStartSession: %s is not configured", envTicketSecret)
		return "", runtime.NewError("Sessions are not available", codeInternal)
	}

	req := StartSessionRequest{}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("Invalid payload", codeInvalidArgument)
		}
	}

	cfg := config.GetSearchConfig().WithEnv(envFrom(ctx))
	algorithm, heuristic, depth, err := resolveSettings(cfg, app.SessionSettings{
		Algorithm: req.Algorithm,
		Heuristic: req.Heuristic,
		Depth:     req.Depth,
	})
	if err != nil {
		return "", runtime.NewError(err.Error(), codeInvalidArgument)
	}

	settings := app.SessionSettings{Algorithm: algorithm.String(), Heuristic: heuristic.String(), Depth: depth}
	ticket, err := ticketService.Issue(userID, settings)
	if err != nil {
		logger.Error("RpcStartSession [User:%s]: Failed to issue ticket: %v", userID, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}

	logger.Info("RpcStartSession [User:%s]: Issued %s/%s depth %d", userID, settings.Algorithm, settings.Heuristic, depth)
	return marshalResponse(StartSessionResponse{
		Ticket:    ticket,
		ExpiresIn: int64(ticketService.TTL().Seconds()),
		Algorithm: settings.Algorithm,
		Heuristic: settings.Heuristic,
		Depth:     depth,
	})
}
