package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"tilemerge/internal/app"
	"tilemerge/internal/bot"
	"tilemerge/internal/config"
	"tilemerge/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// ticketService signs and verifies session tickets. It is nil until InitModule
// finds a ticket secret in the runtime environment.
var ticketService *app.TicketService

// BestMoveRequest is the best_move payload. Either Grid (16 values, row-major)
// or Rows (4x4) must be set. Empty settings fall back to the ticket, then to the
// server config.
type BestMoveRequest struct {
	Grid      []int   `json:"grid,omitempty"`
	Rows      [][]int `json:"rows,omitempty"`
	Algorithm string  `json:"algorithm,omitempty"`
	Heuristic string  `json:"heuristic,omitempty"`
	Depth     int     `json:"depth,omitempty"`
	Ticket    string  `json:"ticket,omitempty"`
}

// BestMoveResponse reports the chosen move. Move is empty when None is set.
type BestMoveResponse struct {
	Move      string  `json:"move"`
	None      bool    `json:"none"`
	Score     float64 `json:"score"`
	Algorithm string  `json:"algorithm"`
	Heuristic string  `json:"heuristic"`
	Depth     int     `json:"depth"`
	Nodes     int     `json:"nodes"`
	Leaves    int     `json:"leaves"`
	// Truncated reports that the node budget stopped a deeper search; Depth is
	// the depth that completed.
	Truncated bool `json:"truncated"`
}

// LegalMovesRequest is the legal_moves payload.
type LegalMovesRequest struct {
	Grid []int   `json:"grid,omitempty"`
	Rows [][]int `json:"rows,omitempty"`
}

// LegalMovesResponse lists the moves that change the board.
type LegalMovesResponse struct {
	LegalMoves []string `json:"legal_moves"`
	Terminal   bool     `json:"terminal"`
	Won        bool     `json:"won"`
	MaxTile    int      `json:"max_tile"`
	Empty      int      `json:"empty"`
}

// RpcBestMove runs one search over the posted board.
func RpcBestMove(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req BestMoveRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", codeInvalidArgument)
	}

	board, err := parseBoard(req.Grid, req.Rows)
	if err != nil {
		return "", runtime.NewError(err.Error(), codeInvalidArgument)
	}

	cfg := config.GetSearchConfig().WithEnv(envFrom(ctx))
	settings := app.SessionSettings{Algorithm: req.Algorithm, Heuristic: req.Heuristic, Depth: req.Depth}
	if req.Ticket != "" {
		holder, pinned, err := verifyTicket(req.Ticket)
		if err != nil {
			logger.Warn("RpcBestMove [User:%s]: Rejected ticket: %v", userID, err)
			return "", runtime.NewError("Invalid session ticket", codeUnauthenticated)
		}
		if userID != "" && holder != userID {
			return "", runtime.NewError("Session ticket belongs to another user", codeUnauthenticated)
		}
		settings = pinned
	}

	algorithm, heuristic, depth, err := resolveSettings(cfg, settings)
	if err != nil {
		return "", runtime.NewError(err.Error(), codeInvalidArgument)
	}

	brain, err := bot.NewBrain(algorithm, searchOptions(cfg))
	if err != nil {
		return "", runtime.NewError(err.Error(), codeInvalidArgument)
	}
	decision, err := brain.Decide(board, heuristic, depth)
	if err != nil {
		if errors.Is(err, bot.ErrInvalidDepth) || errors.Is(err, bot.ErrUnknownHeuristic) {
			return "", runtime.NewError(err.Error(), codeInvalidArgument)
		}
		logger.Error("RpcBestMove [User:%s]: Search failed: %v", userID, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}

	resp := BestMoveResponse{
		None:      decision.None,
		Score:     decision.Score,
		Algorithm: algorithm.String(),
		Heuristic: heuristic.String(),
		Depth:     decision.Stats.Depth,
		Nodes:     decision.Stats.Nodes,
		Leaves:    decision.Stats.Leaves,
		Truncated: decision.Stats.Truncated,
	}
	if !decision.None {
		resp.Move = decision.Move.String()
	}
	logger.Debug("RpcBestMove [User:%s]: %s/%s depth %d chose %q over %d nodes", userID, resp.Algorithm, resp.Heuristic, resp.Depth, resp.Move, resp.Nodes)
	return marshalResponse(resp)
}

// RpcLegalMoves reports the legal moves and end state of the posted board.
func RpcLegalMoves(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req LegalMovesRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", codeInvalidArgument)
	}
	board, err := parseBoard(req.Grid, req.Rows)
	if err != nil {
		return "", runtime.NewError(err.Error(), codeInvalidArgument)
	}

	moves := board.LegalMoves()
	resp := LegalMovesResponse{
		LegalMoves: make([]string, len(moves)),
		Terminal:   len(moves) == 0,
		Won:        board.HasWon(),
		MaxTile:    board.MaxTile(),
		Empty:      board.CountEmpty(),
	}
	for i, m := range moves {
		resp.LegalMoves[i] = m.String()
	}
	return marshalResponse(resp)
}

func parseBoard(grid []int, rows [][]int) (domain.Board, error) {
	if rows != nil {
		return domain.NewBoardFromGrid(rows)
	}
	return domain.NewBoard(grid)
}

func verifyTicket(ticket string) (string, app.SessionSettings, error) {
	if ticketService == nil {
		return "", app.SessionSettings{}, app.ErrInvalidTicket
	}
	return ticketService.Verify(ticket)
}

// resolveSettings fills empty settings from cfg and validates the result.
func resolveSettings(cfg config.SearchConfig, s app.SessionSettings) (bot.Algorithm, bot.Heuristic, int, error) {
	if s.Algorithm == "" {
		s.Algorithm = cfg.Algorithm
	}
	if s.Heuristic == "" {
		s.Heuristic = cfg.Heuristic
	}
	algorithm, err := bot.ParseAlgorithm(s.Algorithm)
	if err != nil {
		return 0, 0, 0, err
	}
	heuristic, err := bot.ParseHeuristic(s.Heuristic)
	if err != nil {
		return 0, 0, 0, err
	}
	depth := s.Depth
	if depth == 0 {
		depth = cfg.DepthFor(algorithm.String())
	}
	if depth < 1 || depth > bot.MaxDepth {
		return 0, 0, 0, bot.ErrInvalidDepth
	}
	return algorithm, heuristic, depth, nil
}

func searchOptions(cfg config.SearchConfig) bot.SearchOptions {
	return bot.SearchOptions{
		Parallel:   cfg.ParallelRoot,
		Memo:       cfg.Memo,
		FixedDepth: cfg.FixedDepth,
		NodeBudget: cfg.NodeBudget,
	}
}

func envFrom(ctx context.Context) map[string]string {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	return env
}

func marshalResponse(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", runtime.NewError("Internal error", codeInternal)
	}
	return string(b), nil
}
