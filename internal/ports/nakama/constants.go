package nakama

const (
	// RpcIDBestMove returns the engine's move for a posted grid.
	RpcIDBestMove = "best_move"
	// RpcIDLegalMoves lists the moves that change a posted grid.
	RpcIDLegalMoves = "legal_moves"
	// RpcIDStartSession issues a signed ticket pinning search settings.
	RpcIDStartSession = "start_session"
	// RpcIDRecordEpisode folds a finished episode into the caller's stats.
	RpcIDRecordEpisode = "record_episode"
	// RpcIDGetStats returns the caller's stored run stats.
	RpcIDGetStats = "get_stats"
	// RpcIDFindAutoplayMatch finds or creates a match with spectator slots.
	RpcIDFindAutoplayMatch = "find_autoplay_match"

	// MatchNameAutoplay is the authoritative match handler name registered with Nakama.
	MatchNameAutoplay = "autoplay_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartAutoplay     int64 = 1
	OpStopAutoplay      int64 = 2
	OpConfigureAutoplay int64 = 3

	// Server -> Client events
	OpMatchState  int64 = 101
	OpGameStarted int64 = 102
	OpMoveApplied int64 = 103
	OpTileSpawned int64 = 104
	OpGameWon     int64 = 105
	OpGameEnded   int64 = 106
	OpRunStats    int64 = 107
	OpGameError   int64 = 108
)

// gRPC status codes used with runtime.NewError.
const (
	codeInvalidArgument = 3
	codeInternal        = 13
	codeUnauthenticated = 16
)

// Environment keys read from the Nakama runtime config.
const (
	envTicketSecret = "tilemerge_ticket_secret"
	envTicketIssuer = "tilemerge_ticket_issuer"

	defaultTicketIssuer = "tilemerge"
)
