package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"

	"tilemerge/internal/app"
	"tilemerge/internal/bot"
	"tilemerge/internal/config"
	"tilemerge/internal/domain"
	"tilemerge/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"lukechampine.com/frand"
)

const (
	MatchLabelKey_OpenSlots = "open" // Key for the open spectator slots in the match label

	maxTickRate = 30
)

// MatchState holds the authoritative runtime state for one autoplay match:
// a single agent playing a simulated game while spectators watch.
type MatchState struct {
	domain.MatchState

	Tick      int64                       `json:"tick"`
	Presences map[string]runtime.Presence `json:"-"` // Map UserId -> Presence for targeted messaging
	App       *app.Service                `json:"-"`
	Agent     *bot.Agent                  `json:"-"`
	Profile   bot.AgentProfile            `json:"profile"`
	Config    config.SearchConfig         `json:"config"`

	Running          bool `json:"running"`
	ContinueAfterWin bool `json:"continue_after_win"`
	MaxMoves         int  `json:"max_moves"`

	// Stats accumulates the episodes played in this match.
	Stats domain.RunStats `json:"stats"`
	// RecordFor is the account finished episodes are stored under; empty skips storage.
	RecordFor string          `json:"record_for"`
	Recorder  ports.StatsPort `json:"-"`
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := config.LoadSearchConfig("data/search_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load search config: %v", err)
	}
	if err := bot.LoadProfiles("data/agent_profiles.json"); err != nil {
		logger.Warn("MatchInit: Could not load agent profiles: %v", err)
	}

	cfg := config.GetSearchConfig().WithEnv(envFrom(ctx))
	profile := profileFromParams(bot.GetAgentProfile(frand.Intn(1<<16)), params, cfg)
	agent, err := bot.NewAgent(profile)
	if err != nil {
		logger.Error("MatchInit: Failed to create agent %s: %v", profile.DisplayName, err)
		return nil, 0, ""
	}

	state := &MatchState{
		MatchState: domain.MatchState{
			Phase:      domain.PhaseLobby,
			Spectators: make(map[string]bool),
		},
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(nil),
		Agent:     agent,
		Profile:   profile,
		Config:    cfg,
		MaxMoves:  cfg.MaxMoves,
		Recorder:  NewNakamaStatsAdapter(nk),
	}
	if bot.IsAgent(profile.UserID) {
		state.RecordFor = profile.UserID
	}

	label, err := matchLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := cfg.TickRate
	if tickRate < 1 {
		tickRate = 1
	} else if tickRate > maxTickRate {
		tickRate = maxTickRate
	}
	logger.Info("MatchInit: Agent %s plays %s/%s depth %d at %d ticks per second.",
		profile.DisplayName, agent.Strategy.Name(), agent.Heuristic, agent.Depth, tickRate)
	return state, tickRate, label
}

// profileFromParams applies the match creation params over the base profile.
func profileFromParams(base bot.AgentProfile, params map[string]interface{}, cfg config.SearchConfig) bot.AgentProfile {
	profile := base
	if v, ok := params["algorithm"].(string); ok && v != "" {
		profile.Algorithm = v
		profile.Depth = 0
	}
	if v, ok := params["heuristic"].(string); ok && v != "" {
		profile.Heuristic = v
	}
	switch v := params["depth"].(type) {
	case int:
		profile.Depth = v
	case float64:
		profile.Depth = int(v)
	}
	if profile.Algorithm == "" {
		profile.Algorithm = cfg.Algorithm
	}
	if profile.Heuristic == "" {
		profile.Heuristic = cfg.Heuristic
	}
	if profile.Depth == 0 {
		if algorithm, err := bot.ParseAlgorithm(profile.Algorithm); err == nil {
			profile.Depth = cfg.DepthFor(algorithm.String())
		}
	}
	profile.Parallel = profile.Parallel || cfg.ParallelRoot
	profile.Memo = profile.Memo || cfg.Memo
	profile.FixedDepth = profile.FixedDepth || cfg.FixedDepth
	if profile.NodeBudget == 0 {
		profile.NodeBudget = cfg.NodeBudget
	}
	return profile
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	if matchState.Spectators[presence.GetUserId()] {
		return state, true, ""
	}
	if domain.OpenSlots(&matchState.MatchState) <= 0 {
		return state, false, "Match full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		matchState.Spectators[p.GetUserId()] = true
		if matchState.OwnerUserID == "" {
			matchState.OwnerUserID = p.GetUserId()
			logger.Debug("MatchJoin: Owner set to %s.", p.GetUserId())
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more spectators leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		delete(matchState.Spectators, p.GetUserId())
	}

	if len(matchState.Spectators) == 0 {
		logger.Info("MatchLeave: Terminating match with no spectators.")
		return nil
	}

	if !matchState.Spectators[matchState.OwnerUserID] {
		matchState.OwnerUserID = nextOwner(matchState.Spectators)
		logger.Debug("MatchLeave: Owner set to %s.", matchState.OwnerUserID)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)
	return matchState
}

// nextOwner picks the lowest user ID so the choice does not depend on map order.
func nextOwner(spectators map[string]bool) string {
	ids := make([]string, 0, len(spectators))
	for id := range spectators {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return ""
	}
	sort.Strings(ids)
	return ids[0]
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartAutoplay:
			mh.handleStart(ctx, matchState, dispatcher, logger, msg)
		case OpStopAutoplay:
			mh.handleStop(ctx, matchState, dispatcher, logger, msg)
		case OpConfigureAutoplay:
			mh.handleConfigure(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.Running {
		mh.processAgent(ctx, matchState, dispatcher, logger)
	}
	return matchState
}

// processAgent lets the agent play up to MovesPerTick moves.
func (mh *matchHandler) processAgent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	moves := state.Config.MovesPerTick
	if moves < 1 {
		moves = 1
	}

	for i := 0; i < moves && state.Running; i++ {
		game := state.Game
		if game == nil || game.Phase != domain.PhasePlaying {
			state.Running = false
			return
		}
		if state.MaxMoves > 0 && game.Moves >= state.MaxMoves {
			logger.Debug("processAgent: Move cap %d reached.", state.MaxMoves)
			mh.dispatchEvents(ctx, state, dispatcher, logger, state.App.EndGame(game))
			return
		}

		decision, err := state.Agent.Play(game.Board)
		if err != nil {
			logger.Error("processAgent: Agent %s failed to decide: %v", state.Agent.Name, err)
			state.Running = false
			mh.sendError(state, dispatcher, logger, state.OwnerUserID, 500, err.Error())
			return
		}
		if decision.None {
			mh.dispatchEvents(ctx, state, dispatcher, logger, state.App.EndGame(game))
			return
		}

		events, err := state.App.Step(game, decision.Move)
		if err != nil {
			logger.Error("processAgent: Step %v failed: %v", decision.Move, err)
			state.Running = false
			return
		}
		mh.dispatchEvents(ctx, state, dispatcher, logger, events)

		if game.Won && !state.ContinueAfterWin {
			mh.dispatchEvents(ctx, state, dispatcher, logger, state.App.EndGame(game))
			return
		}
	}
}

func (mh *matchHandler) handleStart(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	fields, err := decodeMessage(msg.GetData())
	if err != nil {
		logger.Warn("handleStart: Invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid payload")
		return
	}
	if senderID != state.OwnerUserID {
		logger.Warn("handleStart: User %s tried to start autoplay but is not owner (%s)", senderID, state.OwnerUserID)
		mh.sendError(state, dispatcher, logger, senderID, 403, "only the owner can start autoplay")
		return
	}
	if state.Running {
		mh.sendError(state, dispatcher, logger, senderID, 409, "autoplay already running")
		return
	}

	state.ContinueAfterWin = boolField(fields, "continue_after_win")
	state.MaxMoves = state.Config.MaxMoves
	if n := intField(fields, "max_moves"); n > 0 {
		state.MaxMoves = n
	}

	// A paused game resumes; otherwise a fresh one is dealt.
	if state.Game == nil || state.Game.Phase != domain.PhasePlaying {
		game, events := state.App.StartGame()
		state.Game = game
		mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	}
	state.Running = true
	state.Phase = domain.PhasePlaying
	mh.updateLabel(state, dispatcher, logger)

	logger.Info("handleStart: Autoplay started by %s (continue_after_win=%t, max_moves=%d).", senderID, state.ContinueAfterWin, state.MaxMoves)
}

// handleStop pauses autoplay. With {"end": true} the current game is also ended
// and recorded.
func (mh *matchHandler) handleStop(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	fields, err := decodeMessage(msg.GetData())
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid payload")
		return
	}
	if senderID != state.OwnerUserID {
		mh.sendError(state, dispatcher, logger, senderID, 403, "only the owner can stop autoplay")
		return
	}

	state.Running = false
	if boolField(fields, "end") && state.Game != nil {
		mh.dispatchEvents(ctx, state, dispatcher, logger, state.App.EndGame(state.Game))
		return
	}
	mh.broadcastMatchState(state, dispatcher, logger)
}

func (mh *matchHandler) handleConfigure(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	fields, err := decodeMessage(msg.GetData())
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid payload")
		return
	}
	if senderID != state.OwnerUserID {
		mh.sendError(state, dispatcher, logger, senderID, 403, "only the owner can configure autoplay")
		return
	}
	if state.Running {
		mh.sendError(state, dispatcher, logger, senderID, 409, "stop autoplay before reconfiguring")
		return
	}

	params := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		params[k] = v
	}
	profile := profileFromParams(state.Profile, params, state.Config)
	agent, err := bot.NewAgent(profile)
	if err != nil {
		logger.Warn("handleConfigure: Rejected settings from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	state.Agent = agent
	state.Profile = profile
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastMatchState(state, dispatcher, logger)
	logger.Info("handleConfigure: Agent now plays %s/%s depth %d.", agent.Strategy.Name(), agent.Heuristic, agent.Depth)
}

// dispatchEvents broadcasts events and settles a finished game.
func (mh *matchHandler) dispatchEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
		if ev.Kind == app.EventGameEnded {
			mh.finishEpisode(ctx, state, dispatcher, logger, ev.Payload.(app.GameEndedPayload).Episode)
		}
	}
}

func (mh *matchHandler) finishEpisode(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, episode domain.Episode) {
	state.Running = false
	state.Phase = domain.PhaseEnded
	state.Stats = state.Stats.Record(episode)
	logger.Info("finishEpisode: Score %d, max tile %d, won %t. Runs %d, win rate %.2f.",
		episode.Score, episode.MaxTile, episode.Won, state.Stats.Runs, state.Stats.WinRate())

	if state.Recorder != nil && state.RecordFor != "" {
		if _, err := state.Recorder.RecordEpisode(ctx, state.RecordFor, episode); err != nil {
			logger.Error("finishEpisode: Failed to record episode for %s: %v", state.RecordFor, err)
		}
	}

	if msg, err := structpb.NewStruct(statsFields(state.Stats)); err == nil {
		mh.broadcast(dispatcher, logger, OpRunStats, msg, nil)
	} else {
		logger.Error("finishEpisode: Failed to build stats payload: %v", err)
	}
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	spectators := make([]interface{}, 0, len(state.Spectators))
	for _, id := range sortedIDs(state.Spectators) {
		name := id
		if p, ok := state.Presences[id]; ok && p.GetUsername() != "" {
			name = p.GetUsername()
		}
		spectators = append(spectators, map[string]interface{}{
			"user_id":  id,
			"name":     name,
			"is_owner": id == state.OwnerUserID,
		})
	}

	fields := map[string]interface{}{
		"tick":       state.Tick,
		"phase":      string(state.Phase),
		"running":    state.Running,
		"owner":      state.OwnerUserID,
		"spectators": spectators,
		"agent":      state.Profile.DisplayName,
		"algorithm":  state.Agent.Strategy.Name(),
		"heuristic":  state.Agent.Heuristic.String(),
		"depth":      state.Agent.Depth,
		"stats":      statsFields(state.Stats),
	}
	if state.Game != nil {
		fields["grid"] = gridList(state.Game.Board)
		fields["score"] = state.Game.Score
		fields["moves"] = state.Game.Moves
		fields["won"] = state.Game.Won
	}

	msg, err := structpb.NewStruct(fields)
	if err != nil {
		logger.Error("broadcastMatchState: Failed to build snapshot: %v", err)
		return
	}
	mh.broadcast(dispatcher, logger, OpMatchState, msg, nil)
}

func sortedIDs(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, msg, err := toEventMessage(ev)
	if err != nil {
		logger.Warn("broadcastEvent: %v", err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Targeted events never fall back to a broadcast.
		if len(recipients) == 0 {
			return
		}
	}
	mh.broadcast(dispatcher, logger, opCode, msg, recipients)
}

func (mh *matchHandler) broadcast(dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, msg proto.Message, recipients []runtime.Presence) {
	bytes, err := proto.Marshal(msg)
	if err != nil {
		logger.Error("Failed to marshal message for op %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true); err != nil {
		logger.Warn("Failed to broadcast op %d: %v", opCode, err)
	}
}

// sendError sends an error event to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	msg, err := structpb.NewStruct(map[string]interface{}{
		"code":    code,
		"message": message,
	})
	if err != nil {
		logger.Error("Failed to build error event: %v", err)
		return
	}
	mh.broadcast(dispatcher, logger, OpGameError, msg, []runtime.Presence{presence})
}

// matchLabel renders the label used by find_autoplay_match queries.
func matchLabel(state *MatchState) (string, error) {
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":                  "autoplay",
		MatchLabelKey_OpenSlots: domain.OpenSlots(&state.MatchState),
		"state":                 string(state.Phase),
		"algorithm":             state.Agent.Strategy.Name(),
		"heuristic":             state.Agent.Heuristic.String(),
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

// MatchSignal answers "stats" with the match's run stats as JSON.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*MatchState)
	if !ok || data != "stats" {
		return state, ""
	}
	b, err := json.Marshal(newStatsResponse(matchState.Stats))
	if err != nil {
		logger.Error("MatchSignal: Failed to marshal stats: %v", err)
		return state, ""
	}
	return state, string(b)
}
