package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// AgentProfile describes one autoplay agent and the search it runs.
type AgentProfile struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Algorithm   string `json:"algorithm"` // "alphabeta", "expectimax"
	Heuristic   string `json:"heuristic"` // "CORNER", "CORNERS", "SNAKE"
	Depth       int    `json:"depth"`
	Parallel    bool   `json:"parallel"`
	Memo        bool   `json:"memo"`
	FixedDepth  bool   `json:"fixed_depth"`
	NodeBudget  int    `json:"node_budget"`
}

// SearchOptions returns the search options the profile asks for.
func (p AgentProfile) SearchOptions() SearchOptions {
	return SearchOptions{
		Parallel:   p.Parallel,
		Memo:       p.Memo,
		FixedDepth: p.FixedDepth,
		NodeBudget: p.NodeBudget,
	}
}

var (
	agentProfiles []AgentProfile
	agentIDMap    map[string]AgentProfile
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

// LoadProfiles loads the agent profiles from the given path.
func LoadProfiles(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read agent profiles: %w", err)
			return
		}

		if err := json.Unmarshal(data, &agentProfiles); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal agent profiles: %w", err)
			return
		}

		agentIDMap = make(map[string]AgentProfile)
		for _, profile := range agentProfiles {
			if profile.UserID != "" {
				agentIDMap[profile.UserID] = profile
			}
		}
	})
	return loadErr
}

// ProvisionAgents ensures that agent accounts exist so their episodes can be
// recorded like any other user's.
func ProvisionAgents(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) error {
	provisionOnce.Do(func() {
		if agentIDMap == nil {
			agentIDMap = make(map[string]AgentProfile)
		}
		for i := range agentProfiles {
			profile := &agentProfiles[i]
			if profile.DeviceID == "" {
				continue
			}

			userID, username, _, err := nk.AuthenticateDevice(ctx, profile.DeviceID, profile.Username, true)
			if err != nil {
				logger.Error("ProvisionAgents: Failed to authenticate agent %s: %v", profile.Username, err)
				continue
			}
			profile.UserID = userID
			profile.Username = username

			metadata := map[string]interface{}{
				"is_agent":  true,
				"algorithm": profile.Algorithm,
				"heuristic": profile.Heuristic,
				"depth":     profile.Depth,
			}
			if err := nk.AccountUpdateId(ctx, userID, profile.Username, metadata, profile.DisplayName, "", "", "", ""); err != nil {
				logger.Warn("ProvisionAgents: Failed to update agent account %s: %v", userID, err)
			}

			agentIDMap[userID] = *profile
			logger.Info("ProvisionAgents: Agent %s (%s) is ready. %s/%s", profile.DisplayName, userID, profile.Algorithm, profile.Heuristic)
		}
	})
	return nil
}

// GetAgentProfile returns a profile by index (mod pool size), or a default
// expectimax SNAKE agent when no profiles are loaded.
func GetAgentProfile(index int) AgentProfile {
	if len(agentProfiles) == 0 {
		return AgentProfile{
			UserID:      fmt.Sprintf("agent-%d", index),
			DisplayName: fmt.Sprintf("Autoplay %d", index),
			Algorithm:   AlgorithmExpectimax.String(),
			Heuristic:   HeuristicSnake.String(),
			Memo:        true,
		}
	}
	if index < 0 {
		index = -index
	}
	return agentProfiles[index%len(agentProfiles)]
}

// IsAgent reports whether the given user ID belongs to the agent pool.
func IsAgent(userID string) bool {
	if agentIDMap == nil {
		return false
	}
	_, ok := agentIDMap[userID]
	return ok
}
