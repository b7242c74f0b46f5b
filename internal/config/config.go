package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// SearchConfig configures the decision engine and the surfaces that drive it.
type SearchConfig struct {
	Algorithm       string `json:"algorithm"`
	Heuristic       string `json:"heuristic"`
	AlphaBetaDepth  int    `json:"alpha_beta_depth"`
	ExpectimaxDepth int    `json:"expectimax_depth"`
	ParallelRoot    bool   `json:"parallel_root"`
	Memo            bool   `json:"memo"`
	// FixedDepth disables the expectimax depth reduction on open boards.
	FixedDepth bool `json:"fixed_depth"`
	// NodeBudget caps the expectimax nodes of one decision; 0 uses the engine default.
	NodeBudget int `json:"expectimax_node_budget"`

	TickRate     int `json:"tick_rate"`
	MovesPerTick int `json:"moves_per_tick"`
	// MaxMoves caps a single episode; 0 plays until the game ends.
	MaxMoves         int `json:"max_moves"`
	TicketTTLSeconds int `json:"ticket_ttl_seconds"`
}

var (
	cfg      *SearchConfig
	loadOnce sync.Once
	loadErr  error
)

// DefaultSearchConfig returns the configuration used when no file is loaded.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Algorithm:        "expectimax",
		Heuristic:        "SNAKE",
		AlphaBetaDepth:   4,
		ExpectimaxDepth:  3,
		ParallelRoot:     true,
		Memo:             true,
		TickRate:         5,
		MovesPerTick:     1,
		TicketTTLSeconds: 3600,
	}
}

// ParseSearchConfig decodes data over the defaults, so omitted keys keep their default.
func ParseSearchConfig(data []byte) (*SearchConfig, error) {
	c := DefaultSearchConfig()
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search config: %w", err)
	}
	return &c, nil
}

// LoadSearchConfig loads the search configuration from the given path.
func LoadSearchConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read search config: %w", err)
			return
		}
		cfg, loadErr = ParseSearchConfig(data)
	})
	return loadErr
}

// GetSearchConfig returns the loaded configuration, or the defaults.
func GetSearchConfig() SearchConfig {
	if cfg == nil {
		return DefaultSearchConfig()
	}
	return *cfg
}

// WithEnv applies tilemerge_* overrides from the runtime environment.
// Values that do not parse are ignored.
func (c SearchConfig) WithEnv(env map[string]string) SearchConfig {
	if v, ok := env["tilemerge_algorithm"]; ok && v != "" {
		c.Algorithm = v
	}
	if v, ok := env["tilemerge_heuristic"]; ok && v != "" {
		c.Heuristic = v
	}
	setInt(env, "tilemerge_alpha_beta_depth", &c.AlphaBetaDepth)
	setInt(env, "tilemerge_expectimax_depth", &c.ExpectimaxDepth)
	setInt(env, "tilemerge_tick_rate", &c.TickRate)
	setInt(env, "tilemerge_moves_per_tick", &c.MovesPerTick)
	setInt(env, "tilemerge_max_moves", &c.MaxMoves)
	setInt(env, "tilemerge_expectimax_node_budget", &c.NodeBudget)
	setInt(env, "tilemerge_ticket_ttl_seconds", &c.TicketTTLSeconds)
	setBool(env, "tilemerge_parallel_root", &c.ParallelRoot)
	setBool(env, "tilemerge_memo", &c.Memo)
	setBool(env, "tilemerge_fixed_depth", &c.FixedDepth)
	return c
}

func setInt(env map[string]string, key string, dst *int) {
	if v, ok := env[key]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}

func setBool(env map[string]string, key string, dst *bool) {
	if v, ok := env[key]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// DepthFor returns the configured depth for the named algorithm.
func (c SearchConfig) DepthFor(algorithm string) int {
	if algorithm == "expectimax" {
		return c.ExpectimaxDepth
	}
	return c.AlphaBetaDepth
}
