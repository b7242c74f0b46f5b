package bot

import (
	"tilemerge/internal/domain"
)

// Agent represents an autonomous player bound to one search configuration.
type Agent struct {
	ID        string
	Name      string
	Strategy  Brain
	Heuristic Heuristic
	Depth     int
}

// Play asks the agent to choose its move for the current board.
func (a *Agent) Play(board domain.Board) (Decision, error) {
	return a.Strategy.Decide(board, a.Heuristic, a.Depth)
}

// NewAgent builds an agent from a profile, filling in default depth.
func NewAgent(profile AgentProfile) (*Agent, error) {
	algorithm, err := ParseAlgorithm(profile.Algorithm)
	if err != nil {
		return nil, err
	}
	heuristic, err := ParseHeuristic(profile.Heuristic)
	if err != nil {
		return nil, err
	}
	depth := profile.Depth
	if depth == 0 {
		depth = algorithm.DefaultDepth()
	}
	if err := validateDepth(depth); err != nil {
		return nil, err
	}
	brain, err := NewBrain(algorithm, profile.SearchOptions())
	if err != nil {
		return nil, err
	}
	return &Agent{
		ID:        profile.UserID,
		Name:      profile.DisplayName,
		Strategy:  brain,
		Heuristic: heuristic,
		Depth:     depth,
	}, nil
}
