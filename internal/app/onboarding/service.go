package onboarding

import (
	"context"
	"fmt"

	"lukechampine.com/frand"

	"tilemerge/internal/ports"
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
	// StatsCreated is false when the user already had a stats record.
	StatsCreated bool
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	stats    ports.StatsPort
	rng      *frand.RNG
}

// NewService constructs an onboarding service with required ports.
// accounts/stats must be non-nil; rng may be nil to use a freshly seeded default.
func NewService(accounts ports.AccountPort, stats ports.StatsPort, rng *frand.RNG) *Service {
	if rng == nil {
		rng = frand.New()
	}
	return &Service{
		accounts: accounts,
		stats:    stats,
		rng:      rng,
	}
}

// OnboardNewUser gives a new account a display name and an empty stats record.
// Returns an error only if the stats record cannot be created.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.stats == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{}
	if err := s.accounts.UpdateDisplayName(ctx, userID, s.generateFriendlyName()); err != nil {
		result.ProfileUpdateErr = err
	}

	created, err := s.stats.InitStatsOnce(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to create stats record: %w", err)
	}
	result.StatsCreated = created
	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Sliding", "Stacked", "Doubled", "Cornered", "Swift", "Calm", "Mighty", "Nimble", "Patient", "Bold"}
	nouns := []string{"Tile", "Merger", "Stacker", "Snake", "Corner", "Square", "Block", "Slider", "Grid", "Pair"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
