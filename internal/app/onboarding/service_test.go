package onboarding

import (
	"context"
	"errors"
	"testing"

	"lukechampine.com/frand"

	"tilemerge/internal/domain"
)

type fakeAccountPort struct {
	updateErr error
	names     []string
}

func (f *fakeAccountPort) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	f.names = append(f.names, displayName)
	return f.updateErr
}

type fakeStatsPort struct {
	initErr error
	created bool
	inits   []string
}

func (f *fakeStatsPort) GetStats(ctx context.Context, userID string) (domain.RunStats, error) {
	return domain.RunStats{}, nil
}

func (f *fakeStatsPort) RecordEpisode(ctx context.Context, userID string, episode domain.Episode) (domain.RunStats, error) {
	return domain.RunStats{}.Record(episode), nil
}

func (f *fakeStatsPort) InitStatsOnce(ctx context.Context, userID string) (bool, error) {
	f.inits = append(f.inits, userID)
	if f.initErr != nil {
		return false, f.initErr
	}
	return f.created, nil
}

func seeded() *frand.RNG {
	return frand.NewCustom(make([]byte, 32), 1024, 12)
}

func TestOnboardNewUser_CreatesStats(t *testing.T) {
	accounts := &fakeAccountPort{}
	stats := &fakeStatsPort{created: true}
	service := NewService(accounts, stats, seeded())

	result, err := service.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser returned error: %v", err)
	}
	if result.ProfileUpdateErr != nil {
		t.Fatalf("Expected no profile update error, got %v", result.ProfileUpdateErr)
	}
	if !result.StatsCreated {
		t.Fatal("Expected stats record to be marked as created")
	}
	if len(stats.inits) != 1 || stats.inits[0] != "user-1" {
		t.Fatalf("Expected 1 stats init for user-1, got %v", stats.inits)
	}
	if len(accounts.names) != 1 || accounts.names[0] == "" {
		t.Fatalf("Expected a generated display name, got %v", accounts.names)
	}
}

func TestOnboardNewUser_ProfileFailureStillCreatesStats(t *testing.T) {
	stats := &fakeStatsPort{created: true}
	service := NewService(&fakeAccountPort{updateErr: errors.New("update failed")}, stats, seeded())

	result, err := service.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser returned error: %v", err)
	}
	if result.ProfileUpdateErr == nil {
		t.Fatal("Expected profile update error to be captured")
	}
	if len(stats.inits) != 1 {
		t.Fatalf("Expected 1 stats init, got %d", len(stats.inits))
	}
}

func TestOnboardNewUser_StatsFailureReturnsError(t *testing.T) {
	service := NewService(&fakeAccountPort{}, &fakeStatsPort{initErr: errors.New("storage failed")}, seeded())

	if _, err := service.OnboardNewUser(context.Background(), "user-1"); err == nil {
		t.Fatal("Expected error when stats creation fails")
	}
}

func TestOnboardNewUser_StatsAlreadyExist(t *testing.T) {
	service := NewService(&fakeAccountPort{}, &fakeStatsPort{created: false}, seeded())

	result, err := service.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser returned error: %v", err)
	}
	if result.StatsCreated {
		t.Fatal("Expected existing stats record to be reported")
	}
}
