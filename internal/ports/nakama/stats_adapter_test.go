package nakama

import (
	"context"
	"testing"

	"tilemerge/internal/domain"
)

func TestStatsAdapter_InitStatsOnce(t *testing.T) {
	nk := newFakeNakama()
	adapter := NewNakamaStatsAdapter(nk)
	ctx := context.Background()

	created, err := adapter.InitStatsOnce(ctx, "user-1")
	if err != nil || !created {
		t.Fatalf("first InitStatsOnce = %v, %v", created, err)
	}
	created, err = adapter.InitStatsOnce(ctx, "user-1")
	if err != nil || created {
		t.Fatalf("second InitStatsOnce = %v, %v; want false, nil", created, err)
	}
	if _, err := adapter.InitStatsOnce(ctx, ""); err == nil {
		t.Fatal("expected an error for an empty user")
	}
}

func TestStatsAdapter_RecordEpisode(t *testing.T) {
	nk := newFakeNakama()
	adapter := NewNakamaStatsAdapter(nk)
	ctx := context.Background()

	if stats, err := adapter.GetStats(ctx, "user-1"); err != nil || stats.Runs != 0 {
		t.Fatalf("GetStats on missing record = %+v, %v", stats, err)
	}

	if _, err := adapter.RecordEpisode(ctx, "user-1", domain.Episode{Score: 500, Moves: 80, MaxTile: 64}); err != nil {
		t.Fatalf("RecordEpisode: %v", err)
	}
	stats, err := adapter.RecordEpisode(ctx, "user-1", domain.Episode{
		Score: 30000, Moves: 1500, Won: true, MaxTile: 2048,
		Tiles: map[int]int{1024: 2, 2048: 1},
	})
	if err != nil {
		t.Fatalf("RecordEpisode: %v", err)
	}
	if stats.Runs != 2 || stats.Wins != 1 || stats.Reached[1024] != 2 || stats.Reached[2048] != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	stored, err := adapter.GetStats(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stored.Runs != 2 || stored.MinScore != 500 || stored.Reached[2048] != 1 {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestStatsAdapter_RetriesVersionConflicts(t *testing.T) {
	nk := newFakeNakama()
	adapter := NewNakamaStatsAdapter(nk)
	ctx := context.Background()

	nk.conflicts = maxStatsWriteAttempts - 1
	stats, err := adapter.RecordEpisode(ctx, "user-1", domain.Episode{Score: 10, Moves: 3, MaxTile: 8})
	if err != nil || stats.Runs != 1 {
		t.Fatalf("RecordEpisode after conflicts = %+v, %v", stats, err)
	}

	nk.conflicts = maxStatsWriteAttempts
	if _, err := adapter.RecordEpisode(ctx, "user-1", domain.Episode{Score: 10}); err == nil {
		t.Fatal("expected persistent conflicts to fail")
	}
	if stored, _ := adapter.GetStats(ctx, "user-1"); stored.Runs != 1 {
		t.Fatalf("failed update must not change stored stats, runs = %d", stored.Runs)
	}
}
