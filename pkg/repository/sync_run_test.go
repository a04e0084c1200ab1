package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/23blocks-OS/platform-sync/pkg/domain/interfaces"
	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

func newRun(runAt time.Time, processed, failed int) *model.SyncRun {
	return &model.SyncRun{
		Platform:         "platform",
		RunType:          model.RunTypeBulkUserSync,
		Status:           types.SyncRunStatusCompleted,
		RecordsProcessed: processed,
		RecordsFailed:    failed,
		RunAt:            runAt,
	}
}

func runSyncRunRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and preserves counts", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		runAt := time.Now().UTC().Truncate(time.Millisecond)
		run := newRun(runAt, 8, 2)
		run.Failures = []model.SyncFailure{{ExternalID: "plt-9", Error: "malformed email"}}

		created, err := repo.SyncRun().Create(ctx, run)
		if err != nil {
			t.Fatalf("failed to create sync run: %v", err)
		}

		if created.ID == "" {
			t.Error("expected non-empty run ID")
		}
		if created.RecordsProcessed != 8 || created.RecordsFailed != 2 {
			t.Errorf("expected counts 8/2, got %d/%d", created.RecordsProcessed, created.RecordsFailed)
		}
		if !created.RunAt.Equal(runAt) {
			t.Errorf("expected runAt=%v, got %v", runAt, created.RunAt)
		}
		if len(created.Failures) != 1 || created.Failures[0].ExternalID != "plt-9" {
			t.Errorf("expected failure detail preserved, got %v", created.Failures)
		}
	})

	t.Run("List returns runs most recent first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Now().UTC().Truncate(time.Millisecond)
		for _, offset := range []time.Duration{-2 * time.Hour, -time.Hour, 0} {
			if _, err := repo.SyncRun().Create(ctx, newRun(base.Add(offset), 1, 0)); err != nil {
				t.Fatalf("failed to create sync run: %v", err)
			}
		}

		runs, err := repo.SyncRun().List(ctx, nil, nil)
		if err != nil {
			t.Fatalf("failed to list sync runs: %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(runs))
		}
		for i := 1; i < len(runs); i++ {
			if runs[i].RunAt.After(runs[i-1].RunAt) {
				t.Error("expected runs ordered most recent first")
			}
		}
	})

	t.Run("List bounds are inclusive", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Now().UTC().Truncate(time.Millisecond)
		early := base.Add(-2 * time.Hour)
		mid := base.Add(-time.Hour)
		late := base

		for _, runAt := range []time.Time{early, mid, late} {
			if _, err := repo.SyncRun().Create(ctx, newRun(runAt, 1, 0)); err != nil {
				t.Fatalf("failed to create sync run: %v", err)
			}
		}

		runs, err := repo.SyncRun().List(ctx, &early, &mid)
		if err != nil {
			t.Fatalf("failed to list sync runs: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs within bounds, got %d", len(runs))
		}
		if !runs[0].RunAt.Equal(mid) || !runs[1].RunAt.Equal(early) {
			t.Errorf("expected boundary runs included, got %v and %v", runs[0].RunAt, runs[1].RunAt)
		}
	})

	t.Run("List caps results at 100 most recent runs", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Now().UTC().Truncate(time.Millisecond)
		total := 105
		for i := 0; i < total; i++ {
			runAt := base.Add(-time.Duration(i) * time.Minute)
			if _, err := repo.SyncRun().Create(ctx, newRun(runAt, 1, 0)); err != nil {
				t.Fatalf("failed to create sync run: %v", err)
			}
		}

		runs, err := repo.SyncRun().List(ctx, nil, nil)
		if err != nil {
			t.Fatalf("failed to list sync runs: %v", err)
		}
		if len(runs) != 100 {
			t.Fatalf("expected 100 runs, got %d", len(runs))
		}
		if !runs[0].RunAt.Equal(base) {
			t.Errorf("expected newest run first, got %v", runs[0].RunAt)
		}
		// The oldest rows fall off the capped result, not the newest
		oldestReturned := runs[len(runs)-1].RunAt
		cutoff := base.Add(-99 * time.Minute)
		if !oldestReturned.Equal(cutoff) {
			t.Errorf("expected oldest returned run at %v, got %v", cutoff, oldestReturned)
		}

		// Older rows stay reachable by narrowing the range
		from := base.Add(-104 * time.Minute)
		to := base.Add(-100 * time.Minute)
		older, err := repo.SyncRun().List(ctx, &from, &to)
		if err != nil {
			t.Fatalf("failed to list sync runs: %v", err)
		}
		if len(older) != 5 {
			t.Errorf("expected 5 older runs, got %d", len(older))
		}
	})

	t.Run("List with from bound only", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Now().UTC().Truncate(time.Millisecond)
		if _, err := repo.SyncRun().Create(ctx, newRun(base.Add(-2*time.Hour), 1, 0)); err != nil {
			t.Fatalf("failed to create sync run: %v", err)
		}
		if _, err := repo.SyncRun().Create(ctx, newRun(base, 1, 0)); err != nil {
			t.Fatalf("failed to create sync run: %v", err)
		}

		from := base.Add(-time.Hour)
		runs, err := repo.SyncRun().List(ctx, &from, nil)
		if err != nil {
			t.Fatalf("failed to list sync runs: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}
		if !runs[0].RunAt.Equal(base) {
			t.Errorf("expected latest run, got %v", runs[0].RunAt)
		}
	})
}

func TestMemorySyncRunRepository(t *testing.T) {
	runSyncRunRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreSyncRunRepository(t *testing.T) {
	runSyncRunRepositoryTest(t, newFirestoreRepository)
}
