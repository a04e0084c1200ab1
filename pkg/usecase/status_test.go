package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
	"github.com/23blocks-OS/platform-sync/pkg/repository/memory"
	"github.com/23blocks-OS/platform-sync/pkg/usecase"
)

func TestListRunsFiltersByTimeRange(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	for _, offset := range []time.Duration{-48 * time.Hour, -24 * time.Hour, 0} {
		_, err := repo.SyncRun().Create(ctx, &model.SyncRun{
			Platform: "platform",
			RunType:  model.RunTypeBulkUserSync,
			Status:   types.SyncRunStatusCompleted,
			RunAt:    base.Add(offset),
		})
		gt.NoError(t, err).Required()
	}

	all, err := uc.Status.ListRuns(ctx, nil, nil)
	gt.NoError(t, err).Required()
	gt.Array(t, all).Length(3)
	gt.Value(t, all[0].RunAt).Equal(base)

	from := base.Add(-24 * time.Hour)
	recent, err := uc.Status.ListRuns(ctx, &from, nil)
	gt.NoError(t, err).Required()
	gt.Array(t, recent).Length(2)
}

func TestSummaryReportsCountAndLastRun(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	empty, err := uc.Status.Summary(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, empty.SyncedUsers).Equal(0)
	gt.Value(t, empty.LastRun).Nil()

	_, err = uc.Sync.RunBatch(ctx, []model.SyncRecord{
		{ExternalID: "plt-30", Email: "a@example.com"},
		{ExternalID: "plt-31", Email: "b@example.com"},
	})
	gt.NoError(t, err).Required()

	summary, err := uc.Status.Summary(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, summary.SyncedUsers).Equal(2)
	gt.Value(t, summary.LastRun).NotNil()
	gt.Value(t, summary.LastRun.RecordsProcessed).Equal(2)
}
