package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
	"github.com/23blocks-OS/platform-sync/pkg/repository/memory"
	"github.com/23blocks-OS/platform-sync/pkg/usecase"
)

func TestRunBatchIsolatesFailingRecords(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithPlatformName("23blocks"))
	ctx := context.Background()

	records := make([]model.SyncRecord, 0, 5)
	for i := 0; i < 5; i++ {
		record := model.SyncRecord{
			ExternalID: types.ExternalID(fmt.Sprintf("plt-%d", i)),
			Email:      fmt.Sprintf("user%d@example.com", i),
		}
		if i == 2 {
			record.Email = "broken"
		}
		records = append(records, record)
	}

	outcome, err := uc.Sync.RunBatch(ctx, records)
	gt.NoError(t, err).Required()

	gt.Value(t, outcome.Total).Equal(5)
	gt.Array(t, outcome.Successful).Length(4)
	gt.Array(t, outcome.Failed).Length(1)
	gt.Value(t, outcome.Failed[0].ExternalID).Equal(types.ExternalID("plt-2"))

	// Input order is preserved within the successful results
	wantOrder := []types.ExternalID{"plt-0", "plt-1", "plt-3", "plt-4"}
	for i, result := range outcome.Successful {
		gt.Value(t, result.ExternalID).Equal(wantOrder[i])
	}

	// Records after the failure were still processed
	for _, id := range wantOrder {
		_, err := repo.User().GetByExternalID(ctx, id)
		gt.NoError(t, err)
	}
	_, err = repo.User().GetByExternalID(ctx, "plt-2")
	gt.Error(t, err).Is(types.ErrNotFound)

	// One completed ledger row accounts for every record
	runs, err := repo.SyncRun().List(ctx, nil, nil)
	gt.NoError(t, err).Required()
	gt.Array(t, runs).Length(1)
	gt.Value(t, runs[0].Status).Equal(types.SyncRunStatusCompleted)
	gt.Value(t, runs[0].Platform).Equal("23blocks")
	gt.Value(t, runs[0].RunType).Equal(model.RunTypeBulkUserSync)
	gt.Value(t, runs[0].RecordsProcessed).Equal(4)
	gt.Value(t, runs[0].RecordsFailed).Equal(1)
	gt.Value(t, runs[0].RecordsProcessed+runs[0].RecordsFailed).Equal(outcome.Total)
	gt.Array(t, runs[0].Failures).Length(1)
}

func TestRunBatchAllSuccessful(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	outcome, err := uc.Sync.RunBatch(ctx, []model.SyncRecord{
		{ExternalID: "plt-10", Email: "a@example.com"},
		{ExternalID: "plt-11", Email: "b@example.com"},
	})
	gt.NoError(t, err).Required()

	gt.Array(t, outcome.Successful).Length(2)
	gt.Array(t, outcome.Failed).Length(0)

	runs, err := repo.SyncRun().List(ctx, nil, nil)
	gt.NoError(t, err).Required()
	gt.Array(t, runs).Length(1)
	// Failure detail stays empty when every record succeeded
	gt.Value(t, runs[0].Failures).Nil()
}

func TestRunBatchEmptyInput(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	outcome, err := uc.Sync.RunBatch(ctx, nil)
	gt.NoError(t, err).Required()

	gt.Value(t, outcome.Total).Equal(0)
	gt.Array(t, outcome.Successful).Length(0)
	gt.Array(t, outcome.Failed).Length(0)

	// An empty run still leaves a ledger row
	runs, err := repo.SyncRun().List(ctx, nil, nil)
	gt.NoError(t, err).Required()
	gt.Array(t, runs).Length(1)
	gt.Value(t, runs[0].RecordsProcessed).Equal(0)
	gt.Value(t, runs[0].RecordsFailed).Equal(0)
}

func TestRunBatchReprocessingIsIdempotent(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	records := []model.SyncRecord{
		{ExternalID: "plt-20", Email: "repeat@example.com", Name: "First"},
	}

	first, err := uc.Sync.RunBatch(ctx, records)
	gt.NoError(t, err).Required()
	gt.Value(t, first.Successful[0].Outcome).Equal(model.ReconcileOutcomeCreated)

	records[0].Name = "Second"
	second, err := uc.Sync.RunBatch(ctx, records)
	gt.NoError(t, err).Required()
	gt.Value(t, second.Successful[0].Outcome).Equal(model.ReconcileOutcomeUpdated)
	gt.Value(t, second.Successful[0].UserID).Equal(first.Successful[0].UserID)

	count, err := repo.User().CountSynced(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, count).Equal(1)
}
