package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
	"github.com/23blocks-OS/platform-sync/pkg/utils/logging"
)

// RunBatch reconciles records sequentially and independently. A failing record
// is recorded and skipped, never aborting the batch: bulk sync runs against
// imperfect upstream data and the administrator needs every failure in one
// pass. One COMPLETED ledger row is persisted after the run, empty input
// included. Only a ledger write failure surfaces as an error.
func (uc *SyncUseCase) RunBatch(ctx context.Context, records []model.SyncRecord) (*model.BatchOutcome, error) {
	startedAt := time.Now().UTC()

	outcome := &model.BatchOutcome{
		Successful: []*model.ReconcileResult{},
		Failed:     []model.SyncFailure{},
		Total:      len(records),
	}

	for _, record := range records {
		result, err := uc.Reconcile(ctx, record)
		if err != nil {
			logging.From(ctx).Warn("record reconcile failed",
				"externalID", record.ExternalID,
				"error", err.Error(),
			)
			outcome.Failed = append(outcome.Failed, model.SyncFailure{
				ExternalID: record.ExternalID,
				Error:      err.Error(),
			})
			continue
		}
		outcome.Successful = append(outcome.Successful, result)
	}

	// Failure detail is null in the ledger when every record succeeded
	var failures []model.SyncFailure
	if len(outcome.Failed) > 0 {
		failures = outcome.Failed
	}

	run := &model.SyncRun{
		Platform:         uc.platform,
		RunType:          model.RunTypeBulkUserSync,
		Status:           types.SyncRunStatusCompleted,
		RecordsProcessed: len(outcome.Successful),
		RecordsFailed:    len(outcome.Failed),
		Failures:         failures,
		RunAt:            startedAt,
	}
	if _, err := uc.repo.SyncRun().Create(ctx, run); err != nil {
		return nil, goerr.Wrap(err, "failed to persist sync run",
			goerr.V("processed", run.RecordsProcessed), goerr.V("failed", run.RecordsFailed))
	}

	logging.From(ctx).Info("bulk sync completed",
		"total", outcome.Total,
		"processed", run.RecordsProcessed,
		"failed", run.RecordsFailed,
		"duration", time.Since(startedAt).String(),
	)

	return outcome, nil
}
