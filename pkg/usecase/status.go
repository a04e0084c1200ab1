package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/23blocks-OS/platform-sync/pkg/domain/interfaces"
	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
)

// StatusUseCase exposes the sync status ledger for dashboards
type StatusUseCase struct {
	repo interfaces.Repository
}

func newStatusUseCase(repo interfaces.Repository) *StatusUseCase {
	return &StatusUseCase{repo: repo}
}

// ListRuns returns batch run records, most recent first, capped at 100.
// Bounds are inclusive; nil bounds are unconstrained.
func (uc *StatusUseCase) ListRuns(ctx context.Context, from, to *time.Time) ([]*model.SyncRun, error) {
	runs, err := uc.repo.SyncRun().List(ctx, from, to)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sync runs")
	}
	return runs, nil
}

// SyncSummary aggregates ledger state for dashboard display. The HTTP layer
// maps it into its own response shape.
type SyncSummary struct {
	SyncedUsers int
	LastRun     *model.SyncRun
}

// Summary returns the all-time synced account count and the most recent run
func (uc *StatusUseCase) Summary(ctx context.Context) (*SyncSummary, error) {
	count, err := uc.repo.User().CountSynced(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count synced users")
	}

	runs, err := uc.repo.SyncRun().List(ctx, nil, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sync runs")
	}

	summary := &SyncSummary{SyncedUsers: count}
	if len(runs) > 0 {
		summary.LastRun = runs[0]
	}

	return summary, nil
}
