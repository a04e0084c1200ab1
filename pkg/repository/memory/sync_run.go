package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

// syncRunQueryLimit bounds ledger queries for display; older rows stay
// reachable by narrowing the time range.
const syncRunQueryLimit = 100

type syncRunRepository struct {
	mu   sync.RWMutex
	runs map[types.SyncRunID]*model.SyncRun
}

func newSyncRunRepository() *syncRunRepository {
	return &syncRunRepository{
		runs: make(map[types.SyncRunID]*model.SyncRun),
	}
}

func copySyncRun(run *model.SyncRun) *model.SyncRun {
	copied := *run
	if run.Failures != nil {
		copied.Failures = make([]model.SyncFailure, len(run.Failures))
		copy(copied.Failures, run.Failures)
	}
	return &copied
}

func (r *syncRunRepository) Create(ctx context.Context, run *model.SyncRun) (*model.SyncRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copySyncRun(run)
	if created.ID == "" {
		created.ID = types.NewSyncRunID()
	}
	now := time.Now().UTC()
	if created.RunAt.IsZero() {
		created.RunAt = now
	}
	created.CreatedAt = now

	r.runs[created.ID] = created
	return copySyncRun(created), nil
}

func (r *syncRunRepository) List(ctx context.Context, from, to *time.Time) ([]*model.SyncRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*model.SyncRun{}
	for _, run := range r.runs {
		if from != nil && run.RunAt.Before(*from) {
			continue
		}
		if to != nil && run.RunAt.After(*to) {
			continue
		}
		result = append(result, copySyncRun(run))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].RunAt.After(result[j].RunAt)
	})

	if len(result) > syncRunQueryLimit {
		result = result[:syncRunQueryLimit]
	}

	return result, nil
}
