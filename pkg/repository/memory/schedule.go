package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

type scheduleRepository struct {
	mu        sync.RWMutex
	schedules map[types.ScheduleID]*model.Schedule
}

func newScheduleRepository() *scheduleRepository {
	return &scheduleRepository{
		schedules: make(map[types.ScheduleID]*model.Schedule),
	}
}

func copySchedule(s *model.Schedule) *model.Schedule {
	copied := *s
	copied.Rules = make([]model.AvailabilityRule, len(s.Rules))
	copy(copied.Rules, s.Rules)
	return &copied
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *model.Schedule) (*model.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copySchedule(schedule)
	if created.ID == "" {
		created.ID = types.NewScheduleID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.schedules[created.ID] = created
	return copySchedule(created), nil
}

func (r *scheduleRepository) Get(ctx context.Context, id types.ScheduleID) (*model.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schedule, exists := r.schedules[id]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "schedule not found", goerr.V("id", id))
	}
	return copySchedule(schedule), nil
}

func (r *scheduleRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*model.Schedule{}
	for _, schedule := range r.schedules {
		if schedule.UserID == userID {
			result = append(result, copySchedule(schedule))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}
