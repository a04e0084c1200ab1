package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/23blocks-OS/platform-sync/pkg/domain/interfaces"
	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

func runScheduleRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := types.NewUserID()
		created, err := repo.Schedule().Create(ctx, model.NewScheduleFromTemplate(userID, model.DefaultScheduleTemplate()))
		if err != nil {
			t.Fatalf("failed to create schedule: %v", err)
		}

		if created.ID == "" {
			t.Error("expected non-empty schedule ID")
		}
		if created.UserID != userID {
			t.Errorf("expected userID=%s, got %s", userID, created.UserID)
		}
		if len(created.Rules) != 5 {
			t.Errorf("expected 5 rules, got %d", len(created.Rules))
		}
		if created.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}
	})

	t.Run("Get retrieves existing schedule", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Schedule().Create(ctx, model.NewScheduleFromTemplate(types.NewUserID(), model.DefaultScheduleTemplate()))
		if err != nil {
			t.Fatalf("failed to create schedule: %v", err)
		}

		got, err := repo.Schedule().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get schedule: %v", err)
		}
		if got.Name != created.Name {
			t.Errorf("expected name=%s, got %s", created.Name, got.Name)
		}
		if got.TimeZone != created.TimeZone {
			t.Errorf("expected timezone=%s, got %s", created.TimeZone, got.TimeZone)
		}
	})

	t.Run("Get returns ErrNotFound for unknown schedule", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Schedule().Get(ctx, types.NewScheduleID())
		if !errors.Is(err, types.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListByUser returns schedules in creation order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := types.NewUserID()
		first, err := repo.Schedule().Create(ctx, &model.Schedule{
			UserID:   userID,
			Name:     "Working Hours",
			TimeZone: "UTC",
			Rules:    []model.AvailabilityRule{{Weekday: time.Monday, Start: "09:00", End: "17:00"}},
		})
		if err != nil {
			t.Fatalf("failed to create schedule: %v", err)
		}
		time.Sleep(10 * time.Millisecond) // keep creation timestamps distinct
		second, err := repo.Schedule().Create(ctx, &model.Schedule{
			UserID:   userID,
			Name:     "Evenings",
			TimeZone: "UTC",
			Rules:    []model.AvailabilityRule{{Weekday: time.Tuesday, Start: "18:00", End: "21:00"}},
		})
		if err != nil {
			t.Fatalf("failed to create schedule: %v", err)
		}

		listed, err := repo.Schedule().ListByUser(ctx, userID)
		if err != nil {
			t.Fatalf("failed to list schedules: %v", err)
		}
		if len(listed) != 2 {
			t.Fatalf("expected 2 schedules, got %d", len(listed))
		}
		if listed[0].ID != first.ID || listed[1].ID != second.ID {
			t.Error("expected schedules in creation order")
		}
	})
}

func TestMemoryScheduleRepository(t *testing.T) {
	runScheduleRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreScheduleRepository(t *testing.T) {
	runScheduleRepositoryTest(t, newFirestoreRepository)
}
