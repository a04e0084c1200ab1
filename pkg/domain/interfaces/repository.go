package interfaces

import (
	"context"
	"time"

	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	User() UserRepository
	Schedule() ScheduleRepository
	Booking() BookingRepository
	SyncRun() SyncRunRepository
	Audit() AuditRepository

	Close() error
}

// UserRepository persists local accounts. Upsert is the only write path the
// reconciler uses for create-or-update; it must be atomic with respect to the
// external ID uniqueness constraint, never an unguarded read-then-write.
type UserRepository interface {
	Get(ctx context.Context, id types.UserID) (*model.User, error)
	GetByExternalID(ctx context.Context, externalID types.ExternalID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// Upsert atomically creates or updates the account matching user.ExternalID.
	// On update it overwrites email, name, handle, metadata and LastSyncedAt
	// while preserving identity, credential, status and schedule binding.
	// Returns the stored account and whether it was created. If user.Email
	// already belongs to an account with a different external ID, it returns
	// types.ErrEmailConflict and mutates nothing.
	Upsert(ctx context.Context, user *model.User) (*model.User, bool, error)

	SetDefaultSchedule(ctx context.Context, id types.UserID, scheduleID types.ScheduleID) error
	SetStatus(ctx context.Context, id types.UserID, status types.AccountStatus, at *time.Time) error

	// CountSynced returns the all-time number of platform-synced accounts
	CountSynced(ctx context.Context) (int, error)
}

// ScheduleRepository persists availability schedules
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.Schedule) (*model.Schedule, error)
	Get(ctx context.Context, id types.ScheduleID) (*model.Schedule, error)
	ListByUser(ctx context.Context, userID types.UserID) ([]*model.Schedule, error)
}

// BookingRepository is the boundary to the booking collaborator
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	ListByOwner(ctx context.Context, ownerID types.UserID) ([]*model.Booking, error)

	// CancelUpcoming cancels every booking owned by ownerID with a start time
	// at or after since and a status other than cancelled, stamping reason.
	// Returns the number of bookings cancelled.
	CancelUpcoming(ctx context.Context, ownerID types.UserID, since time.Time, reason string) (int, error)
}

// SyncRunRepository is the append-only sync status ledger
type SyncRunRepository interface {
	Create(ctx context.Context, run *model.SyncRun) (*model.SyncRun, error)

	// List returns runs ordered most recent first, capped at 100. Bounds are
	// inclusive when supplied; a nil bound is unconstrained.
	List(ctx context.Context, from, to *time.Time) ([]*model.SyncRun, error)
}

// AuditRepository is the append-only audit log
type AuditRepository interface {
	Append(ctx context.Context, entry *model.AuditEntry) error
	ListByUser(ctx context.Context, userID types.UserID) ([]*model.AuditEntry, error)
}
