package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[types.UserID]*model.User
}

func newUserRepository() *userRepository {
	return &userRepository{
		users: make(map[types.UserID]*model.User),
	}
}

func copyUser(u *model.User) *model.User {
	copied := *u
	if u.PlatformMetadata != nil {
		copied.PlatformMetadata = make(map[string]any, len(u.PlatformMetadata))
		for k, v := range u.PlatformMetadata {
			copied.PlatformMetadata[k] = v
		}
	}
	if u.DeactivatedAt != nil {
		at := *u.DeactivatedAt
		copied.DeactivatedAt = &at
	}
	return &copied
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "user not found", goerr.V("id", id))
	}
	return copyUser(user), nil
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID types.ExternalID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user := r.findByExternalID(externalID)
	if user == nil {
		return nil, goerr.Wrap(types.ErrNotFound, "user not found", goerr.V("externalID", externalID))
	}
	return copyUser(user), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user := r.findByEmail(email)
	if user == nil {
		return nil, goerr.Wrap(types.ErrNotFound, "user not found", goerr.V("email", email))
	}
	return copyUser(user), nil
}

func (r *userRepository) Upsert(ctx context.Context, user *model.User) (*model.User, bool, error) {
	if user.ExternalID == "" {
		return nil, false, goerr.New("external ID is required for upsert")
	}

	// Lookup, conflict check and write share one critical section so two
	// concurrent writers for the same external ID cannot both create.
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner := r.findByEmail(user.Email); owner != nil && owner.ExternalID != user.ExternalID {
		return nil, false, goerr.Wrap(types.ErrEmailConflict, "email is taken by another account",
			goerr.V("email", user.Email), goerr.V("externalID", user.ExternalID))
	}

	now := time.Now().UTC()

	if existing := r.findByExternalID(user.ExternalID); existing != nil {
		updated := copyUser(existing)
		updated.Email = user.Email
		updated.Name = user.Name
		updated.Handle = user.Handle
		updated.PlatformMetadata = user.PlatformMetadata
		updated.LastSyncedAt = user.LastSyncedAt
		updated.UpdatedAt = now

		r.users[updated.ID] = copyUser(updated)
		return copyUser(updated), false, nil
	}

	created := copyUser(user)
	if created.ID == "" {
		created.ID = types.NewUserID()
	}
	if created.Status == "" {
		created.Status = types.AccountStatusActive
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.users[created.ID] = copyUser(created)
	return copyUser(created), true, nil
}

func (r *userRepository) SetDefaultSchedule(ctx context.Context, id types.UserID, scheduleID types.ScheduleID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[id]
	if !exists {
		return goerr.Wrap(types.ErrNotFound, "user not found", goerr.V("id", id))
	}

	user.DefaultScheduleID = scheduleID
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *userRepository) SetStatus(ctx context.Context, id types.UserID, status types.AccountStatus, at *time.Time) error {
	if !status.IsValid() {
		return goerr.New("invalid account status", goerr.V("status", status))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[id]
	if !exists {
		return goerr.Wrap(types.ErrNotFound, "user not found", goerr.V("id", id))
	}

	user.Status = status
	user.DeactivatedAt = at
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *userRepository) CountSynced(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, user := range r.users {
		if user.SyncedFromPlatform {
			count++
		}
	}
	return count, nil
}

func (r *userRepository) findByExternalID(externalID types.ExternalID) *model.User {
	for _, user := range r.users {
		if user.ExternalID != "" && user.ExternalID == externalID {
			return user
		}
	}
	return nil
}

func (r *userRepository) findByEmail(email string) *model.User {
	for _, user := range r.users {
		if user.Email == email {
			return user
		}
	}
	return nil
}
