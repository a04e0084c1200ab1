package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

type userDocument struct {
	ID                 string         `firestore:"id"`
	ExternalID         string         `firestore:"external_id"`
	Email              string         `firestore:"email"`
	Name               string         `firestore:"name"`
	Handle             string         `firestore:"handle"`
	PasswordHash       string         `firestore:"password_hash"`
	SyncedFromPlatform bool           `firestore:"synced_from_platform"`
	PlatformMetadata   map[string]any `firestore:"platform_metadata,omitempty"`
	Status             string         `firestore:"status"`
	DeactivatedAt      *time.Time     `firestore:"deactivated_at,omitempty"`
	DefaultScheduleID  string         `firestore:"default_schedule_id"`
	ManagedByAdmin     bool           `firestore:"managed_by_admin"`
	LastSyncedAt       time.Time      `firestore:"last_synced_at"`
	CreatedAt          time.Time      `firestore:"created_at"`
	UpdatedAt          time.Time      `firestore:"updated_at"`
}

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{client: client}
}

func (r *userRepository) usersCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_users"
	}
	return "users"
}

func userToDocument(user *model.User) *userDocument {
	return &userDocument{
		ID:                 string(user.ID),
		ExternalID:         string(user.ExternalID),
		Email:              user.Email,
		Name:               user.Name,
		Handle:             user.Handle,
		PasswordHash:       user.PasswordHash,
		SyncedFromPlatform: user.SyncedFromPlatform,
		PlatformMetadata:   user.PlatformMetadata,
		Status:             string(user.Status),
		DeactivatedAt:      user.DeactivatedAt,
		DefaultScheduleID:  string(user.DefaultScheduleID),
		ManagedByAdmin:     user.ManagedByAdmin,
		LastSyncedAt:       user.LastSyncedAt,
		CreatedAt:          user.CreatedAt,
		UpdatedAt:          user.UpdatedAt,
	}
}

func userToModel(doc *userDocument) *model.User {
	return &model.User{
		ID:                 types.UserID(doc.ID),
		ExternalID:         types.ExternalID(doc.ExternalID),
		Email:              doc.Email,
		Name:               doc.Name,
		Handle:             doc.Handle,
		PasswordHash:       doc.PasswordHash,
		SyncedFromPlatform: doc.SyncedFromPlatform,
		PlatformMetadata:   doc.PlatformMetadata,
		Status:             types.AccountStatus(doc.Status),
		DeactivatedAt:      doc.DeactivatedAt,
		DefaultScheduleID:  types.ScheduleID(doc.DefaultScheduleID),
		ManagedByAdmin:     doc.ManagedByAdmin,
		LastSyncedAt:       doc.LastSyncedAt,
		CreatedAt:          doc.CreatedAt,
		UpdatedAt:          doc.UpdatedAt,
	}
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	docRef := r.client.Collection(r.usersCollection()).Doc(string(id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	var userDoc userDocument
	if err := doc.DataTo(&userDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("id", id))
	}

	return userToModel(&userDoc), nil
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID types.ExternalID) (*model.User, error) {
	iter := r.client.Collection(r.usersCollection()).
		Where("external_id", "==", string(externalID)).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(types.ErrNotFound, "user not found", goerr.V("externalID", externalID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user by external ID", goerr.V("externalID", externalID))
	}

	var userDoc userDocument
	if err := doc.DataTo(&userDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("externalID", externalID))
	}

	return userToModel(&userDoc), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	iter := r.client.Collection(r.usersCollection()).
		Where("email", "==", email).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(types.ErrNotFound, "user not found", goerr.V("email", email))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user by email", goerr.V("email", email))
	}

	var userDoc userDocument
	if err := doc.DataTo(&userDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("email", email))
	}

	return userToModel(&userDoc), nil
}

// Upsert creates or updates the account matching user.ExternalID inside a
// transaction, so the lookup-then-write cannot race another writer for the
// same external ID. Firestore requires all reads before writes.
func (r *userRepository) Upsert(ctx context.Context, user *model.User) (*model.User, bool, error) {
	if user.ExternalID == "" {
		return nil, false, goerr.New("external ID is required for upsert")
	}

	col := r.client.Collection(r.usersCollection())

	var stored *model.User
	var created bool

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existingDoc, err := txQueryOne(tx, col.Where("external_id", "==", string(user.ExternalID)).Limit(1))
		if err != nil {
			return goerr.Wrap(err, "failed to query user by external ID")
		}

		emailDoc, err := txQueryOne(tx, col.Where("email", "==", user.Email).Limit(1))
		if err != nil {
			return goerr.Wrap(err, "failed to query user by email")
		}
		if emailDoc != nil && emailDoc.ExternalID != string(user.ExternalID) {
			return goerr.Wrap(types.ErrEmailConflict, "email is taken by another account",
				goerr.V("email", user.Email), goerr.V("externalID", user.ExternalID))
		}

		now := time.Now().UTC()

		if existingDoc != nil {
			existingDoc.Email = user.Email
			existingDoc.Name = user.Name
			existingDoc.Handle = user.Handle
			existingDoc.PlatformMetadata = user.PlatformMetadata
			existingDoc.LastSyncedAt = user.LastSyncedAt
			existingDoc.UpdatedAt = now

			if err := tx.Set(col.Doc(existingDoc.ID), existingDoc); err != nil {
				return goerr.Wrap(err, "failed to update user", goerr.V("id", existingDoc.ID))
			}
			stored = userToModel(existingDoc)
			created = false
			return nil
		}

		if user.ID == "" {
			user.ID = types.NewUserID()
		}
		if user.Status == "" {
			user.Status = types.AccountStatusActive
		}
		user.CreatedAt = now
		user.UpdatedAt = now

		doc := userToDocument(user)
		if err := tx.Set(col.Doc(doc.ID), doc); err != nil {
			return goerr.Wrap(err, "failed to create user", goerr.V("id", doc.ID))
		}
		stored = userToModel(doc)
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return stored, created, nil
}

func txQueryOne(tx *firestore.Transaction, query firestore.Query) (*userDocument, error) {
	iter := tx.Documents(query)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var userDoc userDocument
	if err := doc.DataTo(&userDoc); err != nil {
		return nil, err
	}
	return &userDoc, nil
}

func (r *userRepository) SetDefaultSchedule(ctx context.Context, id types.UserID, scheduleID types.ScheduleID) error {
	docRef := r.client.Collection(r.usersCollection()).Doc(string(id))

	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "default_schedule_id", Value: string(scheduleID)},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(types.ErrNotFound, "user not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to set default schedule", goerr.V("id", id))
	}
	return nil
}

func (r *userRepository) SetStatus(ctx context.Context, id types.UserID, accountStatus types.AccountStatus, at *time.Time) error {
	if !accountStatus.IsValid() {
		return goerr.New("invalid account status", goerr.V("status", accountStatus))
	}

	docRef := r.client.Collection(r.usersCollection()).Doc(string(id))

	updates := []firestore.Update{
		{Path: "status", Value: string(accountStatus)},
		{Path: "updated_at", Value: time.Now().UTC()},
	}
	if at != nil {
		updates = append(updates, firestore.Update{Path: "deactivated_at", Value: *at})
	} else {
		updates = append(updates, firestore.Update{Path: "deactivated_at", Value: firestore.Delete})
	}

	if _, err := docRef.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(types.ErrNotFound, "user not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to set account status", goerr.V("id", id))
	}
	return nil
}

func (r *userRepository) CountSynced(ctx context.Context) (int, error) {
	iter := r.client.Collection(r.usersCollection()).
		Where("synced_from_platform", "==", true).
		Select().
		Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, goerr.Wrap(err, "failed to count synced users")
		}
		count++
	}

	return count, nil
}
