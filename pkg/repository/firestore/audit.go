package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

type auditDocument struct {
	ID           string         `firestore:"id"`
	Action       string         `firestore:"action"`
	TargetUserID string         `firestore:"target_user_id"`
	Metadata     map[string]any `firestore:"metadata,omitempty"`
	CreatedAt    time.Time      `firestore:"created_at"`
}

type auditRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAuditRepository(client *firestore.Client) *auditRepository {
	return &auditRepository{client: client}
}

func (r *auditRepository) auditCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_audit_logs"
	}
	return "audit_logs"
}

func (r *auditRepository) Append(ctx context.Context, entry *model.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = types.NewAuditID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	doc := &auditDocument{
		ID:           string(entry.ID),
		Action:       string(entry.Action),
		TargetUserID: string(entry.TargetUserID),
		Metadata:     entry.Metadata,
		CreatedAt:    entry.CreatedAt,
	}

	docRef := r.client.Collection(r.auditCollection()).Doc(string(entry.ID))
	if _, err := docRef.Create(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to append audit entry", goerr.V("id", entry.ID))
	}

	return nil
}

func (r *auditRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.AuditEntry, error) {
	iter := r.client.Collection(r.auditCollection()).
		Where("target_user_id", "==", string(userID)).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	entries := []*model.AuditEntry{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate audit entries", goerr.V("userID", userID))
		}

		var auditDoc auditDocument
		if err := doc.DataTo(&auditDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal audit entry")
		}

		entries = append(entries, &model.AuditEntry{
			ID:           types.AuditID(auditDoc.ID),
			Action:       types.AuditAction(auditDoc.Action),
			TargetUserID: types.UserID(auditDoc.TargetUserID),
			Metadata:     auditDoc.Metadata,
			CreatedAt:    auditDoc.CreatedAt,
		})
	}

	return entries, nil
}
