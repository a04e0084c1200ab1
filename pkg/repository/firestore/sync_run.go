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

// syncRunQueryLimit bounds ledger queries for display; older rows stay
// reachable by narrowing the time range.
const syncRunQueryLimit = 100

type syncRunDocument struct {
	ID               string                `firestore:"id"`
	Platform         string                `firestore:"platform"`
	RunType          string                `firestore:"run_type"`
	Status           string                `firestore:"status"`
	RecordsProcessed int                   `firestore:"records_processed"`
	RecordsFailed    int                   `firestore:"records_failed"`
	Failures         []syncFailureDocument `firestore:"failures,omitempty"`
	RunAt            time.Time             `firestore:"run_at"`
	CreatedAt        time.Time             `firestore:"created_at"`
}

type syncFailureDocument struct {
	ExternalID string `firestore:"external_id"`
	Error      string `firestore:"error"`
}

type syncRunRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSyncRunRepository(client *firestore.Client) *syncRunRepository {
	return &syncRunRepository{client: client}
}

func (r *syncRunRepository) syncRunsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_sync_runs"
	}
	return "sync_runs"
}

func syncRunToDocument(run *model.SyncRun) *syncRunDocument {
	doc := &syncRunDocument{
		ID:               string(run.ID),
		Platform:         run.Platform,
		RunType:          run.RunType,
		Status:           string(run.Status),
		RecordsProcessed: run.RecordsProcessed,
		RecordsFailed:    run.RecordsFailed,
		RunAt:            run.RunAt,
		CreatedAt:        run.CreatedAt,
	}
	for _, failure := range run.Failures {
		doc.Failures = append(doc.Failures, syncFailureDocument{
			ExternalID: string(failure.ExternalID),
			Error:      failure.Error,
		})
	}
	return doc
}

func syncRunToModel(doc *syncRunDocument) *model.SyncRun {
	run := &model.SyncRun{
		ID:               types.SyncRunID(doc.ID),
		Platform:         doc.Platform,
		RunType:          doc.RunType,
		Status:           types.SyncRunStatus(doc.Status),
		RecordsProcessed: doc.RecordsProcessed,
		RecordsFailed:    doc.RecordsFailed,
		RunAt:            doc.RunAt,
		CreatedAt:        doc.CreatedAt,
	}
	for _, failure := range doc.Failures {
		run.Failures = append(run.Failures, model.SyncFailure{
			ExternalID: types.ExternalID(failure.ExternalID),
			Error:      failure.Error,
		})
	}
	return run
}

func (r *syncRunRepository) Create(ctx context.Context, run *model.SyncRun) (*model.SyncRun, error) {
	now := time.Now().UTC()
	if run.ID == "" {
		run.ID = types.NewSyncRunID()
	}
	if run.RunAt.IsZero() {
		run.RunAt = now
	}
	run.CreatedAt = now

	doc := syncRunToDocument(run)

	docRef := r.client.Collection(r.syncRunsCollection()).Doc(string(run.ID))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create sync run", goerr.V("id", run.ID))
	}

	return syncRunToModel(doc), nil
}

func (r *syncRunRepository) List(ctx context.Context, from, to *time.Time) ([]*model.SyncRun, error) {
	query := r.client.Collection(r.syncRunsCollection()).Query
	if from != nil {
		query = query.Where("run_at", ">=", *from)
	}
	if to != nil {
		query = query.Where("run_at", "<=", *to)
	}
	query = query.OrderBy("run_at", firestore.Desc).Limit(syncRunQueryLimit)

	iter := query.Documents(ctx)
	defer iter.Stop()

	runs := []*model.SyncRun{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate sync runs")
		}

		var runDoc syncRunDocument
		if err := doc.DataTo(&runDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal sync run")
		}

		runs = append(runs, syncRunToModel(&runDoc))
	}

	return runs, nil
}
