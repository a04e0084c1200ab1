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

type scheduleDocument struct {
	ID        string         `firestore:"id"`
	UserID    string         `firestore:"user_id"`
	Name      string         `firestore:"name"`
	TimeZone  string         `firestore:"timezone"`
	Rules     []ruleDocument `firestore:"rules"`
	CreatedAt time.Time      `firestore:"created_at"`
	UpdatedAt time.Time      `firestore:"updated_at"`
}

type ruleDocument struct {
	Weekday int    `firestore:"weekday"`
	Start   string `firestore:"start"`
	End     string `firestore:"end"`
}

type scheduleRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newScheduleRepository(client *firestore.Client) *scheduleRepository {
	return &scheduleRepository{client: client}
}

func (r *scheduleRepository) schedulesCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_schedules"
	}
	return "schedules"
}

func scheduleToDocument(schedule *model.Schedule) *scheduleDocument {
	rules := make([]ruleDocument, len(schedule.Rules))
	for i, rule := range schedule.Rules {
		rules[i] = ruleDocument{
			Weekday: int(rule.Weekday),
			Start:   rule.Start,
			End:     rule.End,
		}
	}
	return &scheduleDocument{
		ID:        string(schedule.ID),
		UserID:    string(schedule.UserID),
		Name:      schedule.Name,
		TimeZone:  schedule.TimeZone,
		Rules:     rules,
		CreatedAt: schedule.CreatedAt,
		UpdatedAt: schedule.UpdatedAt,
	}
}

func scheduleToModel(doc *scheduleDocument) *model.Schedule {
	rules := make([]model.AvailabilityRule, len(doc.Rules))
	for i, rule := range doc.Rules {
		rules[i] = model.AvailabilityRule{
			Weekday: time.Weekday(rule.Weekday),
			Start:   rule.Start,
			End:     rule.End,
		}
	}
	return &model.Schedule{
		ID:        types.ScheduleID(doc.ID),
		UserID:    types.UserID(doc.UserID),
		Name:      doc.Name,
		TimeZone:  doc.TimeZone,
		Rules:     rules,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *model.Schedule) (*model.Schedule, error) {
	now := time.Now().UTC()
	if schedule.ID == "" {
		schedule.ID = types.NewScheduleID()
	}
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	doc := scheduleToDocument(schedule)

	docRef := r.client.Collection(r.schedulesCollection()).Doc(string(schedule.ID))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create schedule", goerr.V("id", schedule.ID))
	}

	return scheduleToModel(doc), nil
}

func (r *scheduleRepository) Get(ctx context.Context, id types.ScheduleID) (*model.Schedule, error) {
	docRef := r.client.Collection(r.schedulesCollection()).Doc(string(id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotFound, "schedule not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get schedule", goerr.V("id", id))
	}

	var schedDoc scheduleDocument
	if err := doc.DataTo(&schedDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal schedule", goerr.V("id", id))
	}

	return scheduleToModel(&schedDoc), nil
}

func (r *scheduleRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.Schedule, error) {
	iter := r.client.Collection(r.schedulesCollection()).
		Where("user_id", "==", string(userID)).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	schedules := []*model.Schedule{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate schedules", goerr.V("userID", userID))
		}

		var schedDoc scheduleDocument
		if err := doc.DataTo(&schedDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal schedule")
		}

		schedules = append(schedules, scheduleToModel(&schedDoc))
	}

	return schedules, nil
}
