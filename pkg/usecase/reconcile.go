package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/23blocks-OS/platform-sync/pkg/domain/interfaces"
	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
	"github.com/23blocks-OS/platform-sync/pkg/utils/async"
)

// Outcome event names delivered to notifiers
const (
	EventUserCreated     = "user.created"
	EventUserUpdated     = "user.updated"
	EventUserDeactivated = "user.deactivated"
)

// notifyTimeout bounds the best-effort notification attempt
const notifyTimeout = 10 * time.Second

const deactivationCancelReason = "account deactivated by platform sync"

// SyncUseCase reconciles upstream platform user records onto local accounts
type SyncUseCase struct {
	repo         interfaces.Repository
	notifiers    []interfaces.Notifier
	scheduleTmpl *model.ScheduleTemplate
	platform     string
}

func newSyncUseCase(repo interfaces.Repository, notifiers []interfaces.Notifier, tmpl *model.ScheduleTemplate, platform string) *SyncUseCase {
	return &SyncUseCase{
		repo:         repo,
		notifiers:    notifiers,
		scheduleTmpl: tmpl,
		platform:     platform,
	}
}

// Reconcile makes the local account match one upstream record, creating it on
// first sight of the external ID and updating it afterwards. The operation is
// idempotent per external ID.
func (uc *SyncUseCase) Reconcile(ctx context.Context, record model.SyncRecord) (*model.ReconcileResult, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	handle := record.Username
	if handle == "" {
		handle = model.HandleFromEmail(record.Email)
	}

	candidate := &model.User{
		ExternalID:         record.ExternalID,
		Email:              record.Email,
		Name:               record.Name,
		Handle:             handle,
		PasswordHash:       model.NewPlaceholderCredential(),
		SyncedFromPlatform: true,
		PlatformMetadata:   record.Metadata,
		Status:             types.AccountStatusActive,
		LastSyncedAt:       time.Now().UTC(),
	}

	user, created, err := uc.repo.User().Upsert(ctx, candidate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upsert user", goerr.V("externalID", record.ExternalID))
	}

	if created {
		schedule, err := uc.repo.Schedule().Create(ctx, model.NewScheduleFromTemplate(user.ID, uc.scheduleTmpl))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create default schedule", goerr.V("userID", user.ID))
		}
		if err := uc.repo.User().SetDefaultSchedule(ctx, user.ID, schedule.ID); err != nil {
			return nil, goerr.Wrap(err, "failed to bind default schedule",
				goerr.V("userID", user.ID), goerr.V("scheduleID", schedule.ID))
		}
		user.DefaultScheduleID = schedule.ID
	}

	action := types.AuditActionUserUpdated
	outcome := model.ReconcileOutcomeUpdated
	message := "user updated from platform record"
	event := EventUserUpdated
	if created {
		action = types.AuditActionUserCreated
		outcome = model.ReconcileOutcomeCreated
		message = "user created from platform record"
		event = EventUserCreated
	}

	entry := &model.AuditEntry{
		Action:       action,
		TargetUserID: user.ID,
		Metadata: map[string]any{
			"external_id": string(user.ExternalID),
			"platform":    uc.platform,
		},
	}
	if err := uc.repo.Audit().Append(ctx, entry); err != nil {
		return nil, goerr.Wrap(err, "failed to append audit entry", goerr.V("userID", user.ID))
	}

	uc.notify(ctx, event, map[string]any{
		"userId":     string(user.ID),
		"externalId": string(user.ExternalID),
	})

	return &model.ReconcileResult{
		UserID:     user.ID,
		ExternalID: user.ExternalID,
		Outcome:    outcome,
		Message:    message,
	}, nil
}

// Deactivate marks the account matching externalID as deactivated and cancels
// every booking it owns with a start time at or after now and a status not
// already cancelled. Repeating the call is harmless.
func (uc *SyncUseCase) Deactivate(ctx context.Context, externalID types.ExternalID) (*model.DeactivateResult, error) {
	if err := externalID.Validate(); err != nil {
		return nil, goerr.Wrap(types.ErrInvalidRecord, "invalid external ID")
	}

	user, err := uc.repo.User().GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find user for deactivation", goerr.V("externalID", externalID))
	}

	now := time.Now().UTC()
	if err := uc.repo.User().SetStatus(ctx, user.ID, types.AccountStatusDeactivated, &now); err != nil {
		return nil, goerr.Wrap(err, "failed to deactivate user", goerr.V("userID", user.ID))
	}

	cancelled, err := uc.repo.Booking().CancelUpcoming(ctx, user.ID, now, deactivationCancelReason)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to cancel upcoming bookings", goerr.V("userID", user.ID))
	}

	entry := &model.AuditEntry{
		Action:       types.AuditActionUserDeactivated,
		TargetUserID: user.ID,
		Metadata: map[string]any{
			"external_id":        string(externalID),
			"platform":           uc.platform,
			"cancelled_bookings": cancelled,
		},
	}
	if err := uc.repo.Audit().Append(ctx, entry); err != nil {
		return nil, goerr.Wrap(err, "failed to append audit entry", goerr.V("userID", user.ID))
	}

	uc.notify(ctx, EventUserDeactivated, map[string]any{
		"userId":            string(user.ID),
		"externalId":        string(externalID),
		"cancelledBookings": cancelled,
	})

	return &model.DeactivateResult{
		UserID:            user.ID,
		ExternalID:        externalID,
		DeactivatedAt:     now,
		CancelledBookings: cancelled,
	}, nil
}

// notify delivers an outcome event to every attached notifier, fire-and-forget.
// Delivery runs detached from the reconcile with a bounded timeout; failures
// are logged by the dispatcher and never reach the caller.
func (uc *SyncUseCase) notify(ctx context.Context, event string, payload map[string]any) {
	for _, notifier := range uc.notifiers {
		n := notifier
		async.Dispatch(ctx, func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
			defer cancel()

			if err := n.Notify(ctx, event, payload); err != nil {
				return goerr.Wrap(err, "failed to deliver sync event", goerr.V("event", event))
			}
			return nil
		})
	}
}
