package model

import (
	"net/mail"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

// SyncRecord is the inbound record shape consumed by the reconciler
type SyncRecord struct {
	ExternalID types.ExternalID `json:"externalId"`
	Email      string           `json:"email"`
	Name       string           `json:"name,omitempty"`
	Username   string           `json:"username,omitempty"`
	Metadata   map[string]any   `json:"metadata,omitempty"`
}

// Validate checks required fields and email syntax. Failures are tagged with
// types.ErrInvalidRecord so callers can distinguish bad input from storage
// failures.
func (r *SyncRecord) Validate() error {
	if r.ExternalID == "" {
		return goerr.Wrap(types.ErrInvalidRecord, "external ID is required")
	}
	if r.Email == "" {
		return goerr.Wrap(types.ErrInvalidRecord, "email is required",
			goerr.V("externalID", r.ExternalID))
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return goerr.Wrap(types.ErrInvalidRecord, "malformed email",
			goerr.V("externalID", r.ExternalID), goerr.V("email", r.Email))
	}
	return nil
}

// ReconcileOutcome distinguishes a create from an update
type ReconcileOutcome string

const (
	ReconcileOutcomeCreated ReconcileOutcome = "created"
	ReconcileOutcomeUpdated ReconcileOutcome = "updated"
)

// ReconcileResult summarizes one successful reconcile. It is transient and
// never persisted on its own.
type ReconcileResult struct {
	UserID     types.UserID     `json:"userId"`
	ExternalID types.ExternalID `json:"externalId"`
	Outcome    ReconcileOutcome `json:"outcome"`
	Message    string           `json:"message"`
}

// SyncFailure records one failed record of a batch run
type SyncFailure struct {
	ExternalID types.ExternalID `json:"externalId"`
	Error      string           `json:"error"`
}

// BatchOutcome is the result of one bulk run. Successful and Failed preserve
// input order within each outcome class.
type BatchOutcome struct {
	Successful []*ReconcileResult `json:"successful"`
	Failed     []SyncFailure      `json:"failed"`
	Total      int                `json:"total"`
}

// RunTypeBulkUserSync tags ledger rows written by the bulk batch runner
const RunTypeBulkUserSync = "bulk_user_sync"

// SyncRun is one batch run record in the sync status ledger. It is appended
// once, after the run completes; RecordsProcessed+RecordsFailed always equals
// the number of submitted records.
type SyncRun struct {
	ID               types.SyncRunID
	Platform         string
	RunType          string
	Status           types.SyncRunStatus
	RecordsProcessed int
	RecordsFailed    int
	Failures         []SyncFailure
	RunAt            time.Time
	CreatedAt        time.Time
}

// DeactivateResult summarizes a deactivation, including the booking cascade
type DeactivateResult struct {
	UserID            types.UserID     `json:"userId"`
	ExternalID        types.ExternalID `json:"externalId"`
	DeactivatedAt     time.Time        `json:"deactivatedAt"`
	CancelledBookings int              `json:"cancelledBookings"`
}
