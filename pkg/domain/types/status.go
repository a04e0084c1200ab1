package types

import "github.com/m-mizutani/goerr/v2"

// AccountStatus is the lifecycle state of a local account. Deactivation is a
// first-class state, not a flag buried in platform metadata.
type AccountStatus string

const (
	AccountStatusActive      AccountStatus = "active"
	AccountStatusDeactivated AccountStatus = "deactivated"
)

// IsValid checks if the account status is valid
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusActive, AccountStatusDeactivated:
		return true
	default:
		return false
	}
}

// String returns the string representation of the account status
func (s AccountStatus) String() string {
	return string(s)
}

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsValid checks if the booking status is valid
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusPending, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the booking status
func (s BookingStatus) String() string {
	return string(s)
}

// SyncRunStatus represents the status of a batch run record
type SyncRunStatus string

const (
	SyncRunStatusRunning   SyncRunStatus = "RUNNING"
	SyncRunStatusCompleted SyncRunStatus = "COMPLETED"
	SyncRunStatusFailed    SyncRunStatus = "FAILED"
)

// IsValid checks if the sync run status is valid
func (s SyncRunStatus) IsValid() bool {
	switch s {
	case SyncRunStatusRunning, SyncRunStatusCompleted, SyncRunStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sync run status
func (s SyncRunStatus) String() string {
	return string(s)
}

// ParseSyncRunStatus parses a string into a SyncRunStatus
func ParseSyncRunStatus(s string) (SyncRunStatus, error) {
	status := SyncRunStatus(s)
	if !status.IsValid() {
		return "", goerr.New("invalid sync run status", goerr.V("status", s))
	}
	return status, nil
}

// AuditAction is the action tag of an audit log entry
type AuditAction string

const (
	AuditActionUserCreated     AuditAction = "USER_CREATED"
	AuditActionUserUpdated     AuditAction = "USER_UPDATED"
	AuditActionUserDeactivated AuditAction = "USER_DEACTIVATED"
)

// String returns the string representation of the audit action
func (a AuditAction) String() string {
	return string(a)
}
