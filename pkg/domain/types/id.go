package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// UserID is the opaque local identifier of an account
type UserID string

// NewUserID generates a new UUID v4 UserID
func NewUserID() UserID {
	return UserID(uuid.New().String())
}

// Validate checks if the UserID is valid
func (id UserID) Validate() error {
	if id == "" {
		return goerr.New("user ID cannot be empty")
	}
	return nil
}

// String returns the string representation of UserID
func (id UserID) String() string {
	return string(id)
}

// ExternalID is the stable identifier assigned by the upstream platform.
// It is the reconciliation key: at most one local account may carry a given
// non-empty external ID.
type ExternalID string

// Validate checks if the ExternalID is valid
func (id ExternalID) Validate() error {
	if id == "" {
		return goerr.New("external ID cannot be empty")
	}
	return nil
}

// String returns the string representation of ExternalID
func (id ExternalID) String() string {
	return string(id)
}

// ScheduleID identifies an availability schedule
type ScheduleID string

// NewScheduleID generates a new UUID v4 ScheduleID
func NewScheduleID() ScheduleID {
	return ScheduleID(uuid.New().String())
}

// String returns the string representation of ScheduleID
func (id ScheduleID) String() string {
	return string(id)
}

// BookingID identifies a booking
type BookingID string

// NewBookingID generates a new UUID v4 BookingID
func NewBookingID() BookingID {
	return BookingID(uuid.New().String())
}

// String returns the string representation of BookingID
func (id BookingID) String() string {
	return string(id)
}

// SyncRunID identifies one batch run record in the ledger
type SyncRunID string

// NewSyncRunID generates a new UUID v4 SyncRunID
func NewSyncRunID() SyncRunID {
	return SyncRunID(uuid.New().String())
}

// String returns the string representation of SyncRunID
func (id SyncRunID) String() string {
	return string(id)
}

// AuditID identifies an audit log entry
type AuditID string

// NewAuditID generates a new UUID v4 AuditID
func NewAuditID() AuditID {
	return AuditID(uuid.New().String())
}

// String returns the string representation of AuditID
func (id AuditID) String() string {
	return string(id)
}
