package model

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

// User represents a local account. Accounts provisioned by platform sync carry
// a non-empty ExternalID (unique across accounts) and SyncedFromPlatform=true.
// PlatformMetadata is stored verbatim and never consulted for lifecycle state.
type User struct {
	ID                 types.UserID
	ExternalID         types.ExternalID
	Email              string
	Name               string
	Handle             string
	PasswordHash       string `masq:"secret"`
	SyncedFromPlatform bool
	PlatformMetadata   map[string]any
	Status             types.AccountStatus
	DeactivatedAt      *time.Time
	DefaultScheduleID  types.ScheduleID
	ManagedByAdmin     bool
	LastSyncedAt       time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsDeactivated reports whether the account has been deactivated
func (u *User) IsDeactivated() bool {
	return u.Status == types.AccountStatusDeactivated
}

// HandleFromEmail derives a handle from the local part of an email address.
// Used when an inbound record carries no username.
func HandleFromEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	return email[:at]
}

// NewPlaceholderCredential generates a random credential for accounts created
// by sync. It is never disclosed; the account completes identity setup
// out-of-band.
func NewPlaceholderCredential() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
