package model

import (
	"time"

	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

// AuditEntry is one append-only audit log record
type AuditEntry struct {
	ID           types.AuditID
	Action       types.AuditAction
	TargetUserID types.UserID
	Metadata     map[string]any
	CreatedAt    time.Time
}
