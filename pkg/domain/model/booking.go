package model

import (
	"time"

	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

// Booking represents a booking owned by a local account. This subsystem only
// touches bookings through the deactivation cascade; the booking engine itself
// is an external collaborator.
type Booking struct {
	ID           types.BookingID
	OwnerID      types.UserID
	Title        string
	StartAt      time.Time
	EndAt        time.Time
	Status       types.BookingStatus
	CancelReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
