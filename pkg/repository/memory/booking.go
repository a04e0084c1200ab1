package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

type bookingRepository struct {
	mu       sync.RWMutex
	bookings map[types.BookingID]*model.Booking
}

func newBookingRepository() *bookingRepository {
	return &bookingRepository{
		bookings: make(map[types.BookingID]*model.Booking),
	}
}

func copyBooking(b *model.Booking) *model.Booking {
	copied := *b
	return &copied
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyBooking(booking)
	if created.ID == "" {
		created.ID = types.NewBookingID()
	}
	if created.Status == "" {
		created.Status = types.BookingStatusConfirmed
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.bookings[created.ID] = created
	return copyBooking(created), nil
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID types.UserID) ([]*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*model.Booking{}
	for _, booking := range r.bookings {
		if booking.OwnerID == ownerID {
			result = append(result, copyBooking(booking))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartAt.Before(result[j].StartAt)
	})

	return result, nil
}

func (r *bookingRepository) CancelUpcoming(ctx context.Context, ownerID types.UserID, since time.Time, reason string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	cancelled := 0
	for _, booking := range r.bookings {
		if booking.OwnerID != ownerID {
			continue
		}
		if booking.Status == types.BookingStatusCancelled {
			continue
		}
		if booking.StartAt.Before(since) {
			continue
		}

		booking.Status = types.BookingStatusCancelled
		booking.CancelReason = reason
		booking.UpdatedAt = now
		cancelled++
	}

	return cancelled, nil
}
