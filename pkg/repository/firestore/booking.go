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

type bookingDocument struct {
	ID           string    `firestore:"id"`
	OwnerID      string    `firestore:"owner_id"`
	Title        string    `firestore:"title"`
	StartAt      time.Time `firestore:"start_at"`
	EndAt        time.Time `firestore:"end_at"`
	Status       string    `firestore:"status"`
	CancelReason string    `firestore:"cancel_reason,omitempty"`
	CreatedAt    time.Time `firestore:"created_at"`
	UpdatedAt    time.Time `firestore:"updated_at"`
}

type bookingRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newBookingRepository(client *firestore.Client) *bookingRepository {
	return &bookingRepository{client: client}
}

func (r *bookingRepository) bookingsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_bookings"
	}
	return "bookings"
}

func bookingToDocument(booking *model.Booking) *bookingDocument {
	return &bookingDocument{
		ID:           string(booking.ID),
		OwnerID:      string(booking.OwnerID),
		Title:        booking.Title,
		StartAt:      booking.StartAt,
		EndAt:        booking.EndAt,
		Status:       string(booking.Status),
		CancelReason: booking.CancelReason,
		CreatedAt:    booking.CreatedAt,
		UpdatedAt:    booking.UpdatedAt,
	}
}

func bookingToModel(doc *bookingDocument) *model.Booking {
	return &model.Booking{
		ID:           types.BookingID(doc.ID),
		OwnerID:      types.UserID(doc.OwnerID),
		Title:        doc.Title,
		StartAt:      doc.StartAt,
		EndAt:        doc.EndAt,
		Status:       types.BookingStatus(doc.Status),
		CancelReason: doc.CancelReason,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	now := time.Now().UTC()
	if booking.ID == "" {
		booking.ID = types.NewBookingID()
	}
	if booking.Status == "" {
		booking.Status = types.BookingStatusConfirmed
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now

	doc := bookingToDocument(booking)

	docRef := r.client.Collection(r.bookingsCollection()).Doc(string(booking.ID))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create booking", goerr.V("id", booking.ID))
	}

	return bookingToModel(doc), nil
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID types.UserID) ([]*model.Booking, error) {
	iter := r.client.Collection(r.bookingsCollection()).
		Where("owner_id", "==", string(ownerID)).
		OrderBy("start_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	bookings := []*model.Booking{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate bookings", goerr.V("ownerID", ownerID))
		}

		var bookingDoc bookingDocument
		if err := doc.DataTo(&bookingDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal booking")
		}

		bookings = append(bookings, bookingToModel(&bookingDoc))
	}

	return bookings, nil
}

// CancelUpcoming queries by owner and start time; the status filter is applied
// client-side to avoid a Firestore inequality on two fields.
func (r *bookingRepository) CancelUpcoming(ctx context.Context, ownerID types.UserID, since time.Time, reason string) (int, error) {
	iter := r.client.Collection(r.bookingsCollection()).
		Where("owner_id", "==", string(ownerID)).
		Where("start_at", ">=", since).
		Documents(ctx)
	defer iter.Stop()

	now := time.Now().UTC()
	cancelled := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return cancelled, goerr.Wrap(err, "failed to iterate bookings", goerr.V("ownerID", ownerID))
		}

		var bookingDoc bookingDocument
		if err := doc.DataTo(&bookingDoc); err != nil {
			return cancelled, goerr.Wrap(err, "failed to unmarshal booking")
		}

		if bookingDoc.Status == string(types.BookingStatusCancelled) {
			continue
		}

		_, err = doc.Ref.Update(ctx, []firestore.Update{
			{Path: "status", Value: string(types.BookingStatusCancelled)},
			{Path: "cancel_reason", Value: reason},
			{Path: "updated_at", Value: now},
		})
		if err != nil {
			return cancelled, goerr.Wrap(err, "failed to cancel booking", goerr.V("id", bookingDoc.ID))
		}
		cancelled++
	}

	return cancelled, nil
}
