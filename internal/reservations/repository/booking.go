package repository

import (
	"context"
	"time"

	"marquee/pkg/kv"
	"marquee/pkg/model"
)

const bookingKeyPrefix = "booking:"

// BookingRepository manages the durable booking records. A booking's
// presence is authoritative proof that its seat is permanently unavailable;
// there is no cancellation path.
type BookingRepository interface {
	Exists(ctx context.Context, resourceID string) (bool, error)
	Create(ctx context.Context, booking model.Booking) error
	Get(ctx context.Context, resourceID string) (*model.Booking, error)
}

type storeBookingRepository struct {
	store kv.Store
}

func NewBookingRepository(store kv.Store) BookingRepository {
	return &storeBookingRepository{store: store}
}

func bookingKey(resourceID string) string {
	return bookingKeyPrefix + resourceID
}

func (r *storeBookingRepository) Exists(ctx context.Context, resourceID string) (bool, error) {
	return r.store.Exists(ctx, bookingKey(resourceID))
}

func (r *storeBookingRepository) Create(ctx context.Context, booking model.Booking) error {
	return r.store.WriteRecord(ctx, bookingKey(booking.ResourceID), map[string]string{
		"catalog_id":  booking.CatalogID,
		"resource_id": booking.ResourceID,
		"created_at":  booking.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (r *storeBookingRepository) Get(ctx context.Context, resourceID string) (*model.Booking, error) {
	fields, err := r.store.GetRecord(ctx, bookingKey(resourceID))
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	booking := &model.Booking{
		CatalogID:  fields["catalog_id"],
		ResourceID: fields["resource_id"],
	}
	if createdAt, err := time.Parse(time.RFC3339, fields["created_at"]); err == nil {
		booking.CreatedAt = createdAt
	}
	return booking, nil
}
