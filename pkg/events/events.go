package events

import (
	"context"
	"time"

	"marquee/pkg/model"
)

const (
	TypeReservationBooked = "reservation.booked"

	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
)

// BookingCommitted is the payload published when a reservation commit
// succeeds. Publishing is best effort: a lost event never rolls back the
// booking, the store remains the source of truth.
type BookingCommitted struct {
	CatalogID  string    `json:"catalog_id"`
	ResourceID string    `json:"resource_id"`
	BookedAt   time.Time `json:"booked_at"`
}

type Publisher interface {
	PublishBookingCommitted(ctx context.Context, booking model.Booking) error
	Close() error
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishBookingCommitted(context.Context, model.Booking) error { return nil }
func (NopPublisher) Close() error                                                 { return nil }
