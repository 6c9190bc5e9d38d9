package service

import (
	"context"
	"errors"
	"sync"
	"time"

	reserrors "marquee/internal/reservations/errors"
	"marquee/internal/reservations/lock"
	"marquee/internal/reservations/repository"
	apperrors "marquee/pkg/errors"
	"marquee/pkg/events"
	"marquee/pkg/kv"
	"marquee/pkg/logger"
	"marquee/pkg/model"
)

// Outcome closes out a pending reservation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// ParseOutcome maps the wire value onto an Outcome, failing closed on
// anything unrecognized.
func ParseOutcome(raw string) (Outcome, error) {
	switch Outcome(raw) {
	case OutcomeSuccess:
		return OutcomeSuccess, nil
	case OutcomeFailure:
		return OutcomeFailure, nil
	default:
		return "", reserrors.ErrInvalidOutcome
	}
}

// ReservationService drives each seat through Available -> Locked -> Booked,
// with Locked falling back to Available on explicit failure, release, or
// silent lease expiry. Booked is terminal. All mutual exclusion is delegated
// to the store through the lock manager; the service holds no in-process
// locks of its own.
type ReservationService interface {
	// QueryAvailability reconciles the catalog flags with booking records
	// and live locks. The result is an advisory snapshot: the three
	// fragments are read independently and a seat reported available may
	// be locked by the time the caller acts.
	QueryAvailability(ctx context.Context, catalogID string) (map[string]bool, error)

	// BeginReservation moves a seat from Available to Locked, or fails
	// with a conflict when the seat is booked or already locked.
	BeginReservation(ctx context.Context, catalogID, resourceID string) error

	// CompleteReservation closes out a pending reservation. Success
	// commits the booking and clears the seat; Failure just releases the
	// lock and is idempotent.
	CompleteReservation(ctx context.Context, catalogID, resourceID string, outcome Outcome) error

	// Seed idempotently writes the raw availability flags for the given
	// catalogs, skipping seats that already carry a booking. Safe to run
	// on every restart.
	Seed(ctx context.Context, catalogs []*model.Catalog) error
}

type reservationService struct {
	catalogs  repository.CatalogRepository
	bookings  repository.BookingRepository
	locks     lock.Manager
	publisher events.Publisher
	log       *logger.Logger
}

func NewReservationService(
	catalogs repository.CatalogRepository,
	bookings repository.BookingRepository,
	locks lock.Manager,
	publisher events.Publisher,
	log *logger.Logger,
) ReservationService {
	return &reservationService{
		catalogs:  catalogs,
		bookings:  bookings,
		locks:     locks,
		publisher: publisher,
		log:       log,
	}
}

func (s *reservationService) QueryAvailability(ctx context.Context, catalogID string) (map[string]bool, error) {
	rawFlags, err := s.catalogs.Get(ctx, catalogID)
	if err != nil {
		return nil, s.storeError("Failed to read catalog", err)
	}
	if len(rawFlags) == 0 {
		return nil, apperrors.NotFoundWithID("Catalog", catalogID)
	}

	availability := make(map[string]bool, len(rawFlags))
	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	for seatID, rawFlag := range rawFlags {
		wg.Add(1)
		go func(seatID string, rawFlag bool) {
			defer wg.Done()

			effective, err := s.effectiveAvailability(ctx, seatID, rawFlag)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			availability[seatID] = effective
		}(seatID, rawFlag)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, s.storeError("Failed to resolve seat availability", firstErr)
	}
	return availability, nil
}

// effectiveAvailability recomputes the derived availability of one seat
// from its three fragments. A booking overrides the raw flag, so a crash
// between the booking write and the flag update still reads as unavailable.
func (s *reservationService) effectiveAvailability(ctx context.Context, seatID string, rawFlag bool) (bool, error) {
	if !rawFlag {
		return false, nil
	}

	booked, err := s.bookings.Exists(ctx, seatID)
	if err != nil {
		return false, err
	}
	if booked {
		return false, nil
	}

	locked, err := s.locks.Held(ctx, seatID)
	if err != nil {
		return false, err
	}
	return !locked, nil
}

func (s *reservationService) BeginReservation(ctx context.Context, catalogID, resourceID string) error {
	// Permanent unavailability short-circuits before the lock: no point
	// consuming a lease on a sold seat. This is a latency fast path only;
	// the atomic acquire below remains the sole correctness gate.
	booked, err := s.bookings.Exists(ctx, resourceID)
	if err != nil {
		return s.storeError("Failed to check booking record", err)
	}
	if booked {
		return apperrors.Conflict("Seat is already booked").
			WithDetails(map[string]any{"catalog_id": catalogID, "resource_id": resourceID})
	}

	acquired, err := s.locks.Acquire(ctx, resourceID)
	if err != nil {
		return s.storeError("Failed to acquire seat lock", err)
	}
	if !acquired {
		return apperrors.Conflict("Seat is currently locked by another reservation").
			WithDetails(map[string]any{"catalog_id": catalogID, "resource_id": resourceID})
	}

	s.log.Info("Reservation started",
		"catalog_id", catalogID,
		"resource_id", resourceID,
	)
	return nil
}

func (s *reservationService) CompleteReservation(ctx context.Context, catalogID, resourceID string, outcome Outcome) error {
	switch outcome {
	case OutcomeSuccess:
		return s.commit(ctx, catalogID, resourceID)
	case OutcomeFailure:
		return s.abort(ctx, catalogID, resourceID)
	default:
		return apperrors.InvalidArgument(reserrors.ErrInvalidOutcome.Error())
	}
}

// commit makes the booking durable. The three writes are independent store
// operations with no cross-key transaction; the booking record goes first
// so a crash mid-commit is self-consistent toward "unavailable", never
// toward double-booking.
func (s *reservationService) commit(ctx context.Context, catalogID, resourceID string) error {
	known, err := s.catalogs.SeatExists(ctx, catalogID, resourceID)
	if err != nil {
		return s.storeError("Failed to read catalog", err)
	}
	if !known {
		// Fail closed rather than writing an orphaned booking.
		notFound := apperrors.NotFoundWithID("Seat", resourceID)
		notFound.Err = reserrors.ErrUnknownSeat
		return notFound
	}

	booking := model.Booking{
		CatalogID:  catalogID,
		ResourceID: resourceID,
		CreatedAt:  time.Now(),
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return s.storeError("Failed to write booking record", err)
	}

	if err := s.catalogs.SetSeat(ctx, catalogID, resourceID, false); err != nil {
		return s.storeError("Failed to clear seat availability", err)
	}

	if err := s.locks.Release(ctx, resourceID); err != nil {
		return s.storeError("Failed to release seat lock", err)
	}

	if err := s.publisher.PublishBookingCommitted(ctx, booking); err != nil {
		// Best effort: the store is the source of truth, the booking
		// stands even when the event is lost.
		s.log.Warn("Failed to publish booking event",
			"catalog_id", catalogID,
			"resource_id", resourceID,
			"error", err,
		)
	}

	s.log.Info("Reservation committed",
		"catalog_id", catalogID,
		"resource_id", resourceID,
	)
	return nil
}

// abort releases the lock without touching the catalog or bookings.
// Idempotent: aborting an already-unlocked seat is a no-op.
func (s *reservationService) abort(ctx context.Context, catalogID, resourceID string) error {
	if err := s.locks.Release(ctx, resourceID); err != nil {
		return s.storeError("Failed to release seat lock", err)
	}

	s.log.Info("Reservation aborted",
		"catalog_id", catalogID,
		"resource_id", resourceID,
	)
	return nil
}

func (s *reservationService) Seed(ctx context.Context, catalogs []*model.Catalog) error {
	for _, catalog := range catalogs {
		seeded := 0
		for seatID, available := range catalog.SeatMap {
			booked, err := s.bookings.Exists(ctx, seatID)
			if err != nil {
				return s.storeError("Failed to check booking record", err)
			}

			if err := s.catalogs.SetSeat(ctx, catalog.ID, seatID, available && !booked); err != nil {
				return s.storeError("Failed to seed seat availability", err)
			}
			seeded++
		}

		s.log.Info("Catalog seeded",
			"catalog_id", catalog.ID,
			"name", catalog.Name,
			"seats", seeded,
		)
	}
	return nil
}

func (s *reservationService) storeError(message string, err error) error {
	if errors.Is(err, kv.ErrUnavailable) {
		s.log.Error(message, "error", err)
		return apperrors.StoreUnavailable(err)
	}
	return apperrors.Internal(message, err)
}
