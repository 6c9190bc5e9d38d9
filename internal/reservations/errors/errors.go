package errors

import "errors"

var (
	// ErrInvalidOutcome rejects completion outcomes other than success or
	// failure.
	ErrInvalidOutcome = errors.New("outcome must be success or failure")

	// ErrUnknownSeat marks a commit against a seat no catalog record
	// knows about. Commits fail closed on it instead of writing an
	// orphaned booking.
	ErrUnknownSeat = errors.New("seat is not part of any known catalog")
)
