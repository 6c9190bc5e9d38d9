package model

// Catalog is one logical grouping of reservable seats, e.g. a single movie
// showing. SeatMap holds the raw availability flag per seat: true until the
// seat is booked. Effective availability additionally depends on the booking
// record and the lock key, which live under their own store keys.
type Catalog struct {
	ID      string          `json:"id" validate:"required,min=1,max=64"`
	Name    string          `json:"name" validate:"required,min=1,max=200"`
	SeatMap map[string]bool `json:"seat_map" validate:"required,seat_map"`
}
