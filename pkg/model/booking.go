package model

import "time"

// Booking is the durable record written on a committed reservation. Its
// presence under booking:<seat id> is authoritative proof that the seat is
// permanently unavailable, regardless of the catalog flag or any lock.
type Booking struct {
	CatalogID  string    `json:"catalog_id"`
	ResourceID string    `json:"resource_id"`
	CreatedAt  time.Time `json:"created_at"`
}
