package repository

import (
	"context"
	"strconv"

	"marquee/pkg/kv"
)

const catalogKeyPrefix = "catalog:"

// CatalogRepository manages the catalog record: a single store record per
// catalog whose fields are seat ids and whose values are the raw
// availability flags. The raw flag is cleared exactly once, on committed
// booking; it says nothing about live locks.
type CatalogRepository interface {
	// Get returns the raw availability flag per seat. An unknown catalog
	// yields an empty map.
	Get(ctx context.Context, catalogID string) (map[string]bool, error)

	// SeatExists reports whether the seat is a field of the catalog record.
	SeatExists(ctx context.Context, catalogID, seatID string) (bool, error)

	// SetSeat writes one seat's raw availability flag, creating the
	// catalog record if needed.
	SetSeat(ctx context.Context, catalogID, seatID string, available bool) error
}

type storeCatalogRepository struct {
	store kv.Store
}

func NewCatalogRepository(store kv.Store) CatalogRepository {
	return &storeCatalogRepository{store: store}
}

func catalogKey(catalogID string) string {
	return catalogKeyPrefix + catalogID
}

func (r *storeCatalogRepository) Get(ctx context.Context, catalogID string) (map[string]bool, error) {
	fields, err := r.store.GetRecord(ctx, catalogKey(catalogID))
	if err != nil {
		return nil, err
	}

	seats := make(map[string]bool, len(fields))
	for seatID, raw := range fields {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			// A mangled flag counts as unavailable rather than failing
			// the whole query.
			available = false
		}
		seats[seatID] = available
	}
	return seats, nil
}

func (r *storeCatalogRepository) SeatExists(ctx context.Context, catalogID, seatID string) (bool, error) {
	fields, err := r.store.GetRecord(ctx, catalogKey(catalogID))
	if err != nil {
		return false, err
	}
	_, ok := fields[seatID]
	return ok, nil
}

func (r *storeCatalogRepository) SetSeat(ctx context.Context, catalogID, seatID string, available bool) error {
	return r.store.SetField(ctx, catalogKey(catalogID), seatID, strconv.FormatBool(available))
}
