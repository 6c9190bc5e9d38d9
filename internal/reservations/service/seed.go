package service

import (
	"encoding/json"
	"fmt"
	"os"

	"marquee/internal/reservations/validator"
	"marquee/pkg/model"
)

// LoadCatalogs reads catalog seed definitions from a JSON file and
// validates them. The file holds an array of catalogs:
//
//	[{"id": "main", "name": "...", "seat_map": {"A1": true, ...}}]
func LoadCatalogs(path string, v *validator.CatalogValidator) ([]*model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog seed file: %w", err)
	}

	var catalogs []*model.Catalog
	if err := json.Unmarshal(data, &catalogs); err != nil {
		return nil, fmt.Errorf("parse catalog seed file: %w", err)
	}

	if err := v.ValidateAll(catalogs); err != nil {
		return nil, err
	}
	return catalogs, nil
}

// DefaultCatalogs is the built-in seed used when no seed file is
// configured: one showing with a small fixed seat grid.
func DefaultCatalogs(catalogID string) []*model.Catalog {
	seatMap := make(map[string]bool)
	for _, row := range []string{"A", "B", "C"} {
		for n := 1; n <= 4; n++ {
			seatMap[fmt.Sprintf("%s%d", row, n)] = true
		}
	}

	return []*model.Catalog{{
		ID:      catalogID,
		Name:    "Feature Presentation",
		SeatMap: seatMap,
	}}
}
