package service

import (
	"os"
	"path/filepath"
	"testing"

	"marquee/internal/reservations/validator"
)

func seedValidator() *validator.CatalogValidator {
	return validator.NewCatalogValidator(testLogger())
}

func writeSeedFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalogs.json")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func TestLoadCatalogs(t *testing.T) {
	path := writeSeedFile(t, `[
		{"id": "main", "name": "Feature Presentation", "seat_map": {"A1": true, "A2": true}},
		{"id": "late-show", "name": "Late Show", "seat_map": {"B1": true}}
	]`)

	catalogs, err := LoadCatalogs(path, seedValidator())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(catalogs) != 2 {
		t.Fatalf("expected 2 catalogs, got %d", len(catalogs))
	}
	if catalogs[0].ID != "main" || len(catalogs[0].SeatMap) != 2 {
		t.Errorf("unexpected first catalog: %+v", catalogs[0])
	}
}

func TestLoadCatalogsRejectsInvalidSeed(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"not json", "seats go here"},
		{"missing name", `[{"id": "main", "seat_map": {"A1": true}}]`},
		{"empty seat map", `[{"id": "main", "name": "x", "seat_map": {}}]`},
		{"duplicate ids", `[
			{"id": "main", "name": "x", "seat_map": {"A1": true}},
			{"id": "main", "name": "y", "seat_map": {"B1": true}}
		]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSeedFile(t, tt.contents)
			if _, err := LoadCatalogs(path, seedValidator()); err == nil {
				t.Error("expected seed loading to fail")
			}
		})
	}
}

func TestLoadCatalogsMissingFile(t *testing.T) {
	if _, err := LoadCatalogs(filepath.Join(t.TempDir(), "nope.json"), seedValidator()); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestDefaultCatalogs(t *testing.T) {
	catalogs := DefaultCatalogs("main")
	if len(catalogs) != 1 {
		t.Fatalf("expected 1 catalog, got %d", len(catalogs))
	}
	if catalogs[0].ID != "main" {
		t.Errorf("expected catalog id 'main', got %q", catalogs[0].ID)
	}
	if len(catalogs[0].SeatMap) != 12 {
		t.Errorf("expected 12 seats, got %d", len(catalogs[0].SeatMap))
	}
	if err := seedValidator().ValidateAll(catalogs); err != nil {
		t.Errorf("default catalogs should validate, got %v", err)
	}
}
