package repository

import (
	"context"
	"testing"

	"marquee/pkg/kv"
)

func TestCatalogSeatFlags(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewCatalogRepository(store)

	if err := repo.SetSeat(ctx, "main", "A1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.SetSeat(ctx, "main", "A2", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seats, err := repo.Get(ctx, "main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !seats["A1"] || seats["A2"] {
		t.Errorf("unexpected seat flags: %v", seats)
	}

	exists, err := repo.SeatExists(ctx, "main", "A2")
	if err != nil || !exists {
		t.Errorf("A2 should exist, exists=%v err=%v", exists, err)
	}
	exists, err = repo.SeatExists(ctx, "main", "Z9")
	if err != nil || exists {
		t.Errorf("Z9 should not exist, exists=%v err=%v", exists, err)
	}
}

func TestCatalogMangledFlagReadsUnavailable(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewCatalogRepository(store)

	if err := store.SetField(ctx, "catalog:main", "A1", "maybe"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seats, err := repo.Get(ctx, "main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seats["A1"] {
		t.Error("a mangled flag must read as unavailable")
	}
}

func TestUnknownCatalogReadsEmpty(t *testing.T) {
	repo := NewCatalogRepository(kv.NewMemoryStore())

	seats, err := repo.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seats) != 0 {
		t.Errorf("unknown catalog should read empty, got %v", seats)
	}
}
