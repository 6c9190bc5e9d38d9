package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"marquee/internal/reservations/lock"
	"marquee/internal/reservations/repository"
	"marquee/internal/reservations/service"
	"marquee/pkg/events"
	"marquee/pkg/kv"
	"marquee/pkg/logger"
	"marquee/pkg/model"
)

func newTestRouter(t *testing.T) *httprouter.Router {
	t.Helper()

	store := kv.NewMemoryStore()
	log := logger.New(logger.Config{Level: logger.LevelError})

	svc := service.NewReservationService(
		repository.NewCatalogRepository(store),
		repository.NewBookingRepository(store),
		lock.NewManager(store, time.Minute, log),
		events.NopPublisher{},
		log,
	)

	catalog := &model.Catalog{
		ID:      "main",
		Name:    "Feature Presentation",
		SeatMap: map[string]bool{"A1": true, "A2": true},
	}
	if err := svc.Seed(context.Background(), []*model.Catalog{catalog}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	router := httprouter.New()
	NewReservationHandler(svc, "main", log).RegisterRoutes(router)
	NewHealthHandler(store, log).RegisterRoutes(router)
	return router
}

func do(t *testing.T, router *httprouter.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAvailabilityEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/resources/availability")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var availability map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &availability); err != nil {
		t.Fatalf("response is not a seat map: %v", err)
	}
	if !availability["A1"] || !availability["A2"] {
		t.Errorf("expected both seats available, got %v", availability)
	}
}

func TestAvailabilityUnknownCatalog(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/resources/availability?catalog=nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestReserveEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/resources/A1/reserve")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if resp.Message != "locked" {
		t.Errorf("expected message 'locked', got %q", resp.Message)
	}

	// Second reservation conflicts.
	rec = do(t, router, http.MethodPost, "/resources/A1/reserve")
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 on double reserve, got %d", rec.Code)
	}
}

func TestCompleteEndpointSuccess(t *testing.T) {
	router := newTestRouter(t)

	if rec := do(t, router, http.MethodPost, "/resources/A1/reserve"); rec.Code != http.StatusOK {
		t.Fatalf("reserve failed: %d", rec.Code)
	}

	rec := do(t, router, http.MethodPost, "/resources/A1/reserve/success")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The seat is now permanently gone.
	if rec := do(t, router, http.MethodPost, "/resources/A1/reserve"); rec.Code != http.StatusConflict {
		t.Errorf("expected 409 after booking, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/resources/availability")
	var availability map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &availability); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if availability["A1"] {
		t.Error("A1 should be unavailable after commit")
	}
	if !availability["A2"] {
		t.Error("A2 should remain available")
	}
}

func TestCompleteEndpointFailure(t *testing.T) {
	router := newTestRouter(t)

	if rec := do(t, router, http.MethodPost, "/resources/A1/reserve"); rec.Code != http.StatusOK {
		t.Fatalf("reserve failed: %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/resources/A1/reserve/failure"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on failure outcome, got %d", rec.Code)
	}

	// Released: can be reserved again.
	if rec := do(t, router, http.MethodPost, "/resources/A1/reserve"); rec.Code != http.StatusOK {
		t.Errorf("expected 200 after release, got %d", rec.Code)
	}
}

func TestCompleteEndpointInvalidOutcome(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/resources/A1/reserve/cancel")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown outcome, got %d", rec.Code)
	}
}

func TestCompleteEndpointUnknownSeat(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/resources/Z9/reserve/success")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown seat, got %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	if rec := do(t, router, http.MethodGet, "/health"); rec.Code != http.StatusOK {
		t.Errorf("expected 200 from /health, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/ready"); rec.Code != http.StatusOK {
		t.Errorf("expected 200 from /ready, got %d", rec.Code)
	}
}
