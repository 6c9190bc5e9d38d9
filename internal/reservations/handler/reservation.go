package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"marquee/internal/reservations/service"
	apperrors "marquee/pkg/errors"
	httputil "marquee/pkg/http"
	"marquee/pkg/logger"
)

type ReservationHandler struct {
	service          service.ReservationService
	defaultCatalogID string
	log              *logger.Logger
}

func NewReservationHandler(svc service.ReservationService, defaultCatalogID string, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service:          svc,
		defaultCatalogID: defaultCatalogID,
		log:              log,
	}
}

// catalogID resolves the catalog for a request. The catalog id is threaded
// explicitly through the core; the edge defaults it for clients that only
// ever talk about one showing.
func (h *ReservationHandler) catalogID(r *http.Request) string {
	if id := r.URL.Query().Get("catalog"); id != "" {
		return id
	}
	return h.defaultCatalogID
}

func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	availability, err := h.service.QueryAvailability(r.Context(), h.catalogID(r))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "error", err)
	}
}

func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	resourceID := ps.ByName("id")

	if err := h.service.BeginReservation(r.Context(), h.catalogID(r), resourceID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Reserve", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteMessage(w, "locked"); err != nil {
		h.log.Error("failed to write success response", "handler", "Reserve", "error", err)
	}
}

func (h *ReservationHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	resourceID := ps.ByName("id")

	outcome, err := service.ParseOutcome(ps.ByName("outcome"))
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidArgument(err.Error())); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Complete", "error", writeErr)
		}
		return
	}

	if err := h.service.CompleteReservation(r.Context(), h.catalogID(r), resourceID, outcome); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Complete", "error", writeErr)
		}
		return
	}

	message := "booking confirmed"
	if outcome == service.OutcomeFailure {
		message = "reservation released"
	}
	if err := httputil.WriteMessage(w, message); err != nil {
		h.log.Error("failed to write success response", "handler", "Complete", "error", err)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/resources/availability", h.Availability)
	router.POST("/resources/:id/reserve", h.Reserve)
	router.POST("/resources/:id/reserve/:outcome", h.Complete)
}
