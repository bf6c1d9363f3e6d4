package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-bus-booking/internal/analytics"
	"ms-bus-booking/internal/booking"
	"ms-bus-booking/internal/catalog"
	"ms-bus-booking/internal/logger"
	"ms-bus-booking/internal/sse"
	"ms-bus-booking/internal/tickets/qr"
)

type Handler struct {
	Catalog   *catalog.Catalog
	Registry  *booking.Registry
	Analytics *analytics.Service
	Emitter   *sse.Emitter
	QR        *qr.Generator
	Logger    *logger.Logger
}

func NewHandler(cat *catalog.Catalog, registry *booking.Registry, stats *analytics.Service, emitter *sse.Emitter, qrGen *qr.Generator, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{
		Catalog:   cat,
		Registry:  registry,
		Analytics: stats,
		Emitter:   emitter,
		QR:        qrGen,
		Logger:    log,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, "ok", map[string]string{"status": "UP"})
}

func (h *Handler) ListOperators(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, "operators", h.Catalog.ListOperators())
}

func (h *Handler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	operator := chi.URLParam(r, "operator")

	routes, err := h.Catalog.ListRoutes(operator)
	if err != nil {
		h.respondError(w, r, "ListRoutes", err)
		return
	}
	h.respond(w, r, http.StatusOK, fmt.Sprintf("routes for %s", operator), routes)
}

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")

	schedules, err := h.Catalog.ListSchedules(r.Context(), routeID, r.URL.Query().Get("date"))
	if err != nil {
		h.respondError(w, r, "ListSchedules", err)
		return
	}
	h.respond(w, r, http.StatusOK, fmt.Sprintf("schedules for %s", routeID), schedules)
}

func (h *Handler) AvailableSeats(w http.ResponseWriter, r *http.Request) {
	seatMap, err := h.Catalog.SeatMap(r.Context(), chi.URLParam(r, "busId"), chi.URLParam(r, "date"))
	if err != nil {
		h.respondError(w, r, "AvailableSeats", err)
		return
	}
	h.respond(w, r, http.StatusOK, "available seats", seatMap)
}
