package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"ms-bus-booking/internal/models"
)

// RouteAnalytics reports sales for a route; ?status=PAID|CONFIRMED narrows it.
func (h *Handler) RouteAnalytics(w http.ResponseWriter, r *http.Request) {
	status := models.BookingStatus(strings.ToUpper(r.URL.Query().Get("status")))

	result, err := h.Analytics.GetRouteAnalytics(r.Context(), chi.URLParam(r, "routeId"), status)
	if err != nil {
		h.respondError(w, r, "RouteAnalytics", err)
		return
	}
	h.respond(w, r, http.StatusOK, "route analytics", result)
}

func (h *Handler) OperatorAnalytics(w http.ResponseWriter, r *http.Request) {
	result, err := h.Analytics.GetOperatorAnalytics(r.Context(), chi.URLParam(r, "operator"))
	if err != nil {
		h.respondError(w, r, "OperatorAnalytics", err)
		return
	}
	h.respond(w, r, http.StatusOK, "operator analytics", result)
}
