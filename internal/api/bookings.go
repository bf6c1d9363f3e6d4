package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-bus-booking/internal/booking"
)

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req booking.SearchRequest
	if err := decodeOptional(r, &req); err != nil {
		h.respondError(w, r, "CreateBooking", err)
		return
	}

	b, err := h.Registry.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, r, "CreateBooking", err)
		return
	}
	h.respond(w, r, http.StatusCreated, "booking created", b)
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Registry.List(r.Context())
	if err != nil {
		h.respondError(w, r, "ListBookings", err)
		return
	}
	h.respond(w, r, http.StatusOK, "bookings", bookings)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.Registry.Get(r.Context(), chi.URLParam(r, "bookingId"))
	if err != nil {
		h.respondError(w, r, "GetBooking", err)
		return
	}
	h.respond(w, r, http.StatusOK, string(b.Status), b)
}

func (h *Handler) ChooseBus(w http.ResponseWriter, r *http.Request) {
	var req booking.ChooseBusRequest
	if err := decode(r, &req); err != nil {
		h.respondError(w, r, "ChooseBus", err)
		return
	}

	b, err := h.Registry.ChooseBus(r.Context(), chi.URLParam(r, "bookingId"), req)
	if err != nil {
		h.respondError(w, r, "ChooseBus", err)
		return
	}
	h.respond(w, r, http.StatusOK, "bus chosen", b)
}

func (h *Handler) SelectSeat(w http.ResponseWriter, r *http.Request) {
	var req booking.SeatRequest
	if err := decode(r, &req); err != nil {
		h.respondError(w, r, "SelectSeat", err)
		return
	}

	b, err := h.Registry.SelectSeat(r.Context(), chi.URLParam(r, "bookingId"), req)
	if err != nil {
		h.respondError(w, r, "SelectSeat", err)
		return
	}
	h.respond(w, r, http.StatusOK, "seat held", b)
}

func (h *Handler) EnterPassenger(w http.ResponseWriter, r *http.Request) {
	var req booking.PassengerRequest
	if err := decode(r, &req); err != nil {
		h.respondError(w, r, "EnterPassenger", err)
		return
	}

	b, err := h.Registry.EnterPassenger(r.Context(), chi.URLParam(r, "bookingId"), req)
	if err != nil {
		h.respondError(w, r, "EnterPassenger", err)
		return
	}
	h.respond(w, r, http.StatusOK, "passenger details saved", b)
}

func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	var req booking.PaymentRequest
	if err := decode(r, &req); err != nil {
		h.respondError(w, r, "Pay", err)
		return
	}

	b, err := h.Registry.Pay(r.Context(), chi.URLParam(r, "bookingId"), req)
	if err != nil {
		h.respondError(w, r, "Pay", err)
		return
	}
	h.respond(w, r, http.StatusOK, "payment accepted, confirmation "+b.ConfirmationCode, b)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.Registry.Cancel(r.Context(), chi.URLParam(r, "bookingId"))
	if err != nil {
		h.respondError(w, r, "CancelBooking", err)
		return
	}
	h.respond(w, r, http.StatusOK, "booking cancelled", b)
}
