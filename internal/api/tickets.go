package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-bus-booking/internal/domain"
	"ms-bus-booking/internal/models"
	"ms-bus-booking/internal/tickets/qr"
)

type verifyRequest struct {
	Payload string `json:"payload"`
}

type verifyResponse struct {
	Valid  bool                 `json:"valid"`
	Status models.BookingStatus `json:"status"`
	Ticket models.Ticket        `json:"ticket"`
}

func (h *Handler) IssueTicket(w http.ResponseWriter, r *http.Request) {
	b, err := h.Registry.IssueTicket(r.Context(), chi.URLParam(r, "bookingId"))
	if err != nil {
		h.respondError(w, r, "IssueTicket", err)
		return
	}
	h.respond(w, r, http.StatusOK, "ticket issued", b.Ticket)
}

// TicketQR serves the encrypted ticket as a PNG.
func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	b, err := h.Registry.Get(r.Context(), chi.URLParam(r, "bookingId"))
	if err != nil {
		h.respondError(w, r, "TicketQR", err)
		return
	}
	if b.Ticket == nil {
		h.respondError(w, r, "TicketQR", domain.InvalidState("booking %s has no ticket yet", b.BookingID))
		return
	}

	png, err := h.QR.GenerateEncryptedQR(*b.Ticket)
	if err != nil {
		h.respondError(w, r, "TicketQR", domain.Internal("render QR code", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.Logger.Error("API", "TicketQR: failed to write image: "+err.Error())
	}
}

// VerifyTicket decodes a scanned QR payload and checks it against the live booking.
func (h *Handler) VerifyTicket(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decode(r, &req); err != nil {
		h.respondError(w, r, "VerifyTicket", err)
		return
	}
	if req.Payload == "" {
		h.respondError(w, r, "VerifyTicket", domain.Validation("payload", "is required"))
		return
	}

	ticket, err := h.QR.DecryptPayload(req.Payload)
	if err != nil {
		if errors.Is(err, qr.ErrMalformedPayload) {
			err = domain.Validation("payload", "is not a ticket issued by this service")
		}
		h.respondError(w, r, "VerifyTicket", err)
		return
	}

	b, err := h.Registry.Get(r.Context(), ticket.BookingID)
	if err != nil {
		h.respondError(w, r, "VerifyTicket", err)
		return
	}

	valid := b.Status == models.StatusConfirmed && b.Ticket != nil && b.Ticket.TicketID == ticket.TicketID
	if !valid {
		h.Logger.LogSecurity("TICKET_REJECTED", "ticket "+ticket.TicketID+" does not match booking "+b.BookingID)
	}
	h.respond(w, r, http.StatusOK, "ticket checked", verifyResponse{Valid: valid, Status: b.Status, Ticket: ticket})
}
