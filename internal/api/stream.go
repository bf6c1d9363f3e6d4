package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ms-bus-booking/internal/models"
)

const keepAliveInterval = 25 * time.Second

func setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, name string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// StreamSeats pushes the current seat map, then every seat change on the bus run.
func (h *Handler) StreamSeats(w http.ResponseWriter, r *http.Request) {
	busID, date := chi.URLParam(r, "busId"), chi.URLParam(r, "date")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Subscribe before the snapshot so no change between the two is lost.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	key := models.ScheduleKey{BusID: busID, Date: date}
	events := h.Emitter.SubscribeSchedule(ctx, key)

	seatMap, err := h.Catalog.SeatMap(ctx, busID, date)
	if err != nil {
		h.respondError(w, r, "StreamSeats", err)
		return
	}

	setupSSEHeaders(w)
	if err := writeEvent(w, flusher, "snapshot", seatMap); err != nil {
		return
	}
	h.Logger.Info("SSE", fmt.Sprintf("Client connected to seat stream for %s (%d clients)", key, h.Emitter.ScheduleClientCount(key)))

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, flusher, "seat", event); err != nil {
				h.Logger.Debug("SSE", fmt.Sprintf("seat stream write failed for %s: %v", key, err))
				return
			}
		case <-ticker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client disconnected from seat stream for %s", key))
			return
		}
	}
}

// StreamBooking pushes the booking's current state, then each transition.
func (h *Handler) StreamBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	events := h.Emitter.SubscribeBooking(ctx, bookingID)

	b, err := h.Registry.Get(ctx, bookingID)
	if err != nil {
		h.respondError(w, r, "StreamBooking", err)
		return
	}

	setupSSEHeaders(w)
	if err := writeEvent(w, flusher, "snapshot", b); err != nil {
		return
	}
	h.Logger.Info("SSE", fmt.Sprintf("Client connected to booking stream for %s (%d clients)", bookingID, h.Emitter.BookingClientCount(bookingID)))

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, flusher, "booking", event); err != nil {
				return
			}
		case <-ticker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client disconnected from booking stream for %s", bookingID))
			return
		}
	}
}
