package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ms-bus-booking/internal/domain"
	"ms-bus-booking/internal/utils"
)

// NewRouter mounts every endpoint behind request-id, recovery, CORS and access logging.
func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(h.recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/operators", h.ListOperators)
		r.Get("/operators/{operator}/routes", h.ListRoutes)
		r.Get("/routes/{routeId}/schedules", h.ListSchedules)

		r.Route("/schedules/{busId}/{date}", func(r chi.Router) {
			r.Get("/seats", h.AvailableSeats)
			r.Get("/seats/stream", h.StreamSeats)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", h.CreateBooking)
			r.Get("/", h.ListBookings)

			r.Route("/{bookingId}", func(r chi.Router) {
				r.Get("/", h.GetBooking)
				r.Delete("/", h.CancelBooking)
				r.Post("/bus", h.ChooseBus)
				r.Post("/seat", h.SelectSeat)
				r.Post("/passenger", h.EnterPassenger)
				r.Post("/payment", h.Pay)
				r.Post("/ticket", h.IssueTicket)
				r.Get("/ticket/qr", h.TicketQR)
				r.Get("/events", h.StreamBooking)
			})
		})

		r.Post("/tickets/verify", h.VerifyTicket)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/routes/{routeId}", h.RouteAnalytics)
			r.Get("/operators/{operator}", h.OperatorAnalytics)
		})
	})

	h.Logger.Info("ROUTER", "Catalog, booking and ticket routes registered under /api")
	return r
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			h.Logger.LogAPI(r.Method, r.URL.Path, fmt.Sprintf("%d", status), time.Since(start).String())
		}()
		next.ServeHTTP(ww, r)
	})
}

// recoverer turns a handler panic into the usual Internal error envelope.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			h.Logger.Error("API", fmt.Sprintf("panic on %s %s: %v\n%s", r.Method, r.URL.Path, rvr, debug.Stack()))
			h.writeJSON(w, r, http.StatusInternalServerError,
				utils.ErrorResponse("request failed", string(domain.KindInternal), "internal error"))
		}()
		next.ServeHTTP(w, r)
	})
}
