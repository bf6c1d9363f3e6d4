// Package booking walks a purchase attempt through its lifecycle:
// SEARCHED → BUS_CHOSEN → SEAT_HELD → PASSENGER_ENTERED → PAID → CONFIRMED, with CANCELLED
// reachable from any state before payment.
package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/puzpuzpuz/xsync/v3"

	"ms-bus-booking/internal/catalog"
	"ms-bus-booking/internal/domain"
	"ms-bus-booking/internal/ledger"
	"ms-bus-booking/internal/logger"
	"ms-bus-booking/internal/models"
)

type Store interface {
	Create(ctx context.Context, b *models.Booking) error
	Get(ctx context.Context, id string) (*models.Booking, error)
	Update(ctx context.Context, b *models.Booking) error
	List(ctx context.Context) ([]*models.Booking, error)
}

type Catalog interface {
	Route(id string) (models.Route, error)
	Bus(id string) (models.Bus, error)
	Schedule(busID, date string) (models.Schedule, error)
}

type IDGenerator interface {
	NewBookingID() string
	NewTicketID() string
	NewConfirmationCode() string
}

type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event models.BookingEvent) error
	PublishSeatStatus(ctx context.Context, event models.SeatStatusEvent) error
}

type Registry struct {
	Store      Store
	Ledger     ledger.SeatLedger
	Catalog    Catalog
	IDs        IDGenerator
	Publishers []EventPublisher
	Logger     *logger.Logger
	Now        func() time.Time

	allowedPhones map[string]struct{}
	locks         *xsync.MapOf[string, *sync.Mutex]
	validate      *validator.Validate
}

// NewRegistry wires the registry. An empty allowedPhones disables the phone gate.
func NewRegistry(store Store, seats ledger.SeatLedger, cat Catalog, ids IDGenerator, log *logger.Logger, allowedPhones []string, publishers ...EventPublisher) *Registry {
	if log == nil {
		log = logger.Discard()
	}
	r := &Registry{
		Store:      store,
		Ledger:     seats,
		Catalog:    cat,
		IDs:        ids,
		Publishers: publishers,
		Logger:     log,
		Now:        time.Now,
		locks:      xsync.NewMapOf[string, *sync.Mutex](),
		validate:   newValidator(),
	}
	if len(allowedPhones) > 0 {
		r.allowedPhones = make(map[string]struct{}, len(allowedPhones))
		for _, p := range allowedPhones {
			r.allowedPhones[p] = struct{}{}
		}
	}
	return r
}

// lock serializes transitions of one booking. Unknown ids and settled bookings never get
// an entry, and the entry is dropped once the booking settles.
func (r *Registry) lock(ctx context.Context, id string) (func(), error) {
	b, err := r.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.Settled() {
		return func() {}, nil
	}

	mu, _ := r.locks.LoadOrCompute(id, func() *sync.Mutex { return &sync.Mutex{} })
	mu.Lock()
	return func() {
		if cur, err := r.Store.Get(context.WithoutCancel(ctx), id); err == nil && cur.Status.Settled() {
			r.locks.Delete(id)
		}
		mu.Unlock()
	}, nil
}

func (r *Registry) Create(ctx context.Context, req SearchRequest) (*models.Booking, error) {
	if req.RouteID != "" {
		if _, err := r.Catalog.Route(req.RouteID); err != nil {
			return nil, err
		}
	}
	if req.Date != "" {
		if err := catalog.ValidateDate(req.Date); err != nil {
			return nil, err
		}
	}

	now := r.Now()
	b := &models.Booking{
		BookingID:  r.IDs.NewBookingID(),
		Status:     models.StatusSearched,
		RouteID:    req.RouteID,
		SearchDate: req.Date,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.Store.Create(ctx, b); err != nil {
		return nil, internal("create booking", err)
	}

	r.Logger.LogBooking("CREATE", b.BookingID, fmt.Sprintf("route=%q date=%q", b.RouteID, b.SearchDate))
	r.publishBooking(ctx, b)
	return b, nil
}

func (r *Registry) Get(ctx context.Context, id string) (*models.Booking, error) {
	return r.Store.Get(ctx, id)
}

// List returns every booking, newest first.
func (r *Registry) List(ctx context.Context) ([]*models.Booking, error) {
	bookings, err := r.Store.List(ctx)
	if err != nil {
		return nil, internal("list bookings", err)
	}
	return bookings, nil
}

func (r *Registry) ChooseBus(ctx context.Context, id string, req ChooseBusRequest) (*models.Booking, error) {
	unlock, err := r.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, err := r.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusSearched {
		return nil, domain.InvalidState("booking %s is %s; a bus can only be chosen right after a search", id, b.Status)
	}
	if err := r.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	date := req.Date
	if date == "" {
		date = b.SearchDate
	}
	if date == "" {
		return nil, domain.Validation("date", "is required")
	}

	schedule, err := r.Catalog.Schedule(req.BusID, date)
	if err != nil {
		return nil, err
	}
	if b.RouteID != "" && schedule.RouteID != b.RouteID {
		return nil, domain.Validation("bus_id", "bus %s does not run on route %s", req.BusID, b.RouteID)
	}

	b.Schedule = &schedule
	b.RouteID = schedule.RouteID
	b.Status = models.StatusBusChosen
	if err := r.save(ctx, b); err != nil {
		return nil, err
	}

	r.Logger.LogBooking("CHOOSE_BUS", id, fmt.Sprintf("bus %s on %s", schedule.BusID, schedule.Date))
	r.publishBooking(ctx, b)
	return b, nil
}

func (r *Registry) SelectSeat(ctx context.Context, id string, req SeatRequest) (*models.Booking, error) {
	unlock, err := r.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, err := r.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch b.Status {
	case models.StatusBusChosen:
	case models.StatusSearched:
		return nil, domain.InvalidState("booking %s has no bus chosen yet", id)
	default:
		return nil, domain.InvalidState("booking %s is %s; a seat can only be selected after choosing a bus", id, b.Status)
	}

	schedule := *b.Schedule
	if err := r.Ledger.HoldSeat(ctx, schedule, req.SeatNumber, id); err != nil {
		return nil, internal("hold seat", err)
	}

	b.SeatNumber = req.SeatNumber
	b.Status = models.StatusSeatHeld
	if err := r.save(ctx, b); err != nil {
		if rerr := r.Ledger.ReleaseSeat(ctx, schedule, req.SeatNumber, id); rerr != nil {
			r.Logger.Error("BOOKING", fmt.Sprintf("Failed to roll back seat hold for %s: %v", id, rerr))
		}
		return nil, err
	}

	r.Logger.LogBooking("SELECT_SEAT", id, fmt.Sprintf("seat %d on %s", req.SeatNumber, schedule.Key()))
	r.publishBooking(ctx, b)
	r.publishSeat(ctx, models.NewSeatStatusEvent(schedule.Key(), []int{req.SeatNumber}, models.SeatHeld, id, r.Now()))
	return b, nil
}

func (r *Registry) EnterPassenger(ctx context.Context, id string, req PassengerRequest) (*models.Booking, error) {
	unlock, err := r.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, err := r.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusSeatHeld {
		return nil, domain.InvalidState("booking %s is %s; passenger details need a held seat", id, b.Status)
	}

	req.normalize()
	if err := r.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if r.allowedPhones != nil {
		if _, ok := r.allowedPhones[req.Phone]; !ok {
			r.Logger.LogSecurity("PHONE_REJECTED", fmt.Sprintf("booking %s used a phone number outside the allow-list", id))
			return nil, domain.Unauthenticated("phone number %s is not registered", req.Phone)
		}
	}

	b.Passenger = &models.Passenger{
		Name:   req.Name,
		Age:    req.Age,
		Gender: req.Gender,
		Email:  req.Email,
		Phone:  req.Phone,
	}
	b.Status = models.StatusPassengerEntered
	if err := r.save(ctx, b); err != nil {
		return nil, err
	}

	r.Logger.LogBooking("PASSENGER", id, "passenger details recorded")
	r.publishBooking(ctx, b)
	return b, nil
}

func (r *Registry) Pay(ctx context.Context, id string, req PaymentRequest) (*models.Booking, error) {
	unlock, err := r.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, err := r.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusPassengerEntered {
		return nil, domain.InvalidState("booking %s is %s; payment needs passenger details first", id, b.Status)
	}

	req.normalize()
	if err := r.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	b.Payment = &models.Payment{
		MaskedCard: maskCard(req.CardNumber),
		CardHolder: req.CardHolder,
		Expiry:     req.Expiry,
		Amount:     req.Amount,
		PaidAt:     r.Now(),
	}
	b.ConfirmationCode = r.IDs.NewConfirmationCode()
	b.Status = models.StatusPaid
	if err := r.save(ctx, b); err != nil {
		return nil, err
	}

	r.Logger.LogBooking("PAY", id, fmt.Sprintf("paid %.2f, confirmation %s", req.Amount, b.ConfirmationCode))
	r.publishBooking(ctx, b)
	r.publishSeat(ctx, models.NewSeatStatusEvent(b.Schedule.Key(), []int{b.SeatNumber}, models.SeatBooked, id, r.Now()))
	return b, nil
}

// IssueTicket confirms a paid booking. Repeating it on a confirmed booking returns the same ticket.
func (r *Registry) IssueTicket(ctx context.Context, id string) (*models.Booking, error) {
	unlock, err := r.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, err := r.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == models.StatusConfirmed && b.Ticket != nil {
		return b, nil
	}
	if b.Status != models.StatusPaid {
		return nil, domain.InvalidState("booking %s is %s; a ticket is issued only after payment", id, b.Status)
	}

	route, err := r.Catalog.Route(b.Schedule.RouteID)
	if err != nil {
		return nil, internal("resolve route", err)
	}
	bus, err := r.Catalog.Bus(b.Schedule.BusID)
	if err != nil {
		return nil, internal("resolve bus", err)
	}

	b.Ticket = &models.Ticket{
		TicketID:         r.IDs.NewTicketID(),
		BookingID:        b.BookingID,
		ConfirmationCode: b.ConfirmationCode,
		Operator:         route.Operator,
		Route:            route.Name(),
		BusID:            bus.ID,
		Date:             b.Schedule.Date,
		Departure:        bus.Departure,
		SeatNumber:       b.SeatNumber,
		PassengerName:    b.Passenger.Name,
		Amount:           b.Payment.Amount,
		IssuedAt:         r.Now(),
	}
	b.Status = models.StatusConfirmed
	if err := r.save(ctx, b); err != nil {
		return nil, err
	}

	r.Logger.LogBooking("ISSUE_TICKET", id, "ticket "+b.Ticket.TicketID)
	r.publishBooking(ctx, b)
	return b, nil
}

// Cancel releases the booking's seat, if any, and ends the booking.
func (r *Registry) Cancel(ctx context.Context, id string) (*models.Booking, error) {
	unlock, err := r.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, err := r.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, domain.InvalidState("booking %s is %s and can no longer be cancelled", id, b.Status)
	}

	released := b.HoldsSeat()
	if released {
		if err := r.Ledger.ReleaseSeat(ctx, *b.Schedule, b.SeatNumber, id); err != nil {
			return nil, internal("release seat", err)
		}
	}

	b.Status = models.StatusCancelled
	if err := r.save(ctx, b); err != nil {
		if released {
			if herr := r.Ledger.HoldSeat(ctx, *b.Schedule, b.SeatNumber, id); herr != nil {
				r.Logger.Error("BOOKING", fmt.Sprintf("Failed to restore seat hold for %s: %v", id, herr))
			}
		}
		return nil, err
	}

	r.Logger.LogBooking("CANCEL", id, fmt.Sprintf("seat released=%t", released))
	r.publishBooking(ctx, b)
	if released {
		r.publishSeat(ctx, models.NewSeatStatusEvent(b.Schedule.Key(), []int{b.SeatNumber}, models.SeatAvailable, id, r.Now()))
	}
	return b, nil
}

func (r *Registry) save(ctx context.Context, b *models.Booking) error {
	b.UpdatedAt = r.Now()
	if err := r.Store.Update(ctx, b); err != nil {
		return internal("save booking", err)
	}
	return nil
}

func (r *Registry) publishBooking(ctx context.Context, b *models.Booking) {
	event := models.NewBookingEvent(b, r.Now())
	for _, p := range r.Publishers {
		if err := p.PublishBookingEvent(ctx, event); err != nil {
			r.Logger.Error("BOOKING", fmt.Sprintf("Publish error (%s): %v", event.Type, err))
		}
	}
}

func (r *Registry) publishSeat(ctx context.Context, event models.SeatStatusEvent) {
	for _, p := range r.Publishers {
		if err := p.PublishSeatStatus(ctx, event); err != nil {
			r.Logger.Error("BOOKING", fmt.Sprintf("Publish error (seat %s): %v", event.Status, err))
		}
	}
}

// internal keeps classified errors and marks everything else as an infrastructure failure.
func internal(msg string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Internal(msg, err)
}
