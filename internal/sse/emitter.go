package sse

import (
	"context"
	"sync"

	"ms-bus-booking/internal/models"
)

const clientBuffer = 10

// Emitter fans seat and booking events out to connected SSE clients.
type Emitter struct {
	// key: schedule "bus:date", value: client channels
	seatClients     map[string][]chan models.SeatStatusEvent
	seatClientMutex sync.RWMutex

	// key: booking id, value: client channels
	bookingClients     map[string][]chan models.BookingEvent
	bookingClientMutex sync.RWMutex
}

func NewEmitter() *Emitter {
	return &Emitter{
		seatClients:    make(map[string][]chan models.SeatStatusEvent),
		bookingClients: make(map[string][]chan models.BookingEvent),
	}
}

// SubscribeSchedule registers a client for seat changes on one bus run.
// The channel is closed once ctx is done.
func (e *Emitter) SubscribeSchedule(ctx context.Context, key models.ScheduleKey) <-chan models.SeatStatusEvent {
	clientChan := make(chan models.SeatStatusEvent, clientBuffer)
	id := key.String()

	e.seatClientMutex.Lock()
	e.seatClients[id] = append(e.seatClients[id], clientChan)
	e.seatClientMutex.Unlock()

	go func() {
		<-ctx.Done()
		e.removeSeatClient(id, clientChan)
	}()
	return clientChan
}

// SubscribeBooking registers a client for lifecycle events of one booking.
func (e *Emitter) SubscribeBooking(ctx context.Context, bookingID string) <-chan models.BookingEvent {
	clientChan := make(chan models.BookingEvent, clientBuffer)

	e.bookingClientMutex.Lock()
	e.bookingClients[bookingID] = append(e.bookingClients[bookingID], clientChan)
	e.bookingClientMutex.Unlock()

	go func() {
		<-ctx.Done()
		e.removeBookingClient(bookingID, clientChan)
	}()
	return clientChan
}

// EmitSeatStatus delivers to every schedule subscriber, dropping the event for clients whose buffer is full.
func (e *Emitter) EmitSeatStatus(event models.SeatStatusEvent) {
	e.seatClientMutex.RLock()
	defer e.seatClientMutex.RUnlock()

	for _, clientChan := range e.seatClients[event.Key().String()] {
		select {
		case clientChan <- event:
		default:
		}
	}
}

func (e *Emitter) EmitBookingEvent(event models.BookingEvent) {
	e.bookingClientMutex.RLock()
	defer e.bookingClientMutex.RUnlock()

	for _, clientChan := range e.bookingClients[event.BookingID] {
		select {
		case clientChan <- event:
		default:
		}
	}
}

// PublishBookingEvent lets the emitter sit beside the Kafka producer as a registry publisher.
func (e *Emitter) PublishBookingEvent(_ context.Context, event models.BookingEvent) error {
	e.EmitBookingEvent(event)
	return nil
}

func (e *Emitter) PublishSeatStatus(_ context.Context, event models.SeatStatusEvent) error {
	e.EmitSeatStatus(event)
	return nil
}

func (e *Emitter) removeSeatClient(id string, clientChan chan models.SeatStatusEvent) {
	e.seatClientMutex.Lock()
	defer e.seatClientMutex.Unlock()

	clients := e.seatClients[id]
	for i, ch := range clients {
		if ch == clientChan {
			e.seatClients[id] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}
	if len(e.seatClients[id]) == 0 {
		delete(e.seatClients, id)
	}
}

func (e *Emitter) removeBookingClient(bookingID string, clientChan chan models.BookingEvent) {
	e.bookingClientMutex.Lock()
	defer e.bookingClientMutex.Unlock()

	clients := e.bookingClients[bookingID]
	for i, ch := range clients {
		if ch == clientChan {
			e.bookingClients[bookingID] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}
	if len(e.bookingClients[bookingID]) == 0 {
		delete(e.bookingClients, bookingID)
	}
}

func (e *Emitter) ScheduleClientCount(key models.ScheduleKey) int {
	e.seatClientMutex.RLock()
	defer e.seatClientMutex.RUnlock()
	return len(e.seatClients[key.String()])
}

func (e *Emitter) BookingClientCount(bookingID string) int {
	e.bookingClientMutex.RLock()
	defer e.bookingClientMutex.RUnlock()
	return len(e.bookingClients[bookingID])
}
