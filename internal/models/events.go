package models

import "time"

type SeatStatus string

const (
	SeatHeld      SeatStatus = "HELD"
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatBooked    SeatStatus = "BOOKED"
)

// SeatStatusEvent is published whenever seats on a schedule change hands.
type SeatStatusEvent struct {
	BusID      string     `json:"bus_id"`
	Date       string     `json:"date"`
	Seats      []int      `json:"seats"`
	Status     SeatStatus `json:"status"`
	BookingID  string     `json:"booking_id,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

func (e SeatStatusEvent) Key() ScheduleKey {
	return ScheduleKey{BusID: e.BusID, Date: e.Date}
}

func NewSeatStatusEvent(schedule ScheduleKey, seats []int, status SeatStatus, bookingID string, at time.Time) SeatStatusEvent {
	return SeatStatusEvent{
		BusID:      schedule.BusID,
		Date:       schedule.Date,
		Seats:      seats,
		Status:     status,
		BookingID:  bookingID,
		OccurredAt: at,
	}
}

// BookingEvent mirrors one lifecycle transition.
type BookingEvent struct {
	Type       string        `json:"type"`
	BookingID  string        `json:"booking_id"`
	Status     BookingStatus `json:"status"`
	Schedule   *ScheduleKey  `json:"schedule,omitempty"`
	SeatNumber int           `json:"seat_number,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func NewBookingEvent(b *Booking, at time.Time) BookingEvent {
	ev := BookingEvent{
		Type:       "booking." + string(b.Status),
		BookingID:  b.BookingID,
		Status:     b.Status,
		SeatNumber: b.SeatNumber,
		OccurredAt: at,
	}
	if b.Schedule != nil {
		key := b.Schedule.Key()
		ev.Schedule = &key
	}
	return ev
}
