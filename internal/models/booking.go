package models

import (
	"time"

	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	StatusSearched         BookingStatus = "SEARCHED"
	StatusBusChosen        BookingStatus = "BUS_CHOSEN"
	StatusSeatHeld         BookingStatus = "SEAT_HELD"
	StatusPassengerEntered BookingStatus = "PASSENGER_ENTERED"
	StatusPaid             BookingStatus = "PAID"
	StatusConfirmed        BookingStatus = "CONFIRMED"
	StatusCancelled        BookingStatus = "CANCELLED"
)

// Settled reports whether no transition can change the booking any more.
func (s BookingStatus) Settled() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// Terminal reports whether no further cancellation is possible.
func (s BookingStatus) Terminal() bool {
	return s == StatusPaid || s == StatusConfirmed || s == StatusCancelled
}

type Passenger struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone_number"`
}

// Payment keeps only the masked card; CVV and the full number are never stored.
type Payment struct {
	MaskedCard string    `json:"masked_card"`
	CardHolder string    `json:"card_holder"`
	Expiry     string    `json:"expiry_date"`
	Amount     float64   `json:"amount"`
	PaidAt     time.Time `json:"paid_at"`
}

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	BookingID        string        `bun:"booking_id,pk" json:"booking_id"`
	Status           BookingStatus `bun:"status,notnull" json:"status"`
	RouteID          string        `bun:"route_id" json:"route_id,omitempty"`
	SearchDate       string        `bun:"search_date" json:"search_date,omitempty"`
	Schedule         *Schedule     `bun:"schedule,type:json" json:"schedule,omitempty"`
	SeatNumber       int           `bun:"seat_number" json:"seat_number,omitempty"`
	Passenger        *Passenger    `bun:"passenger,type:json" json:"passenger,omitempty"`
	Payment          *Payment      `bun:"payment,type:json" json:"payment,omitempty"`
	ConfirmationCode string        `bun:"confirmation_code" json:"confirmation_code,omitempty"`
	Ticket           *Ticket       `bun:"ticket,type:json" json:"ticket,omitempty"`
	CreatedAt        time.Time     `bun:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `bun:"updated_at" json:"updated_at"`
}

// HoldsSeat reports whether the booking currently owns a seat in the ledger.
func (b *Booking) HoldsSeat() bool {
	return b.Schedule != nil && b.SeatNumber > 0 && b.Status != StatusCancelled
}

// Clone returns a deep copy so stores never share nested records with callers.
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	if b.Schedule != nil {
		s := *b.Schedule
		c.Schedule = &s
	}
	if b.Passenger != nil {
		p := *b.Passenger
		c.Passenger = &p
	}
	if b.Payment != nil {
		p := *b.Payment
		c.Payment = &p
	}
	if b.Ticket != nil {
		t := *b.Ticket
		c.Ticket = &t
	}
	return &c
}
