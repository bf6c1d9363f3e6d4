package models

import "time"

type Ticket struct {
	TicketID         string    `json:"ticket_id"`
	BookingID        string    `json:"booking_id"`
	ConfirmationCode string    `json:"confirmation_code"`
	Operator         string    `json:"operator"`
	Route            string    `json:"route"`
	BusID            string    `json:"bus_id"`
	Date             string    `json:"date"`
	Departure        string    `json:"departure"`
	SeatNumber       int       `json:"seat_number"`
	PassengerName    string    `json:"passenger_name"`
	Amount           float64   `json:"amount"`
	IssuedAt         time.Time `json:"issued_at"`
}
