package models

import "fmt"

type Route struct {
	ID          string `json:"route_id"`
	Operator    string `json:"operator"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// Name renders the route the way operators advertise it, e.g. "Chennai - Mumbai".
func (r Route) Name() string {
	return fmt.Sprintf("%s - %s", r.Origin, r.Destination)
}

type Bus struct {
	ID        string  `json:"bus_id"`
	RouteID   string  `json:"route_id"`
	Name      string  `json:"name"`
	Capacity  int     `json:"capacity"`
	Fare      float64 `json:"fare"`
	Departure string  `json:"departure"`
}

// ScheduleKey identifies one run of a bus.
type ScheduleKey struct {
	BusID string `json:"bus_id"`
	Date  string `json:"date"`
}

func (k ScheduleKey) String() string {
	return k.BusID + ":" + k.Date
}

// SeatKey identifies one seat on one run.
type SeatKey struct {
	Schedule ScheduleKey `json:"schedule"`
	Seat     int         `json:"seat_number"`
}

func (k SeatKey) String() string {
	return fmt.Sprintf("%s:%d", k.Schedule, k.Seat)
}

// Schedule is a bus run of a route on one date. Capacity is fixed by the catalog.
type Schedule struct {
	RouteID  string `json:"route_id"`
	BusID    string `json:"bus_id"`
	Date     string `json:"date"`
	Capacity int    `json:"capacity"`
}

func (s Schedule) Key() ScheduleKey {
	return ScheduleKey{BusID: s.BusID, Date: s.Date}
}

func (s Schedule) Seat(n int) SeatKey {
	return SeatKey{Schedule: s.Key(), Seat: n}
}

type ScheduleSummary struct {
	RouteID        string  `json:"route_id"`
	BusID          string  `json:"bus_id"`
	BusName        string  `json:"bus_name"`
	Date           string  `json:"date"`
	Departure      string  `json:"departure"`
	Capacity       int     `json:"capacity"`
	AvailableSeats int     `json:"available_seats"`
	Fare           float64 `json:"fare"`
}

type SeatAvailability struct {
	BusID          string `json:"bus_id"`
	Date           string `json:"date"`
	Capacity       int    `json:"capacity"`
	AvailableSeats []int  `json:"available_seats"`
}
