// Package ledger tracks which booking holds each seat of each schedule.
package ledger

import (
	"context"

	"ms-bus-booking/internal/domain"
	"ms-bus-booking/internal/models"
)

// SeatLedger enforces at most one holder per (schedule, seat).
type SeatLedger interface {
	// AvailableSeats returns the unheld seats of schedule in ascending order.
	AvailableSeats(ctx context.Context, schedule models.Schedule) ([]int, error)
	// HoldSeat fails with a Conflict error when another booking holds the seat and with a
	// Validation error when seat is outside [1, capacity]. Re-holding by the same booking
	// succeeds.
	HoldSeat(ctx context.Context, schedule models.Schedule, seat int, bookingID string) error
	// ReleaseSeat frees the seat. A non-empty bookingID only releases its own hold.
	// Releasing an unheld seat is a no-op.
	ReleaseSeat(ctx context.Context, schedule models.Schedule, seat int, bookingID string) error
	// Holder reports the booking holding the seat, if any.
	Holder(ctx context.Context, schedule models.Schedule, seat int) (string, bool, error)
}

func checkRange(schedule models.Schedule, seat int) error {
	if seat < 1 || seat > schedule.Capacity {
		return domain.Validation("seat_number", "seat %d is out of range [1, %d] for bus %s", seat, schedule.Capacity, schedule.BusID)
	}
	return nil
}

func seatTaken(schedule models.Schedule, seat int) error {
	return domain.Conflict("seat %d on bus %s (%s) is already held by another booking", seat, schedule.BusID, schedule.Date)
}
