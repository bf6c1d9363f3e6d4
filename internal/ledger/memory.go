package ledger

import (
	"context"
	"sync"

	"ms-bus-booking/internal/logger"
	"ms-bus-booking/internal/models"
)

// MemoryLedger keeps holds in process memory.
type MemoryLedger struct {
	mu     sync.Mutex
	holds  map[models.SeatKey]string
	Logger *logger.Logger
}

func NewMemoryLedger(log *logger.Logger) *MemoryLedger {
	if log == nil {
		log = logger.Discard()
	}
	return &MemoryLedger{
		holds:  make(map[models.SeatKey]string),
		Logger: log,
	}
}

func (m *MemoryLedger) AvailableSeats(_ context.Context, schedule models.Schedule) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seats := make([]int, 0, schedule.Capacity)
	for n := 1; n <= schedule.Capacity; n++ {
		if _, held := m.holds[schedule.Seat(n)]; !held {
			seats = append(seats, n)
		}
	}
	return seats, nil
}

func (m *MemoryLedger) HoldSeat(_ context.Context, schedule models.Schedule, seat int, bookingID string) error {
	if err := checkRange(schedule, seat); err != nil {
		return err
	}
	key := schedule.Seat(seat)

	m.mu.Lock()
	defer m.mu.Unlock()

	if holder, held := m.holds[key]; held {
		if holder == bookingID {
			return nil
		}
		m.Logger.LogLedger("HOLD", key.String(), "rejected, held by "+holder)
		return seatTaken(schedule, seat)
	}
	m.holds[key] = bookingID
	m.Logger.LogLedger("HOLD", key.String(), "held by "+bookingID)
	return nil
}

func (m *MemoryLedger) ReleaseSeat(_ context.Context, schedule models.Schedule, seat int, bookingID string) error {
	key := schedule.Seat(seat)

	m.mu.Lock()
	defer m.mu.Unlock()

	holder, held := m.holds[key]
	if !held {
		return nil
	}
	if bookingID != "" && holder != bookingID {
		return nil
	}
	delete(m.holds, key)
	m.Logger.LogLedger("RELEASE", key.String(), "released from "+holder)
	return nil
}

func (m *MemoryLedger) Holder(_ context.Context, schedule models.Schedule, seat int) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	holder, held := m.holds[schedule.Seat(seat)]
	return holder, held, nil
}
