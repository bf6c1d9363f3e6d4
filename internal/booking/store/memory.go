package store

import (
	"context"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"

	"ms-bus-booking/internal/domain"
	"ms-bus-booking/internal/models"
)

// MemoryStore keeps bookings in process. Callers always get copies.
type MemoryStore struct {
	bookings *xsync.MapOf[string, *models.Booking]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bookings: xsync.NewMapOf[string, *models.Booking]()}
}

func (s *MemoryStore) Create(_ context.Context, b *models.Booking) error {
	if _, loaded := s.bookings.LoadOrStore(b.BookingID, b.Clone()); loaded {
		return domain.Conflict("booking %s already exists", b.BookingID)
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Booking, error) {
	b, ok := s.bookings.Load(id)
	if !ok {
		return nil, domain.NotFound("booking %s not found", id)
	}
	return b.Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, b *models.Booking) error {
	var missing bool
	s.bookings.Compute(b.BookingID, func(old *models.Booking, loaded bool) (*models.Booking, bool) {
		if !loaded {
			missing = true
			return nil, true
		}
		return b.Clone(), false
	})
	if missing {
		return domain.NotFound("booking %s not found", b.BookingID)
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*models.Booking, error) {
	out := make([]*models.Booking, 0, s.bookings.Size())
	s.bookings.Range(func(_ string, b *models.Booking) bool {
		out = append(out, b.Clone())
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].BookingID < out[j].BookingID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
