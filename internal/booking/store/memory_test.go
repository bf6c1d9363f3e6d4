package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-bus-booking/internal/domain"
	"ms-bus-booking/internal/models"
)

func TestMemoryStore_CreateGetIsolated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	b := &models.Booking{
		BookingID: "bk-1",
		Status:    models.StatusBusChosen,
		Schedule:  &models.Schedule{BusID: "B1001", Date: "2026-11-02", Capacity: 5},
	}
	require.NoError(t, s.Create(ctx, b))

	b.Schedule.BusID = "mutated"
	got, err := s.Get(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "B1001", got.Schedule.BusID)

	got.Status = models.StatusCancelled
	again, err := s.Get(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusBusChosen, again.Status)
}

func TestMemoryStore_DuplicateAndMissing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &models.Booking{BookingID: "bk-1"}))
	assert.True(t, domain.IsConflict(s.Create(ctx, &models.Booking{BookingID: "bk-1"})))

	_, err := s.Get(ctx, "nope")
	assert.True(t, domain.IsNotFound(err))
	assert.True(t, domain.IsNotFound(s.Update(ctx, &models.Booking{BookingID: "nope"})))

	_, err = s.Get(ctx, "nope")
	assert.True(t, domain.IsNotFound(err), "update of a missing booking must not create it")
}

func TestMemoryStore_UpdateAndList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Create(ctx, &models.Booking{BookingID: "old", CreatedAt: base}))
	require.NoError(t, s.Create(ctx, &models.Booking{BookingID: "new", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, s.Update(ctx, &models.Booking{BookingID: "old", Status: models.StatusCancelled, CreatedAt: base}))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].BookingID)
	assert.Equal(t, models.StatusCancelled, list[1].Status)
}
