package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-bus-booking/internal/booking/db"
	"ms-bus-booking/internal/domain"
	"ms-bus-booking/internal/models"
)

func setupTestDB(t *testing.T) *db.DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bunDB.Close() })

	store := db.New(bunDB, nil)
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestMigrate_Idempotent(t *testing.T) {
	store := setupTestDB(t)
	assert.NoError(t, store.Migrate(context.Background()))
}

func TestCreateAndGetBooking(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)

	b := &models.Booking{
		BookingID: "bk-1",
		Status:    models.StatusSearched,
		RouteID:   "VOL-MAA-BOM",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.Create(ctx, b))

	got, err := store.Get(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSearched, got.Status)
	assert.Equal(t, "VOL-MAA-BOM", got.RouteID)
	assert.Nil(t, got.Passenger)

	_, err = store.Get(ctx, "missing")
	assert.True(t, domain.IsNotFound(err))
}

func TestUpdateBooking_NestedRecords(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)

	b := &models.Booking{BookingID: "bk-2", Status: models.StatusSearched, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Create(ctx, b))

	b.Status = models.StatusPaid
	b.Schedule = &models.Schedule{RouteID: "VOL-MAA-BOM", BusID: "B1001", Date: "2026-11-02", Capacity: 5}
	b.SeatNumber = 3
	b.Passenger = &models.Passenger{Name: "Asha", Age: 30, Phone: "9876543210"}
	b.Payment = &models.Payment{MaskedCard: "************1111", CardHolder: "Asha", Expiry: "12/29", Amount: 250}
	b.ConfirmationCode = "TKTABCDEF12"
	require.NoError(t, store.Update(ctx, b))

	got, err := store.Get(ctx, "bk-2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, got.Status)
	require.NotNil(t, got.Schedule)
	assert.Equal(t, "B1001", got.Schedule.BusID)
	assert.Equal(t, 3, got.SeatNumber)
	require.NotNil(t, got.Passenger)
	assert.Equal(t, "Asha", got.Passenger.Name)
	require.NotNil(t, got.Payment)
	assert.Equal(t, 250.0, got.Payment.Amount)
	assert.Equal(t, "TKTABCDEF12", got.ConfirmationCode)

	err = store.Update(ctx, &models.Booking{BookingID: "ghost", Status: models.StatusCancelled})
	assert.True(t, domain.IsNotFound(err))
}

func TestListBookings_NewestFirst(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, store.Create(ctx, &models.Booking{BookingID: "a", Status: models.StatusSearched, CreatedAt: base}))
	require.NoError(t, store.Create(ctx, &models.Booking{BookingID: "b", Status: models.StatusSearched, CreatedAt: base.Add(time.Hour)}))

	list, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].BookingID)
	assert.Equal(t, "a", list[1].BookingID)
}

func TestReset_ClearsBookings(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &models.Booking{BookingID: "x", Status: models.StatusSearched}))
	require.NoError(t, store.Reset(ctx))

	_, err := store.Get(ctx, "x")
	assert.True(t, domain.IsNotFound(err))
}
