package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8084", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, LedgerMemory, cfg.Booking.SeatLedger)
	assert.Equal(t, StoreMemory, cfg.Database.Driver)
	assert.Empty(t, cfg.Database.DSN)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "bus.bookings.events", cfg.Kafka.Topics.BookingEvents)
	assert.Equal(t, 7, cfg.Booking.ScheduleWindowDays)
	assert.Empty(t, cfg.Booking.AllowedPhones)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("SEAT_LEDGER", "REDIS")
	t.Setenv("BOOKING_STORE", "sqlite")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("ALLOWED_PHONE_NUMBERS", "9876543210,,1234567890 ")
	t.Setenv("SCHEDULE_WINDOW_DAYS", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.Server.Port)
	assert.Equal(t, LedgerRedis, cfg.Booking.SeatLedger)
	assert.Equal(t, StoreSQLite, cfg.Database.Driver)
	assert.Equal(t, "file::memory:?cache=shared", cfg.Database.DSN)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"9876543210", "1234567890"}, cfg.Booking.AllowedPhones)
	assert.Equal(t, 3, cfg.Booking.ScheduleWindowDays)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestGetEnvInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 42, getEnvInt("SOME_INT", 42))
}
