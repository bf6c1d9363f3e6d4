package ledger

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-bus-booking/internal/domain"
	"ms-bus-booking/internal/models"
)

var b1001 = models.Schedule{RouteID: "VOL-MAA-BOM", BusID: "B1001", Date: "2026-11-01", Capacity: 5}

// setupTestRedis starts an in-memory Redis so the Redis ledger runs without a server.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if err := client.Ping(context.Background()).Err(); err != nil {
		mr.Close()
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

// forEachLedger runs the same contract against every implementation.
func forEachLedger(t *testing.T, fn func(t *testing.T, l SeatLedger)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryLedger(nil))
	})
	t.Run("redis", func(t *testing.T) {
		client, _ := setupTestRedis(t)
		fn(t, NewRedisLedger(client, nil))
	})
}

func assertPartition(t *testing.T, l SeatLedger, schedule models.Schedule) {
	t.Helper()
	ctx := context.Background()
	available, err := l.AvailableSeats(ctx, schedule)
	require.NoError(t, err)

	free := map[int]bool{}
	for _, n := range available {
		free[n] = true
	}
	for n := 1; n <= schedule.Capacity; n++ {
		_, held, err := l.Holder(ctx, schedule, n)
		require.NoError(t, err)
		assert.NotEqual(t, held, free[n], "seat %d must be exactly one of held/available", n)
	}
}

func TestAvailableSeats_AllFreeInitially(t *testing.T) {
	forEachLedger(t, func(t *testing.T, l SeatLedger) {
		seats, err := l.AvailableSeats(context.Background(), b1001)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, seats)
	})
}

func TestHoldSeat_Exclusive(t *testing.T) {
	forEachLedger(t, func(t *testing.T, l SeatLedger) {
		ctx := context.Background()

		require.NoError(t, l.HoldSeat(ctx, b1001, 3, "bk-1"))

		err := l.HoldSeat(ctx, b1001, 3, "bk-2")
		require.Error(t, err)
		assert.True(t, domain.IsConflict(err))

		// same booking may re-hold its own seat
		assert.NoError(t, l.HoldSeat(ctx, b1001, 3, "bk-1"))

		holder, held, err := l.Holder(ctx, b1001, 3)
		require.NoError(t, err)
		assert.True(t, held)
		assert.Equal(t, "bk-1", holder)

		seats, err := l.AvailableSeats(ctx, b1001)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 4, 5}, seats)
		assertPartition(t, l, b1001)
	})
}

func TestHoldSeat_OutOfRange(t *testing.T) {
	forEachLedger(t, func(t *testing.T, l SeatLedger) {
		for _, seat := range []int{0, -1, 6} {
			err := l.HoldSeat(context.Background(), b1001, seat, "bk-1")
			require.Error(t, err, "seat %d", seat)
			assert.True(t, domain.IsValidation(err))
		}
		assertPartition(t, l, b1001)
	})
}

func TestHoldSeat_SchedulesAreIndependent(t *testing.T) {
	forEachLedger(t, func(t *testing.T, l SeatLedger) {
		ctx := context.Background()
		nextDay := b1001
		nextDay.Date = "2026-11-02"

		require.NoError(t, l.HoldSeat(ctx, b1001, 1, "bk-1"))
		assert.NoError(t, l.HoldSeat(ctx, nextDay, 1, "bk-2"))
	})
}

func TestReleaseSeat_IdempotentAndFreesSeat(t *testing.T) {
	forEachLedger(t, func(t *testing.T, l SeatLedger) {
		ctx := context.Background()
		require.NoError(t, l.HoldSeat(ctx, b1001, 2, "bk-1"))

		require.NoError(t, l.ReleaseSeat(ctx, b1001, 2, ""))
		require.NoError(t, l.ReleaseSeat(ctx, b1001, 2, ""))

		seats, err := l.AvailableSeats(ctx, b1001)
		require.NoError(t, err)
		assert.Contains(t, seats, 2)

		// another booking can take it now
		assert.NoError(t, l.HoldSeat(ctx, b1001, 2, "bk-2"))
		assertPartition(t, l, b1001)
	})
}

func TestReleaseSeat_OnlyOwnerWhenScoped(t *testing.T) {
	forEachLedger(t, func(t *testing.T, l SeatLedger) {
		ctx := context.Background()
		require.NoError(t, l.HoldSeat(ctx, b1001, 4, "bk-1"))

		require.NoError(t, l.ReleaseSeat(ctx, b1001, 4, "bk-2"))
		holder, held, err := l.Holder(ctx, b1001, 4)
		require.NoError(t, err)
		assert.True(t, held)
		assert.Equal(t, "bk-1", holder)

		require.NoError(t, l.ReleaseSeat(ctx, b1001, 4, "bk-1"))
		_, held, err = l.Holder(ctx, b1001, 4)
		require.NoError(t, err)
		assert.False(t, held)
	})
}

func TestHoldSeat_ConcurrentSingleWinner(t *testing.T) {
	forEachLedger(t, func(t *testing.T, l SeatLedger) {
		const attempts = 50
		var (
			wg        sync.WaitGroup
			winners   int32
			conflicts int32
		)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				err := l.HoldSeat(context.Background(), b1001, 5, fmt.Sprintf("bk-%d", n))
				switch {
				case err == nil:
					atomic.AddInt32(&winners, 1)
				case domain.IsConflict(err):
					atomic.AddInt32(&conflicts, 1)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), winners)
		assert.Equal(t, int32(attempts-1), conflicts)
	})
}

func TestRedisLedger_KeyLayout(t *testing.T) {
	client, mr := setupTestRedis(t)
	l := NewRedisLedger(client, nil)

	require.NoError(t, l.HoldSeat(context.Background(), b1001, 3, "bk-1"))

	val, err := mr.Get("seat_lock:B1001:2026-11-01:3")
	require.NoError(t, err)
	assert.Equal(t, "bk-1", val)
	assert.Zero(t, mr.TTL("seat_lock:B1001:2026-11-01:3"), "holds do not expire")
}
