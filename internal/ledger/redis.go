package ledger

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"ms-bus-booking/internal/logger"
	"ms-bus-booking/internal/models"
)

const seatLockPrefix = "seat_lock:"

// releaseScript deletes the lock only when it still belongs to the caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLedger shares holds between service instances. Locks carry no TTL: a hold lives
// until the booking is cancelled.
type RedisLedger struct {
	Client *redis.Client
	Logger *logger.Logger
}

func NewRedisLedger(client *redis.Client, log *logger.Logger) *RedisLedger {
	if log == nil {
		log = logger.Discard()
	}
	return &RedisLedger{Client: client, Logger: log}
}

func seatLockKey(key models.SeatKey) string {
	return fmt.Sprintf("%s%s:%s:%d", seatLockPrefix, key.Schedule.BusID, key.Schedule.Date, key.Seat)
}

func (r *RedisLedger) AvailableSeats(ctx context.Context, schedule models.Schedule) ([]int, error) {
	if schedule.Capacity <= 0 {
		return []int{}, nil
	}
	keys := make([]string, schedule.Capacity)
	for n := 1; n <= schedule.Capacity; n++ {
		keys[n-1] = seatLockKey(schedule.Seat(n))
	}

	vals, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read seat locks for %s: %w", schedule.Key(), err)
	}

	seats := make([]int, 0, schedule.Capacity)
	for i, v := range vals {
		if v == nil {
			seats = append(seats, i+1)
		}
	}
	return seats, nil
}

func (r *RedisLedger) HoldSeat(ctx context.Context, schedule models.Schedule, seat int, bookingID string) error {
	if err := checkRange(schedule, seat); err != nil {
		return err
	}
	key := seatLockKey(schedule.Seat(seat))

	ok, err := r.Client.SetNX(ctx, key, bookingID, 0).Result()
	if err != nil {
		return fmt.Errorf("lock seat %s: %w", key, err)
	}
	if ok {
		r.Logger.LogLedger("HOLD", key, "held by "+bookingID)
		return nil
	}

	holder, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		// released between SETNX and GET; try once more
		return r.retryHold(ctx, schedule, seat, key, bookingID)
	}
	if err != nil {
		return fmt.Errorf("read seat lock %s: %w", key, err)
	}
	if holder == bookingID {
		return nil
	}
	r.Logger.LogLedger("HOLD", key, "rejected, held by "+holder)
	return seatTaken(schedule, seat)
}

func (r *RedisLedger) retryHold(ctx context.Context, schedule models.Schedule, seat int, key, bookingID string) error {
	ok, err := r.Client.SetNX(ctx, key, bookingID, 0).Result()
	if err != nil {
		return fmt.Errorf("lock seat %s: %w", key, err)
	}
	if !ok {
		return seatTaken(schedule, seat)
	}
	r.Logger.LogLedger("HOLD", key, "held by "+bookingID)
	return nil
}

func (r *RedisLedger) ReleaseSeat(ctx context.Context, schedule models.Schedule, seat int, bookingID string) error {
	key := seatLockKey(schedule.Seat(seat))

	var (
		n   int64
		err error
	)
	if bookingID == "" {
		n, err = r.Client.Del(ctx, key).Result()
	} else {
		n, err = releaseScript.Run(ctx, r.Client, []string{key}, bookingID).Int64()
	}
	if err != nil {
		return fmt.Errorf("unlock seat %s: %w", key, err)
	}
	if n > 0 {
		r.Logger.LogLedger("RELEASE", key, "released")
	}
	return nil
}

func (r *RedisLedger) Holder(ctx context.Context, schedule models.Schedule, seat int) (string, bool, error) {
	holder, err := r.Client.Get(ctx, seatLockKey(schedule.Seat(seat))).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return holder, true, nil
}
