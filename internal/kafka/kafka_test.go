package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-bus-booking/internal/config"
	"ms-bus-booking/internal/models"
)

type recordingWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

type scriptedReader struct {
	msgs []kafka.Message
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *scriptedReader) Close() error { return nil }

func testKafkaConfig() config.KafkaConfig {
	return config.KafkaConfig{
		InstanceID: "node-a",
		Topics:     config.TopicConfig{BookingEvents: "bus.bookings.events", SeatStatus: "bus.seats.status"},
	}
}

func TestProducer_PublishBookingEvent(t *testing.T) {
	w := &recordingWriter{}
	p := newProducer(w, testKafkaConfig(), nil)

	event := models.BookingEvent{Type: "booking.SEAT_HELD", BookingID: "bk-1", Status: models.StatusSeatHeld, SeatNumber: 3}
	require.NoError(t, p.PublishBookingEvent(context.Background(), event))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "bus.bookings.events", msg.Topic)
	assert.Equal(t, "bk-1", string(msg.Key))
	assert.Equal(t, "node-a", origin(msg))

	var decoded models.BookingEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.Type, decoded.Type)
	assert.Equal(t, 3, decoded.SeatNumber)
}

func TestProducer_PublishSeatStatusKeyedBySchedule(t *testing.T) {
	w := &recordingWriter{}
	p := newProducer(w, testKafkaConfig(), nil)

	event := models.NewSeatStatusEvent(models.ScheduleKey{BusID: "B1001", Date: "2026-11-02"}, []int{3}, models.SeatHeld, "bk-1", time.Now())
	require.NoError(t, p.PublishSeatStatus(context.Background(), event))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "bus.seats.status", w.msgs[0].Topic)
	assert.Equal(t, "B1001:2026-11-02", string(w.msgs[0].Key))
}

func TestProducer_WriteErrorReturned(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	p := newProducer(w, testKafkaConfig(), nil)

	err := p.PublishBookingEvent(context.Background(), models.BookingEvent{BookingID: "bk-1"})
	assert.ErrorContains(t, err, "leader not available")
}

func TestSeatStatusConsumer_SkipsOwnAndBadMessages(t *testing.T) {
	foreign, err := json.Marshal(models.SeatStatusEvent{BusID: "B1001", Date: "2026-11-02", Seats: []int{4}, Status: models.SeatBooked})
	require.NoError(t, err)
	own, err := json.Marshal(models.SeatStatusEvent{BusID: "B1001", Date: "2026-11-02", Seats: []int{1}, Status: models.SeatHeld})
	require.NoError(t, err)

	reader := &scriptedReader{msgs: []kafka.Message{
		{Value: own, Headers: []kafka.Header{{Key: OriginHeader, Value: []byte("node-a")}}},
		{Value: []byte("{not json")},
		{Value: foreign, Headers: []kafka.Header{{Key: OriginHeader, Value: []byte("node-b")}}},
	}}
	c := newSeatStatusConsumer(reader, "node-a", nil)

	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan models.SeatStatusEvent, 3)
	done := make(chan struct{})
	go func() {
		c.Start(ctx, func(e models.SeatStatusEvent) { received <- e })
		close(done)
	}()

	select {
	case e := <-received:
		assert.Equal(t, []int{4}, e.Seats)
		assert.Equal(t, models.SeatBooked, e.Status)
	case <-time.After(time.Second):
		t.Fatal("foreign seat event not delivered")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop on cancel")
	}
	assert.Empty(t, received)
}
