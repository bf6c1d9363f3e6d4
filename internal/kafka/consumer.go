package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"ms-bus-booking/internal/config"
	"ms-bus-booking/internal/logger"
	"ms-bus-booking/internal/models"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// SeatStatusConsumer replays seat changes made by other instances so local SSE
// subscribers see the whole fleet.
type SeatStatusConsumer struct {
	reader   messageReader
	instance string
	logger   *logger.Logger
}

// NewSeatStatusConsumer joins a group unique to this instance; every instance reads every message.
func NewSeatStatusConsumer(cfg config.KafkaConfig, log *logger.Logger) *SeatStatusConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topics.SeatStatus,
		GroupID:     "bus-booking-" + cfg.InstanceID,
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB
	})
	return newSeatStatusConsumer(reader, cfg.InstanceID, log)
}

func newSeatStatusConsumer(r messageReader, instance string, log *logger.Logger) *SeatStatusConsumer {
	if log == nil {
		log = logger.Discard()
	}
	return &SeatStatusConsumer{reader: r, instance: instance, logger: log}
}

// Start blocks until ctx is cancelled, calling handler for each foreign seat event.
func (c *SeatStatusConsumer) Start(ctx context.Context, handler func(models.SeatStatusEvent)) {
	c.logger.LogKafka("CONSUME", "seats", "🔄 seat status consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.logger.LogKafka("CONSUME", "seats", "seat status consumer stopped")
				return
			}
			c.logger.Error("KAFKA", fmt.Sprintf("❌ Error reading message: %v", err))
			continue
		}

		if origin(msg) == c.instance {
			continue
		}

		var event models.SeatStatusEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Warn("KAFKA", fmt.Sprintf("⚠️ Failed to unmarshal seat event: %v", err))
			continue
		}
		handler(event)
	}
}

func (c *SeatStatusConsumer) Close() error {
	return c.reader.Close()
}

func origin(msg kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == OriginHeader {
			return string(h.Value)
		}
	}
	return ""
}
