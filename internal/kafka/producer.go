package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"ms-bus-booking/internal/config"
	"ms-bus-booking/internal/logger"
	"ms-bus-booking/internal/models"
)

// OriginHeader carries the id of the instance that produced a message.
const OriginHeader = "origin"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer   messageWriter
	topics   config.TopicConfig
	instance string
	logger   *logger.Logger
}

func NewProducer(cfg config.KafkaConfig, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return newProducer(writer, cfg, log)
}

func newProducer(w messageWriter, cfg config.KafkaConfig, log *logger.Logger) *Producer {
	if log == nil {
		log = logger.Discard()
	}
	return &Producer{writer: w, topics: cfg.Topics, instance: cfg.InstanceID, logger: log}
}

// PublishBookingEvent streams a lifecycle transition keyed by booking id.
func (p *Producer) PublishBookingEvent(ctx context.Context, event models.BookingEvent) error {
	return p.publish(ctx, p.topics.BookingEvents, event.BookingID, event)
}

// PublishSeatStatus streams a seat change keyed by schedule so one run stays ordered.
func (p *Producer) PublishSeatStatus(ctx context.Context, event models.SeatStatusEvent) error {
	return p.publish(ctx, p.topics.SeatStatus, event.Key().String(), event)
}

func (p *Producer) publish(ctx context.Context, topic, key string, payload any) error {
	msgBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", topic, err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: msgBytes,
	}
	if p.instance != "" {
		msg.Headers = []kafka.Header{{Key: OriginHeader, Value: []byte(p.instance)}}
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to %s: %w", topic, err)
	}
	p.logger.LogKafka("PUBLISH", topic, fmt.Sprintf("key=%s", key))
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
