package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"marquee/pkg/model"
)

// Producer publishes reservation events to Kafka, keyed by resource id so
// events for the same seat stay ordered within a partition.
type Producer struct {
	writer *kafka.Writer
	source string
}

type ProducerConfig struct {
	Brokers []string
	Topic   string
	Source  string
}

func NewProducer(cfg ProducerConfig) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		},
		source: cfg.Source,
	}, nil
}

func (p *Producer) PublishBookingCommitted(ctx context.Context, booking model.Booking) error {
	payload, err := json.Marshal(BookingCommitted{
		CatalogID:  booking.CatalogID,
		ResourceID: booking.ResourceID,
		BookedAt:   booking.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(booking.ResourceID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(uuid.NewString())},
			{Key: HeaderEventType, Value: []byte(TypeReservationBooked)},
			{Key: HeaderSource, Value: []byte(p.source)},
		},
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
