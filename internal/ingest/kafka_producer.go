// Package ingest forwards GPS samples to Kafka for downstream
// analytics.
package ingest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"petwalk/internal/domain"
)

// KafkaProducer publishes route points to a Kafka topic keyed by
// booking ID, preserving per-booking ordering.
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer creates a producer for the given brokers and topic.
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	w := kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: topic, Balancer: &kafka.LeastBytes{}})
	return &KafkaProducer{writer: w}
}

// PublishRoutePoint sends one GPS sample.
func (k *KafkaProducer) PublishRoutePoint(point *domain.RoutePoint) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	b, err := json.Marshal(point)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(point.BookingID), Value: b})
}

// Close flushes and closes the underlying writer.
func (k *KafkaProducer) Close() error {
	if k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
