package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer used by Kafka.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes events as JSON, keyed by ticker so a ticker's fits stay
// ordered within a partition.
type Kafka struct {
	writer MessageWriter
	topic  string
}

// NewKafkaWriter builds a synchronous writer hashing messages by key.
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Gzip,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// NewKafka publishes to topic through w.
func NewKafka(w MessageWriter, topic string) (*Kafka, error) {
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	return &Kafka{writer: w, topic: topic}, nil
}

func (k *Kafka) PublishModelFitted(ctx context.Context, e ModelFitted) error {
	v, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Topic: k.topic,
		Key:   []byte(e.Ticker),
		Value: v,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte("model.fitted")},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", e.ArtifactID, k.topic, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	if k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
