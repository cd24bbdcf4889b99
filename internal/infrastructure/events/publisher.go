// Package events publishes order changes for kitchen displays.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher sends order events somewhere.
type Publisher interface {
	Publish(ctx context.Context, event entity.OrderEvent) error
	Close() error
}

// KafkaPublisher writes events keyed by order id, so one order's events stay in one partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

var _ Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a synchronous writer for topic.
func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 5 * time.Second,
			MaxAttempts:  3,
			RequiredAcks: kafka.RequireOne,
			ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
				logger.Warn(fmt.Sprintf(msg, args...), zap.String("component", "kafka"))
			}),
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event entity.OrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.Type, err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, entity.OrderEvent) error { return nil }
func (NopPublisher) Close() error                                     { return nil }
