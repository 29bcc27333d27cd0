// Package kafka publishes order integration events with a sarama SyncProducer.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"partnerdelivery/internal/core/ports"

	"github.com/IBM/sarama"
)

const DefaultOrderChangedTopic = "partnerdelivery.order-changed"

// NewProducerConfig returns the producer settings the publisher expects. Successes must be
// returned for a SyncProducer.
func NewProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Retry.Backoff = 100 * time.Millisecond
	config.Producer.Return.Successes = true
	config.Net.DialTimeout = 10 * time.Second
	config.Net.ReadTimeout = 10 * time.Second
	config.Net.WriteTimeout = 10 * time.Second
	return config
}

// OrderEventPublisher implements ports.EventPublisher. Messages are keyed by order id so
// every change of one order lands on the same partition.
type OrderEventPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewOrderEventPublisher connects a SyncProducer to brokers.
func NewOrderEventPublisher(brokers []string, topic string) (*OrderEventPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewOrderEventPublisherWithProducer(producer, topic), nil
}

func NewOrderEventPublisherWithProducer(producer sarama.SyncProducer, topic string) *OrderEventPublisher {
	if topic == "" {
		topic = DefaultOrderChangedTopic
	}
	return &OrderEventPublisher{producer: producer, topic: topic}
}

func (p *OrderEventPublisher) PublishOrderChanged(ctx context.Context, event ports.OrderChanged) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order changed: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.OrderID),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: event.OccurredAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte("order.changed")},
		},
	})
	if err != nil {
		return fmt.Errorf("send to %s: %w", p.topic, err)
	}
	return nil
}

func (p *OrderEventPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
