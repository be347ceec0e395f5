// Package kafka wraps segmentio/kafka-go with the CloudEvents envelope used
// across Vitesse services.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// CloudEvent is the envelope all inter-service events travel in.
type CloudEvent struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	SpecVersion string          `json:"specversion"`
	Type        string          `json:"type"`
	Time        time.Time       `json:"time"`
	Data        json.RawMessage `json:"data"`
}

// NewCloudEvent builds a CloudEvent around the given payload.
func NewCloudEvent(source, eventType string, data interface{}) (CloudEvent, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return CloudEvent{}, fmt.Errorf("marshal event data: %w", err)
	}
	return CloudEvent{
		ID:          uuid.New().String(),
		Source:      source,
		SpecVersion: "1.0",
		Type:        eventType,
		Time:        time.Now().UTC(),
		Data:        payload,
	}, nil
}

// ParseCloudEvent decodes a raw Kafka message value into a CloudEvent.
func ParseCloudEvent(value []byte) (CloudEvent, error) {
	var event CloudEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return CloudEvent{}, fmt.Errorf("parse cloud event: %w", err)
	}
	return event, nil
}

// ParseData decodes the event payload into the given target.
func (e CloudEvent) ParseData(target interface{}) error {
	if err := json.Unmarshal(e.Data, target); err != nil {
		return fmt.Errorf("parse event data for %s: %w", e.Type, err)
	}
	return nil
}

// Producer publishes CloudEvents to one topic.
type Producer struct {
	writer *kafkago.Writer
	source string
	log    *zap.Logger
}

// NewProducer creates a producer for the given topic.
func NewProducer(brokers []string, topic, source string, log *zap.Logger) *Producer {
	return &Producer{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
		source: source,
		log:    log,
	}
}

// PublishEvent wraps the payload in a CloudEvent and writes it, keyed so all
// events for one aggregate land on the same partition.
func (p *Producer) PublishEvent(ctx context.Context, key, eventType string, data interface{}) error {
	event, err := NewCloudEvent(p.source, eventType, data)
	if err != nil {
		return err
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal cloud event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	p.log.Debug("event published",
		zap.String("type", eventType),
		zap.String("key", key),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// Consumer reads CloudEvents from one topic within a consumer group.
type Consumer struct {
	reader *kafkago.Reader
	log    *zap.Logger
}

// NewConsumer creates a consumer group reader for the given topic.
func NewConsumer(brokers []string, topic, groupID string, log *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  500 * time.Millisecond,
		}),
		log: log,
	}
}

// Consume reads messages until the context is cancelled, passing each parsed
// event to the handler. Handler errors are logged and the offset is committed
// anyway; consumers must be idempotent.
func (c *Consumer) Consume(ctx context.Context, handler func(ctx context.Context, event CloudEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read message: %w", err)
		}

		event, err := ParseCloudEvent(msg.Value)
		if err != nil {
			c.log.Warn("skipping malformed event",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
			)
			continue
		}

		if err := handler(ctx, event); err != nil {
			c.log.Error("event handler failed",
				zap.Error(err),
				zap.String("type", event.Type),
				zap.String("id", event.ID),
			)
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
