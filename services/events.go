package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	EventNoteCreated    = "note.created"
	EventNoteUpdated    = "note.updated"
	EventNoteDeleted    = "note.deleted"
	EventCommentCreated = "comment.created"
	EventCommentUpdated = "comment.updated"
	EventCommentDeleted = "comment.deleted"
	EventNewsCreated    = "news.created"
	EventUserRegistered = "user.registered"
)

type Event struct {
	Type       string    `json:"type"`
	EntityID   string    `json:"entity_id"`
	AuthorID   string    `json:"author_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher announces domain changes. Publishing is best effort;
// callers log failures and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.EntityID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to send message to kafka: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}

// EnsureTopic creates the topic on the first reachable broker.
func EnsureTopic(brokers []string, topic string, log *slog.Logger) error {
	var lastErr error
	for _, broker := range brokers {
		conn, err := kafka.Dial("tcp", broker)
		if err != nil {
			lastErr = fmt.Errorf("failed to connect to kafka broker: %w", err)
			continue
		}
		err = conn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
		conn.Close()
		if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
			lastErr = fmt.Errorf("failed to create Kafka topic '%s': %w", topic, err)
			continue
		}
		log.Info("kafka topic ready", slog.String("topic", topic))
		return nil
	}
	return lastErr
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
