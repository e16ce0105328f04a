// Package events publishes applied lifecycle decisions for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"pamoja-backend/internal/logger"

	"github.com/segmentio/kafka-go"
)

// Decision is the message written for every applied transition.
type Decision struct {
	Entity     string    `json:"entity"`
	EntityID   int32     `json:"entity_id"`
	Action     string    `json:"action"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OwnerID    int32     `json:"owner_id"`
	ActorID    int32     `json:"actor_id"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Key groups all events of one entity on the same partition.
func (d Decision) Key() []byte {
	return []byte(d.Entity + ":" + strconv.Itoa(int(d.EntityID)))
}

type Publisher interface {
	Publish(ctx context.Context, d Decision) error
	Close() error
}

// New returns a Kafka publisher, or a publisher that drops events when no brokers are configured.
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		logger.Info("No Kafka brokers configured, lifecycle events are discarded")
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 10 * time.Second,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, d Decision) error {
	if d.OccurredAt.IsZero() {
		d.OccurredAt = time.Now().UTC()
	}
	value, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	logger.ExternalServiceCall("kafka", "WriteMessages", "entity", d.Entity, "entityID", d.EntityID)
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   d.Key(),
		Value: value,
		Time:  d.OccurredAt,
	})
	logger.ExternalServiceResult("kafka", "WriteMessages", err)
	return err
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Decision) error { return nil }
func (NopPublisher) Close() error                            { return nil }
