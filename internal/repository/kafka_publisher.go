package repository

import (
	"context"
	"fmt"

	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
	"github.com/skymike/crypto-risk-dashboard/pkg/kafka"
)

// KafkaVerdictPublisher emits signal verdicts to a Kafka topic, keyed by pair
// so downstream consumers see per-pair ordering.
type KafkaVerdictPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaVerdictPublisher wraps a producer for the given topic.
func NewKafkaVerdictPublisher(producer *kafka.Producer, topic string) *KafkaVerdictPublisher {
	return &KafkaVerdictPublisher{producer: producer, topic: topic}
}

// Publish sends one verdict as JSON.
func (p *KafkaVerdictPublisher) Publish(ctx context.Context, v models.SignalVerdict) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(v.Pair), v); err != nil {
		return fmt.Errorf("publish verdict %s: %w", v.Pair, err)
	}
	return nil
}

// Close closes the underlying producer.
func (p *KafkaVerdictPublisher) Close() error {
	return p.producer.Close()
}

// NopVerdictPublisher discards verdicts. Used when no brokers are configured.
type NopVerdictPublisher struct{}

func (NopVerdictPublisher) Publish(context.Context, models.SignalVerdict) error { return nil }
func (NopVerdictPublisher) Close() error                                        { return nil }
