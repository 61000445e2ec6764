package repository

import (
	"context"

	"PortfolioOne/internal/domain/models"
	"PortfolioOne/internal/domain/repository"
	pkgkafka "PortfolioOne/pkg/kafka"
)

// KafkaRegimePublisher implements RegimePublisher for Kafka.
type KafkaRegimePublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaRegimePublisher creates a Kafka regime change publisher.
func NewKafkaRegimePublisher(producer *pkgkafka.Producer, topic string) repository.RegimePublisher {
	return &KafkaRegimePublisher{producer: producer, topic: topic}
}

// PublishChange emits one transition event, keyed by ticker so a single
// partition preserves transition order per instrument.
func (p *KafkaRegimePublisher) PublishChange(ctx context.Context, ev *models.RegimeChangeEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Ticker), ev)
}

func (p *KafkaRegimePublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// PublishMessage satisfies logger.Publisher so aggregated logs can share the
// producer.
func (p *KafkaRegimePublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}
