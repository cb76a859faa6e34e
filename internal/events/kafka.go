// Package events publishes domain events to Kafka. Delivery is best-effort:
// the ledger transaction has already committed by the time an event goes
// out, and callers only log publish failures.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"propledger/pkg/contracts/events"
	"propledger/pkg/contracts/topics"
)

type KafkaPublisher struct {
	placed  *kafka.Writer
	settled *kafka.Writer
}

func NewKafkaPublisher(brokers string) *KafkaPublisher {
	return &KafkaPublisher{
		placed:  newWriter(brokers, topics.WagerPlaced),
		settled: newWriter(brokers, topics.WagerSettled),
	}
}

func newWriter(brokers, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

func (p *KafkaPublisher) PublishWagerPlaced(ctx context.Context, e events.WagerPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()

	return writeJSON(ctx, p.placed, e.WagerID, e)
}

func (p *KafkaPublisher) PublishWagerSettled(ctx context.Context, e events.WagerSettled) error {
	e.TsUnixMs = time.Now().UnixMilli()

	return writeJSON(ctx, p.settled, e.WagerID, e)
}

func (p *KafkaPublisher) Close() error {
	perr := p.placed.Close()
	serr := p.settled.Close()
	if perr != nil {
		return perr
	}

	return serr
}

func writeJSON(ctx context.Context, w *kafka.Writer, key string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	err = w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: b,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}

	return nil
}
