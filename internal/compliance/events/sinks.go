package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"fuelguard/internal/platform/kafka/producer"
)

// Producer is the part of the Kafka producer KafkaSink needs.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// KafkaSink writes events as JSON keyed by delivery ID, so every event for
// a delivery lands on the same partition.
type KafkaSink struct {
	producer Producer
	topic    string
}

func NewKafkaSink(p Producer, topic string) *KafkaSink {
	if p == nil {
		panic("events: kafka producer is required")
	}
	return &KafkaSink{producer: p, topic: topic}
}

func (s *KafkaSink) Write(ctx context.Context, e ValidationCompleted) error {
	payload, err := Encode(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return s.producer.Produce(ctx, &producer.Message{
		Topic: s.topic,
		Key:   []byte(e.DeliveryID.String()),
		Value: payload,
		Headers: map[string]string{
			"event_type": EventTypeValidationCompleted,
			"event_id":   e.EventID.String(),
		},
	})
}

// MemorySink keeps events in memory for tests and local runs.
type MemorySink struct {
	mu     sync.Mutex
	events []ValidationCompleted
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(_ context.Context, e ValidationCompleted) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *MemorySink) Events() []ValidationCompleted {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ValidationCompleted, len(s.events))
	copy(out, s.events)
	return out
}

// LogSink records a summary line per event. Used when no broker is configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Write(ctx context.Context, e ValidationCompleted) error {
	s.logger.InfoContext(ctx, "compliance validation completed",
		"event_id", e.EventID,
		"delivery_id", e.DeliveryID,
		"delivery_number", e.DeliveryNumber,
		"score", e.Report.ComplianceScore,
		"compliant", e.Report.IsCompliant,
		"degraded", e.Report.Degraded,
		"certification", e.Report.CertificationStatus.Overall,
	)
	return nil
}
