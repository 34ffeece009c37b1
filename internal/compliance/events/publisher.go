package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fuelguard/internal/compliance/metrics"
	dErrors "fuelguard/pkg/domain-errors"
)

//go:generate mockgen -source=publisher.go -destination=mocks/mock_sink.go -package=mocks Sink

// Sink delivers events to their destination.
type Sink interface {
	Write(ctx context.Context, e ValidationCompleted) error
}

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("event publisher closed")

// Publisher is safe for concurrent use by many validation runs. In async
// mode events are queued and written by one background worker.
type Publisher struct {
	sink         Sink
	logger       *slog.Logger
	metrics      *metrics.Metrics
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	async  bool
	events chan ValidationCompleted
	wg     sync.WaitGroup
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer queues up to size events for background delivery.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan ValidationCompleted, size)
			p.async = true
		}
	}
}

func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithWriteTimeout bounds each background sink write. Defaults to 10s.
func WithWriteTimeout(d time.Duration) PublisherOption {
	return func(p *Publisher) {
		if d > 0 {
			p.writeTimeout = d
		}
	}
}

func NewPublisher(sink Sink, opts ...PublisherOption) *Publisher {
	if sink == nil {
		panic("events: sink is required")
	}
	p := &Publisher{sink: sink, writeTimeout: 10 * time.Second}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.process()
	}
	return p
}

func (p *Publisher) process() {
	defer p.wg.Done()
	for e := range p.events {
		ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
		err := p.sink.Write(ctx, e)
		cancel()
		p.observe(e, err)
	}
}

// Publish hands e to the sink. In async mode it never blocks: a full buffer
// drops the event and returns an error.
func (p *Publisher) Publish(ctx context.Context, e ValidationCompleted) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	if !p.async {
		err := p.sink.Write(ctx, e)
		p.observe(e, err)
		return err
	}

	select {
	case p.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		if p.metrics != nil {
			p.metrics.RecordEventDropped("buffer_full")
		}
		if p.logger != nil {
			p.logger.WarnContext(ctx, "event buffer full, event dropped",
				"delivery_id", e.DeliveryID,
				"event_id", e.EventID,
			)
		}
		return dErrors.New(dErrors.CodeUnavailable, "event buffer full")
	}
}

func (p *Publisher) observe(e ValidationCompleted, err error) {
	if err == nil {
		if p.metrics != nil {
			p.metrics.RecordEventPublished()
		}
		return
	}
	if p.metrics != nil {
		p.metrics.RecordEventDropped("sink_error")
	}
	if p.logger != nil {
		p.logger.Error("failed to deliver validation event",
			"error", err,
			"delivery_id", e.DeliveryID,
			"event_id", e.EventID,
		)
	}
}

// Close stops accepting events and waits for queued ones to drain.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.async {
		close(p.events)
	}
	p.mu.Unlock()
	p.wg.Wait()
}
