// Package event provides an asynchronous pub/sub bus used to observe
// mailbox mutations.
package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Subscriber handles events.
type Subscriber interface {
	// ID returns a unique identifier for this subscriber.
	ID() string

	// Handle processes an event.
	Handle(ctx context.Context, event Event) error
}

// SubscriberFunc is a function that implements Subscriber.
type SubscriberFunc struct {
	id      string
	handler func(ctx context.Context, event Event) error
}

// NewSubscriberFunc creates a new function-based subscriber.
func NewSubscriberFunc(id string, handler func(ctx context.Context, event Event) error) *SubscriberFunc {
	return &SubscriberFunc{id: id, handler: handler}
}

// ID returns the subscriber ID.
func (s *SubscriberFunc) ID() string { return s.id }

// Handle calls the handler function.
func (s *SubscriberFunc) Handle(ctx context.Context, event Event) error {
	return s.handler(ctx, event)
}

// BusConfig holds event bus configuration.
type BusConfig struct {
	Workers   int
	QueueSize int
}

// DefaultBusConfig returns the default configuration.
func DefaultBusConfig() BusConfig {
	return BusConfig{Workers: 2, QueueSize: 256}
}

// Bus fans events out to subscribers from a small worker pool. Publishing
// never blocks; when the queue is full the event is dropped and logged.
type Bus struct {
	subscribers map[string][]Subscriber
	queue       chan Event
	config      BusConfig
	logger      *slog.Logger
	mu          sync.RWMutex
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	started     bool
}

// NewBus creates a new event bus.
func NewBus(config BusConfig, logger *slog.Logger) *Bus {
	if config.Workers <= 0 {
		config.Workers = DefaultBusConfig().Workers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultBusConfig().QueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bus{
		subscribers: make(map[string][]Subscriber),
		queue:       make(chan Event, config.QueueSize),
		config:      config,
		logger:      logger.With("component", "event-bus"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Subscribe adds a subscriber for an event type. Use "*" to subscribe to
// all events.
func (b *Bus) Subscribe(eventType string, subscriber Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[eventType] = append(b.subscribers[eventType], subscriber)
	b.logger.Debug("subscriber added",
		"event_type", eventType,
		"subscriber_id", subscriber.ID(),
	)
}

// Publish sends an event to the bus asynchronously.
func (b *Bus) Publish(eventType string, data any) {
	select {
	case b.queue <- NewEvent(eventType, data):
	default:
		b.logger.Warn("event queue full, dropping event", "type", eventType)
	}
}

// PublishSync publishes and waits for all handlers to complete.
func (b *Bus) PublishSync(ctx context.Context, eventType string, data any) error {
	return b.dispatch(ctx, NewEvent(eventType, data))
}

// Start starts the event bus workers.
func (b *Bus) Start() {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return
	}
	b.started = true
	b.mu.Unlock()

	b.logger.Info("starting event bus", "workers", b.config.Workers)
	for i := 0; i < b.config.Workers; i++ {
		b.wg.Add(1)
		go b.worker(i)
	}
}

// Stop stops the event bus gracefully, draining the queue.
func (b *Bus) Stop() {
	b.cancel()
	close(b.queue)
	b.wg.Wait()
	b.logger.Info("event bus stopped")
}

func (b *Bus) worker(id int) {
	defer b.wg.Done()

	for ev := range b.queue {
		if err := b.dispatch(b.ctx, ev); err != nil {
			b.logger.Error("event dispatch failed",
				"worker", id,
				"event", ev.Type(),
				"error", err,
			)
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, ev Event) error {
	b.mu.RLock()
	subs := make([]Subscriber, 0, len(b.subscribers[ev.Type()])+len(b.subscribers["*"]))
	subs = append(subs, b.subscribers[ev.Type()]...)
	subs = append(subs, b.subscribers["*"]...)
	b.mu.RUnlock()

	var errs []error
	for _, sub := range subs {
		subCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := sub.Handle(subCtx, ev); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sub.ID(), err))
		}
		cancel()
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// QueueLength returns the current queue length.
func (b *Bus) QueueLength() int { return len(b.queue) }

// NewAuditSubscriber returns a subscriber that logs every event it sees.
func NewAuditSubscriber(logger *slog.Logger) *SubscriberFunc {
	audit := logger.With("component", "audit")
	return NewSubscriberFunc("audit-log", func(_ context.Context, ev Event) error {
		audit.Info("mailbox event",
			"event", ev.Type(),
			"at", ev.Timestamp(),
			"data", ev.Payload(),
		)
		return nil
	})
}
