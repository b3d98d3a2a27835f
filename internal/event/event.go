package event

import "time"

// Event is the base interface for all events.
type Event interface {
	Type() string
	Timestamp() time.Time
	Payload() any
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	EventType string    `json:"type"`
	EventTime time.Time `json:"timestamp"`
	EventData any       `json:"data"`
}

// Type returns the event type.
func (e *BaseEvent) Type() string { return e.EventType }

// Timestamp returns the event timestamp.
func (e *BaseEvent) Timestamp() time.Time { return e.EventTime }

// Payload returns the event data.
func (e *BaseEvent) Payload() any { return e.EventData }

// NewEvent creates a new event.
func NewEvent(eventType string, data any) *BaseEvent {
	return &BaseEvent{
		EventType: eventType,
		EventTime: time.Now(),
		EventData: data,
	}
}
