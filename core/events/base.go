package events

import "time"

// Kind names an event type, namespaced by its source, e.g. "session.started"
// or "turn_state.completed".
type Kind string

// Event is the interface every session event satisfies. Sinks switch on
// Kind and type-assert to the concrete event for its payload.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the kind and emission time shared by all events; concrete
// events embed it and add their payload.
type Base struct {
	kind       Kind
	occurredAt time.Time
}

// NewBase stamps a Base with the current time.
func NewBase(kind Kind) Base {
	return Base{kind: kind, occurredAt: time.Now()}
}

func (b Base) Kind() Kind { return b.kind }

func (b Base) Timestamp() time.Time { return b.occurredAt }
