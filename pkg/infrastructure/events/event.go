// Package events carries in-process notifications about matched received
// records. Streams are keyed by received record id.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single notification appended to a stream
type Event interface {
	ID() string
	Type() string
	StreamID() string
	Data() any
	Timestamp() time.Time
	Version() int
}

// EventHandler reacts to events it has subscribed to
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore appends events to streams and fans them out to subscribers
type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

// Record is the Event implementation used by the receiving events
type Record struct {
	EventID    string
	Kind       string
	Stream     string
	Payload    any
	OccurredAt time.Time
	Seq        int
}

func (r Record) ID() string           { return r.EventID }
func (r Record) Type() string         { return r.Kind }
func (r Record) StreamID() string     { return r.Stream }
func (r Record) Data() any            { return r.Payload }
func (r Record) Timestamp() time.Time { return r.OccurredAt }
func (r Record) Version() int         { return r.Seq }

// NewEvent stamps a new event with a random id and the current UTC time
func NewEvent(eventType, streamID string, payload any) Event {
	return Record{
		EventID:    uuid.NewString(),
		Kind:       eventType,
		Stream:     streamID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
		Seq:        1,
	}
}

// positioned copies event onto streamID at the given version
func positioned(event Event, streamID string, version int) Record {
	return Record{
		EventID:    event.ID(),
		Kind:       event.Type(),
		Stream:     streamID,
		Payload:    event.Data(),
		OccurredAt: event.Timestamp(),
		Seq:        version,
	}
}
