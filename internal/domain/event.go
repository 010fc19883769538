package domain

import "github.com/goccy/go-json"

// EventType identifies an upstream ticket lifecycle event.
type EventType string

const (
	EventTicketCreated EventType = "ticket:created"
	EventTicketUpdated EventType = "ticket:updated"
)

// Known reports whether the event type is one the bridge acts on.
func (t EventType) Known() bool {
	switch t {
	case EventTicketCreated, EventTicketUpdated:
		return true
	}
	return false
}

// Envelope is the raw upstream webhook body. The platform wraps the event
// in a "message" object; bodies without one carry no usable event.
type Envelope struct {
	Message *EnvelopeMessage `json:"message"`
}

// EnvelopeMessage is the event portion of the envelope. Payload stays raw
// until the event type is known.
type EnvelopeMessage struct {
	EventID   string          `json:"eventId"`
	EventType EventType       `json:"eventType"`
	Payload   json.RawMessage `json:"payload"`
}

// EventID returns the upstream event id, empty when absent.
func (e *Envelope) EventID() string {
	if e == nil || e.Message == nil {
		return ""
	}
	return e.Message.EventID
}

// Type returns the event type, empty when absent.
func (e *Envelope) Type() EventType {
	if e == nil || e.Message == nil {
		return ""
	}
	return e.Message.EventType
}
