package events

import (
	"time"
)

// EventType enumerates bridge lifecycle events.
type EventType string

const (
	EventTicketDispatched EventType = "ticket_dispatched"
	EventTicketDuplicate  EventType = "ticket_duplicate"
	EventDispatchFailed   EventType = "dispatch_failed"
	EventIgnored          EventType = "event_ignored"
)

// Event records the outcome of handling one inbound webhook delivery.
type Event struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	TicketID     string    `json:"ticket_id,omitempty"`
	ServiceGroup string    `json:"service_group,omitempty"`
	UpstreamID   string    `json:"upstream_id,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
