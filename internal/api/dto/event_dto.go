package dto

// EventResponse is the body returned for POST /events.
type EventResponse struct {
	OK           bool   `json:"ok"`
	ServiceGroup string `json:"serviceGroup,omitempty"`
	Dispatched   bool   `json:"dispatched"`
	TicketID     string `json:"ticketId,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// ProbeResponse acknowledges platform validation probes.
type ProbeResponse struct {
	OK    bool `json:"ok"`
	Probe bool `json:"probe"`
}

// HealthResponse is the body returned for GET /health.
type HealthResponse struct {
	OK bool `json:"ok"`
}
