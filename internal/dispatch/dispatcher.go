package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-alert-bridge/internal/config"
	"github.com/spec-kit/ticket-alert-bridge/internal/domain"
)

const (
	eventAction    = "trigger"
	clientLabel    = "Ticket Alert Bridge"
	maxErrorDetail = 4000
)

// Record is the outcome of one downstream incident-creation call.
type Record struct {
	Accepted     bool
	DownstreamID string
	StatusCode   int
	ErrorDetail  string
}

// Client issues incident-creation calls to the configured events endpoint.
// One attempt per ticket; retry policy is an operational concern outside
// this component.
type Client struct {
	endpointURL string
	source      string
	timeout     time.Duration
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker[triggerResult]
	logger      *zap.Logger
}

type eventPayload struct {
	Summary       string         `json:"summary"`
	Source        string         `json:"source"`
	Severity      string         `json:"severity"`
	CustomDetails map[string]any `json:"custom_details"`
}

type incidentEvent struct {
	RoutingKey  string       `json:"routing_key"`
	EventAction string       `json:"event_action"`
	DedupKey    string       `json:"dedup_key"`
	Payload     eventPayload `json:"payload"`
	Client      string       `json:"client"`
}

type triggerResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	DedupKey string `json:"dedup_key"`
}

type triggerResult struct {
	statusCode int
	response   triggerResponse
}

type statusError struct {
	code   int
	detail string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("downstream returned %d: %s", e.code, e.detail)
}

// NewClient builds a dispatch client with a bounded timeout and a circuit
// breaker in front of the endpoint.
func NewClient(cfg config.DispatchConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout()
	settings := gobreaker.Settings{
		Name:        "incident-events",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("dispatch breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &Client{
		endpointURL: cfg.EndpointURL,
		source:      cfg.Source,
		timeout:     timeout,
		httpClient:  &http.Client{Timeout: timeout},
		breaker:     gobreaker.NewCircuitBreaker[triggerResult](settings),
		logger:      logger,
	}
}

// Trigger issues a single incident-creation call for the ticket. Failures
// of any kind (non-2xx, network, timeout, open breaker) come back as a
// non-accepted Record, never an error: the caller's webhook response does
// not depend on downstream health.
func (c *Client) Trigger(ctx context.Context, routingKey string, ticket *domain.Ticket, eventType domain.EventType, eventID string) Record {
	event := c.buildEvent(routingKey, ticket, eventType, eventID)
	body, err := json.Marshal(event)
	if err != nil {
		return Record{ErrorDetail: fmt.Sprintf("encode event: %v", err)}
	}

	result, err := c.breaker.Execute(func() (triggerResult, error) {
		return c.post(ctx, body)
	})
	if err != nil {
		record := Record{ErrorDetail: err.Error()}
		var se *statusError
		if errors.As(err, &se) {
			record.StatusCode = se.code
		}
		return record
	}

	return Record{
		Accepted:     true,
		DownstreamID: result.response.DedupKey,
		StatusCode:   result.statusCode,
	}
}

func (c *Client) buildEvent(routingKey string, ticket *domain.Ticket, eventType domain.EventType, eventID string) incidentEvent {
	title := ticket.Title
	if title == "" {
		title = "Ticket " + ticket.ID
	}
	summary := title
	if priority := strings.TrimSpace(ticket.Priority); priority != "" {
		summary = "[" + strings.ToUpper(priority) + "] " + title
	}

	return incidentEvent{
		RoutingKey:  routingKey,
		EventAction: eventAction,
		DedupKey:    "ticket-" + ticket.ID,
		Payload: eventPayload{
			Summary:  summary,
			Source:   c.source,
			Severity: MapSeverity(ticket.Priority),
			CustomDetails: map[string]any{
				"eventType":      string(eventType),
				"eventId":        eventID,
				"ticketId":       ticket.ID,
				"title":          ticket.Title,
				"priority":       ticket.Priority,
				"assignee":       ticket.AssigneeContact("unassigned"),
				"team":           ticket.TeamName,
				"customer_email": ticket.ContactEmail,
			},
		},
		Client: clientLabel,
	}
}

func (c *Client) post(ctx context.Context, body []byte) (triggerResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(body))
	if err != nil {
		return triggerResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return triggerResult{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorDetail))
	if err != nil {
		return triggerResult{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return triggerResult{}, &statusError{code: resp.StatusCode, detail: string(raw)}
	}

	result := triggerResult{statusCode: resp.StatusCode}
	// A 2xx with an undecodable body still counts as accepted; the
	// downstream id is just unknown.
	_ = json.Unmarshal(raw, &result.response)
	return result, nil
}
