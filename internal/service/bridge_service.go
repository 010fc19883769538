package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-alert-bridge/internal/dispatch"
	"github.com/spec-kit/ticket-alert-bridge/internal/domain"
	"github.com/spec-kit/ticket-alert-bridge/internal/events"
	"github.com/spec-kit/ticket-alert-bridge/internal/idempotency"
	"github.com/spec-kit/ticket-alert-bridge/internal/ingest"
	"github.com/spec-kit/ticket-alert-bridge/internal/routing"
)

// Status classifies the terminal outcome of handling one webhook delivery.
type Status string

const (
	StatusAccepted       Status = "accepted"
	StatusIgnored        Status = "ignored"
	StatusDuplicate      Status = "duplicate"
	StatusDispatchFailed Status = "dispatch_failed"
)

// Reasons attached to non-dispatched outcomes.
const (
	ReasonUnsupportedEventType = "unsupported_event_type"
	ReasonAlreadyTriggered     = "ticket_already_triggered"
	ReasonDispatchFailed       = "dispatch_failed"
)

// Outcome is the result of handling one webhook delivery. Every outcome
// maps to a 200 response; validation and auth failures surface as errors
// instead.
type Outcome struct {
	Status       Status
	ServiceGroup string
	TicketID     string
	Dispatched   bool
	DownstreamID string
	Reason       string
}

// IncidentDispatcher issues the downstream incident-creation call.
type IncidentDispatcher interface {
	Trigger(ctx context.Context, routingKey string, ticket *domain.Ticket, eventType domain.EventType, eventID string) dispatch.Record
}

// BridgeService orchestrates the ingestion pipeline: classify, normalize,
// reserve, route, dispatch.
type BridgeService struct {
	store      idempotency.Store
	resolver   *routing.Resolver
	dispatcher IncidentDispatcher
	events     events.Dispatcher
	logger     *zap.Logger
}

// NewBridgeService wires the pipeline stages together.
func NewBridgeService(store idempotency.Store, resolver *routing.Resolver, dispatcher IncidentDispatcher, dispatcherEvents events.Dispatcher, logger *zap.Logger) *BridgeService {
	return &BridgeService{
		store:      store,
		resolver:   resolver,
		dispatcher: dispatcher,
		events:     dispatcherEvents,
		logger:     logger,
	}
}

// HandleEvent runs one webhook body through the pipeline. A non-nil error
// means the request itself was invalid (bad JSON, missing ticket id) and
// translates to a 4xx; every other condition is a success-shaped Outcome.
func (s *BridgeService) HandleEvent(ctx context.Context, body []byte) (Outcome, error) {
	envelope, err := ingest.ParseEnvelope(body)
	if err != nil {
		return Outcome{}, err
	}

	eventType := envelope.Type()
	if !eventType.Known() {
		s.publish(ctx, events.EventIgnored, "", "", envelope.EventID(), string(eventType))
		return Outcome{Status: StatusIgnored, Reason: ReasonUnsupportedEventType}, nil
	}

	ticket, err := ingest.NormalizeTicket(envelope.Message.Payload)
	if err != nil {
		return Outcome{}, err
	}

	fresh, err := s.store.CheckAndReserve(ctx, ticket.ID)
	if err != nil {
		// Duplicate suppression degrades rather than blocking ingestion.
		s.logger.Warn("idempotency store unavailable, treating ticket as fresh",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		fresh = true
	}
	if !fresh {
		s.publish(ctx, events.EventTicketDuplicate, ticket.ID, "", envelope.EventID(), "")
		return Outcome{Status: StatusDuplicate, TicketID: ticket.ID, Reason: ReasonAlreadyTriggered}, nil
	}

	result := s.resolver.Resolve(ticket)
	if !result.Dispatch {
		log := s.logger.Info
		if result.Escalate {
			log = s.logger.Error
		}
		log("event not dispatched",
			zap.String("ticket_id", ticket.ID),
			zap.String("service_group", result.ServiceGroup),
			zap.String("reason", result.Reason))
		s.publish(ctx, events.EventIgnored, ticket.ID, result.ServiceGroup, envelope.EventID(), result.Reason)
		return Outcome{
			Status:       StatusIgnored,
			ServiceGroup: result.ServiceGroup,
			TicketID:     ticket.ID,
			Reason:       result.Reason,
		}, nil
	}

	record := s.dispatcher.Trigger(ctx, result.Decision.RoutingKey, ticket, eventType, envelope.EventID())
	if !record.Accepted {
		s.logger.Error("downstream dispatch failed",
			zap.String("ticket_id", ticket.ID),
			zap.String("service_group", result.Decision.ServiceGroup),
			zap.Int("status", record.StatusCode),
			zap.String("detail", record.ErrorDetail))
		s.publish(ctx, events.EventDispatchFailed, ticket.ID, result.Decision.ServiceGroup, envelope.EventID(), record.ErrorDetail)
		return Outcome{
			Status:       StatusDispatchFailed,
			ServiceGroup: result.Decision.ServiceGroup,
			TicketID:     ticket.ID,
			Reason:       ReasonDispatchFailed,
		}, nil
	}

	s.logger.Info("incident dispatched",
		zap.String("ticket_id", ticket.ID),
		zap.String("service_group", result.Decision.ServiceGroup),
		zap.String("downstream_id", record.DownstreamID))
	s.publish(ctx, events.EventTicketDispatched, ticket.ID, result.Decision.ServiceGroup, envelope.EventID(), "")
	return Outcome{
		Status:       StatusAccepted,
		ServiceGroup: result.Decision.ServiceGroup,
		TicketID:     ticket.ID,
		Dispatched:   true,
		DownstreamID: record.DownstreamID,
	}, nil
}

func (s *BridgeService) publish(ctx context.Context, eventType events.EventType, ticketID, serviceGroup, upstreamID, detail string) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, events.Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		TicketID:     ticketID,
		ServiceGroup: serviceGroup,
		UpstreamID:   upstreamID,
		Detail:       detail,
		Timestamp:    time.Now().UTC(),
	})
}
