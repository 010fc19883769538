package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-alert-bridge/internal/events"
	"github.com/spec-kit/ticket-alert-bridge/internal/observability"
)

// NotificationService observes bridge lifecycle events and turns them into
// logs and counters. Real failures are only visible here, never in the
// webhook response.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketDispatched, n.handleTicketDispatched)
	n.dispatcher.Subscribe(events.EventTicketDuplicate, n.handleTicketDuplicate)
	n.dispatcher.Subscribe(events.EventDispatchFailed, n.handleDispatchFailed)
	n.dispatcher.Subscribe(events.EventIgnored, n.handleIgnored)
}

func (n *NotificationService) handleTicketDispatched(_ context.Context, event events.Event) error {
	n.logger.Info("TicketDispatched",
		zap.String("ticket_id", event.TicketID),
		zap.String("service_group", event.ServiceGroup))
	n.metrics.RecordOutcome(string(StatusAccepted))
	n.metrics.RecordDispatch(event.ServiceGroup, true)
	return nil
}

func (n *NotificationService) handleTicketDuplicate(_ context.Context, event events.Event) error {
	n.logger.Info("TicketDuplicate", zap.String("ticket_id", event.TicketID))
	n.metrics.RecordOutcome(string(StatusDuplicate))
	return nil
}

func (n *NotificationService) handleDispatchFailed(_ context.Context, event events.Event) error {
	n.logger.Warn("DispatchFailed",
		zap.String("ticket_id", event.TicketID),
		zap.String("service_group", event.ServiceGroup),
		zap.String("detail", event.Detail))
	n.metrics.RecordOutcome(string(StatusDispatchFailed))
	n.metrics.RecordDispatch(event.ServiceGroup, false)
	return nil
}

func (n *NotificationService) handleIgnored(_ context.Context, event events.Event) error {
	n.logger.Debug("EventIgnored",
		zap.String("ticket_id", event.TicketID),
		zap.String("detail", event.Detail))
	n.metrics.RecordOutcome(string(StatusIgnored))
	return nil
}
