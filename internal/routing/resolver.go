package routing

import (
	"strings"

	"github.com/spec-kit/ticket-alert-bridge/internal/config"
	"github.com/spec-kit/ticket-alert-bridge/internal/domain"
)

// No-dispatch reasons surfaced in responses and logs.
const (
	ReasonUnrouted          = "unrouted"
	ReasonMissingRoutingKey = "routing_key_missing"
)

// Decision names the service group owning an event and the downstream
// credential used to dispatch for it.
type Decision struct {
	ServiceGroup string
	RoutingKey   string
}

// Result is the routing verdict for one ticket: either a dispatch decision
// or an explicit no-dispatch with a reason.
type Result struct {
	Dispatch bool
	Decision Decision
	// ServiceGroup is set even for ReasonMissingRoutingKey so the
	// misconfigured group can be named in logs.
	ServiceGroup string
	Reason       string
	// Escalate asks the caller to log the verdict at error level.
	Escalate bool
}

// Resolver maps a normalized assignee to a service group and routing key
// using tables fixed at construction time.
type Resolver struct {
	assigneeGroups map[string]string
	routingKeys    map[string]string
	defaultGroup   string
	strict         bool
}

// NewResolver copies the configured tables. Contact addresses are matched
// case-insensitively, so table keys are lowercased here.
func NewResolver(cfg config.RoutingConfig) *Resolver {
	assignees := make(map[string]string, len(cfg.AssigneeGroups))
	for contact, group := range cfg.AssigneeGroups {
		assignees[strings.ToLower(strings.TrimSpace(contact))] = group
	}
	keys := make(map[string]string, len(cfg.RoutingKeys))
	for group, key := range cfg.RoutingKeys {
		keys[group] = key
	}
	return &Resolver{
		assigneeGroups: assignees,
		routingKeys:    keys,
		defaultGroup:   cfg.DefaultGroup,
		strict:         cfg.Strict,
	}
}

// Resolve decides the dispatch target for a ticket. Deterministic: the same
// assignee and tables always yield the same result.
func (r *Resolver) Resolve(ticket *domain.Ticket) Result {
	group := r.defaultGroup
	if ticket.Assignee != nil {
		if mapped, ok := r.assigneeGroups[strings.ToLower(ticket.Assignee.Contact)]; ok {
			group = mapped
		}
	}
	if group == "" {
		return Result{Reason: ReasonUnrouted, Escalate: r.strict}
	}

	key, ok := r.routingKeys[group]
	if !ok || key == "" {
		// Configuration gap: the group exists but has no credential.
		// Surfaced, not fatal.
		return Result{ServiceGroup: group, Reason: ReasonMissingRoutingKey, Escalate: true}
	}

	return Result{
		Dispatch:     true,
		Decision:     Decision{ServiceGroup: group, RoutingKey: key},
		ServiceGroup: group,
	}
}
