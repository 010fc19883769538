package ingest

import (
	"strings"

	"github.com/goccy/go-json"

	"github.com/spec-kit/ticket-alert-bridge/internal/domain"
	apperrors "github.com/spec-kit/ticket-alert-bridge/pkg/util"
)

// assigneeContactKeys is the ordered set of keys an assignee object may
// carry its contact address under. First non-blank value wins.
var assigneeContactKeys = []string{"email", "userEmail", "id", "userId"}

// ParseEnvelope decodes the raw webhook body into an event envelope.
func ParseEnvelope(body []byte) (*domain.Envelope, error) {
	if len(body) == 0 {
		return nil, apperrors.NewValidationError("empty request body", nil)
	}
	var env domain.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, apperrors.NewValidationError("request body is not valid JSON", nil)
	}
	return &env, nil
}

// NormalizeTicket extracts the ticket record from an event payload.
// Every field except the id is permissive: missing or oddly shaped values
// become empty strings or an absent assignee, never a failure.
func NormalizeTicket(payload json.RawMessage) (*domain.Ticket, error) {
	var wrapper struct {
		Ticket map[string]json.RawMessage `json:"ticket"`
	}
	if len(payload) > 0 {
		// A malformed payload block degrades to an empty ticket, which
		// then fails on the missing id.
		_ = json.Unmarshal(payload, &wrapper)
	}
	fields := wrapper.Ticket

	id := stringField(fields, "id", "ticketId")
	if id == "" {
		return nil, apperrors.NewValidationError("ticket id is required", nil)
	}

	return &domain.Ticket{
		ID:           id,
		Title:        stringField(fields, "title"),
		Priority:     stringField(fields, "priorityName", "priority"),
		Assignee:     ResolveAssignee(fields["assignedTo"]),
		TeamName:     stringField(fields, "teamName"),
		ContactEmail: stringField(fields, "customerContactEmail"),
	}, nil
}

// ResolveAssignee reduces the variant-shaped assignedTo field to a single
// contact address. The field may arrive as null, a plain string, an object
// with a contact key, or a list of either; anything else resolves to
// absent. Total over all inputs.
func ResolveAssignee(raw json.RawMessage) *domain.Assignee {
	if isAbsent(raw) {
		return nil
	}

	if contact, ok := contactFromString(raw); ok {
		return assignee(contact)
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err == nil {
		return assignee(contactFromObject(object))
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, entry := range list {
			if isAbsent(entry) {
				continue
			}
			if contact, ok := contactFromString(entry); ok && contact != "" {
				return assignee(contact)
			}
			var entryObject map[string]json.RawMessage
			if err := json.Unmarshal(entry, &entryObject); err == nil {
				if contact := contactFromObject(entryObject); contact != "" {
					return assignee(contact)
				}
			}
		}
	}

	return nil
}

func assignee(contact string) *domain.Assignee {
	if contact == "" {
		return nil
	}
	return &domain.Assignee{Contact: contact}
}

func contactFromString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func contactFromObject(object map[string]json.RawMessage) string {
	for _, key := range assigneeContactKeys {
		raw, ok := object[key]
		if !ok {
			continue
		}
		if contact, ok := contactFromString(raw); ok && contact != "" {
			return contact
		}
	}
	return ""
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

// stringField returns the first key that decodes to a non-blank string.
func stringField(fields map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
