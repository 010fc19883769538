package domain

// Assignee is the resolved identity responsible for a ticket, reduced to a
// single contact address. A nil *Assignee means the ticket is unassigned.
type Assignee struct {
	Contact string
}

// Ticket is the normalized record derived from an upstream event payload.
// Immutable once constructed; only ID is mandatory.
type Ticket struct {
	ID           string
	Title        string
	Priority     string
	Assignee     *Assignee
	TeamName     string
	ContactEmail string
}

// AssigneeContact returns the assignee contact address or the given
// fallback when the ticket is unassigned.
func (t *Ticket) AssigneeContact(fallback string) string {
	if t.Assignee == nil || t.Assignee.Contact == "" {
		return fallback
	}
	return t.Assignee.Contact
}
