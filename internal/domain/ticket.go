package domain

import "regexp"

// ticketIDPattern matches a project key (uppercase letters/digits, starting with a letter),
// a hyphen and a numeric sequence, e.g. PROJ-123.
var ticketIDPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*-[0-9]+$`)

// DefaultTicketFields is the field set requested when the caller names none.
var DefaultTicketFields = []string{"summary", "description", "comment"}

// TicketArguments is the validated argument shape of the ticket-fetch tool.
type TicketArguments struct {
	TicketID string   `json:"ticket_id"`
	Expand   []string `json:"expand,omitempty"`
	Fields   []string `json:"fields,omitempty"`
}

// ValidTicketID reports whether id is a well-formed ticket key.
func ValidTicketID(id string) bool {
	return ticketIDPattern.MatchString(id)
}
