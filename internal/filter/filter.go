// Package filter narrows ticket listings client-side: a status filter
// composed with a free-text search. Pure and stable, safe to re-run on
// every keystroke.
package filter

import (
	"strings"

	"github.com/spec-kit/desk-console/internal/domain"
)

// Status is a dashboard filter value: the literal ticket statuses,
// "all", or the operator-scoped AssignedToMe pseudo-filter.
type Status string

const (
	StatusAll        Status = "all"
	StatusOpen       Status = Status(domain.TicketStatusOpen)
	StatusInProgress Status = Status(domain.TicketStatusInProgress)
	StatusClosed     Status = Status(domain.TicketStatusClosed)
	// StatusAssignedToMe passes tickets assigned to the session's
	// operator. Only meaningful for Operator sessions; the UI must not
	// offer it to Administrators.
	StatusAssignedToMe Status = "AssignedToMe"
)

// Options lists the filter values a role may choose from, in display
// order.
func Options(role domain.Role) []Status {
	options := []Status{StatusAll, StatusOpen, StatusInProgress, StatusClosed}
	if role == domain.RoleOperator {
		options = append(options, StatusAssignedToMe)
	}
	return options
}

// Apply filters tickets by status and search term. Input order is
// preserved; the result is a fresh slice and the input is never
// mutated. A pure function of its four arguments.
func Apply(tickets []domain.Ticket, status Status, term string, sess domain.Session) []domain.Ticket {
	result := make([]domain.Ticket, 0, len(tickets))
	query := strings.ToLower(strings.TrimSpace(term))

	for _, ticket := range tickets {
		if !matchesStatus(ticket, status, sess) {
			continue
		}
		if query != "" && !matchesSearch(ticket, query) {
			continue
		}
		result = append(result, ticket)
	}
	return result
}

func matchesStatus(ticket domain.Ticket, status Status, sess domain.Session) bool {
	switch status {
	case StatusAll, "":
		return true
	case StatusAssignedToMe:
		return sess.Role == domain.RoleOperator &&
			ticket.AssignedTo != nil &&
			ticket.AssignedTo.ID == sess.OperatorID
	default:
		return ticket.Status == domain.TicketStatus(status)
	}
}

// matchesSearch is a case-insensitive substring match OR-combined over
// the searchable fields. Absent fields (nil assignee) never match and
// never error.
func matchesSearch(ticket domain.Ticket, query string) bool {
	fields := []string{
		ticket.ID,
		ticket.Type,
		ticket.UserEmail,
		ticket.Description,
		string(ticket.Status),
	}
	if ticket.AssignedTo != nil {
		fields = append(fields, ticket.AssignedTo.Name, ticket.AssignedTo.LastName)
	}

	for _, field := range fields {
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
