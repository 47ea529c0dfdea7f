package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "InProgress"
	TicketStatusClosed     TicketStatus = "Closed"
)

// OperatorRef is the embedded assignee view the desk attaches to
// tickets. Only the fields the listing screens need are present.
type OperatorRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
}

// Ticket is the client-side copy of a desk support request. The desk
// service owns the record; the console only reads and updates it.
type Ticket struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	UserEmail   string       `json:"userEmail"`
	Description string       `json:"description"`
	Status      TicketStatus `json:"status"`
	Response    string       `json:"response,omitempty"`
	AssignedTo  *OperatorRef `json:"assignedTo,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}
