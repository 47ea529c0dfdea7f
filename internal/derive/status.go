// Package derive holds the pure display-state computations: ticket
// status badges and real-time operator availability. Nothing here is
// stored; everything is recomputed from inputs on each render or tick.
package derive

import (
	"time"

	"github.com/spec-kit/desk-console/internal/domain"
)

// TicketBadgeKind is the visual category a ticket status renders as.
type TicketBadgeKind string

const (
	TicketBadgeInfo    TicketBadgeKind = "info"
	TicketBadgeWarning TicketBadgeKind = "warning"
	TicketBadgeSuccess TicketBadgeKind = "success"
	// TicketBadgeNeutral is the fallback for statuses outside the known
	// set, so unexpected server data renders instead of failing.
	TicketBadgeNeutral TicketBadgeKind = "neutral"
)

// TicketBadge maps a ticket status to its display category. Total over
// any input string.
func TicketBadge(status domain.TicketStatus) TicketBadgeKind {
	switch status {
	case domain.TicketStatusOpen:
		return TicketBadgeInfo
	case domain.TicketStatusInProgress:
		return TicketBadgeWarning
	case domain.TicketStatusClosed:
		return TicketBadgeSuccess
	default:
		return TicketBadgeNeutral
	}
}

// OperatorBadge is the tri-state workload label for an operator.
type OperatorBadge string

const (
	OperatorBadgeFree   OperatorBadge = "Free"
	OperatorBadgeBusy   OperatorBadge = "Busy"
	OperatorBadgeClosed OperatorBadge = "Closed"
)

// DerivedOperatorStatus is the computed view of one operator at one
// instant.
type DerivedOperatorStatus struct {
	AvailableByTime bool
	Busy            bool
	Badge           OperatorBadge
}

// OperatorStatus derives an operator's badge from the availability
// window and active ticket count. Time availability dominates: an
// operator outside the window is Closed no matter the workload, and an
// available operator with active tickets is Busy, not Free.
func OperatorStatus(op domain.Operator, now time.Time) DerivedOperatorStatus {
	status := DerivedOperatorStatus{
		AvailableByTime: WithinWindow(op.AvailabilityHours.Start, op.AvailabilityHours.End, now),
		Busy:            op.ActiveTicketsCount > 0,
	}

	switch {
	case status.AvailableByTime && !status.Busy:
		status.Badge = OperatorBadgeFree
	case status.AvailableByTime && status.Busy:
		status.Badge = OperatorBadgeBusy
	default:
		status.Badge = OperatorBadgeClosed
	}
	return status
}
