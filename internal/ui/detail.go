package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spec-kit/desk-console/internal/derive"
	"github.com/spec-kit/desk-console/internal/domain"
	"github.com/spec-kit/desk-console/internal/nav"
	"github.com/spec-kit/desk-console/internal/remote"
	apperrors "github.com/spec-kit/desk-console/pkg/util"
)

var detailStatuses = []domain.TicketStatus{
	domain.TicketStatusOpen,
	domain.TicketStatusInProgress,
	domain.TicketStatusClosed,
}

// detailView shows one ticket and lets an operator update its status
// and response.
type detailView struct {
	ticketID string
	ticket   *domain.Ticket
	loading  bool

	statusIndex     int
	response        textField
	editingResponse bool
	saving          bool
	notice          string
	noticeIsErr     bool
}

func newDetailView(ticketID string) detailView {
	return detailView{
		ticketID: ticketID,
		loading:  true,
		response: textField{Label: "Response"},
	}
}

func (m *Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := &m.detail

	switch msg := msg.(type) {
	case ticketLoadedMsg:
		v.loading = false
		if msg.err != nil {
			// Forbidden fetches bounce back to the dashboard; other
			// failures stay inline on this screen.
			if apperrors.IsAuthStatus(msg.err) {
				return m, m.navigate(nav.RouteDashboard)
			}
			v.notice = fmt.Sprintf("Failed to load ticket: %v", msg.err)
			v.noticeIsErr = true
			return m, nil
		}
		v.ticket = msg.ticket
		v.response.Value = msg.ticket.Response
		for i, status := range detailStatuses {
			if status == msg.ticket.Status {
				v.statusIndex = i
			}
		}
		return m, nil

	case ticketSavedMsg:
		v.saving = false
		if msg.err != nil {
			v.notice = apperrors.ToDomainError(msg.err).Message
			v.noticeIsErr = true
			return m, nil
		}
		v.ticket = msg.ticket
		v.notice = "Ticket updated."
		v.noticeIsErr = false
		return m, nil

	case tea.KeyMsg:
		if v.saving {
			return m, nil
		}
		if v.editingResponse {
			switch {
			case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Submit):
				v.editingResponse = false
			case msg.Type == tea.KeyBackspace:
				v.response.HandleBackspace()
			case msg.Type == tea.KeyRunes:
				for _, r := range msg.Runes {
					v.response.HandleRune(r)
				}
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Back):
			return m, m.navigate(nav.RouteDashboard)
		case key.Matches(msg, m.keys.CycleFilter):
			v.statusIndex = (v.statusIndex + 1) % len(detailStatuses)
			return m, nil
		case key.Matches(msg, m.keys.Edit):
			v.editingResponse = true
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			if v.ticket == nil {
				return m, nil
			}
			v.saving = true
			v.notice = ""
			update := remote.TicketUpdate{
				Status:   detailStatuses[v.statusIndex],
				Response: v.response.Value,
			}
			return m, saveTicket(m.desk, v.ticketID, update)
		}
	}
	return m, nil
}

func (m *Model) viewDetail() string {
	v := &m.detail
	out := titleStyle.Render("Ticket Detail") + "\n\n"

	if v.loading {
		return out + mutedStyle.Render("Loading ticket...")
	}
	if v.ticket == nil {
		if v.notice != "" {
			return out + errorStyle.Render(v.notice)
		}
		return out + "Ticket not found or access denied."
	}

	if v.notice != "" {
		style := successStyle
		if v.noticeIsErr {
			style = errorStyle
		}
		out += style.Render(v.notice) + "\n\n"
	}

	ticket := v.ticket
	out += labelStyle.Render("ID: ") + ticket.ID + "\n"
	out += labelStyle.Render("Request type: ") + ticket.Type + "\n"
	out += labelStyle.Render("Customer email: ") + ticket.UserEmail + "\n"
	out += labelStyle.Render("Filed: ") + ticket.CreatedAt.Format("2006-01-02 15:04") + "\n"
	out += labelStyle.Render("Assigned to: ") + assigneeName(ticket.AssignedTo) + "\n"
	out += labelStyle.Render("Current status: ") +
		renderTicketBadge(string(ticket.Status), derive.TicketBadge(ticket.Status)) + "\n\n"
	out += labelStyle.Render("Description:") + "\n" + ticket.Description + "\n\n"

	out += labelStyle.Render("New status: ") + string(detailStatuses[v.statusIndex]) + "\n"
	out += v.response.Render(v.editingResponse) + "\n\n"
	if v.saving {
		out += mutedStyle.Render("Saving...")
	} else {
		out += mutedStyle.Render("f: cycle status · e: edit response · enter: save · esc: back")
	}
	return out
}
