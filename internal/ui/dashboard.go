package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spec-kit/desk-console/internal/derive"
	"github.com/spec-kit/desk-console/internal/domain"
	"github.com/spec-kit/desk-console/internal/filter"
	"github.com/spec-kit/desk-console/internal/nav"
	apperrors "github.com/spec-kit/desk-console/pkg/util"
)

// dashboardView is the backoffice ticket listing: status filter plus
// live search, recomputed from the raw slice on every keystroke.
type dashboardView struct {
	tickets []domain.Ticket
	loading bool
	errMsg  string

	filterOptions []filter.Status
	filterIndex   int
	search        textField
	searching     bool
	cursor        int
}

func newDashboardView(sess domain.Session) dashboardView {
	return dashboardView{
		loading:       true,
		filterOptions: filter.Options(sess.Role),
		search:        textField{Label: "Search"},
	}
}

func (v *dashboardView) visible(sess domain.Session) []domain.Ticket {
	return filter.Apply(v.tickets, v.filterOptions[v.filterIndex], v.search.Value, sess)
}

func (m *Model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := &m.dashboard

	switch msg := msg.(type) {
	case ticketsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			// Listing failures from an unauthenticated/underprivileged
			// call bounce back to the login entry point.
			if apperrors.IsAuthStatus(msg.err) {
				m.sessions.Logout()
				return m, m.navigate(nav.RouteLogin)
			}
			v.errMsg = fmt.Sprintf("Failed to load tickets: %v", msg.err)
			return m, nil
		}
		v.tickets = msg.tickets
		return m, nil

	case tea.KeyMsg:
		if v.searching {
			switch {
			case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Submit):
				v.searching = false
			case msg.Type == tea.KeyBackspace:
				v.search.HandleBackspace()
				v.cursor = 0
			case msg.Type == tea.KeyRunes:
				for _, r := range msg.Runes {
					v.search.HandleRune(r)
				}
				v.cursor = 0
			}
			return m, nil
		}

		visible := v.visible(m.snap.Session)
		switch {
		case key.Matches(msg, m.keys.Search):
			v.searching = true
			return m, nil
		case key.Matches(msg, m.keys.CycleFilter):
			v.filterIndex = (v.filterIndex + 1) % len(v.filterOptions)
			v.cursor = 0
			return m, nil
		case key.Matches(msg, m.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if v.cursor < len(visible)-1 {
				v.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Select):
			if v.cursor < len(visible) {
				m.detail = newDetailView(visible[v.cursor].ID)
				return m, m.navigate(nav.RouteTicketDetail)
			}
			return m, nil
		case key.Matches(msg, m.keys.Menu):
			if m.snap.Session.Role == domain.RoleAdministrator {
				return m, m.navigate(nav.RouteOperators)
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) viewDashboard() string {
	v := &m.dashboard
	out := titleStyle.Render("Ticket Management") + "\n\n"

	if v.loading {
		return out + mutedStyle.Render("Loading tickets...")
	}
	if v.errMsg != "" {
		return out + errorStyle.Render(v.errMsg)
	}

	out += labelStyle.Render("Filter: ") + string(v.filterOptions[v.filterIndex])
	out += "   " + v.search.Render(v.searching) + "\n\n"

	visible := v.visible(m.snap.Session)
	if len(visible) == 0 {
		out += "No tickets match the applied filters.\n"
	} else {
		out += headerRowStyle.Render(fmt.Sprintf("%-10s %-14s %-24s %-12s %-20s %s",
			"ID", "Type", "Email", "Status", "Assigned To", "Created")) + "\n"
		for i, ticket := range visible {
			line := fmt.Sprintf("%-10s %-14s %-24s %-12s %-20s %s",
				shortID(ticket.ID),
				clip(ticket.Type, 14),
				clip(ticket.UserEmail, 24),
				renderTicketBadge(string(ticket.Status), derive.TicketBadge(ticket.Status)),
				assigneeName(ticket.AssignedTo),
				ticket.CreatedAt.Format("2006-01-02"))
			if i == v.cursor {
				line = selectedStyle.Render(line)
			}
			out += line + "\n"
		}
	}

	out += "\n" + mutedStyle.Render("f: filter · /: search · enter: open · j/k: move")
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "…"
	}
	return id
}

func clip(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return strings.TrimSpace(value[:max-1]) + "…"
}

func assigneeName(ref *domain.OperatorRef) string {
	if ref == nil {
		return "Unassigned"
	}
	return clip(ref.Name+" "+ref.LastName, 20)
}
