package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spec-kit/desk-console/internal/domain"
	"github.com/spec-kit/desk-console/internal/nav"
	"github.com/spec-kit/desk-console/internal/remote"
	apperrors "github.com/spec-kit/desk-console/pkg/util"
)

// customerView is the anonymous entry point: file a new support ticket.
type customerView struct {
	typeIndex   int
	email       textField
	description textField
	focus       int
	sending     bool
	notice      string
	noticeIsErr bool
}

func newCustomerView() customerView {
	return customerView{
		email:       textField{Label: "Your email"},
		description: textField{Label: "Description"},
	}
}

func (m *Model) updateCustomer(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := &m.customer

	switch msg := msg.(type) {
	case ticketFiledMsg:
		v.sending = false
		if msg.err != nil {
			v.notice = apperrors.ToDomainError(msg.err).Message
			v.noticeIsErr = true
			return m, nil
		}
		// Match the desk's confirmation: filed and handed to an operator.
		m.customer = newCustomerView()
		m.customer.notice = "Ticket created and assigned to an operator."
		return m, nil

	case tea.KeyMsg:
		if v.sending {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Login) && v.focus == 0:
			return m, m.navigate(nav.RouteLogin)
		case key.Matches(msg, m.keys.NextField):
			v.focus = (v.focus + 1) % 3
			return m, nil
		case key.Matches(msg, m.keys.Up) && v.focus == 0:
			v.typeIndex = (v.typeIndex + len(domain.RequestTypes()) - 1) % len(domain.RequestTypes())
			return m, nil
		case key.Matches(msg, m.keys.Down) && v.focus == 0:
			v.typeIndex = (v.typeIndex + 1) % len(domain.RequestTypes())
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			if v.email.Value == "" || v.description.Value == "" {
				v.notice = "Email and description are required."
				v.noticeIsErr = true
				return m, nil
			}
			v.sending = true
			v.notice = ""
			draft := remote.TicketDraft{
				Type:        domain.RequestTypes()[v.typeIndex],
				UserEmail:   v.email.Value,
				Description: v.description.Value,
			}
			return m, fileTicket(m.desk, draft)
		case msg.Type == tea.KeyBackspace && v.focus > 0:
			v.field().HandleBackspace()
			return m, nil
		case msg.Type == tea.KeyRunes && v.focus > 0:
			for _, r := range msg.Runes {
				v.field().HandleRune(r)
			}
			return m, nil
		}
	}
	return m, nil
}

func (v *customerView) field() *textField {
	if v.focus == 2 {
		return &v.description
	}
	return &v.email
}

func (m *Model) viewCustomer() string {
	v := &m.customer
	out := titleStyle.Render("Open a New Support Ticket") + "\n\n"
	if v.notice != "" {
		style := successStyle
		if v.noticeIsErr {
			style = errorStyle
		}
		out += style.Render(v.notice) + "\n\n"
	}

	requestType := string(domain.RequestTypes()[v.typeIndex])
	typeLine := labelStyle.Render("Request type: ") + requestType
	if v.focus == 0 {
		typeLine += fieldFocusedStyle.Render("  (j/k to change)")
	}
	out += typeLine + "\n"
	out += v.email.Render(v.focus == 1) + "\n"
	out += v.description.Render(v.focus == 2) + "\n\n"
	if v.sending {
		out += mutedStyle.Render("Submitting...")
	} else {
		out += mutedStyle.Render("tab: switch field · enter: submit · L: operator login")
	}
	return out
}
