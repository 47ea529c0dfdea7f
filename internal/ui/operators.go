package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spec-kit/desk-console/internal/derive"
	"github.com/spec-kit/desk-console/internal/domain"
	"github.com/spec-kit/desk-console/internal/nav"
	apperrors "github.com/spec-kit/desk-console/pkg/util"
)

// operatorsView is the administrator's operator roster with live
// Free/Busy/Closed badges. Badges are derived at render time and the
// periodic status tick repaints them, so an operator's window closing
// flips the badge without a reload.
type operatorsView struct {
	operators []domain.Operator
	loading   bool
	errMsg    string
	cursor    int
}

func newOperatorsView() operatorsView {
	return operatorsView{loading: true}
}

func (m *Model) updateOperators(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := &m.operators

	switch msg := msg.(type) {
	case operatorsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			if apperrors.IsAuthStatus(msg.err) {
				m.sessions.Logout()
				return m, m.navigate(nav.RouteLogin)
			}
			v.errMsg = fmt.Sprintf("Failed to load operators: %v", msg.err)
			return m, nil
		}
		v.operators = msg.operators
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, m.navigate(nav.RouteDashboard)
		case key.Matches(msg, m.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if v.cursor < len(v.operators)-1 {
				v.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Select):
			return m, nil
		case key.Matches(msg, m.keys.Edit):
			if v.cursor < len(v.operators) {
				operator := v.operators[v.cursor]
				m.operatorForm = newOperatorFormView(&operator)
				return m, m.navigate(nav.RouteOperatorEdit)
			}
			return m, nil
		case key.Matches(msg, m.keys.Reset):
			if v.cursor < len(v.operators) {
				m.resetPass = newResetPassView(v.operators[v.cursor])
				return m, m.navigate(nav.RouteResetPassword)
			}
			return m, nil
		case msg.String() == "n":
			return m, m.navigate(nav.RouteOperatorNew)
		}
	}
	return m, nil
}

func (m *Model) viewOperators() string {
	v := &m.operators
	out := titleStyle.Render("Operator Management") + "\n\n"

	if v.loading {
		return out + mutedStyle.Render("Loading operators...")
	}
	if v.errMsg != "" {
		return out + errorStyle.Render(v.errMsg)
	}
	if len(v.operators) == 0 {
		return out + "No operators registered." + "\n\n" + mutedStyle.Render("n: new operator · esc: back")
	}

	now := time.Now()
	out += headerRowStyle.Render(fmt.Sprintf("%-22s %-26s %-22s %-13s %-7s %s",
		"Name", "Email", "Request Types", "Hours", "Active", "Status")) + "\n"
	for i, operator := range v.operators {
		status := derive.OperatorStatus(operator, now)
		line := fmt.Sprintf("%-22s %-26s %-22s %-13s %-7d %s",
			clip(operator.Name+" "+operator.LastName, 22),
			clip(operator.UserEmail, 26),
			clip(requestTypeList(operator.ManageableRequestTypes), 22),
			operator.AvailabilityHours.Start+"-"+operator.AvailabilityHours.End,
			operator.ActiveTicketsCount,
			renderOperatorBadge(status.Badge))
		if i == v.cursor {
			line = selectedStyle.Render(line)
		}
		out += line + "\n"
	}

	out += "\n" + mutedStyle.Render("e: edit · r: reset password · n: new operator · esc: back")
	return out
}

func requestTypeList(types []domain.RequestType) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ", ")
}
