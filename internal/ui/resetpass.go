package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spec-kit/desk-console/internal/domain"
	"github.com/spec-kit/desk-console/internal/nav"
	apperrors "github.com/spec-kit/desk-console/pkg/util"
)

// resetPassView sets a new password on an operator's login account.
type resetPassView struct {
	operator domain.Operator

	password textField
	confirm  textField
	focus    int

	saving      bool
	notice      string
	noticeIsErr bool
}

func newResetPassView(operator domain.Operator) resetPassView {
	return resetPassView{
		operator: operator,
		password: textField{Label: "New password", Masked: true},
		confirm:  textField{Label: "Confirm password", Masked: true},
	}
}

func (m *Model) updateResetPass(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := &m.resetPass

	switch msg := msg.(type) {
	case passwordResetMsg:
		v.saving = false
		if msg.err != nil {
			v.notice = apperrors.ToDomainError(msg.err).Message
			v.noticeIsErr = true
			return m, nil
		}
		return m, m.navigate(nav.RouteOperators)

	case tea.KeyMsg:
		if v.saving {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, m.navigate(nav.RouteOperators)
		case key.Matches(msg, m.keys.NextField):
			v.focus = (v.focus + 1) % 2
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			if len(v.password.Value) < 6 {
				v.notice = "Password must be at least 6 characters."
				v.noticeIsErr = true
				return m, nil
			}
			if v.password.Value != v.confirm.Value {
				v.notice = "Passwords do not match."
				v.noticeIsErr = true
				return m, nil
			}
			v.saving = true
			v.notice = ""
			return m, resetPassword(m.desk, v.operator.UserID, v.password.Value)
		case msg.Type == tea.KeyBackspace:
			v.field().HandleBackspace()
			return m, nil
		case msg.Type == tea.KeyRunes:
			for _, r := range msg.Runes {
				v.field().HandleRune(r)
			}
			return m, nil
		}
	}
	return m, nil
}

func (v *resetPassView) field() *textField {
	if v.focus == 1 {
		return &v.confirm
	}
	return &v.password
}

func (m *Model) viewResetPass() string {
	v := &m.resetPass
	out := titleStyle.Render("Reset Password") + "\n\n"
	out += labelStyle.Render("Account: ") + v.operator.Name + " " + v.operator.LastName +
		" <" + v.operator.UserEmail + ">" + "\n\n"

	if v.notice != "" {
		style := successStyle
		if v.noticeIsErr {
			style = errorStyle
		}
		out += style.Render(v.notice) + "\n\n"
	}

	out += v.password.Render(v.focus == 0) + "\n"
	out += v.confirm.Render(v.focus == 1) + "\n\n"
	if v.saving {
		out += mutedStyle.Render("Saving...")
	} else {
		out += mutedStyle.Render("tab: switch field · enter: save · esc: back")
	}
	return out
}
