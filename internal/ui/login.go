package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spec-kit/desk-console/internal/nav"
	apperrors "github.com/spec-kit/desk-console/pkg/util"
)

type loginView struct {
	email    textField
	password textField
	focus    int
	// submitting disables the submit control while a login is in
	// flight; the store must never see two concurrent logins.
	submitting bool
	errMsg     string
}

func newLoginView() loginView {
	return loginView{
		email:    textField{Label: "Email"},
		password: textField{Label: "Password", Masked: true},
	}
}

func (m *Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := &m.login

	switch msg := msg.(type) {
	case loginDoneMsg:
		v.submitting = false
		if msg.err != nil {
			v.errMsg = apperrors.ToDomainError(msg.err).Message
			if v.errMsg == "" {
				v.errMsg = "Login failed. Check your credentials."
			}
		}
		// Success path: the published session arrives as a sessionMsg
		// and navigation happens there.
		return m, nil

	case tea.KeyMsg:
		if v.submitting {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, m.navigate(nav.RouteCustomerForm)
		case key.Matches(msg, m.keys.NextField):
			v.focus = (v.focus + 1) % 2
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			if v.email.Value == "" || v.password.Value == "" {
				v.errMsg = "Email and password are required."
				return m, nil
			}
			v.submitting = true
			v.errMsg = ""
			return m, loginCmd(m.sessions, v.email.Value, v.password.Value)
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

func (v *loginView) field() *textField {
	if v.focus == 1 {
		return &v.password
	}
	return &v.email
}

func (m *Model) viewLogin() string {
	v := &m.login
	out := titleStyle.Render("Sign In") + "\n\n"
	if v.errMsg != "" {
		out += errorStyle.Render(v.errMsg) + "\n\n"
	}
	out += v.email.Render(v.focus == 0) + "\n"
	out += v.password.Render(v.focus == 1) + "\n\n"
	if v.submitting {
		out += mutedStyle.Render("Signing in...")
	} else {
		out += mutedStyle.Render("tab: switch field · enter: sign in · esc: back")
	}
	return out
}
