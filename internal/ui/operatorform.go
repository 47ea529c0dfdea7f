package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spec-kit/desk-console/internal/domain"
	"github.com/spec-kit/desk-console/internal/nav"
	"github.com/spec-kit/desk-console/internal/remote"
	apperrors "github.com/spec-kit/desk-console/pkg/util"
)

// operatorFormView creates or edits an operator profile. Creation also
// provisions the linked login account, so email and password fields
// only appear there.
type operatorFormView struct {
	editID string

	name      textField
	lastName  textField
	start     textField
	end       textField
	email     textField
	password  textField
	types     map[domain.RequestType]bool
	typeIndex int

	focus       int
	saving      bool
	notice      string
	noticeIsErr bool
}

func newOperatorFormView(existing *domain.Operator) operatorFormView {
	v := operatorFormView{
		name:     textField{Label: "First name"},
		lastName: textField{Label: "Last name"},
		start:    textField{Label: "Available from (HH:MM)"},
		end:      textField{Label: "Available until (HH:MM)"},
		email:    textField{Label: "Login email"},
		password: textField{Label: "Password", Masked: true},
		types:    make(map[domain.RequestType]bool),
	}
	if existing != nil {
		v.editID = existing.ID
		v.name.Value = existing.Name
		v.lastName.Value = existing.LastName
		v.start.Value = existing.AvailabilityHours.Start
		v.end.Value = existing.AvailabilityHours.End
		for _, t := range existing.ManageableRequestTypes {
			v.types[t] = true
		}
	}
	return v
}

// fieldCount includes the request-type selector as the final focus slot.
func (v *operatorFormView) fieldCount() int {
	if v.editID == "" {
		return 7
	}
	return 5
}

func (v *operatorFormView) field() *textField {
	switch v.focus {
	case 0:
		return &v.name
	case 1:
		return &v.lastName
	case 2:
		return &v.start
	case 3:
		return &v.end
	case 5:
		return &v.email
	case 6:
		return &v.password
	default:
		return nil
	}
}

func (v *operatorFormView) selectedTypes() []domain.RequestType {
	var out []domain.RequestType
	for _, t := range domain.RequestTypes() {
		if v.types[t] {
			out = append(out, t)
		}
	}
	return out
}

func (m *Model) updateOperatorForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := &m.operatorForm

	switch msg := msg.(type) {
	case operatorSavedMsg:
		v.saving = false
		if msg.err != nil {
			v.notice = apperrors.ToDomainError(msg.err).Message
			v.noticeIsErr = true
			return m, nil
		}
		if v.editID == "" {
			m.operatorForm = newOperatorFormView(nil)
			m.operatorForm.notice = "Operator and login account created."
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
			v.focus = (v.focus + 1) % v.fieldCount()
			return m, nil
		case v.focus == 4 && (key.Matches(msg, m.keys.Up) || key.Matches(msg, m.keys.Down)):
			step := 1
			if key.Matches(msg, m.keys.Up) {
				step = len(domain.RequestTypes()) - 1
			}
			v.typeIndex = (v.typeIndex + step) % len(domain.RequestTypes())
			return m, nil
		case v.focus == 4 && msg.String() == " ":
			t := domain.RequestTypes()[v.typeIndex]
			v.types[t] = !v.types[t]
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			return m.submitOperatorForm()
		case msg.Type == tea.KeyBackspace:
			if field := v.field(); field != nil {
				field.HandleBackspace()
			}
			return m, nil
		case msg.Type == tea.KeyRunes:
			if field := v.field(); field != nil {
				for _, r := range msg.Runes {
					field.HandleRune(r)
				}
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) submitOperatorForm() (tea.Model, tea.Cmd) {
	v := &m.operatorForm
	if v.name.Value == "" || v.lastName.Value == "" || v.start.Value == "" || v.end.Value == "" {
		v.notice = "Name and availability hours are required."
		v.noticeIsErr = true
		return m, nil
	}
	if v.editID == "" && (v.email.Value == "" || v.password.Value == "") {
		v.notice = "Login email and password are required."
		v.noticeIsErr = true
		return m, nil
	}
	if len(v.selectedTypes()) == 0 {
		v.notice = "Select at least one request type."
		v.noticeIsErr = true
		return m, nil
	}

	v.saving = true
	v.notice = ""
	draft := remote.OperatorDraft{
		Name:                   v.name.Value,
		LastName:               v.lastName.Value,
		ManageableRequestTypes: v.selectedTypes(),
		AvailabilityHours:      domain.AvailabilityHours{Start: v.start.Value, End: v.end.Value},
	}
	if v.editID == "" {
		draft.Email = v.email.Value
		draft.Password = v.password.Value
		return m, createOperator(m.desk, draft)
	}
	return m, updateOperator(m.desk, v.editID, draft)
}

func (m *Model) viewOperatorForm() string {
	v := &m.operatorForm
	heading := "Create a New Operator"
	if v.editID != "" {
		heading = "Edit Operator"
	}
	out := titleStyle.Render(heading) + "\n\n"

	if v.notice != "" {
		style := successStyle
		if v.noticeIsErr {
			style = errorStyle
		}
		out += style.Render(v.notice) + "\n\n"
	}

	out += v.name.Render(v.focus == 0) + "\n"
	out += v.lastName.Render(v.focus == 1) + "\n"
	out += v.start.Render(v.focus == 2) + "\n"
	out += v.end.Render(v.focus == 3) + "\n"

	out += labelStyle.Render("Request types:") + "\n"
	for i, t := range domain.RequestTypes() {
		marker := "[ ]"
		if v.types[t] {
			marker = "[x]"
		}
		line := "  " + marker + " " + string(t)
		if v.focus == 4 && i == v.typeIndex {
			line = selectedStyle.Render(line)
		}
		out += line + "\n"
	}

	if v.editID == "" {
		out += v.email.Render(v.focus == 5) + "\n"
		out += v.password.Render(v.focus == 6) + "\n"
	}

	out += "\n"
	if v.saving {
		out += mutedStyle.Render("Saving...")
	} else {
		out += mutedStyle.Render("tab: next field · space: toggle type · enter: save · esc: back")
	}
	return out
}
