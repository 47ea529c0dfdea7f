package ui

import "strings"

// textField is a minimal single-line input: character append,
// backspace, optional masking for passwords. Focus routing is the
// owning view's job.
type textField struct {
	Label  string
	Value  string
	Masked bool
}

// HandleRune appends a typed character.
func (f *textField) HandleRune(r rune) {
	f.Value += string(r)
}

// HandleBackspace removes the last character.
func (f *textField) HandleBackspace() {
	if len(f.Value) == 0 {
		return
	}
	runes := []rune(f.Value)
	f.Value = string(runes[:len(runes)-1])
}

// Render draws the field with its label; focused fields show a cursor.
func (f *textField) Render(focused bool) string {
	display := f.Value
	if f.Masked {
		display = strings.Repeat("*", len([]rune(f.Value)))
	}
	line := labelStyle.Render(f.Label+": ") + display
	if focused {
		line += fieldFocusedStyle.Render("▏")
	}
	return line
}
