package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field struct {
	label       string
	placeholder string
	limit       int
}

// form is a sequence of text inputs submitted together
type form struct {
	title  string
	inputs []textinput.Model
	focus  int
	submit func(values []string) tea.Cmd
}

func newForm(title string, fields []field, mode cursor.Mode, submit func(values []string) tea.Cmd) (*form, tea.Cmd) {
	f := &form{
		title:  title,
		inputs: make([]textinput.Model, len(fields)),
		submit: submit,
	}
	for i, fd := range fields {
		ti := textinput.New()
		ti.Prompt = fd.label + ": "
		ti.Placeholder = fd.placeholder
		if fd.limit > 0 {
			ti.CharLimit = fd.limit
		}
		ti.Cursor.SetMode(mode)
		f.inputs[i] = ti
	}
	return f, f.inputs[0].Focus()
}

func (f *form) values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = in.Value()
	}
	return out
}

func (f *form) move(delta int) tea.Cmd {
	next := f.focus + delta
	if next < 0 || next >= len(f.inputs) {
		return nil
	}
	f.inputs[f.focus].Blur()
	f.focus = next
	return f.inputs[f.focus].Focus()
}

// last reports whether the focused input is the final one
func (f *form) last() bool {
	return f.focus == len(f.inputs)-1
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) view() string {
	var b strings.Builder
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	return b.String()
}

// optional returns nil for a blank value so it reads as "keep current"
func optional(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}
