package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Screen identifies what the menu is currently showing
type Screen int

const (
	ScreenMain Screen = iota
	ScreenProjects
	ScreenTasks
	ScreenForm
	ScreenConfirm
	ScreenOutput
)

// String returns the display name for a screen
func (s Screen) String() string {
	switch s {
	case ScreenMain:
		return "Main"
	case ScreenProjects:
		return "Projects"
	case ScreenTasks:
		return "Tasks"
	case ScreenForm:
		return "Form"
	case ScreenConfirm:
		return "Confirm"
	case ScreenOutput:
		return "Result"
	default:
		return "Unknown"
	}
}

// Messages for inter-component communication

// ResultMsg carries the outcome of a service call
type ResultMsg struct {
	Title string
	Lines []string
	Err   error
}

// ConfirmMsg asks the user to approve an action before it runs
type ConfirmMsg struct {
	Prompt string
	Action tea.Cmd
}
