package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ErrorMsg reports an error from a background command.
type ErrorMsg struct {
	Err error
}

func (e ErrorMsg) Error() string {
	return e.Err.Error()
}

// StatusMsg sets the editor status line.
type StatusMsg struct {
	Message string
}

// NewErrorMsg creates a new error message.
func NewErrorMsg(err error) tea.Msg {
	return ErrorMsg{Err: err}
}

// NewStatusMsg creates a new status message.
func NewStatusMsg(message string) tea.Msg {
	return StatusMsg{Message: message}
}
