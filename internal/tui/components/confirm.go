// Package components contains reusable dialogs for the job editor.
package components

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/jobeditor/internal/tui/ui"
)

// ConfirmResultMsg is sent when the user confirms or cancels.
type ConfirmResultMsg struct {
	Confirmed bool
}

// Confirm is a titled yes/no confirmation dialog.
type Confirm struct {
	title    string
	message  string
	yesLabel string
	noLabel  string
	focused  bool // true = yes, false = no
	width    int
	keys     ui.KeyMap
	styles   ui.Styles
}

// NewConfirm creates a new confirmation dialog.
func NewConfirm(message string) Confirm {
	return Confirm{
		message:  message,
		yesLabel: "Yes",
		noLabel:  "No",
		focused:  true,
		width:    ui.DialogWidth,
		keys:     ui.DefaultKeyMap(),
		styles:   ui.DefaultStyles(),
	}
}

// NewDiscardConfirm creates a dialog that offers to throw away unsaved work.
// The keep option has focus.
func NewDiscardConfirm(title, message string) Confirm {
	return NewConfirm(message).
		WithTitle(title).
		WithYesLabel("Discard").
		WithNoLabel("Keep editing").
		WithFocus(false)
}

// Title returns the dialog title.
func (c Confirm) Title() string {
	return c.title
}

// Message returns the confirmation message.
func (c Confirm) Message() string {
	return c.message
}

// YesLabel returns the yes button label.
func (c Confirm) YesLabel() string {
	return c.yesLabel
}

// NoLabel returns the no button label.
func (c Confirm) NoLabel() string {
	return c.noLabel
}

// Focused returns true if yes is focused, false if no is focused.
func (c Confirm) Focused() bool {
	return c.focused
}

// Width returns the dialog width.
func (c Confirm) Width() int {
	return c.width
}

// WithTitle sets the title.
func (c Confirm) WithTitle(title string) Confirm {
	c.title = title
	return c
}

// WithYesLabel sets the yes button label.
func (c Confirm) WithYesLabel(label string) Confirm {
	c.yesLabel = label
	return c
}

// WithNoLabel sets the no button label.
func (c Confirm) WithNoLabel(label string) Confirm {
	c.noLabel = label
	return c
}

// WithFocus sets which button has focus.
func (c Confirm) WithFocus(yes bool) Confirm {
	c.focused = yes
	return c
}

// WithWidth sets the dialog width.
func (c Confirm) WithWidth(width int) Confirm {
	c.width = width
	return c
}

// Update handles key presses. A decision is reported as ConfirmResultMsg.
func (c Confirm) Update(msg tea.Msg) (Confirm, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch {
	case c.keys.IsLeft(keyMsg):
		c.focused = true
	case c.keys.IsRight(keyMsg), key.Matches(keyMsg, c.keys.Next):
		c.focused = !c.focused
	case key.Matches(keyMsg, c.keys.Select):
		return c, c.confirmCmd(c.focused)
	case key.Matches(keyMsg, c.keys.ConfirmYes):
		return c, c.confirmCmd(true)
	case key.Matches(keyMsg, c.keys.ConfirmNo), key.Matches(keyMsg, c.keys.Cancel):
		return c, c.confirmCmd(false)
	}
	return c, nil
}

func (c Confirm) confirmCmd(confirmed bool) tea.Cmd {
	return func() tea.Msg {
		return ConfirmResultMsg{Confirmed: confirmed}
	}
}

// View renders the confirmation dialog.
func (c Confirm) View() string {
	yesStyle := c.styles.Button
	noStyle := c.styles.Button
	if c.focused {
		yesStyle = c.styles.ButtonActive
	} else {
		noStyle = c.styles.ButtonActive
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		yesStyle.Render(c.yesLabel), "  ", noStyle.Render(c.noLabel))
	buttonRow := lipgloss.NewStyle().Width(c.width).Align(lipgloss.Center).Render(buttons)

	parts := make([]string, 0, 4)
	if c.title != "" {
		parts = append(parts, c.styles.PanelTitle.Render(c.title))
	}
	parts = append(parts, c.styles.Paragraph.Width(c.width).Render(c.message), "", buttonRow)

	return c.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
