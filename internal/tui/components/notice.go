package components

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/jobeditor/internal/tui/ui"
)

// NoticeDismissedMsg is sent when a notice is closed.
type NoticeDismissedMsg struct{}

// Notice is a blocking message with a single OK button.
type Notice struct {
	title   string
	message string
	width   int
	keys    ui.KeyMap
	styles  ui.Styles
}

// NewNotice creates a notice.
func NewNotice(title, message string) Notice {
	return Notice{
		title:   title,
		message: message,
		width:   ui.DialogWidth,
		keys:    ui.DefaultKeyMap(),
		styles:  ui.DefaultStyles(),
	}
}

// Title returns the notice title.
func (n Notice) Title() string {
	return n.title
}

// Message returns the notice text.
func (n Notice) Message() string {
	return n.message
}

// Update dismisses the notice on enter, space or esc.
func (n Notice) Update(msg tea.Msg) (Notice, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return n, nil
	}
	if key.Matches(keyMsg, n.keys.Select, n.keys.Toggle, n.keys.Cancel) {
		return n, func() tea.Msg { return NoticeDismissedMsg{} }
	}
	return n, nil
}

// View renders the notice.
func (n Notice) View() string {
	button := lipgloss.NewStyle().Width(n.width).Align(lipgloss.Center).
		Render(n.styles.ButtonActive.Render("OK"))
	body := lipgloss.JoinVertical(lipgloss.Left,
		n.styles.Error.Bold(true).Render(n.title),
		"",
		n.styles.Paragraph.Width(n.width).Render(n.message),
		"",
		button,
	)
	return n.styles.Panel.Render(body)
}
