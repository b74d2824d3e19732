package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/jobeditor/internal/domain/editor"
	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
	"github.com/felixgeelhaar/jobeditor/internal/tui/components"
	"github.com/felixgeelhaar/jobeditor/internal/tui/ui"
)

// field is a focusable area of the editor form.
type field int

const (
	fieldName field = iota
	fieldColor
	fieldPoints
	fieldPolygons
	fieldSteps
	fieldCount
)

// inputMode is set while the label input captures keys.
type inputMode int

const (
	modeBrowse inputMode = iota
	modeStepLabel
	modeOptionLabel
)

// Results of session operations run off the update loop.
type (
	saveDoneMsg struct {
		err error
	}
	cancelDoneMsg struct {
		closed bool
		err    error
	}
	deleteDoneMsg struct {
		index   int
		removed bool
		err     error
	}
)

// jobEditorModel is the Bubble Tea model for editing one job.
type jobEditorModel struct {
	ctx     context.Context
	session *editor.Session
	escape  *KeyHook
	keys    ui.KeyMap
	styles  ui.Styles
	width   int
	height  int

	focus  field
	name   textinput.Model
	color  textinput.Model
	input  textinput.Model
	mode   inputMode
	cursor int

	busy    bool
	saving  bool
	confirm *components.Confirm
	reply   chan<- bool
	notice  *components.Notice

	status   string
	err      error
	saved    bool
	closed   bool
	aborted  bool
	surveyID string
}

func newJobEditorModel(ctx context.Context, session *editor.Session, escape *KeyHook) jobEditorModel {
	styles := ui.DefaultStyles()

	name := textinput.New()
	name.Placeholder = "Job name"
	name.CharLimit = ui.NameCharLimit
	name.SetValue(session.Name())
	name.Focus()

	color := textinput.New()
	color.Placeholder = job.DefaultColor
	color.CharLimit = len(job.DefaultColor)
	color.SetValue(session.Color())

	input := textinput.New()
	input.CharLimit = ui.LabelCharLimit

	m := jobEditorModel{
		ctx:     ctx,
		session: session,
		escape:  escape,
		keys:    ui.DefaultKeyMap(),
		styles:  styles,
		width:   ui.DefaultWidth,
		height:  ui.DefaultHeight,
		focus:   fieldName,
		name:    name,
		color:   color,
		input:   input,
	}
	if session.Original().IsNew() {
		m = m.takeFocusRequest()
	} else {
		_, _ = session.TakeFocusRequest()
	}
	return m
}

// Cursor returns the selected step (for testing).
func (m jobEditorModel) Cursor() int {
	return m.cursor
}

// Init initializes the model.
func (m jobEditorModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.WindowSize())
}

// Update handles messages.
func (m jobEditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.styles = m.styles.WithWidth(msg.Width)
		return m, nil

	case confirmRequestMsg:
		c := components.NewConfirm(msg.message).WithTitle(msg.title).WithFocus(false)
		if msg.showDiscard {
			c = components.NewDiscardConfirm(msg.title, msg.message)
		}
		m.confirm = &c
		m.reply = msg.reply
		return m, nil

	case components.ConfirmResultMsg:
		m.answer(msg.Confirmed)
		return m, nil

	case noticeMsg:
		n := components.NewNotice(msg.title, msg.message)
		m.notice = &n
		return m, nil

	case components.NoticeDismissedMsg:
		m.notice = nil
		return m, nil

	case navigateMsg:
		// A save closes the session before its result message arrives.
		m.saved = m.saving
		m.closed = true
		m.surveyID = msg.surveyID
		return m, tea.Quit

	case saveDoneMsg:
		m.busy = false
		m.saving = false
		return m.handleSaveDone(msg), nil

	case cancelDoneMsg:
		m.busy = false
		m.err = msg.err
		if !msg.closed && msg.err == nil {
			m.status = "Editing resumed"
		}
		return m, nil

	case deleteDoneMsg:
		m.busy = false
		m.err = msg.err
		if msg.removed {
			m.status = "Question deleted"
			m.cursor = clampCursor(m.cursor, m.session.Steps().Len())
		}
		return m, nil

	case ui.StatusMsg:
		m.status = msg.Message
		return m, nil

	case ui.ErrorMsg:
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

// answer resolves a pending confirmation.
func (m *jobEditorModel) answer(confirmed bool) {
	if m.reply != nil {
		m.reply <- confirmed
	}
	m.reply = nil
	m.confirm = nil
}

func (m jobEditorModel) handleSaveDone(msg saveDoneMsg) jobEditorModel {
	var saveErr *editor.SaveError
	switch {
	case msg.err == nil:
		m.saved = true
		m.status = "Job saved"
		m.err = nil
	case errors.Is(msg.err, editor.ErrValidationFailed):
		m.status = "Fix the highlighted questions before saving"
		m.err = nil
		m.cursor = m.firstInvalid()
	case errors.As(msg.err, &saveErr):
		m.status = editor.SaveFailedMessage
		m.err = nil
	default:
		m.err = msg.err
	}
	return m
}

func (m jobEditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.aborted = true
		m.answer(false)
		return m, tea.Quit
	}

	if m.notice != nil {
		n, cmd := m.notice.Update(msg)
		m.notice = &n
		return m, cmd
	}
	if m.confirm != nil {
		c, cmd := m.confirm.Update(msg)
		m.confirm = &c
		return m, cmd
	}
	if m.busy {
		return m, nil
	}
	if m.mode != modeBrowse {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Save):
		m = m.commitColor()
		m.busy = true
		m.saving = true
		m.status = "Saving..."
		return m, m.saveCmd()

	case key.Matches(msg, m.keys.Cancel) && m.escape.Enabled():
		m.busy = true
		return m, m.cancelCmd()

	case key.Matches(msg, m.keys.Next):
		return m.moveFocus(1), nil

	case key.Matches(msg, m.keys.Prev):
		return m.moveFocus(-1), nil
	}

	switch m.focus {
	case fieldName:
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		m.err = m.session.SetName(m.name.Value())
		return m, cmd

	case fieldColor:
		if key.Matches(msg, m.keys.Select) {
			return m.commitColor(), nil
		}
		var cmd tea.Cmd
		m.color, cmd = m.color.Update(msg)
		return m, cmd

	case fieldPoints:
		if key.Matches(msg, m.keys.Toggle, m.keys.Select) {
			m.err = m.session.SetAllowPoints(!m.session.AllowPoints())
		}
		return m, nil

	case fieldPolygons:
		if key.Matches(msg, m.keys.Toggle, m.keys.Select) {
			m.err = m.session.SetAllowPolygons(!m.session.AllowPolygons())
		}
		return m, nil

	case fieldSteps:
		return m.handleStepKey(msg)
	}

	return m, nil
}

func (m jobEditorModel) handleStepKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := m.session.Steps().Len()

	switch {
	case m.keys.IsUp(msg):
		if m.cursor > 0 {
			m.cursor--
		}

	case m.keys.IsDown(msg):
		if m.cursor < count-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if form, ok := m.session.Form(m.cursor); ok {
			return m.startInput(modeStepLabel, form.Label(), "Question"), textinput.Blink
		}

	case key.Matches(msg, m.keys.AddStep):
		if _, m.err = m.session.AddStep(); m.err == nil {
			m = m.takeFocusRequest()
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.DeleteStep):
		if count > 0 {
			m.busy = true
			return m, m.deleteCmd(m.cursor)
		}

	case key.Matches(msg, m.keys.MoveUp):
		if m.cursor > 0 {
			if m.err = m.session.MoveStep(m.cursor, m.cursor-1); m.err == nil {
				m.cursor--
			}
		}

	case key.Matches(msg, m.keys.MoveDown):
		if m.cursor < count-1 {
			if m.err = m.session.MoveStep(m.cursor, m.cursor+1); m.err == nil {
				m.cursor++
			}
		}

	case key.Matches(msg, m.keys.ToggleRequired):
		m.err = m.session.EditStep(m.cursor, func(f *editor.StepForm) {
			f.SetRequired(!f.Required())
		})

	case key.Matches(msg, m.keys.CycleType):
		m.err = m.session.EditStep(m.cursor, func(f *editor.StepForm) {
			f.SetType(f.Type().Next())
		})

	case key.Matches(msg, m.keys.Cardinality):
		m.err = m.session.EditStep(m.cursor, func(f *editor.StepForm) {
			if f.Cardinality() == job.SelectOne {
				f.SetCardinality(job.SelectMultiple)
			} else {
				f.SetCardinality(job.SelectOne)
			}
		})

	case key.Matches(msg, m.keys.AddOption):
		if form, ok := m.session.Form(m.cursor); ok && form.Type().HasOptions() {
			return m.startInput(modeOptionLabel, "", "Option"), textinput.Blink
		}

	case key.Matches(msg, m.keys.RemoveOption):
		m.err = m.session.EditStep(m.cursor, func(f *editor.StepForm) {
			f.RemoveOption(len(f.Options()) - 1)
		})
	}

	return m, nil
}

func (m jobEditorModel) startInput(mode inputMode, value, placeholder string) jobEditorModel {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m
}

func (m jobEditorModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		value := m.input.Value()
		switch m.mode {
		case modeStepLabel:
			m.err = m.session.EditStep(m.cursor, func(f *editor.StepForm) {
				f.SetLabel(value)
				f.MarkTouched()
			})
		case modeOptionLabel:
			m.err = m.session.EditStep(m.cursor, func(f *editor.StepForm) {
				f.AddOption(value).MarkTouched()
			})
		}
		return m.endInput(), nil

	case key.Matches(msg, m.keys.Cancel):
		return m.endInput(), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m jobEditorModel) endInput() jobEditorModel {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.SetValue("")
	return m
}

// takeFocusRequest moves the cursor to a step the session wants focused and
// starts editing its label.
func (m jobEditorModel) takeFocusRequest() jobEditorModel {
	index, ok := m.session.TakeFocusRequest()
	if !ok {
		return m
	}
	m = m.setFocus(fieldSteps)
	m.cursor = index
	label := ""
	if form, ok := m.session.Form(index); ok {
		label = form.Label()
	}
	return m.startInput(modeStepLabel, label, "Question")
}

func (m jobEditorModel) moveFocus(delta int) jobEditorModel {
	next := (int(m.focus) + delta + int(fieldCount)) % int(fieldCount)
	return m.setFocus(field(next))
}

func (m jobEditorModel) setFocus(f field) jobEditorModel {
	if m.focus == fieldColor && f != fieldColor {
		m = m.commitColor()
	}
	m.focus = f
	m.name.Blur()
	m.color.Blur()
	switch f {
	case fieldName:
		m.name.Focus()
	case fieldColor:
		m.color.Focus()
	}
	return m
}

// commitColor applies the typed color, restoring the previous one when it is
// not a valid color.
func (m jobEditorModel) commitColor() jobEditorModel {
	value := strings.TrimSpace(m.color.Value())
	if value == m.session.Color() {
		return m
	}
	if err := m.session.SetColor(value); err != nil {
		m.err = err
		m.color.SetValue(m.session.Color())
		return m
	}
	m.err = nil
	return m
}

func (m jobEditorModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	cmds = append(cmds, cmd)
	m.color, cmd = m.color.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m jobEditorModel) saveCmd() tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		return saveDoneMsg{err: session.Save(ctx)}
	}
}

func (m jobEditorModel) cancelCmd() tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		closed, err := session.Cancel(ctx)
		return cancelDoneMsg{closed: closed, err: err}
	}
}

func (m jobEditorModel) deleteCmd(index int) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		removed, err := session.DeleteStep(ctx, index)
		return deleteDoneMsg{index: index, removed: removed, err: err}
	}
}

func (m jobEditorModel) firstInvalid() int {
	for i, v := range m.session.StepViews() {
		if v.Error != "" {
			return i
		}
		for _, o := range v.Options {
			if o.Error != "" {
				return i
			}
		}
	}
	return m.cursor
}

func clampCursor(cursor, count int) int {
	if cursor >= count {
		cursor = count - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

// View renders the model.
func (m jobEditorModel) View() string {
	if m.notice != nil {
		return m.styles.App.Render(m.notice.View())
	}
	if m.confirm != nil {
		return m.styles.App.Render(m.confirm.View())
	}

	var b strings.Builder

	title := "Edit job"
	if m.session.Original().IsNew() {
		title = "New job"
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")

	b.WriteString(m.renderField(fieldName, "Name", m.name.View()))
	b.WriteString(m.renderField(fieldColor, "Color", ui.Swatch(m.session.Color())+" "+m.color.View()))
	b.WriteString(m.renderField(fieldPoints, "Points", checkbox(m.session.AllowPoints())))
	b.WriteString(m.renderField(fieldPolygons, "Polygons", checkbox(m.session.AllowPolygons())))
	b.WriteString("\n")

	b.WriteString(m.renderSteps())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.styles.Subtitle.Render(m.status))
		b.WriteString("\n")
	}

	help := m.keys.EditorHelp()
	if !m.escape.Enabled() {
		help = withoutBinding(help, m.keys.Cancel)
	}
	b.WriteString(m.styles.RenderHelp(help))

	return m.styles.App.Render(b.String())
}

func (m jobEditorModel) renderField(f field, label, value string) string {
	marker := "  "
	if m.focus == f {
		marker = m.styles.HelpKey.Render("> ")
	}
	return marker + m.styles.Label.Render(label) + value + "\n"
}

func (m jobEditorModel) renderSteps() string {
	views := m.session.StepViews()

	header := "Questions"
	if m.focus == fieldSteps {
		header = "> " + header
	}
	lines := []string{m.styles.PanelTitle.Render(header)}

	for i, v := range views {
		selected := m.focus == fieldSteps && i == m.cursor

		label := v.Step.Label
		if selected && m.mode == modeStepLabel {
			label = m.input.View()
		} else if label == "" {
			label = m.styles.Help.Render("(untitled)")
		}

		required := ""
		if v.Step.Required {
			required = " *"
		}
		line := fmt.Sprintf("%d. %s%s  %s", i+1, label, required, m.styles.Help.Render(v.Step.Type.Title()))
		if v.Step.MultipleChoice != nil {
			line += m.styles.Help.Render(" (" + string(v.Step.MultipleChoice.Cardinality) + ")")
		}

		style := m.styles.ListItem
		if selected {
			style = m.styles.ListItemActive
		}
		lines = append(lines, style.Render(line))

		if v.Error != "" {
			lines = append(lines, m.styles.ListItem.Render("   "+m.styles.Error.Render(v.Error)))
		}
		for _, o := range v.Options {
			optLine := "   - " + o.Option.Label
			if o.Error != "" {
				optLine += "  " + m.styles.Error.Render(o.Error)
			}
			lines = append(lines, m.styles.ListItem.Render(optLine))
		}
		if selected && m.mode == modeOptionLabel {
			lines = append(lines, m.styles.ListItem.Render("   + "+m.input.View()))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

func withoutBinding(bindings []key.Binding, drop key.Binding) []key.Binding {
	out := make([]key.Binding, 0, len(bindings))
	for _, b := range bindings {
		if b.Help() == drop.Help() {
			continue
		}
		out = append(out, b)
	}
	return out
}
