package tui

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/felixgeelhaar/jobeditor/internal/adapters/logging"
	"github.com/felixgeelhaar/jobeditor/internal/domain/editor"
	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
	"github.com/felixgeelhaar/jobeditor/internal/ports"
	"github.com/felixgeelhaar/jobeditor/internal/testutil"
	"github.com/felixgeelhaar/jobeditor/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keySpace    = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keySave     = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyQuit     = tea.KeyMsg{Type: tea.KeyCtrlC}
	keyDown     = tea.KeyMsg{Type: tea.KeyDown}
	keyRunes    = func(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }
	testTimeout = 2 * time.Second
)

type editorFixture struct {
	t       *testing.T
	model   jobEditorModel
	session *editor.Session
	repo    *mocks.JobRepository
	sender  *chanSender
	escape  *KeyHook
}

func newEditorFixture(t *testing.T, j *job.Job) *editorFixture {
	t.Helper()

	ctx := context.Background()
	repo := mocks.NewJobRepository()
	sender := newChanSender()
	bridge := NewPromptBridge()
	bridge.Attach(sender)
	escape := NewKeyHook()

	session, err := editor.NewSession(ctx,
		editor.Params{SurveyID: "survey-1", Job: j, CreateMode: j == nil},
		editor.Dependencies{
			Jobs:          repo,
			Confirmer:     bridge,
			Notifier:      bridge,
			Navigator:     bridge,
			Logger:        logging.NewNopLogger(),
			NewID:         sequentialIDs(),
			Subscriptions: []ports.Subscription{escape},
		},
	)
	require.NoError(t, err)
	t.Cleanup(session.Release)

	return &editorFixture{
		t:       t,
		model:   newJobEditorModel(ctx, session, escape),
		session: session,
		repo:    repo,
		sender:  sender,
		escape:  escape,
	}
}

func sequentialIDs() job.IDGenerator {
	n := 0
	return func() string {
		n++
		return "gen-" + strconv.Itoa(n)
	}
}

func existingJob() job.Job {
	return testutil.NewJobBuilder("job-1").
		WithName("Trees").
		WithTextStep("s1", "Species").
		WithTextStep("s2", "Height").
		Build()
}

func (f *editorFixture) update(msg tea.Msg) tea.Cmd {
	f.t.Helper()
	next, cmd := f.model.Update(msg)
	model, ok := next.(jobEditorModel)
	require.True(f.t, ok)
	f.model = model
	return cmd
}

func (f *editorFixture) press(keys ...tea.KeyMsg) tea.Cmd {
	f.t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = f.update(k)
	}
	return cmd
}

func (f *editorFixture) focusSteps() {
	f.t.Helper()
	for i := 0; f.model.focus != fieldSteps && i < int(fieldCount); i++ {
		f.press(keyTab)
	}
	require.Equal(f.t, fieldSteps, f.model.focus)
}

// runAsync runs a command that blocks on a prompt.
func runAsync(cmd tea.Cmd) <-chan tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	return out
}

func (f *editorFixture) await(ch <-chan tea.Msg) tea.Msg {
	f.t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(testTimeout):
		require.FailNow(f.t, "command did not finish")
		return nil
	}
}

// answerPrompt shows the pending confirmation and answers it with keys.
func (f *editorFixture) answerPrompt(keys ...tea.KeyMsg) {
	f.t.Helper()
	req, ok := f.sender.next(f.t).(confirmRequestMsg)
	require.True(f.t, ok, "expected a confirmation request")
	f.update(req)
	require.NotNil(f.t, f.model.confirm)

	cmd := f.press(keys...)
	require.NotNil(f.t, cmd)
	f.update(cmd())
	require.Nil(f.t, f.model.confirm)
}

func TestJobEditor_NewJobFocusesFirstQuestion(t *testing.T) {
	t.Parallel()

	f := newEditorFixture(t, nil)

	assert.Equal(t, fieldSteps, f.model.focus)
	assert.Equal(t, modeStepLabel, f.model.mode)
	assert.Equal(t, 0, f.model.Cursor())
	assert.Contains(t, f.model.View(), "New job")
}

func TestJobEditor_SaveNewJob(t *testing.T) {
	t.Parallel()

	f := newEditorFixture(t, nil)
	f.press(keyRunes("Species"), keyEnter)
	assert.Equal(t, modeBrowse, f.model.mode)

	f.model = f.model.setFocus(fieldName)
	f.press(keyRunes("  Trees "))
	assert.Equal(t, "  Trees ", f.session.Name())

	cmd := f.press(keySave)
	require.NotNil(t, cmd)
	done := cmd()

	quit := f.update(f.sender.next(t))
	require.NotNil(t, quit)
	assert.Equal(t, tea.QuitMsg{}, quit())
	f.update(done)

	assert.True(t, f.model.saved)
	assert.True(t, f.model.closed)
	assert.Equal(t, "survey-1", f.model.surveyID)
	assert.False(t, f.escape.Enabled(), "escape binding is released with the session")

	calls := f.repo.Calls()
	require.Len(t, calls, 1)
	saved := calls[0].Job
	assert.Equal(t, "Trees", saved.Name)
	require.Len(t, saved.Steps, 1)
	for _, s := range saved.Steps {
		assert.Equal(t, "Species", s.Label)
	}

	result := resultFromModel(f.model)
	assert.True(t, result.Saved)
	assert.Equal(t, "Trees", result.JobName)
}

func TestJobEditor_SaveInvalidShowsErrors(t *testing.T) {
	t.Parallel()

	f := newEditorFixture(t, nil)
	f.press(keyEsc)
	assert.Equal(t, modeBrowse, f.model.mode, "escape leaves the label input")

	cmd := f.press(keySave)
	require.NotNil(t, cmd)
	f.update(cmd())

	assert.Equal(t, editor.StateEditing, f.session.State())
	assert.Contains(t, f.model.status, "Fix")
	assert.Contains(t, f.model.View(), editor.MsgLabelRequired)
	assert.Empty(t, f.repo.Calls())
}

func TestJobEditor_SaveFailureShowsNotice(t *testing.T) {
	t.Parallel()

	j := existingJob()
	f := newEditorFixture(t, &j)
	f.repo.FailSaves(errors.New("offline"))

	cmd := f.press(keySave)
	require.NotNil(t, cmd)
	done := cmd()

	f.update(f.sender.next(t))
	require.NotNil(t, f.model.notice)
	assert.Contains(t, f.model.View(), editor.SaveFailedMessage)

	f.update(done)
	assert.False(t, f.model.saved)
	assert.False(t, f.model.busy)

	dismiss := f.press(keyEnter)
	require.NotNil(t, dismiss)
	f.update(dismiss())
	assert.Nil(t, f.model.notice)
	assert.Equal(t, editor.StateEditing, f.session.State())
}

func TestJobEditor_DeleteStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		answer    []tea.KeyMsg
		wantSteps int
	}{
		{"confirmed", []tea.KeyMsg{keyRunes("y")}, 1},
		{"declined with enter on the default", []tea.KeyMsg{keyEnter}, 2},
		{"declined with n", []tea.KeyMsg{keyRunes("n")}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			j := existingJob()
			f := newEditorFixture(t, &j)
			f.focusSteps()
			f.press(keyDown)

			cmd := f.press(keyRunes("d"))
			require.NotNil(t, cmd)
			result := runAsync(cmd)

			f.answerPrompt(tt.answer...)
			f.update(f.await(result))

			assert.False(t, f.model.busy)
			assert.Equal(t, tt.wantSteps, f.session.Steps().Len())
			assert.Less(t, f.model.Cursor(), f.session.Steps().Len())
			assert.Equal(t, editor.StateEditing, f.session.State())
		})
	}
}

func TestJobEditor_CancelWithoutChanges(t *testing.T) {
	t.Parallel()

	j := existingJob()
	f := newEditorFixture(t, &j)

	cmd := f.press(keyEsc)
	require.NotNil(t, cmd)
	f.update(cmd())

	f.update(f.sender.next(t))
	assert.True(t, f.model.closed)
	assert.False(t, f.model.saved)
	assert.False(t, f.escape.Enabled())
	assert.Empty(t, f.repo.Calls())
}

func TestJobEditor_CancelWithChangesAsksToDiscard(t *testing.T) {
	t.Parallel()

	j := existingJob()
	f := newEditorFixture(t, &j)
	f.focusSteps()
	f.press(keyRunes("r"))
	require.True(t, f.session.HasUnsavedChanges())

	result := runAsync(f.press(keyEsc))
	req, ok := f.sender.next(t).(confirmRequestMsg)
	require.True(t, ok)
	assert.True(t, req.showDiscard)
	f.update(req)
	assert.Contains(t, f.model.View(), editor.DiscardTitle)
	f.update(f.press(keyEnter)())
	f.update(f.await(result))

	assert.Equal(t, "Editing resumed", f.model.status)
	assert.False(t, f.model.closed)

	result = runAsync(f.press(keyEsc))
	f.answerPrompt(keyRunes("y"))
	f.update(f.await(result))
	f.update(f.sender.next(t))

	assert.True(t, f.model.closed)
	assert.Equal(t, editor.StateClosed, f.session.State())
}

func TestJobEditor_StepKeys(t *testing.T) {
	t.Parallel()

	j := testutil.NewJobBuilder("job-1").
		WithTextStep("s1", "Species").
		WithChoiceStep("s2", "Health", "Good", "Poor").
		Build()
	f := newEditorFixture(t, &j)
	f.focusSteps()

	f.press(keyRunes("t"))
	assert.Equal(t, job.StepTypeText.Next(), f.session.StepViews()[0].Step.Type)

	f.press(keyRunes("J"))
	assert.Equal(t, 1, f.model.Cursor())
	assert.Equal(t, "s1", f.session.StepViews()[1].Step.ID)

	f.press(keyRunes("K"))
	assert.Equal(t, 0, f.model.Cursor())
	f.press(keyDown)

	f.press(keyRunes("o"))
	require.Equal(t, modeOptionLabel, f.model.mode)
	f.press(keyRunes("Dead"), keyEnter)
	require.Len(t, f.session.StepViews()[1].Options, 3)
	assert.Equal(t, "Dead", f.session.StepViews()[1].Options[2].Option.Label)

	f.press(keyRunes("x"))
	assert.Len(t, f.session.StepViews()[1].Options, 2)

	f.press(keyRunes("m"))
	assert.Equal(t, job.SelectMultiple, f.session.StepViews()[1].Step.MultipleChoice.Cardinality)

	f.press(keyRunes("a"))
	assert.Equal(t, 2, f.model.Cursor())
	assert.Equal(t, modeStepLabel, f.model.mode)
	f.press(keyRunes("Notes"), keyEnter)
	assert.Equal(t, "Notes", f.session.StepViews()[2].Step.Label)

	f.press(keyEnter)
	assert.Equal(t, modeStepLabel, f.model.mode)
	assert.Equal(t, "Notes", f.model.input.Value())
	f.press(keyEsc)
	assert.Equal(t, modeBrowse, f.model.mode)
}

func TestJobEditor_ColorAndLOIFields(t *testing.T) {
	t.Parallel()

	j := existingJob()
	f := newEditorFixture(t, &j)

	f.press(keyTab)
	require.Equal(t, fieldColor, f.model.focus)

	f.model.color.SetValue("blue")
	f.press(keyEnter)
	require.Error(t, f.model.err)
	assert.Equal(t, job.DefaultColor, f.session.Color())
	assert.Equal(t, job.DefaultColor, f.model.color.Value())

	f.model.color.SetValue("#123456")
	f.press(keyTab)
	assert.Equal(t, "#123456", f.session.Color())
	assert.Equal(t, fieldPoints, f.model.focus)

	f.press(keySpace)
	assert.False(t, f.session.AllowPoints())

	f.press(keyTab, keyEnter)
	assert.False(t, f.session.AllowPolygons())
	assert.Contains(t, f.model.View(), "[ ]")
}

func TestJobEditor_KeysIgnoredWhileBusy(t *testing.T) {
	t.Parallel()

	j := existingJob()
	f := newEditorFixture(t, &j)

	require.NotNil(t, f.press(keySave))
	assert.True(t, f.model.busy)

	assert.Nil(t, f.press(keyTab))
	assert.Equal(t, fieldName, f.model.focus)
}

func TestJobEditor_QuitDeclinesPendingPrompt(t *testing.T) {
	t.Parallel()

	j := existingJob()
	f := newEditorFixture(t, &j)
	f.focusSteps()

	result := runAsync(f.press(keyRunes("d")))
	req, ok := f.sender.next(t).(confirmRequestMsg)
	require.True(t, ok)
	f.update(req)

	quit := f.press(keyQuit)
	require.NotNil(t, quit)
	assert.True(t, f.model.aborted)

	done, ok := f.await(result).(deleteDoneMsg)
	require.True(t, ok)
	assert.False(t, done.removed)
	assert.Equal(t, 2, f.session.Steps().Len())
}

func TestJobEditor_EscapeDisabledAfterRelease(t *testing.T) {
	t.Parallel()

	j := existingJob()
	f := newEditorFixture(t, &j)
	f.session.Release()

	f.press(keyEsc)
	assert.False(t, f.model.busy)
	assert.NotContains(t, f.model.View(), "esc")
}
