// Package tui provides the terminal user interface of the job editor.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/felixgeelhaar/jobeditor/internal/domain/editor"
	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
	"github.com/felixgeelhaar/jobeditor/internal/ports"
)

// JobEditorOptions configures the job editor.
type JobEditorOptions struct {
	SurveyID   string
	Job        *job.Job
	CreateMode bool
	Jobs       editor.JobSaver
	Logger     ports.Logger
	// SessionOptions are applied to the editing session.
	SessionOptions []editor.Option
	// ProgramOptions are passed to the Bubble Tea program.
	ProgramOptions []tea.ProgramOption
}

// NewJobEditorOptions creates options for creating a new job in a survey.
func NewJobEditorOptions(surveyID string, jobs editor.JobSaver, logger ports.Logger) JobEditorOptions {
	return JobEditorOptions{
		SurveyID:   surveyID,
		CreateMode: true,
		Jobs:       jobs,
		Logger:     logger,
	}
}

// WithJob edits an existing job instead of creating one.
func (o JobEditorOptions) WithJob(j job.Job) JobEditorOptions {
	o.Job = &j
	o.CreateMode = false
	return o
}

// WithSessionOptions adds session options.
func (o JobEditorOptions) WithSessionOptions(opts ...editor.Option) JobEditorOptions {
	o.SessionOptions = append(o.SessionOptions, opts...)
	return o
}

// WithProgramOptions adds Bubble Tea program options.
func (o JobEditorOptions) WithProgramOptions(opts ...tea.ProgramOption) JobEditorOptions {
	o.ProgramOptions = append(o.ProgramOptions, opts...)
	return o
}

// JobEditorResult holds the outcome of an editing session.
type JobEditorResult struct {
	// Saved is true when the job was stored.
	Saved bool
	// Closed is true when the session ended through save or cancel.
	Closed bool
	// Aborted is true when the user quit without closing the session.
	Aborted bool
	// SurveyID is the survey shown after the session closed.
	SurveyID string
	// JobName is the normalized name of the job as last edited.
	JobName string
}

// RunJobEditor opens an editing session and runs the interactive editor
// until the session closes or the user quits.
func RunJobEditor(ctx context.Context, opts JobEditorOptions) (*JobEditorResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bridge := NewPromptBridge()
	escape := NewKeyHook()

	session, err := editor.NewSession(ctx,
		editor.Params{SurveyID: opts.SurveyID, Job: opts.Job, CreateMode: opts.CreateMode},
		editor.Dependencies{
			Jobs:          opts.Jobs,
			Confirmer:     bridge,
			Notifier:      bridge,
			Navigator:     bridge,
			Logger:        opts.Logger,
			Subscriptions: []ports.Subscription{escape},
		},
		opts.SessionOptions...,
	)
	if err != nil {
		return nil, fmt.Errorf("job editor failed: %w", err)
	}
	defer session.Release()

	model := newJobEditorModel(ctx, session, escape)

	programOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, opts.ProgramOptions...)
	p := tea.NewProgram(model, programOpts...)
	bridge.Attach(p)

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("job editor failed: %w", err)
	}

	m, ok := finalModel.(jobEditorModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}

	return resultFromModel(m), nil
}

func resultFromModel(m jobEditorModel) *JobEditorResult {
	return &JobEditorResult{
		Saved:    m.saved,
		Closed:   m.closed,
		Aborted:  m.aborted,
		SurveyID: m.surveyID,
		JobName:  job.NormalizeName(m.session.Name()),
	}
}
