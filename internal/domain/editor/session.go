// Package editor implements the job editing session: the ordered step
// collection, validation and change tracking over step editors, and the
// save and cancel protocol around the job store.
package editor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
	"github.com/felixgeelhaar/jobeditor/internal/ports"
	"github.com/felixgeelhaar/statekit"
)

// Confirmation texts.
const (
	DeleteStepTitle   = "Warning"
	DeleteStepMessage = "Are you sure you wish to delete this question? Any associated data " +
		"will be lost. This cannot be undone."
	DiscardTitle          = "Discard changes"
	DiscardMessage        = "Unsaved changes to this job will be lost. Are you sure?"
	SaveFailedTitle       = "Error"
	SaveFailedMessage     = "Job update failed."
	defaultStepTypeOnOpen = job.StepTypeText
)

// JobSaver persists a job under a survey.
type JobSaver interface {
	AddOrUpdateJob(ctx context.Context, surveyID string, j job.Job) error
}

// Params describes the job a session edits.
type Params struct {
	SurveyID string
	// Job is nil when creating a new job.
	Job        *job.Job
	CreateMode bool
}

// Dependencies are the collaborators of a session.
type Dependencies struct {
	Jobs      JobSaver
	Confirmer ports.Confirmer
	Notifier  ports.Notifier
	Navigator ports.Navigator
	Logger    ports.Logger
	// NewID generates identifiers for unsaved steps. Defaults to job.NewID.
	NewID job.IDGenerator
	// Subscriptions are released when the session ends.
	Subscriptions []ports.Subscription
}

// Option configures a session.
type Option func(*Session)

// WithDefaultStepType sets the type of steps added by AddStep.
func WithDefaultStepType(t job.StepType) Option {
	return func(s *Session) {
		s.defaultStepType = t
	}
}

// WithDefaultColor sets the color of jobs that have none.
func WithDefaultColor(color string) Option {
	return func(s *Session) {
		s.defaultColor = color
	}
}

// WithLockDuringSave controls whether structural edits are rejected while a
// save is in flight (default true).
func WithLockDuringSave(lock bool) Option {
	return func(s *Session) {
		s.lockDuringSave = lock
	}
}

// Session is one editing session of a single job.
type Session struct {
	mu      sync.Mutex
	interp  *statekit.Interpreter[machineContext]
	current State

	surveyID string
	original job.Job
	name     string
	color    string
	points   bool
	polygons bool
	steps    StepCollection
	forms    []*StepForm
	focus    int

	jobs      JobSaver
	confirmer ports.Confirmer
	notifier  ports.Notifier
	navigator ports.Navigator
	logger    ports.Logger
	newID     job.IDGenerator

	defaultStepType job.StepType
	defaultColor    string
	lockDuringSave  bool

	subscriptions []ports.Subscription
	releaseOnce   sync.Once
	closed        bool
	navigated     bool
}

// NewSession opens an editing session for params.
func NewSession(ctx context.Context, params Params, deps Dependencies, opts ...Option) (*Session, error) {
	if deps.Jobs == nil {
		return nil, fmt.Errorf("job store is required")
	}
	if deps.Confirmer == nil {
		return nil, fmt.Errorf("confirmer is required")
	}
	if deps.Navigator == nil {
		return nil, fmt.Errorf("navigator is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.NewID == nil {
		deps.NewID = job.NewID
	}

	s := &Session{
		surveyID:        params.SurveyID,
		jobs:            deps.Jobs,
		confirmer:       deps.Confirmer,
		notifier:        deps.Notifier,
		navigator:       deps.Navigator,
		logger:          deps.Logger.With(ports.F("survey_id", params.SurveyID)),
		newID:           deps.NewID,
		subscriptions:   deps.Subscriptions,
		defaultStepType: defaultStepTypeOnOpen,
		defaultColor:    job.DefaultColor,
		lockDuringSave:  true,
		focus:           -1,
	}
	for _, opt := range opts {
		opt(s)
	}

	interp, err := buildSessionMachine(params.SurveyID, s.markClosed)
	if err != nil {
		return nil, fmt.Errorf("failed to build state machine: %w", err)
	}
	s.interp = interp
	s.interp.Start()
	s.current = State(s.interp.State().Value)

	s.load(ctx, params)
	return s, nil
}

// load initializes the session from params. A missing job outside create
// mode is logged and treated as a new job.
func (s *Session) load(ctx context.Context, params Params) {
	if !params.CreateMode && params.Job == nil {
		s.logger.Warn(ctx, "no job supplied outside create mode, creating a new job")
	}

	if params.Job == nil {
		s.original = job.New()
		s.original.Color = s.defaultColor
		s.color = s.defaultColor
		s.points = true
		s.polygons = true
		s.appendStep(s.defaultStepType)
		return
	}

	s.original = params.Job.Clone()
	s.name = s.original.Name
	s.color = s.original.Color
	if s.color == "" {
		s.color = s.defaultColor
	}
	s.points = s.original.Allows(job.LOIPoints)
	s.polygons = s.original.Allows(job.LOIPolygons)

	ordered := s.original.OrderedSteps()
	if len(ordered) == 0 {
		s.appendStep(s.defaultStepType)
		return
	}
	s.steps = NewStepCollection(ordered...)
	s.forms = make([]*StepForm, len(ordered))
	for i, step := range ordered {
		s.forms[i] = NewStepForm(step)
	}
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() State {
	return s.current
}

// send delivers event to the state machine. Callers hold s.mu.
func (s *Session) send(event statekit.EventType) {
	s.interp.Send(statekit.Event{Type: event})
	s.current = State(s.interp.State().Value)
}

// SurveyID returns the survey the job belongs to.
func (s *Session) SurveyID() string {
	return s.surveyID
}

// Original returns the job the session was opened with.
func (s *Session) Original() job.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.original.Clone()
}

// Name returns the display name as typed.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Color returns the job color.
func (s *Session) Color() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.color
}

// AllowPoints reports whether collectors may add points.
func (s *Session) AllowPoints() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points
}

// AllowPolygons reports whether collectors may add polygons.
func (s *Session) AllowPolygons() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polygons
}

// Steps returns the current step collection.
func (s *Session) Steps() StepCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steps
}

// Form returns the editor of the step at index.
func (s *Session) Form(index int) (*StepForm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.forms) {
		return nil, false
	}
	return s.forms[index], true
}

// Editors returns the step editors in sequence order.
func (s *Session) Editors() []StepEditor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editors()
}

func (s *Session) editors() []StepEditor {
	editors := make([]StepEditor, len(s.forms))
	for i, f := range s.forms {
		editors[i] = f
	}
	return editors
}

// TakeFocusRequest returns the index of the step whose input should receive
// focus, if one was requested since the last call.
func (s *Session) TakeFocusRequest() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.focus < 0 {
		return 0, false
	}
	index := s.focus
	s.focus = -1
	return index, true
}

// HasUnsavedChanges reports whether any step editor was modified.
func (s *Session) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return HasUnsavedChanges(s.editors())
}

// SetName sets the display name.
func (s *Session) SetName(name string) error {
	return s.edit(func() error {
		s.name = name
		return nil
	})
}

// SetColor sets the job color.
func (s *Session) SetColor(color string) error {
	if err := job.ValidateColor(color); err != nil {
		return err
	}
	return s.edit(func() error {
		s.color = color
		return nil
	})
}

// SetAllowPoints sets whether collectors may add points.
func (s *Session) SetAllowPoints(allow bool) error {
	return s.edit(func() error {
		s.points = allow
		return nil
	})
}

// SetAllowPolygons sets whether collectors may add polygons.
func (s *Session) SetAllowPolygons(allow bool) error {
	return s.edit(func() error {
		s.polygons = allow
		return nil
	})
}

// AddStep appends a step of the default type, marks all editors touched and
// requests focus on the new step. It returns the new step's position.
func (s *Session) AddStep() (int, error) {
	return s.AddStepOfType(s.defaultStepType)
}

// AddStepOfType appends a step of the given type. See AddStep.
func (s *Session) AddStepOfType(t job.StepType) (int, error) {
	var index int
	err := s.edit(func() error {
		index = s.appendStep(t)
		MarkAllTouched(s.editors())
		return nil
	})
	return index, err
}

func (s *Session) appendStep(t job.StepType) int {
	s.steps = s.steps.Append(t)
	index := s.steps.Len() - 1
	step, _ := s.steps.At(index)
	s.forms = append(s.forms, NewStepForm(step))
	s.focus = index
	return index
}

// UpdateStep replaces the values of the step at index, keeping its identifier.
// The step's editor is reloaded with the new values.
func (s *Session) UpdateStep(index int, values job.Step) error {
	return s.edit(func() error {
		next, err := s.steps.UpdateAt(index, values)
		if err != nil {
			return err
		}
		s.steps = next
		s.forms[index].Apply(values)
		return nil
	})
}

// EditStep applies fn to the editor of the step at index and writes the
// editor's value back into the collection.
func (s *Session) EditStep(index int, fn func(*StepForm)) error {
	return s.edit(func() error {
		if index < 0 || index >= len(s.forms) {
			return fmt.Errorf("%w: %d (len %d)", ErrStepIndexOutOfRange, index, len(s.forms))
		}
		form := s.forms[index]
		fn(form)
		next, err := s.steps.UpdateAt(index, form.Value())
		if err != nil {
			return err
		}
		s.steps = next
		return nil
	})
}

// MoveStep moves the step at from to position to.
func (s *Session) MoveStep(from, to int) error {
	return s.edit(func() error {
		if from < 0 || from >= len(s.forms) {
			return nil
		}
		s.steps = s.steps.MoveTo(from, to)
		form := s.forms[from]
		rest := append(s.forms[:from:from], s.forms[from+1:]...)
		to = clamp(to, 0, len(rest))
		forms := make([]*StepForm, 0, len(s.forms))
		forms = append(forms, rest[:to]...)
		forms = append(forms, form)
		s.forms = append(forms, rest[to:]...)
		return nil
	})
}

// DeleteStep asks the user to confirm and then removes the step at index.
// It reports whether the step was removed.
func (s *Session) DeleteStep(ctx context.Context, index int) (bool, error) {
	if err := s.begin(EventAskConfirm); err != nil {
		return false, err
	}

	confirmed, err := s.confirmer.Confirm(ctx, DeleteStepTitle, DeleteStepMessage, false)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn(ctx, "delete confirmation failed", ports.Err(err))
		confirmed = false
	}
	removed := false
	if confirmed && index >= 0 && index < len(s.forms) {
		s.steps = s.steps.RemoveAt(index)
		s.forms = append(s.forms[:index:index], s.forms[index+1:]...)
		removed = true
	}
	s.send(EventResume)
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	return removed, nil
}

// Save validates every step editor and, when all are valid, stores the job and
// closes the session. ErrValidationFailed means the user must fix the steps;
// a *SaveError means the store rejected the job and the session is editable
// again. Saving a session without a survey panics.
func (s *Session) Save(ctx context.Context) error {
	if s.surveyID == "" {
		panic(ErrSurveyNotLoaded)
	}

	s.mu.Lock()
	if err := s.checkEditing(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.send(EventSave)

	if !Validate(s.editors()) {
		s.send(EventInvalid)
		s.mu.Unlock()
		s.logger.Debug(ctx, "save rejected, steps are invalid")
		return ErrValidationFailed
	}

	snapshot, err := s.snapshot()
	if err != nil {
		s.send(EventInvalid)
		s.mu.Unlock()
		return err
	}
	s.send(EventValid)
	s.mu.Unlock()

	logger := s.logger.With(ports.F("job_id", snapshot.ID))
	logger.Debug(ctx, "saving job", ports.F("steps", len(snapshot.Steps)))

	if err := s.jobs.AddOrUpdateJob(ctx, s.surveyID, snapshot); err != nil {
		saveErr := &SaveError{SurveyID: s.surveyID, JobID: snapshot.ID, Underlying: err}
		logger.Error(ctx, "job update failed", ports.Err(err))

		s.mu.Lock()
		s.send(EventPersistFailed)
		s.mu.Unlock()

		if s.notifier != nil {
			s.notifier.Notify(ctx, SaveFailedTitle, SaveFailedMessage)
		}
		return saveErr
	}

	s.mu.Lock()
	s.send(EventPersisted)
	s.mu.Unlock()

	logger.Info(ctx, "job saved")
	s.finish(ctx)
	return nil
}

// Snapshot builds the job that Save would store, without validating.
func (s *Session) Snapshot() (job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() (job.Job, error) {
	steps, err := s.steps.ToPersistableMap(s.newID)
	if err != nil {
		return job.Job{}, err
	}
	return job.Job{
		ID:              s.original.ID,
		Index:           s.original.Index,
		Color:           s.color,
		Name:            strings.TrimSpace(s.name),
		Steps:           steps,
		AllowedLoiTypes: job.AllowedLoiTypes(s.points, s.polygons),
	}, nil
}

// Cancel closes the session, first asking the user to confirm when there
// are unsaved changes. It reports whether the session closed.
func (s *Session) Cancel(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if err := s.checkEditing(); err != nil {
		s.mu.Unlock()
		return false, err
	}
	if !HasUnsavedChanges(s.editors()) {
		s.send(EventClose)
		s.mu.Unlock()
		s.finish(ctx)
		return true, nil
	}
	s.send(EventAskConfirm)
	s.mu.Unlock()

	confirmed, err := s.confirmer.Confirm(ctx, DiscardTitle, DiscardMessage, true)
	if err != nil {
		s.logger.Warn(ctx, "discard confirmation failed", ports.Err(err))
		confirmed = false
	}

	s.mu.Lock()
	if !confirmed {
		s.send(EventResume)
		s.mu.Unlock()
		if err != nil {
			return false, fmt.Errorf("confirm discard: %w", err)
		}
		return false, nil
	}
	s.send(EventConfirmed)
	s.mu.Unlock()

	s.finish(ctx)
	return true, nil
}

// Release frees the session's subscriptions and stops its state machine.
// It is safe to call more than once and is called when the session closes.
func (s *Session) Release() {
	s.releaseOnce.Do(func() {
		for _, sub := range s.subscriptions {
			sub.Unsubscribe()
		}
		s.mu.Lock()
		s.interp.Stop()
		s.mu.Unlock()
	})
}

// markClosed is the closed state's entry action.
func (s *Session) markClosed() {
	s.closed = true
}

// finish navigates back to the survey once and releases the session.
func (s *Session) finish(ctx context.Context) {
	s.mu.Lock()
	if (!s.closed && s.current != StateClosed) || s.navigated {
		s.mu.Unlock()
		return
	}
	s.navigated = true
	s.mu.Unlock()

	s.logger.Info(ctx, "job editor closed")
	s.navigator.SelectSurvey(s.surveyID)
	s.Release()
}

// edit runs fn while the session accepts structural changes.
func (s *Session) edit(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state() {
	case StateEditing:
	case StateSaving:
		if s.lockDuringSave {
			return ErrSessionBusy
		}
	case StateClosed:
		return ErrSessionClosed
	default:
		return ErrSessionBusy
	}
	return fn()
}

// begin moves an editing session into the state reached by event.
func (s *Session) begin(event statekit.EventType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditing(); err != nil {
		return err
	}
	s.send(event)
	return nil
}

func (s *Session) checkEditing() error {
	switch s.state() {
	case StateEditing:
		return nil
	case StateClosed:
		return ErrSessionClosed
	default:
		return ErrSessionBusy
	}
}

// IsClosed reports whether the session has closed.
func (s *Session) IsClosed() bool {
	return s.State() == StateClosed
}

// StepView is a read-only copy of one step editor for rendering.
type StepView struct {
	Step    job.Step
	Error   string
	Dirty   bool
	Options []OptionView
}

// OptionView is a read-only copy of one option editor.
type OptionView struct {
	Option job.Option
	Error  string
}

// StepViews copies the step editors in sequence order.
func (s *Session) StepViews() []StepView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]StepView, len(s.forms))
	for i, f := range s.forms {
		step := f.Value()
		if current, ok := s.steps.At(i); ok {
			step.ID = current.ID
		}
		view := StepView{Step: step, Error: f.Error(), Dirty: f.Dirty()}
		if f.Type().HasOptions() {
			for _, o := range f.Options() {
				view.Options = append(view.Options, OptionView{Option: o.Value(), Error: o.Error()})
			}
		}
		views[i] = view
	}
	return views
}
