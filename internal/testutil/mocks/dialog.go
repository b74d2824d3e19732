package mocks

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/jobeditor/internal/ports"
)

// ConfirmCall records a Confirm invocation.
type ConfirmCall struct {
	Title       string
	Message     string
	ShowDiscard bool
}

// Confirmer is a scripted test double for ports.Confirmer. Answers are
// consumed in order; once exhausted it answers with the default.
type Confirmer struct {
	mu       sync.Mutex
	answers  []bool
	fallback bool
	err      error
	calls    []ConfirmCall
}

// NewConfirmer creates a Confirmer that answers with the given values.
func NewConfirmer(answers ...bool) *Confirmer {
	return &Confirmer{answers: answers}
}

// WithDefault sets the answer used once scripted answers run out.
func (m *Confirmer) WithDefault(answer bool) *Confirmer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = answer
	return m
}

// WithError makes Confirm fail with err.
func (m *Confirmer) WithError(err error) *Confirmer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Confirm returns the next scripted answer.
func (m *Confirmer) Confirm(_ context.Context, title, message string, showDiscard bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, ConfirmCall{Title: title, Message: message, ShowDiscard: showDiscard})
	if m.err != nil {
		return false, m.err
	}
	if len(m.answers) == 0 {
		return m.fallback, nil
	}
	answer := m.answers[0]
	m.answers = m.answers[1:]
	return answer, nil
}

// Calls returns all recorded Confirm invocations.
func (m *Confirmer) Calls() []ConfirmCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]ConfirmCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Notification records a Notify invocation.
type Notification struct {
	Title   string
	Message string
}

// Notifier records notifications.
type Notifier struct {
	mu    sync.Mutex
	notes []Notification
}

// NewNotifier creates a new Notifier mock.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Notify records the notification.
func (m *Notifier) Notify(_ context.Context, title, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = append(m.notes, Notification{Title: title, Message: message})
}

// Notifications returns the recorded notifications.
func (m *Notifier) Notifications() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	notes := make([]Notification, len(m.notes))
	copy(notes, m.notes)
	return notes
}

// Navigator records survey selections.
type Navigator struct {
	mu       sync.Mutex
	selected []string
}

// NewNavigator creates a new Navigator mock.
func NewNavigator() *Navigator {
	return &Navigator{}
}

// SelectSurvey records the survey id.
func (m *Navigator) SelectSurvey(surveyID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = append(m.selected, surveyID)
}

// Selected returns every survey id passed to SelectSurvey.
func (m *Navigator) Selected() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.selected))
	copy(out, m.selected)
	return out
}

// Subscription counts Unsubscribe calls.
type Subscription struct {
	mu    sync.Mutex
	count int
}

// Unsubscribe records the call.
func (m *Subscription) Unsubscribe() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
}

// Count returns how often Unsubscribe was called.
func (m *Subscription) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

var (
	_ ports.Confirmer    = (*Confirmer)(nil)
	_ ports.Notifier     = (*Notifier)(nil)
	_ ports.Navigator    = (*Navigator)(nil)
	_ ports.Subscription = (*Subscription)(nil)
)
