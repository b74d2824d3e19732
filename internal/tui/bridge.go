package tui

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/felixgeelhaar/jobeditor/internal/ports"
)

// ErrNoProgram is returned when a prompt is requested before the terminal
// program is attached.
var ErrNoProgram = errors.New("terminal program is not running")

// Sender delivers messages into a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// confirmRequestMsg asks the editor model to show a confirmation dialog and
// write the answer to reply.
type confirmRequestMsg struct {
	title       string
	message     string
	showDiscard bool
	reply       chan<- bool
}

// noticeMsg asks the editor model to show a notice.
type noticeMsg struct {
	title   string
	message string
}

// navigateMsg reports that the session closed and the survey should be shown.
type navigateMsg struct {
	surveyID string
}

// PromptBridge lets an editing session, which blocks while it waits for the
// user, talk to the event-driven terminal program.
type PromptBridge struct {
	mu     sync.RWMutex
	sender Sender
}

// NewPromptBridge creates an unattached bridge.
func NewPromptBridge() *PromptBridge {
	return &PromptBridge{}
}

// Attach connects the bridge to a program.
func (b *PromptBridge) Attach(sender Sender) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sender = sender
}

func (b *PromptBridge) current() Sender {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sender
}

// Confirm shows a dialog and waits for the answer or for ctx to end.
func (b *PromptBridge) Confirm(ctx context.Context, title, message string, showDiscard bool) (bool, error) {
	sender := b.current()
	if sender == nil {
		return false, ErrNoProgram
	}

	reply := make(chan bool, 1)
	sender.Send(confirmRequestMsg{
		title:       title,
		message:     message,
		showDiscard: showDiscard,
		reply:       reply,
	})

	select {
	case answer := <-reply:
		return answer, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Notify shows a notice without waiting for it to be dismissed.
func (b *PromptBridge) Notify(_ context.Context, title, message string) {
	if sender := b.current(); sender != nil {
		sender.Send(noticeMsg{title: title, message: message})
	}
}

// SelectSurvey tells the program the session closed.
func (b *PromptBridge) SelectSurvey(surveyID string) {
	if sender := b.current(); sender != nil {
		sender.Send(navigateMsg{surveyID: surveyID})
	}
}

var (
	_ ports.Confirmer = (*PromptBridge)(nil)
	_ ports.Notifier  = (*PromptBridge)(nil)
	_ ports.Navigator = (*PromptBridge)(nil)
)

// KeyHook is an enable switch for a key binding, held by a session as a
// subscription. Unsubscribing turns the binding off.
type KeyHook struct {
	disabled atomic.Bool
}

// NewKeyHook returns an enabled hook.
func NewKeyHook() *KeyHook {
	return &KeyHook{}
}

// Enabled reports whether the binding still reacts.
func (h *KeyHook) Enabled() bool {
	return !h.disabled.Load()
}

// Unsubscribe disables the binding.
func (h *KeyHook) Unsubscribe() {
	h.disabled.Store(true)
}

var _ ports.Subscription = (*KeyHook)(nil)
