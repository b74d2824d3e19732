package editor

import (
	"github.com/felixgeelhaar/statekit"
)

// State is a state of an editing session.
type State string

// Machine state identifiers.
const (
	stateEditing        = "editing"
	stateValidating     = "validating"
	stateSaving         = "saving"
	stateConfirmPending = "confirm_pending"
	stateClosed         = "closed"
)

const (
	// StateEditing accepts edits, save and cancel.
	StateEditing State = stateEditing
	// StateValidating checks every step editor before a save.
	StateValidating State = stateValidating
	// StateSaving waits for the job store to accept the job.
	StateSaving State = stateSaving
	// StateConfirmPending waits for the user to answer a confirmation.
	StateConfirmPending State = stateConfirmPending
	// StateClosed is terminal.
	StateClosed State = stateClosed
)

// Event types for the session state machine.
const (
	EventSave          = "SAVE"
	EventInvalid       = "INVALID"
	EventValid         = "VALID"
	EventPersisted     = "PERSISTED"
	EventPersistFailed = "PERSIST_FAILED"
	EventClose         = "CLOSE"
	EventAskConfirm    = "ASK_CONFIRM"
	EventConfirmed     = "CONFIRMED"
	EventResume        = "RESUME"
)

// machineContext is the statekit context of a session.
type machineContext struct {
	SurveyID string
}

// buildSessionMachine constructs the session state machine. onClosed runs once
// when the machine enters the closed state.
func buildSessionMachine(surveyID string, onClosed func()) (*statekit.Interpreter[machineContext], error) {
	machine, err := statekit.NewMachine[machineContext]("job-editor-session").
		WithInitial(stateEditing).
		WithContext(machineContext{SurveyID: surveyID}).
		WithAction("closeSession", func(_ *machineContext, _ statekit.Event) {
			onClosed()
		}).
		// Editing
		State(stateEditing).
		On(EventSave).Target(stateValidating).
		On(EventAskConfirm).Target(stateConfirmPending).
		On(EventClose).Target(stateClosed).Done().
		// Validating
		State(stateValidating).
		On(EventInvalid).Target(stateEditing).
		On(EventValid).Target(stateSaving).Done().
		// Saving
		State(stateSaving).
		On(EventPersisted).Target(stateClosed).
		On(EventPersistFailed).Target(stateEditing).Done().
		// Waiting for the user
		State(stateConfirmPending).
		On(EventConfirmed).Target(stateClosed).
		On(EventResume).Target(stateEditing).Done().
		// Closed
		State(stateClosed).
		OnEntry("closeSession").Done().
		Build()

	if err != nil {
		return nil, err
	}

	return statekit.NewInterpreter(machine), nil
}
