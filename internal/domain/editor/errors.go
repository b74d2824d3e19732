package editor

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	// ErrSurveyNotLoaded is the panic value raised when saving a session that
	// has no survey. The UI never offers save in that situation.
	ErrSurveyNotLoaded = errors.New("survey not yet loaded")

	ErrValidationFailed    = errors.New("job has invalid steps")
	ErrSessionBusy         = errors.New("session is waiting for a pending operation")
	ErrSessionClosed       = errors.New("session is closed")
	ErrStepIndexOutOfRange = errors.New("step index out of range")
)

// SaveError reports that the job store rejected a job.
type SaveError struct {
	SurveyID   string
	JobID      string
	Underlying error
}

// Error returns the formatted error message.
func (e *SaveError) Error() string {
	if e.JobID == "" {
		return fmt.Sprintf("failed to save new job in survey %s: %v", e.SurveyID, e.Underlying)
	}
	return fmt.Sprintf("failed to save job %s in survey %s: %v", e.JobID, e.SurveyID, e.Underlying)
}

// Unwrap returns the underlying error.
func (e *SaveError) Unwrap() error {
	return e.Underlying
}
