package config

import (
	"fmt"
	"strings"
)

// Error codes for categorization.
const (
	ErrCodeConfigRead    = "CONFIG_READ"
	ErrCodeConfigParse   = "CONFIG_PARSE"
	ErrCodeConfigInvalid = "CONFIG_INVALID"
	ErrCodeSurveyMissing = "SURVEY_MISSING"
	ErrCodeJobNotFound   = "JOB_NOT_FOUND"
	ErrCodeStoreCorrupt  = "STORE_CORRUPT"
	ErrCodeLogOpen       = "LOG_OPEN"
	ErrCodeBadOutput     = "BAD_OUTPUT"
)

// UserError is an error with an actionable suggestion for the CLI user.
type UserError struct {
	Code       string
	Message    string
	Context    string // file path or flag the error refers to
	Suggestion string
	Underlying error
}

// Error returns the message and, when present, its context.
func (e *UserError) Error() string {
	if e.Context == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (at %s)", e.Message, e.Context)
}

// Unwrap returns the underlying error.
func (e *UserError) Unwrap() error {
	return e.Underlying
}

// Is matches another UserError by code.
func (e *UserError) Is(target error) bool {
	if t, ok := target.(*UserError); ok {
		return e.Code == t.Code
	}
	return false
}

// Format returns the error with code, location and suggestion on separate lines.
func (e *UserError) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Context != "" {
		fmt.Fprintf(&b, "\n  Location: %s", e.Context)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  Suggestion: %s", e.Suggestion)
	}
	return b.String()
}
