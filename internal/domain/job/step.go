package job

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownStepType is returned when a step type string cannot be parsed.
var ErrUnknownStepType = errors.New("unknown step type")

// StepType is the kind of data a step collects.
type StepType string

// Supported step types.
const (
	StepTypeText            StepType = "text"
	StepTypeNumber          StepType = "number"
	StepTypeDate            StepType = "date"
	StepTypeTime            StepType = "time"
	StepTypeDateTime        StepType = "date_time"
	StepTypeMultipleChoice  StepType = "multiple_choice"
	StepTypePhoto           StepType = "photo"
	StepTypeCaptureLocation StepType = "capture_location"
	StepTypeDrawArea        StepType = "draw_area"
	StepTypeDropPin         StepType = "drop_pin"
)

// StepTypes returns every supported step type in display order.
func StepTypes() []StepType {
	return []StepType{
		StepTypeText,
		StepTypeNumber,
		StepTypeDate,
		StepTypeTime,
		StepTypeDateTime,
		StepTypeMultipleChoice,
		StepTypePhoto,
		StepTypeCaptureLocation,
		StepTypeDrawArea,
		StepTypeDropPin,
	}
}

// ParseStepType parses a step type name, accepting dashes and mixed case.
func ParseStepType(s string) (StepType, error) {
	normalized := StepType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, t := range StepTypes() {
		if t == normalized {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStepType, s)
}

// String returns the step type identifier.
func (t StepType) String() string {
	return string(t)
}

// Title returns a human readable label such as "Multiple Choice".
func (t StepType) Title() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(t), "_", " "))
}

// Next returns the step type following t in display order, wrapping around.
func (t StepType) Next() StepType {
	types := StepTypes()
	for i, candidate := range types {
		if candidate == t {
			return types[(i+1)%len(types)]
		}
	}
	return StepTypeText
}

// HasOptions reports whether steps of this type carry a multiple choice configuration.
func (t StepType) HasOptions() bool {
	return t == StepTypeMultipleChoice
}

// Cardinality controls how many options a collector may pick.
type Cardinality string

// Multiple choice cardinalities.
const (
	SelectOne      Cardinality = "select_one"
	SelectMultiple Cardinality = "select_multiple"
)

// Option is a single answer of a multiple choice step.
type Option struct {
	ID    string
	Code  string
	Label string
	Color string
}

// MultipleChoice is the configuration of a multiple choice step.
type MultipleChoice struct {
	Cardinality Cardinality
	Options     []Option
}

// Clone returns a deep copy of the configuration. A nil receiver yields nil.
func (m *MultipleChoice) Clone() *MultipleChoice {
	if m == nil {
		return nil
	}
	clone := &MultipleChoice{Cardinality: m.Cardinality}
	if m.Options != nil {
		clone.Options = make([]Option, len(m.Options))
		copy(clone.Options, m.Options)
	}
	return clone
}

// Step is one question within a job.
//
// Index is the step's rank as last recorded on creation or update. It is not
// kept in sync with the step's position while steps are reordered; positions
// are reassigned when a job is assembled for persistence.
type Step struct {
	ID             string
	Type           StepType
	Label          string
	Required       bool
	Index          int
	MultipleChoice *MultipleChoice
}

// NewStep creates a step with the given attributes.
func NewStep(id string, stepType StepType, label string, required bool, index int, mc *MultipleChoice) Step {
	return Step{
		ID:             id,
		Type:           stepType,
		Label:          label,
		Required:       required,
		Index:          index,
		MultipleChoice: mc.Clone(),
	}
}

// Clone returns a deep copy of the step.
func (s Step) Clone() Step {
	s.MultipleChoice = s.MultipleChoice.Clone()
	return s
}

// IsPersisted reports whether the step has been assigned an identifier.
func (s Step) IsPersisted() bool {
	return s.ID != ""
}
