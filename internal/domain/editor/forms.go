package editor

import (
	"strings"

	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
)

// Validation messages shown once a control has been touched.
const (
	MsgLabelRequired  = "Question is required"
	MsgOptionsMissing = "Add at least one option"
	MsgOptionLabel    = "Option label is required"
)

// OptionForm is the editable state of one multiple choice option.
type OptionForm struct {
	baseline job.Option
	code     string
	label    string
	color    string
	touched  bool
}

// NewOptionForm creates an option form loaded from o.
func NewOptionForm(o job.Option) *OptionForm {
	return &OptionForm{
		baseline: o,
		code:     o.Code,
		label:    o.Label,
		color:    o.Color,
	}
}

// Label returns the option label.
func (f *OptionForm) Label() string { return f.label }

// SetLabel sets the option label.
func (f *OptionForm) SetLabel(label string) { f.label = label }

// Code returns the option code.
func (f *OptionForm) Code() string { return f.code }

// SetCode sets the option code.
func (f *OptionForm) SetCode(code string) { f.code = code }

// Color returns the option color.
func (f *OptionForm) Color() string { return f.color }

// SetColor sets the option color.
func (f *OptionForm) SetColor(color string) { f.color = color }

// Touched reports whether the option has been marked touched.
func (f *OptionForm) Touched() bool { return f.touched }

// MarkTouched marks the option touched.
func (f *OptionForm) MarkTouched() { f.touched = true }

// Invalid reports whether the option cannot be saved.
func (f *OptionForm) Invalid() bool {
	return strings.TrimSpace(f.label) == ""
}

// Dirty reports whether the option differs from the loaded value.
func (f *OptionForm) Dirty() bool {
	return f.label != f.baseline.Label || f.code != f.baseline.Code || f.color != f.baseline.Color
}

// Error returns the visible validation message, empty until touched.
func (f *OptionForm) Error() string {
	if f.touched && f.Invalid() {
		return MsgOptionLabel
	}
	return ""
}

// Value returns the option as edited.
func (f *OptionForm) Value() job.Option {
	return job.Option{
		ID:    f.baseline.ID,
		Code:  strings.TrimSpace(f.code),
		Label: strings.TrimSpace(f.label),
		Color: f.color,
	}
}

// StepForm is the editable state of one step.
type StepForm struct {
	baseline    job.Step
	stepType    job.StepType
	label       string
	required    bool
	cardinality job.Cardinality
	options     []*OptionForm
	touched     bool
}

// NewStepForm creates a step form loaded from s.
func NewStepForm(s job.Step) *StepForm {
	f := &StepForm{
		baseline:    s.Clone(),
		stepType:    s.Type,
		label:       s.Label,
		required:    s.Required,
		cardinality: job.SelectOne,
	}
	if s.MultipleChoice != nil {
		if s.MultipleChoice.Cardinality != "" {
			f.cardinality = s.MultipleChoice.Cardinality
		}
		for _, o := range s.MultipleChoice.Options {
			f.options = append(f.options, NewOptionForm(o))
		}
	}
	return f
}

// Type returns the step type.
func (f *StepForm) Type() job.StepType { return f.stepType }

// SetType changes the step type. Options are kept so switching back restores them.
func (f *StepForm) SetType(t job.StepType) { f.stepType = t }

// Label returns the question label.
func (f *StepForm) Label() string { return f.label }

// SetLabel sets the question label.
func (f *StepForm) SetLabel(label string) { f.label = label }

// Required returns the required flag.
func (f *StepForm) Required() bool { return f.required }

// SetRequired sets the required flag.
func (f *StepForm) SetRequired(required bool) { f.required = required }

// Cardinality returns the multiple choice cardinality.
func (f *StepForm) Cardinality() job.Cardinality { return f.cardinality }

// SetCardinality sets the multiple choice cardinality.
func (f *StepForm) SetCardinality(c job.Cardinality) { f.cardinality = c }

// Options returns the option forms.
func (f *StepForm) Options() []*OptionForm { return f.options }

// AddOption appends a new option form.
func (f *StepForm) AddOption(label string) *OptionForm {
	o := NewOptionForm(job.Option{})
	o.SetLabel(label)
	f.options = append(f.options, o)
	return o
}

// RemoveOption removes the option at index.
func (f *StepForm) RemoveOption(index int) bool {
	if index < 0 || index >= len(f.options) {
		return false
	}
	f.options = append(f.options[:index:index], f.options[index+1:]...)
	return true
}

// Apply loads values into the form without changing its baseline. Options
// are matched by identifier so their change tracking survives.
func (f *StepForm) Apply(values job.Step) {
	f.stepType = values.Type
	f.label = values.Label
	f.required = values.Required
	if values.MultipleChoice == nil {
		return
	}
	if values.MultipleChoice.Cardinality != "" {
		f.cardinality = values.MultipleChoice.Cardinality
	}
	existing := make(map[string]*OptionForm, len(f.options))
	for _, o := range f.options {
		if o.baseline.ID != "" {
			existing[o.baseline.ID] = o
		}
	}
	options := make([]*OptionForm, 0, len(values.MultipleChoice.Options))
	for _, o := range values.MultipleChoice.Options {
		form, ok := existing[o.ID]
		if !ok || o.ID == "" {
			form = NewOptionForm(job.Option{ID: o.ID})
		}
		form.SetCode(o.Code)
		form.SetLabel(o.Label)
		form.SetColor(o.Color)
		options = append(options, form)
	}
	f.options = options
}

// Touched reports whether the step has been marked touched.
func (f *StepForm) Touched() bool { return f.touched }

// MarkTouched marks the step touched.
func (f *StepForm) MarkTouched() { f.touched = true }

// Invalid reports whether the step-level controls cannot be saved.
func (f *StepForm) Invalid() bool {
	if strings.TrimSpace(f.label) == "" {
		return true
	}
	return f.stepType.HasOptions() && len(f.options) == 0
}

// Dirty reports whether the step-level controls differ from the loaded value.
func (f *StepForm) Dirty() bool {
	if f.stepType != f.baseline.Type || f.label != f.baseline.Label || f.required != f.baseline.Required {
		return true
	}
	base := f.baseline.MultipleChoice
	if base == nil {
		return len(f.options) > 0
	}
	if len(base.Options) != len(f.options) {
		return true
	}
	for i, o := range f.options {
		if o.baseline.ID != base.Options[i].ID {
			return true
		}
	}
	return base.Cardinality != "" && base.Cardinality != f.cardinality
}

// OptionEditors returns the option forms of a multiple choice step, nil otherwise.
func (f *StepForm) OptionEditors() []OptionEditor {
	if !f.stepType.HasOptions() {
		return nil
	}
	editors := make([]OptionEditor, len(f.options))
	for i, o := range f.options {
		editors[i] = o
	}
	return editors
}

// Error returns the visible step-level validation message, empty until touched.
func (f *StepForm) Error() string {
	if !f.touched {
		return ""
	}
	if strings.TrimSpace(f.label) == "" {
		return MsgLabelRequired
	}
	if f.stepType.HasOptions() && len(f.options) == 0 {
		return MsgOptionsMissing
	}
	return ""
}

// Value returns the step as edited. The identifier and index are left for
// the session to fill in.
func (f *StepForm) Value() job.Step {
	s := job.Step{
		Type:     f.stepType,
		Label:    strings.TrimSpace(f.label),
		Required: f.required,
	}
	if f.stepType.HasOptions() {
		mc := &job.MultipleChoice{Cardinality: f.cardinality}
		for _, o := range f.options {
			mc.Options = append(mc.Options, o.Value())
		}
		s.MultipleChoice = mc
	}
	return s
}

var (
	_ StepEditor   = (*StepForm)(nil)
	_ OptionEditor = (*OptionForm)(nil)
)
