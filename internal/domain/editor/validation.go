package editor

// OptionEditor is the form state of one multiple choice option.
type OptionEditor interface {
	Invalid() bool
	Dirty() bool
	MarkTouched()
}

// StepEditor is the form state of one step.
type StepEditor interface {
	// Invalid reports step-level validity only; options report their own.
	Invalid() bool
	Dirty() bool
	MarkTouched()
	// OptionEditors returns nil for steps without options.
	OptionEditors() []OptionEditor
}

// MarkAllTouched forces every step editor and every nested option editor
// into the touched state so pending validation errors become visible.
func MarkAllTouched(editors []StepEditor) {
	for _, e := range editors {
		for _, o := range e.OptionEditors() {
			o.MarkTouched()
		}
		e.MarkTouched()
	}
}

// AllValid reports whether every step editor and all of its option editors
// are valid. It stops at the first invalid step.
func AllValid(editors []StepEditor) bool {
	for _, e := range editors {
		if e.Invalid() || !optionsValid(e) {
			return false
		}
	}
	return true
}

// Validate marks all editors touched and then reports whether all are valid.
func Validate(editors []StepEditor) bool {
	MarkAllTouched(editors)
	return AllValid(editors)
}

func optionsValid(e StepEditor) bool {
	for _, o := range e.OptionEditors() {
		if o.Invalid() {
			return false
		}
	}
	return true
}
