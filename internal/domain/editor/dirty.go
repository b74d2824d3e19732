package editor

// HasUnsavedChanges reports whether any step editor, or any of its option
// editors, was modified since it was loaded. No editors means no changes.
func HasUnsavedChanges(editors []StepEditor) bool {
	if len(editors) == 0 {
		return false
	}
	for _, e := range editors {
		if e.Dirty() || optionsDirty(e) {
			return true
		}
	}
	return false
}

func optionsDirty(e StepEditor) bool {
	for _, o := range e.OptionEditors() {
		if o.Dirty() {
			return true
		}
	}
	return false
}
