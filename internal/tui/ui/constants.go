package ui

// Layout dimensions.
const (
	// DefaultWidth is used until the terminal reports its size.
	DefaultWidth = 80

	// DefaultHeight is used until the terminal reports its size.
	DefaultHeight = 24

	// DialogWidth is the width of confirmation and notice dialogs.
	DialogWidth = 48

	// LabelWidth is the width of field labels in the editor form.
	LabelWidth = 12

	// NameCharLimit bounds the job name input.
	NameCharLimit = 100

	// LabelCharLimit bounds question and option label inputs.
	LabelCharLimit = 200
)
