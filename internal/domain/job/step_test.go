package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStepType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  StepType
	}{
		{"text", StepTypeText},
		{"Multiple-Choice", StepTypeMultipleChoice},
		{" date_time ", StepTypeDateTime},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseStepType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseStepType("hologram")
	assert.ErrorIs(t, err, ErrUnknownStepType)
}

func TestStepType_Title(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Multiple Choice", StepTypeMultipleChoice.Title())
	assert.Equal(t, "Text", StepTypeText.Title())
}

func TestStepType_Next(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StepTypeNumber, StepTypeText.Next())
	assert.Equal(t, StepTypeText, StepTypeDropPin.Next())
	assert.Equal(t, StepTypeText, StepType("bogus").Next())
}

func TestStepType_HasOptions(t *testing.T) {
	t.Parallel()

	assert.True(t, StepTypeMultipleChoice.HasOptions())
	assert.False(t, StepTypeText.HasOptions())
}

func TestNewStep_CopiesMultipleChoice(t *testing.T) {
	t.Parallel()

	mc := &MultipleChoice{Options: []Option{{Label: "A"}}}
	s := NewStep("", StepTypeMultipleChoice, "Pick", false, 0, mc)

	mc.Options[0].Label = "changed"
	assert.Equal(t, "A", s.MultipleChoice.Options[0].Label)
	assert.False(t, s.IsPersisted())
}

func TestMultipleChoice_CloneNil(t *testing.T) {
	t.Parallel()

	var mc *MultipleChoice
	assert.Nil(t, mc.Clone())
}
