package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasUnsavedChanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		steps []*fakeStep
		want  bool
	}{
		{"no editors", nil, false},
		{"nothing dirty", []*fakeStep{{}, {options: []*fakeOption{{}}}}, false},
		{"dirty step", []*fakeStep{{}, {dirty: true}}, true},
		{
			"one dirty option among many steps",
			[]*fakeStep{
				{options: []*fakeOption{{}, {}}},
				{},
				{options: []*fakeOption{{}, {dirty: true}, {}}},
				{},
			},
			true,
		},
		{"step without options is not dirty through options", []*fakeStep{{options: nil}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, HasUnsavedChanges(asEditors(tt.steps...)))
		})
	}
}

func TestHasUnsavedChanges_IgnoresValidity(t *testing.T) {
	t.Parallel()

	assert.False(t, HasUnsavedChanges(asEditors(&fakeStep{invalid: true})))
}
