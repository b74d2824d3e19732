package editor

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeSteps() StepCollection {
	return NewStepCollection(
		job.NewStep("s0", job.StepTypeText, "First", false, 0, nil),
		job.NewStep("s1", job.StepTypeNumber, "Second", true, 1, nil),
		job.NewStep("s2", job.StepTypeDate, "Third", false, 2, nil),
	)
}

func ids(c StepCollection) []string {
	out := make([]string, 0, c.Len())
	for _, s := range c.Steps() {
		out = append(out, s.ID)
	}
	return out
}

func indexes(c StepCollection) []int {
	out := make([]int, 0, c.Len())
	for _, s := range c.Steps() {
		out = append(out, s.Index)
	}
	return out
}

func TestStepCollection_Append(t *testing.T) {
	t.Parallel()

	base := threeSteps()
	next := base.Append(job.StepTypeMultipleChoice)

	require.Equal(t, 4, next.Len())
	assert.Equal(t, 3, base.Len(), "receiver must not change")

	added, ok := next.At(3)
	require.True(t, ok)
	assert.Empty(t, added.ID)
	assert.Empty(t, added.Label)
	assert.False(t, added.Required)
	assert.Equal(t, 3, added.Index)
	assert.Equal(t, job.StepTypeMultipleChoice, added.Type)
}

func TestStepCollection_AppendToEmpty(t *testing.T) {
	t.Parallel()

	c := NewStepCollection().Append(job.StepTypeText)
	step, ok := c.At(0)
	require.True(t, ok)
	assert.Equal(t, 0, step.Index)
}

func TestStepCollection_RemoveAt(t *testing.T) {
	t.Parallel()

	base := threeSteps()
	next := base.RemoveAt(1)

	assert.Equal(t, []string{"s0", "s2"}, ids(next))
	assert.Equal(t, []int{0, 2}, indexes(next), "remaining indexes are not renumbered")
	assert.Equal(t, []string{"s0", "s1", "s2"}, ids(base))
}

func TestStepCollection_RemoveAtOutOfRange(t *testing.T) {
	t.Parallel()

	base := threeSteps()
	for _, index := range []int{-1, 3, 100} {
		t.Run(fmt.Sprint(index), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, ids(base), ids(base.RemoveAt(index)))
		})
	}
}

func TestStepCollection_UpdateAt(t *testing.T) {
	t.Parallel()

	base := threeSteps()
	mc := &job.MultipleChoice{Cardinality: job.SelectOne, Options: []job.Option{{Label: "Yes"}}}
	next, err := base.UpdateAt(1, job.Step{
		ID:             "ignored",
		Type:           job.StepTypeMultipleChoice,
		Label:          "Pick one",
		Required:       false,
		Index:          42,
		MultipleChoice: mc,
	})
	require.NoError(t, err)

	updated, _ := next.At(1)
	assert.Equal(t, "s1", updated.ID, "identifier is preserved")
	assert.Equal(t, 1, updated.Index, "index is the structural position")
	assert.Equal(t, "Pick one", updated.Label)
	assert.Equal(t, job.StepTypeMultipleChoice, updated.Type)
	assert.Equal(t, mc, updated.MultipleChoice)

	original, _ := base.At(1)
	assert.Equal(t, "Second", original.Label)
}

func TestStepCollection_UpdateAtUnsavedStep(t *testing.T) {
	t.Parallel()

	c := NewStepCollection().Append(job.StepTypeText)
	next, err := c.UpdateAt(0, job.Step{Type: job.StepTypeText, Label: "Name"})
	require.NoError(t, err)

	step, _ := next.At(0)
	assert.Empty(t, step.ID)
	assert.Equal(t, "Name", step.Label)
}

func TestStepCollection_UpdateAtOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := threeSteps().UpdateAt(3, job.Step{})
	assert.ErrorIs(t, err, ErrStepIndexOutOfRange)
}

func TestStepCollection_MoveTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from int
		to   int
		want []string
	}{
		{"last to first", 2, 0, []string{"s2", "s0", "s1"}},
		{"first to last", 0, 2, []string{"s1", "s2", "s0"}},
		{"middle down", 1, 2, []string{"s0", "s2", "s1"}},
		{"same position", 1, 1, []string{"s0", "s1", "s2"}},
		{"target past end is clamped", 0, 10, []string{"s1", "s2", "s0"}},
		{"negative target is clamped", 2, -3, []string{"s2", "s0", "s1"}},
		{"missing source", 5, 0, []string{"s0", "s1", "s2"}},
		{"negative source", -1, 0, []string{"s0", "s1", "s2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ids(threeSteps().MoveTo(tt.from, tt.to)))
		})
	}
}

func TestStepCollection_MoveToKeepsIndexFields(t *testing.T) {
	t.Parallel()

	moved := threeSteps().MoveTo(2, 0)

	assert.Equal(t, []string{"s2", "s0", "s1"}, ids(moved))
	assert.Equal(t, []int{2, 0, 1}, indexes(moved))

	persisted, err := moved.ToPersistableMap(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, persisted["s2"].Index)
	assert.Equal(t, 1, persisted["s0"].Index)
	assert.Equal(t, 2, persisted["s1"].Index)
}

func TestStepCollection_ToPersistableMapAssignsIDs(t *testing.T) {
	t.Parallel()

	c := threeSteps().Append(job.StepTypeText)
	n := 0
	persisted, err := c.ToPersistableMap(func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	})
	require.NoError(t, err)

	require.Len(t, persisted, 4)
	assert.Equal(t, 3, persisted["new-1"].Index)

	step, _ := c.At(3)
	assert.Empty(t, step.ID, "collection itself is unchanged")
}

// Property: over random operation sequences the length equals appends minus
// successful removals, and a single MoveTo keeps the relative order of the
// untouched steps.
func TestStepCollection_RandomOperations(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 200; run++ {
		c := NewStepCollection()
		appends, removals := 0, 0
		for op := 0; op < 30; op++ {
			switch rng.Intn(3) {
			case 0:
				c = c.Append(job.StepTypeText)
				// Give every step a unique identifier to follow it around.
				c, _ = c.UpdateAt(c.Len()-1, job.Step{Type: job.StepTypeText, Label: fmt.Sprintf("q%d", appends)})
				appends++
			case 1:
				index := rng.Intn(c.Len()+2) - 1
				before := c.Len()
				c = c.RemoveAt(index)
				if c.Len() < before {
					removals++
				}
			case 2:
				from := rng.Intn(c.Len()+2) - 1
				to := rng.Intn(c.Len() + 1)
				before := labels(c)
				c = c.MoveTo(from, to)
				after := labels(c)
				require.Len(t, after, len(before))
				if from >= 0 && from < len(before) {
					moved := before[from]
					assert.Equal(t, without(before, moved), without(after, moved))
				} else {
					assert.Equal(t, before, after)
				}
			}
			require.Equal(t, appends-removals, c.Len())
		}
	}
}

func labels(c StepCollection) []string {
	out := make([]string, 0, c.Len())
	for _, s := range c.Steps() {
		out = append(out, s.Label)
	}
	return out
}

func without(list []string, item string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != item {
			out = append(out, v)
		}
	}
	return out
}
