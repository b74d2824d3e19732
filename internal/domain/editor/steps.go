package editor

import (
	"fmt"

	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
)

// StepCollection is the ordered sequence of steps of an editing session.
//
// Every mutation returns a new collection; the receiver is never modified, so
// previous values stay valid and can be inspected.
type StepCollection struct {
	steps []job.Step
}

// NewStepCollection creates a collection holding the given steps in order.
func NewStepCollection(steps ...job.Step) StepCollection {
	return StepCollection{steps: cloneSteps(steps)}
}

// Len returns the number of steps.
func (c StepCollection) Len() int {
	return len(c.steps)
}

// At returns the step at index.
func (c StepCollection) At(index int) (job.Step, bool) {
	if index < 0 || index >= len(c.steps) {
		return job.Step{}, false
	}
	return c.steps[index].Clone(), true
}

// Steps returns a copy of the steps in sequence order.
func (c StepCollection) Steps() []job.Step {
	return cloneSteps(c.steps)
}

// Append adds a blank, optional step of the given type. Its Index is the
// current length of the collection.
func (c StepCollection) Append(stepType job.StepType) StepCollection {
	next := make([]job.Step, len(c.steps), len(c.steps)+1)
	copy(next, c.steps)
	next = append(next, job.NewStep("", stepType, "", false, len(c.steps), nil))
	return StepCollection{steps: next}
}

// RemoveAt removes the step at index. Out of range indexes leave the
// collection unchanged. Index fields of the remaining steps are not renumbered.
func (c StepCollection) RemoveAt(index int) StepCollection {
	if index < 0 || index >= len(c.steps) {
		return c
	}
	next := make([]job.Step, 0, len(c.steps)-1)
	next = append(next, c.steps[:index]...)
	next = append(next, c.steps[index+1:]...)
	return StepCollection{steps: next}
}

// UpdateAt replaces the step at index with values, keeping the identifier
// already stored there and setting Index to index.
func (c StepCollection) UpdateAt(index int, values job.Step) (StepCollection, error) {
	if index < 0 || index >= len(c.steps) {
		return c, fmt.Errorf("%w: %d (len %d)", ErrStepIndexOutOfRange, index, len(c.steps))
	}
	next := make([]job.Step, len(c.steps))
	copy(next, c.steps)
	next[index] = job.NewStep(
		c.steps[index].ID,
		values.Type,
		values.Label,
		values.Required,
		index,
		values.MultipleChoice,
	)
	return StepCollection{steps: next}, nil
}

// MoveTo removes the step at from and reinserts it at to within the shortened
// sequence. A missing step at from leaves the collection unchanged; to is
// clamped to the valid range. Index fields are not renumbered.
func (c StepCollection) MoveTo(from, to int) StepCollection {
	if from < 0 || from >= len(c.steps) {
		return c
	}
	moved := c.steps[from]
	rest := make([]job.Step, 0, len(c.steps))
	rest = append(rest, c.steps[:from]...)
	rest = append(rest, c.steps[from+1:]...)

	to = clamp(to, 0, len(rest))
	next := make([]job.Step, 0, len(c.steps))
	next = append(next, rest[:to]...)
	next = append(next, moved)
	next = append(next, rest[to:]...)
	return StepCollection{steps: next}
}

// ToPersistableMap keys the steps by identifier in their current order,
// assigning identifiers to unsaved steps and positions to every step.
func (c StepCollection) ToPersistableMap(newID job.IDGenerator) (map[string]job.Step, error) {
	return job.StepsToMap(c.steps, newID)
}

func cloneSteps(steps []job.Step) []job.Step {
	out := make([]job.Step, len(steps))
	for i, s := range steps {
		out[i] = s.Clone()
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
