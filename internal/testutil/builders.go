package testutil

import (
	"fmt"

	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
	"gopkg.in/yaml.v3"
)

// JobBuilder builds persisted jobs for tests.
type JobBuilder struct {
	j job.Job
}

// NewJobBuilder starts a job with the given ID, the default color and both
// LOI types allowed.
func NewJobBuilder(id string) *JobBuilder {
	j := job.New()
	j.ID = id
	j.Index = 0
	j.AllowedLoiTypes = job.AllowedLoiTypes(true, true)
	return &JobBuilder{j: j}
}

// WithName sets the job name.
func (b *JobBuilder) WithName(name string) *JobBuilder {
	b.j.Name = name
	return b
}

// WithIndex sets the job's position in its survey.
func (b *JobBuilder) WithIndex(index int) *JobBuilder {
	b.j.Index = index
	return b
}

// WithColor sets the job color.
func (b *JobBuilder) WithColor(color string) *JobBuilder {
	b.j.Color = color
	return b
}

// WithLOITypes replaces the allowed LOI types.
func (b *JobBuilder) WithLOITypes(points, polygons bool) *JobBuilder {
	b.j.AllowedLoiTypes = job.AllowedLoiTypes(points, polygons)
	return b
}

// WithTextStep adds a text step at the next index.
func (b *JobBuilder) WithTextStep(id, label string) *JobBuilder {
	return b.WithStep(job.NewStep(id, job.StepTypeText, label, false, len(b.j.Steps), nil))
}

// WithChoiceStep adds a select-one step with the given option labels.
// Options get the IDs "<id>-o1", "<id>-o2", and so on.
func (b *JobBuilder) WithChoiceStep(id, label string, options ...string) *JobBuilder {
	mc := &job.MultipleChoice{Cardinality: job.SelectOne}
	for i, o := range options {
		mc.Options = append(mc.Options, job.Option{ID: fmt.Sprintf("%s-o%d", id, i+1), Label: o})
	}
	return b.WithStep(job.NewStep(id, job.StepTypeMultipleChoice, label, false, len(b.j.Steps), mc))
}

// WithStep adds a step as given.
func (b *JobBuilder) WithStep(s job.Step) *JobBuilder {
	b.j.Steps[s.ID] = s
	return b
}

// Build returns a copy of the job.
func (b *JobBuilder) Build() job.Job {
	return b.j.Clone()
}

// StoreYAML renders jobs as the content of a job store file holding one survey.
func StoreYAML(surveyID string, jobs ...job.Job) (string, error) {
	store := job.StoreDTO{
		Version: 1,
		Surveys: map[string]job.SurveyDTO{
			surveyID: {Jobs: make(map[string]job.JobDTO, len(jobs))},
		},
	}
	for _, j := range jobs {
		store.Surveys[surveyID].Jobs[j.ID] = job.ToDTO(j)
	}
	data, err := yaml.Marshal(&store)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
