package job

import (
	"context"
	"errors"
	"fmt"
)

// Repository errors.
var (
	ErrSurveyNotFound = errors.New("survey not found")
	ErrJobNotFound    = errors.New("job not found")
	ErrStoreCorrupt   = errors.New("job store is corrupt")
	ErrSaveFailed     = errors.New("failed to save job")
)

// Repository persists jobs grouped by survey.
type Repository interface {
	// AddOrUpdateJob stores the job under the survey. New jobs (empty ID) are
	// assigned an identifier and an index.
	AddOrUpdateJob(ctx context.Context, surveyID string, j Job) error
	// GetJob returns a stored job.
	GetJob(ctx context.Context, surveyID, jobID string) (Job, error)
	// ListJobs returns a survey's jobs ordered by index.
	ListJobs(ctx context.Context, surveyID string) ([]Job, error)
}

// StoreDTO is the serialized form of a job store.
type StoreDTO struct {
	Version int                  `yaml:"version" json:"version"`
	Surveys map[string]SurveyDTO `yaml:"surveys" json:"surveys"`
}

// SurveyDTO is the serialized form of a survey's jobs.
type SurveyDTO struct {
	Jobs map[string]JobDTO `yaml:"jobs" json:"jobs"`
}

// JobDTO is the serialized form of a job.
type JobDTO struct {
	Index           int                `yaml:"index" json:"index"`
	Color           string             `yaml:"color,omitempty" json:"color,omitempty"`
	Name            string             `yaml:"name" json:"name"`
	Steps           map[string]StepDTO `yaml:"steps" json:"steps"`
	AllowedLoiTypes []string           `yaml:"allowedLoiTypes,omitempty" json:"allowedLoiTypes,omitempty"`
}

// StepDTO is the serialized form of a step.
type StepDTO struct {
	Type           string             `yaml:"type" json:"type"`
	Label          string             `yaml:"label" json:"label"`
	Required       bool               `yaml:"required,omitempty" json:"required,omitempty"`
	Index          int                `yaml:"index" json:"index"`
	MultipleChoice *MultipleChoiceDTO `yaml:"multipleChoice,omitempty" json:"multipleChoice,omitempty"`
}

// MultipleChoiceDTO is the serialized form of a multiple choice configuration.
type MultipleChoiceDTO struct {
	Cardinality string      `yaml:"cardinality" json:"cardinality"`
	Options     []OptionDTO `yaml:"options" json:"options"`
}

// OptionDTO is the serialized form of an option.
type OptionDTO struct {
	ID    string `yaml:"id" json:"id"`
	Code  string `yaml:"code,omitempty" json:"code,omitempty"`
	Label string `yaml:"label" json:"label"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// ToDTO converts a job into its serialized form.
func ToDTO(j Job) JobDTO {
	dto := JobDTO{
		Index: j.Index,
		Color: j.Color,
		Name:  j.Name,
		Steps: make(map[string]StepDTO, len(j.Steps)),
	}
	for _, t := range j.AllowedLoiTypes {
		dto.AllowedLoiTypes = append(dto.AllowedLoiTypes, string(t))
	}
	for id, s := range j.Steps {
		step := StepDTO{
			Type:     string(s.Type),
			Label:    s.Label,
			Required: s.Required,
			Index:    s.Index,
		}
		if s.MultipleChoice != nil {
			mc := &MultipleChoiceDTO{Cardinality: string(s.MultipleChoice.Cardinality)}
			for _, o := range s.MultipleChoice.Options {
				mc.Options = append(mc.Options, OptionDTO(o))
			}
			step.MultipleChoice = mc
		}
		dto.Steps[id] = step
	}
	return dto
}

// FromDTO converts a serialized job back into a Job with the given ID.
func FromDTO(id string, dto JobDTO) (Job, error) {
	j := Job{
		ID:    id,
		Index: dto.Index,
		Color: dto.Color,
		Name:  dto.Name,
		Steps: make(map[string]Step, len(dto.Steps)),
	}
	for _, raw := range dto.AllowedLoiTypes {
		t, err := ParseLOIType(raw)
		if err != nil {
			return Job{}, fmt.Errorf("job %s: %w", id, err)
		}
		j.AllowedLoiTypes = append(j.AllowedLoiTypes, t)
	}
	for stepID, s := range dto.Steps {
		stepType, err := ParseStepType(s.Type)
		if err != nil {
			return Job{}, fmt.Errorf("job %s step %s: %w", id, stepID, err)
		}
		var mc *MultipleChoice
		if s.MultipleChoice != nil {
			mc = &MultipleChoice{Cardinality: Cardinality(s.MultipleChoice.Cardinality)}
			for _, o := range s.MultipleChoice.Options {
				mc.Options = append(mc.Options, Option(o))
			}
		}
		j.Steps[stepID] = NewStep(stepID, stepType, s.Label, s.Required, s.Index, mc)
	}
	return j, nil
}
