package jobstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
)

// MemoryRepository keeps jobs in memory. It backs dry runs and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	surveys map[string]map[string]job.Job
	newID   job.IDGenerator
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository(opts ...Option) *MemoryRepository {
	c := buildConfig(opts)
	return &MemoryRepository{
		surveys: make(map[string]map[string]job.Job),
		newID:   c.newID,
	}
}

// Seed stores jobs as they are, keeping their IDs and indexes.
func (r *MemoryRepository) Seed(surveyID string, jobs ...job.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()

	survey := r.survey(surveyID)
	for _, j := range jobs {
		survey[j.ID] = j.Clone()
	}
}

// AddOrUpdateJob stores the job under the survey.
func (r *MemoryRepository) AddOrUpdateJob(ctx context.Context, surveyID string, j job.Job) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", job.ErrSaveFailed, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	survey := r.survey(surveyID)
	j = j.Clone()
	id := assignIdentity(&j, len(survey), r.newID)
	survey[id] = j
	return nil
}

// GetJob returns a stored job.
func (r *MemoryRepository) GetJob(_ context.Context, surveyID, jobID string) (job.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	survey, ok := r.surveys[surveyID]
	if !ok {
		return job.Job{}, fmt.Errorf("%w: %s", job.ErrSurveyNotFound, surveyID)
	}
	j, ok := survey[jobID]
	if !ok {
		return job.Job{}, fmt.Errorf("%w: %s", job.ErrJobNotFound, jobID)
	}
	return j.Clone(), nil
}

// ListJobs returns a survey's jobs ordered by index.
func (r *MemoryRepository) ListJobs(_ context.Context, surveyID string) ([]job.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	survey, ok := r.surveys[surveyID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", job.ErrSurveyNotFound, surveyID)
	}
	jobs := make([]job.Job, 0, len(survey))
	for _, j := range survey {
		jobs = append(jobs, j.Clone())
	}
	sortJobs(jobs)
	return jobs, nil
}

func (r *MemoryRepository) survey(id string) map[string]job.Job {
	survey, ok := r.surveys[id]
	if !ok {
		survey = make(map[string]job.Job)
		r.surveys[id] = survey
	}
	return survey
}

var _ job.Repository = (*MemoryRepository)(nil)
