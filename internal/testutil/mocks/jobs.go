package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
)

// SaveCall records an AddOrUpdateJob invocation.
type SaveCall struct {
	SurveyID string
	Job      job.Job
}

// JobRepository is a thread-safe test double for job.Repository.
type JobRepository struct {
	mu      sync.RWMutex
	surveys map[string]map[string]job.Job
	saveErr error
	calls   []SaveCall
	nextID  int
	// BeforeSave, when set, runs at the start of every AddOrUpdateJob call.
	BeforeSave func()
}

// NewJobRepository creates a new JobRepository mock.
func NewJobRepository() *JobRepository {
	return &JobRepository{
		surveys: make(map[string]map[string]job.Job),
		calls:   make([]SaveCall, 0),
	}
}

// AddJob stores a job directly, bypassing recorded calls.
func (m *JobRepository) AddJob(surveyID string, j job.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.surveys[surveyID] == nil {
		m.surveys[surveyID] = make(map[string]job.Job)
	}
	m.surveys[surveyID][j.ID] = j.Clone()
}

// FailSaves makes every following AddOrUpdateJob call return err.
// A nil err restores normal behaviour.
func (m *JobRepository) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// AddOrUpdateJob records the call and stores the job.
func (m *JobRepository) AddOrUpdateJob(_ context.Context, surveyID string, j job.Job) error {
	if m.BeforeSave != nil {
		m.BeforeSave()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, SaveCall{SurveyID: surveyID, Job: j.Clone()})
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.surveys[surveyID] == nil {
		m.surveys[surveyID] = make(map[string]job.Job)
	}
	if j.ID == "" {
		m.nextID++
		j.ID = fmt.Sprintf("job-%d", m.nextID)
	}
	m.surveys[surveyID][j.ID] = j.Clone()
	return nil
}

// GetJob returns a stored job.
func (m *JobRepository) GetJob(_ context.Context, surveyID, jobID string) (job.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jobs, ok := m.surveys[surveyID]
	if !ok {
		return job.Job{}, job.ErrSurveyNotFound
	}
	j, ok := jobs[jobID]
	if !ok {
		return job.Job{}, job.ErrJobNotFound
	}
	return j.Clone(), nil
}

// ListJobs returns a survey's jobs ordered by index.
func (m *JobRepository) ListJobs(_ context.Context, surveyID string) ([]job.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jobs, ok := m.surveys[surveyID]
	if !ok {
		return nil, job.ErrSurveyNotFound
	}
	out := make([]job.Job, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Clone())
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Index < out[k].Index })
	return out, nil
}

// Calls returns all recorded AddOrUpdateJob invocations.
func (m *JobRepository) Calls() []SaveCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	calls := make([]SaveCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Ensure JobRepository implements job.Repository.
var _ job.Repository = (*JobRepository)(nil)
