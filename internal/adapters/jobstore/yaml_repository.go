// Package jobstore provides adapters for job persistence.
package jobstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
	"gopkg.in/yaml.v3"
)

// storeVersion is written into every store file.
const storeVersion = 1

// YAMLRepository implements job.Repository on a single YAML file holding
// every survey's jobs.
type YAMLRepository struct {
	mu    sync.Mutex
	path  string
	newID job.IDGenerator
}

// Option configures a repository.
type Option func(*config)

type config struct {
	newID job.IDGenerator
}

// WithIDGenerator overrides the identifier source for new jobs.
func WithIDGenerator(gen job.IDGenerator) Option {
	return func(c *config) {
		c.newID = gen
	}
}

func buildConfig(opts []Option) config {
	c := config{newID: job.NewID}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewYAMLRepository creates a repository backed by the file at path.
// The file is created on the first save.
func NewYAMLRepository(path string, opts ...Option) *YAMLRepository {
	c := buildConfig(opts)
	return &YAMLRepository{path: path, newID: c.newID}
}

// Path returns the backing file.
func (r *YAMLRepository) Path() string {
	return r.path
}

// AddOrUpdateJob stores the job under the survey, creating the survey when
// it does not exist yet.
func (r *YAMLRepository) AddOrUpdateJob(ctx context.Context, surveyID string, j job.Job) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", job.ErrSaveFailed, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.load()
	if err != nil {
		return fmt.Errorf("%w: %w", job.ErrSaveFailed, err)
	}

	survey := store.Surveys[surveyID]
	if survey.Jobs == nil {
		survey.Jobs = make(map[string]job.JobDTO)
	}
	id := assignIdentity(&j, len(survey.Jobs), r.newID)
	survey.Jobs[id] = job.ToDTO(j)
	store.Surveys[surveyID] = survey

	return r.save(store)
}

// GetJob returns a stored job.
func (r *YAMLRepository) GetJob(_ context.Context, surveyID, jobID string) (job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.load()
	if err != nil {
		return job.Job{}, err
	}
	survey, ok := store.Surveys[surveyID]
	if !ok {
		return job.Job{}, fmt.Errorf("%w: %s", job.ErrSurveyNotFound, surveyID)
	}
	dto, ok := survey.Jobs[jobID]
	if !ok {
		return job.Job{}, fmt.Errorf("%w: %s", job.ErrJobNotFound, jobID)
	}
	j, err := job.FromDTO(jobID, dto)
	if err != nil {
		return job.Job{}, fmt.Errorf("%w: %w", job.ErrStoreCorrupt, err)
	}
	return j, nil
}

// ListJobs returns a survey's jobs ordered by index.
func (r *YAMLRepository) ListJobs(_ context.Context, surveyID string) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.load()
	if err != nil {
		return nil, err
	}
	survey, ok := store.Surveys[surveyID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", job.ErrSurveyNotFound, surveyID)
	}

	jobs := make([]job.Job, 0, len(survey.Jobs))
	for id, dto := range survey.Jobs {
		j, err := job.FromDTO(id, dto)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", job.ErrStoreCorrupt, err)
		}
		jobs = append(jobs, j)
	}
	sortJobs(jobs)
	return jobs, nil
}

// load reads the store file. A missing file is an empty store.
func (r *YAMLRepository) load() (job.StoreDTO, error) {
	store := job.StoreDTO{Version: storeVersion, Surveys: map[string]job.SurveyDTO{}}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return job.StoreDTO{}, fmt.Errorf("failed to read job store: %w", err)
	}

	if err := yaml.Unmarshal(data, &store); err != nil {
		return job.StoreDTO{}, fmt.Errorf("%w: %w", job.ErrStoreCorrupt, err)
	}
	if store.Version > storeVersion {
		return job.StoreDTO{}, fmt.Errorf("%w: unsupported version %d", job.ErrStoreCorrupt, store.Version)
	}
	if store.Surveys == nil {
		store.Surveys = map[string]job.SurveyDTO{}
	}
	return store, nil
}

// save writes the store atomically through a temp file and rename.
func (r *YAMLRepository) save(store job.StoreDTO) error {
	store.Version = storeVersion

	data, err := yaml.Marshal(&store)
	if err != nil {
		return fmt.Errorf("%w: %w", job.ErrSaveFailed, err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %w", job.ErrSaveFailed, err)
	}

	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", job.ErrSaveFailed, err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", job.ErrSaveFailed, err)
	}

	return nil
}

// assignIdentity gives a new job an ID and places it after the existing
// jobs. It returns the ID under which the job is stored.
func assignIdentity(j *job.Job, existing int, newID job.IDGenerator) string {
	if j.IsNew() {
		j.ID = newID()
		j.Index = existing
	} else if j.Index == job.UnassignedIndex {
		j.Index = existing
	}
	return j.ID
}

func sortJobs(jobs []job.Job) {
	sort.SliceStable(jobs, func(a, b int) bool {
		if jobs[a].Index != jobs[b].Index {
			return jobs[a].Index < jobs[b].Index
		}
		return jobs[a].ID < jobs[b].ID
	})
}

var _ job.Repository = (*YAMLRepository)(nil)
