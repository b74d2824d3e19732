package jobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
	"github.com/felixgeelhaar/jobeditor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs(prefix string) job.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func sampleJob(name string) job.Job {
	j := job.New()
	j.Name = name
	j.AllowedLoiTypes = job.AllowedLoiTypes(true, false)
	j.Steps = map[string]job.Step{
		"s1": job.NewStep("s1", job.StepTypeText, "Name?", true, 0, nil),
		"s2": job.NewStep("s2", job.StepTypeMultipleChoice, "Kind?", false, 1, &job.MultipleChoice{
			Cardinality: job.SelectOne,
			Options:     []job.Option{{ID: "o1", Label: "Oak"}, {ID: "o2", Label: "Pine"}},
		}),
	}
	return j
}

// repositories runs a test against every implementation.
func repositories(t *testing.T) map[string]job.Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store", "jobs.yaml")
	return map[string]job.Repository{
		"yaml":   NewYAMLRepository(path, WithIDGenerator(sequentialIDs("job"))),
		"memory": NewMemoryRepository(WithIDGenerator(sequentialIDs("job"))),
	}
}

func TestRepository_AddNewJobs(t *testing.T) {
	t.Parallel()

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, repo.AddOrUpdateJob(ctx, "survey-1", sampleJob("Trees")))
			require.NoError(t, repo.AddOrUpdateJob(ctx, "survey-1", sampleJob("Rivers")))

			jobs, err := repo.ListJobs(ctx, "survey-1")
			require.NoError(t, err)
			require.Len(t, jobs, 2)

			assert.Equal(t, "job-1", jobs[0].ID)
			assert.Equal(t, 0, jobs[0].Index)
			assert.Equal(t, "Trees", jobs[0].Name)
			assert.Equal(t, "job-2", jobs[1].ID)
			assert.Equal(t, 1, jobs[1].Index)

			got, err := repo.GetJob(ctx, "survey-1", "job-1")
			require.NoError(t, err)
			assert.Equal(t, job.DefaultColor, got.Color)
			assert.True(t, got.Allows(job.LOIPoints))
			assert.False(t, got.Allows(job.LOIPolygons))
			require.Len(t, got.Steps, 2)
			assert.Equal(t, "Kind?", got.Steps["s2"].Label)
			require.NotNil(t, got.Steps["s2"].MultipleChoice)
			assert.Len(t, got.Steps["s2"].MultipleChoice.Options, 2)
		})
	}
}

func TestRepository_UpdateKeepsIdentity(t *testing.T) {
	t.Parallel()

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.AddOrUpdateJob(ctx, "survey-1", sampleJob("Trees")))
			require.NoError(t, repo.AddOrUpdateJob(ctx, "survey-1", sampleJob("Rivers")))

			existing, err := repo.GetJob(ctx, "survey-1", "job-1")
			require.NoError(t, err)
			existing.Name = "Forests"
			delete(existing.Steps, "s2")
			require.NoError(t, repo.AddOrUpdateJob(ctx, "survey-1", existing))

			jobs, err := repo.ListJobs(ctx, "survey-1")
			require.NoError(t, err)
			require.Len(t, jobs, 2)
			assert.Equal(t, "Forests", jobs[0].Name)
			assert.Equal(t, 0, jobs[0].Index)
			assert.Len(t, jobs[0].Steps, 1)
		})
	}
}

func TestRepository_NotFound(t *testing.T) {
	t.Parallel()

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := repo.ListJobs(ctx, "missing")
			require.ErrorIs(t, err, job.ErrSurveyNotFound)

			_, err = repo.GetJob(ctx, "missing", "job-1")
			require.ErrorIs(t, err, job.ErrSurveyNotFound)

			require.NoError(t, repo.AddOrUpdateJob(ctx, "survey-1", sampleJob("Trees")))
			_, err = repo.GetJob(ctx, "survey-1", "job-9")
			require.ErrorIs(t, err, job.ErrJobNotFound)
		})
	}
}

func TestRepository_CanceledContext(t *testing.T) {
	t.Parallel()

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := repo.AddOrUpdateJob(ctx, "survey-1", sampleJob("Trees"))
			require.ErrorIs(t, err, job.ErrSaveFailed)
			require.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestYAMLRepository_FileLayout(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jobs.yaml")
	repo := NewYAMLRepository(path, WithIDGenerator(sequentialIDs("job")))
	require.NoError(t, repo.AddOrUpdateJob(context.Background(), "survey-1", sampleJob("Trees")))

	testutil.AssertFileExists(t, path)
	testutil.AssertFileContains(t, path, "version: 1", "survey-1:", "job-1:", "allowedLoiTypes:")

	stored := sampleJob("Trees")
	stored.ID = "job-1"
	stored.Index = 0
	testutil.AssertStoreEquals(t, path, "survey-1", stored)

	dto := testutil.StoredJob(t, path, "survey-1", "job-1")
	assert.Equal(t, []string{"points"}, dto.AllowedLoiTypes)

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")
}

func TestYAMLRepository_ReopensExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jobs.yaml")
	first := NewYAMLRepository(path, WithIDGenerator(sequentialIDs("a")))
	require.NoError(t, first.AddOrUpdateJob(context.Background(), "survey-1", sampleJob("Trees")))

	second := NewYAMLRepository(path, WithIDGenerator(sequentialIDs("b")))
	require.NoError(t, second.AddOrUpdateJob(context.Background(), "survey-1", sampleJob("Rivers")))

	jobs, err := second.ListJobs(context.Background(), "survey-1")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "a-1", jobs[0].ID)
	assert.Equal(t, "b-1", jobs[1].ID)
	assert.Equal(t, 1, jobs[1].Index)
}

func TestYAMLRepository_CorruptFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"not yaml", "surveys: [unclosed"},
		{"future version", "version: 99\nsurveys: {}\n"},
		{"unknown step type", "surveys:\n  s:\n    jobs:\n      j:\n        name: x\n        index: 0\n        steps:\n          q:\n            type: hologram\n            label: y\n            index: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "jobs.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := NewYAMLRepository(path).ListJobs(context.Background(), "s")
			require.ErrorIs(t, err, job.ErrStoreCorrupt)
		})
	}
}

func TestYAMLRepository_UnwritableDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	repo := NewYAMLRepository(filepath.Join(blocker, "jobs.yaml"))
	err := repo.AddOrUpdateJob(context.Background(), "survey-1", sampleJob("Trees"))
	require.ErrorIs(t, err, job.ErrSaveFailed)
}

func TestMemoryRepository_Seed(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepository()
	seeded := sampleJob("Trees")
	seeded.ID = "fixed"
	seeded.Index = 4
	repo.Seed("survey-1", seeded)

	got, err := repo.GetJob(context.Background(), "survey-1", "fixed")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Index)

	got.Name = "changed"
	again, err := repo.GetJob(context.Background(), "survey-1", "fixed")
	require.NoError(t, err)
	assert.Equal(t, "Trees", again.Name, "callers receive copies")
}
