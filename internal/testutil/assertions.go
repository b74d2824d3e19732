package testutil

import (
	"os"
	"testing"

	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// AssertFileExists asserts that a regular file exists at path.
func AssertFileExists(t testing.TB, path string) {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err, "expected file to exist: %s", path)
	assert.False(t, info.IsDir(), "expected file but got directory: %s", path)
}

// AssertFileContains asserts that the file at path contains every snippet.
func AssertFileContains(t testing.TB, path string, snippets ...string) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read file: %s", path)
	for _, s := range snippets {
		assert.Contains(t, string(content), s, "in %s", path)
	}
}

// AssertYAMLEquals asserts that two YAML documents decode to the same value.
func AssertYAMLEquals(t testing.TB, expected, actual string) {
	t.Helper()

	var want, got interface{}
	require.NoError(t, yaml.Unmarshal([]byte(expected), &want), "failed to parse expected YAML")
	require.NoError(t, yaml.Unmarshal([]byte(actual), &got), "failed to parse actual YAML")
	assert.Equal(t, want, got)
}

// AssertStoreEquals asserts that the store file at path holds exactly the
// given jobs for one survey.
func AssertStoreEquals(t testing.TB, path, surveyID string, jobs ...job.Job) {
	t.Helper()

	want, err := StoreYAML(surveyID, jobs...)
	require.NoError(t, err)
	got, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read store: %s", path)
	AssertYAMLEquals(t, want, string(got))
}

// StoredJob decodes the store file at path and returns one job's record.
func StoredJob(t testing.TB, path, surveyID, jobID string) job.JobDTO {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read store: %s", path)

	var store job.StoreDTO
	require.NoError(t, yaml.Unmarshal(data, &store), "store is not valid YAML")
	survey, ok := store.Surveys[surveyID]
	require.True(t, ok, "survey %s not in store", surveyID)
	dto, ok := survey.Jobs[jobID]
	require.True(t, ok, "job %s not in survey %s", jobID, surveyID)
	return dto
}

// AssertErrorContains asserts that err is non-nil and mentions expected.
func AssertErrorContains(t testing.TB, err error, expected string) {
	t.Helper()

	require.Error(t, err)
	assert.Contains(t, err.Error(), expected)
}
