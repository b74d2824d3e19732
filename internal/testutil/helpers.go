// Package testutil provides test helpers for the job editor.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
	"github.com/stretchr/testify/require"
)

// WriteTempFile writes content to a file in the specified directory.
func WriteTempFile(t testing.TB, dir, filename, content string) string {
	t.Helper()

	path := filepath.Join(dir, filename)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err, "failed to write temp file: %s", filename)

	return path
}

// WriteStore writes a job store file holding one survey's jobs and returns
// its path.
func WriteStore(t testing.TB, dir, surveyID string, jobs ...job.Job) string {
	t.Helper()

	content, err := StoreYAML(surveyID, jobs...)
	require.NoError(t, err, "failed to encode job store")

	return WriteTempFile(t, dir, "jobs.yaml", content)
}
