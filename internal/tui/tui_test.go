package tui

import (
	"testing"

	"github.com/felixgeelhaar/jobeditor/internal/adapters/logging"
	"github.com/felixgeelhaar/jobeditor/internal/domain/editor"
	"github.com/felixgeelhaar/jobeditor/internal/testutil"
	"github.com/felixgeelhaar/jobeditor/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobEditorOptions(t *testing.T) {
	t.Parallel()

	repo := mocks.NewJobRepository()
	opts := NewJobEditorOptions("survey-1", repo, logging.NewNopLogger())

	assert.Equal(t, "survey-1", opts.SurveyID)
	assert.True(t, opts.CreateMode)
	assert.Nil(t, opts.Job)
}

func TestJobEditorOptions_WithJob(t *testing.T) {
	t.Parallel()

	j := testutil.NewJobBuilder("job-1").WithName("Trees").Build()
	opts := NewJobEditorOptions("survey-1", mocks.NewJobRepository(), logging.NewNopLogger()).
		WithJob(j).
		WithSessionOptions(editor.WithLockDuringSave(false))

	require.NotNil(t, opts.Job)
	assert.Equal(t, "job-1", opts.Job.ID)
	assert.False(t, opts.CreateMode)
	assert.Len(t, opts.SessionOptions, 1)
}
