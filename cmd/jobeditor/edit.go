package main

import (
	"fmt"

	"github.com/felixgeelhaar/jobeditor/internal/adapters/jobstore"
	"github.com/felixgeelhaar/jobeditor/internal/config"
	"github.com/felixgeelhaar/jobeditor/internal/domain/editor"
	"github.com/felixgeelhaar/jobeditor/internal/ports"
	"github.com/felixgeelhaar/jobeditor/internal/tui"
	"github.com/spf13/cobra"
)

var (
	editSurvey string
	editJob    string
	editNew    bool
)

// runJobEditor is replaced in tests.
var runJobEditor = tui.RunJobEditor

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Create or edit a job interactively",
	Long: `Open the job editor for a survey.

With --job the stored job is loaded and edited. With --new (or without
--job) a blank job with one question is created.

Keys:
  tab/shift+tab  move between fields and questions
  a / d          add / delete a question
  K / J          move the focused question up / down
  ctrl+s         save the job
  esc            leave the editor, asking before discarding changes`,
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editSurvey, "survey", "", "survey the job belongs to")
	editCmd.Flags().StringVar(&editJob, "job", "", "job to edit")
	editCmd.Flags().BoolVar(&editNew, "new", false, "create a new job")
	_ = editCmd.MarkFlagRequired("survey")
	editCmd.MarkFlagsMutuallyExclusive("job", "new")

	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, cmd.ErrOrStderr(), true)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := ports.ContextWithLogger(cmd.Context(), logger)
	repo := jobstore.NewYAMLRepository(cfg.Store.Path)

	opts := newEditorOptions(cfg, repo, logger)
	if editJob != "" {
		j, err := repo.GetJob(ctx, editSurvey, editJob)
		if err != nil {
			return storeError(err, repo.Path(), editSurvey, editJob)
		}
		opts = opts.WithJob(j)
	} else {
		// Without --new the session warns and starts a new job.
		opts.CreateMode = editNew
	}

	result, err := runJobEditor(ctx, opts)
	if err != nil {
		return err
	}
	printEditResult(cmd, result)
	return nil
}

func newEditorOptions(cfg config.Config, repo *jobstore.YAMLRepository, logger ports.Logger) tui.JobEditorOptions {
	return tui.NewJobEditorOptions(editSurvey, repo, logger).WithSessionOptions(
		editor.WithDefaultStepType(cfg.StepType()),
		editor.WithDefaultColor(cfg.Editor.DefaultColor),
		editor.WithLockDuringSave(cfg.LockEditsDuringSave()),
	)
}

func printEditResult(cmd *cobra.Command, result *tui.JobEditorResult) {
	out := cmd.OutOrStdout()
	switch {
	case result.Saved:
		_, _ = fmt.Fprintf(out, "Saved job %q to survey %s\n", result.JobName, result.SurveyID)
	case result.Closed:
		_, _ = fmt.Fprintln(out, "Closed without saving")
	default:
		_, _ = fmt.Fprintln(out, "Editor aborted, changes were not saved")
	}
}
