package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/felixgeelhaar/jobeditor/internal/adapters/logging"
	"github.com/felixgeelhaar/jobeditor/internal/config"
	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
	"github.com/felixgeelhaar/jobeditor/internal/ports"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	storePath string
	logFile   string
	verbose   bool
	jsonLogs  bool
)

var rootCmd = &cobra.Command{
	Use:   "jobeditor",
	Short: "Edit the jobs of a data collection survey",
	Long: `jobeditor creates and edits survey jobs: a name, a color, the kinds of
locations collectors may add and an ordered list of questions.

Jobs are kept in a YAML store. Editing happens in a terminal form that
validates every question before the job is saved.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: "+config.DefaultFileName+")")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "job store file, overrides store.path")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "write logs as JSON lines")

	registerFlagCompletions()

	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig() (config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.DefaultFileName
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	if jsonLogs {
		cfg.Log.JSON = true
	}
	if verbose {
		cfg.Log.Level = ports.LevelDebug.String()
	}
	return cfg, nil
}

// newLogger builds the command logger. Interactive commands own the
// terminal, so they only log when --log-file is set.
func newLogger(cfg config.Config, stderr io.Writer, interactive bool) (ports.Logger, func(), error) {
	opts := logging.Options{Level: cfg.LogLevel(), JSON: cfg.Log.JSON}
	if logFile == "" {
		opts.Quiet = interactive
		return logging.New(stderr, opts), func() {}, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, &config.UserError{
			Code:       config.ErrCodeLogOpen,
			Message:    "could not open log file",
			Context:    logFile,
			Suggestion: "check that the directory exists and is writable",
			Underlying: err,
		}
	}
	return logging.New(f, opts), func() { _ = f.Close() }, nil
}

// storeError turns job store errors into actionable user errors.
func storeError(err error, path, surveyID, jobID string) error {
	switch {
	case errors.Is(err, job.ErrSurveyNotFound):
		return &config.UserError{
			Code:       config.ErrCodeSurveyMissing,
			Message:    fmt.Sprintf("survey %q has no jobs", surveyID),
			Context:    path,
			Suggestion: fmt.Sprintf("create one with: jobeditor edit --survey %s --new", surveyID),
			Underlying: err,
		}
	case errors.Is(err, job.ErrJobNotFound):
		return &config.UserError{
			Code:       config.ErrCodeJobNotFound,
			Message:    fmt.Sprintf("job %q does not exist in survey %q", jobID, surveyID),
			Context:    path,
			Suggestion: fmt.Sprintf("list the jobs with: jobeditor jobs list --survey %s", surveyID),
			Underlying: err,
		}
	case errors.Is(err, job.ErrStoreCorrupt):
		return &config.UserError{
			Code:       config.ErrCodeStoreCorrupt,
			Message:    "job store could not be read",
			Context:    path,
			Suggestion: "restore the file from a backup or point --store at another file",
			Underlying: err,
		}
	}
	return err
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var userErr *config.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}

// registerFlagCompletions sets up custom completions for global flags.
func registerFlagCompletions() {
	_ = rootCmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt
	})

	_ = rootCmd.RegisterFlagCompletionFunc("store", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	})
}
