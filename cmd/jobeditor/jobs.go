package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/felixgeelhaar/jobeditor/internal/adapters/jobstore"
	"github.com/felixgeelhaar/jobeditor/internal/config"
	"github.com/felixgeelhaar/jobeditor/internal/domain/job"
	"github.com/felixgeelhaar/jobeditor/internal/ports"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	jobsSurvey string
	jobsJob    string
	jobsOutput string
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect the jobs of a survey",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the jobs of a survey",
	RunE:  runJobsList,
}

var jobsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a job",
	RunE:  runJobsShow,
}

func init() {
	jobsCmd.PersistentFlags().StringVar(&jobsSurvey, "survey", "", "survey to inspect")
	_ = jobsCmd.MarkPersistentFlagRequired("survey")

	jobsShowCmd.Flags().StringVar(&jobsJob, "job", "", "job to print")
	jobsShowCmd.Flags().StringVarP(&jobsOutput, "output", "o", "yaml", "output format (yaml, json)")
	_ = jobsShowCmd.MarkFlagRequired("job")
	_ = jobsShowCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	jobsCmd.AddCommand(jobsListCmd, jobsShowCmd)
	rootCmd.AddCommand(jobsCmd)
}

// openStore loads the configuration and returns the job store. The command
// context carries the logger until the returned func closes it.
func openStore(cmd *cobra.Command) (*jobstore.YAMLRepository, ports.Logger, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, closeLog, err := newLogger(cfg, cmd.ErrOrStderr(), false)
	if err != nil {
		return nil, nil, nil, err
	}
	cmd.SetContext(ports.ContextWithLogger(cmd.Context(), logger))
	return jobstore.NewYAMLRepository(cfg.Store.Path), logger, closeLog, nil
}

func runJobsList(cmd *cobra.Command, _ []string) error {
	repo, logger, closeLog, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeLog()
	ctx := cmd.Context()

	jobs, err := repo.ListJobs(ctx, jobsSurvey)
	if err != nil {
		return storeError(err, repo.Path(), jobsSurvey, "")
	}
	logger.Debug(ctx, "listed jobs", ports.F("survey_id", jobsSurvey), ports.F("count", len(jobs)))

	if len(jobs) == 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Survey %s has no jobs.\n", jobsSurvey)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "INDEX\tID\tNAME\tQUESTIONS\tLOCATIONS\tCOLOR")
	for _, j := range jobs {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
			j.Index, j.ID, displayName(j.Name), len(j.Steps), loiSummary(j), j.ColorOrDefault())
	}
	return w.Flush()
}

func runJobsShow(cmd *cobra.Command, _ []string) error {
	if jobsOutput != "yaml" && jobsOutput != "json" {
		return &config.UserError{
			Code:       config.ErrCodeBadOutput,
			Message:    fmt.Sprintf("unknown output format %q", jobsOutput),
			Context:    "--output",
			Suggestion: "use yaml or json",
		}
	}

	repo, _, closeLog, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	j, err := repo.GetJob(cmd.Context(), jobsSurvey, jobsJob)
	if err != nil {
		return storeError(err, repo.Path(), jobsSurvey, jobsJob)
	}

	doc := map[string]job.JobDTO{j.ID: job.ToDTO(j)}
	var data []byte
	if jobsOutput == "json" {
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}

func loiSummary(j job.Job) string {
	if len(j.AllowedLoiTypes) == 0 {
		return "-"
	}
	kinds := make([]string, len(j.AllowedLoiTypes))
	for i, t := range j.AllowedLoiTypes {
		kinds[i] = string(t)
	}
	return strings.Join(kinds, ",")
}
