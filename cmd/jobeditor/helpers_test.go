package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/jobeditor/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag of cmd and its children to its default so
// that commands can be executed repeatedly within one test binary.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// executeCommand runs the root command with args and returns stdout and
// stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// storeFixture writes a store with two jobs in survey "s1" and returns the
// flags pointing the CLI at it.
func storeFixture(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()

	trees := testutil.NewJobBuilder("job-trees").
		WithName("Trees").
		WithIndex(0).
		WithTextStep("st1", "Species").
		WithChoiceStep("st2", "Health", "Good", "Poor").
		Build()
	wells := testutil.NewJobBuilder("job-wells").
		WithName("Wells").
		WithIndex(1).
		WithColor("#00ff00").
		WithLOITypes(true, false).
		Build()

	store := testutil.WriteStore(t, dir, "s1", trees, wells)
	return []string{"--config", filepath.Join(dir, "missing.toml"), "--store", store}
}

func withArgs(base []string, args ...string) []string {
	return append(append([]string{}, args...), base...)
}
