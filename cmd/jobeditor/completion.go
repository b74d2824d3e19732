package main

import "github.com/spf13/cobra"

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for jobeditor.

To load completions:

Bash:
  $ source <(jobeditor completion bash)
  # To load completions for each session, add to ~/.bashrc:
  # source <(jobeditor completion bash)

Zsh:
  $ source <(jobeditor completion zsh)
  # To load completions for each session, add to ~/.zshrc:
  # source <(jobeditor completion zsh)
  # You may need to start a new shell for this to take effect.

Fish:
  $ jobeditor completion fish | source
  # To load completions for each session, run:
  $ jobeditor completion fish > ~/.config/fish/completions/jobeditor.fish

PowerShell:
  PS> jobeditor completion powershell | Out-String | Invoke-Expression
  # To load completions for each session, add the output to your profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
