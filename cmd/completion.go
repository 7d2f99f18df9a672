package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: "Generate shell completion scripts",
	Long: `To load completions:

Bash:
  source <(folio completion bash)
  # To load completions for each session, execute once:
  # Linux:
  folio completion bash > /etc/bash_completion.d/folio
  # macOS:
  folio completion bash > /usr/local/etc/bash_completion.d/folio

Zsh:
  folio completion zsh > "${fpath[1]}/_folio"
  autoload -U compinit && compinit

Fish:
  folio completion fish > ~/.config/fish/completions/folio.fish
`,
	ValidArgs: []string{"bash", "zsh", "fish"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	// Completion scripts need no config, storage or logging
	PersistentPreRun:  func(cmd *cobra.Command, args []string) {},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(os.Stdout, true)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
