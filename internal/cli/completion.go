package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/exprtree/pkg/config"
	"github.com/matzehuels/exprtree/pkg/pipeline"
	"github.com/matzehuels/exprtree/pkg/render/styles"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for exprtree.

To load completions:

Bash:
  $ source <(exprtree completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ exprtree completion bash > /etc/bash_completion.d/exprtree
  # macOS:
  $ exprtree completion bash > $(brew --prefix)/etc/bash_completion.d/exprtree

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ exprtree completion zsh > "${fpath[1]}/_exprtree"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ exprtree completion fish | source

  # To load completions for each session, execute once:
  $ exprtree completion fish > ~/.config/fish/completions/exprtree.fish

PowerShell:
  PS> exprtree completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> exprtree completion powershell > exprtree.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// flagValues lists the completions offered for enumerated flags.
var flagValues = map[string]func() []string{
	"style":    styles.Names,
	"type":     func() []string { return pipeline.VizTypes },
	"sessions": func() []string { return []string{config.BackendMemory, config.BackendFile, config.BackendRedis, config.BackendMongo} },
}

// registerFlagCompletions adds value completion for enumerated flags on cmd
// and all its subcommands. --format completes comma-separated lists.
func registerFlagCompletions(cmd *cobra.Command) {
	for name, values := range flagValues {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values(), cobra.ShellCompDirectiveNoFileComp
		})
	}
	if cmd.Flags().Lookup("format") != nil && cmd.Name() != "compile" {
		_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	}
	for _, sub := range cmd.Commands() {
		registerFlagCompletions(sub)
	}
}

// completeFormats completes the last element of a comma-separated format
// list, keeping the ones already typed.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	out := make([]string, 0, len(pipeline.Formats))
	for _, f := range pipeline.Formats {
		if !strings.Contains(prefix, f+",") {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
