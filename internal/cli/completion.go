package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdeck/pkg/config"
)

// completionCommand creates the completion command. Besides subcommands
// and flags, the generated scripts complete diagram files (*.json) and
// document names from the configured store.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for flowdeck.

File arguments complete to .json diagram documents. "store pull",
"store rm" and the --store flag of edit and render complete to the
names held by the configured store, so a remote backend is contacted
while completing.

Load completions in the current shell:

  bash:        source <(flowdeck completion bash)
  zsh:         source <(flowdeck completion zsh)
  fish:        flowdeck completion fish | source
  powershell:  flowdeck completion powershell | Out-String | Invoke-Expression

To keep them, write the script to your shell's completion directory, for
example ~/.config/fish/completions/flowdeck.fish or "${fpath[1]}/_flowdeck".
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// completeDocumentFiles completes file arguments to diagram documents.
func completeDocumentFiles(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeStoredNames completes names of stored documents. A --backend
// flag on the command (or a parent) selects the store.
func (c *CLI) completeStoredNames(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	// --config is parsed after setup when completing.
	if c.configPath != "" {
		if cfg, err := config.Load(c.configPath); err == nil {
			c.Config = cfg
		}
	}
	var backend string
	if f := cmd.Flag("backend"); f != nil {
		backend = f.Value.String()
	}

	s, _, err := c.openStore(ctx, backend)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer s.Close()
	names, err := s.List(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var out []string
	for _, name := range names {
		if strings.HasPrefix(name, toComplete) {
			out = append(out, name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeStoredThenFile completes a stored name first and a document
// file second.
func (c *CLI) completeStoredThenFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return c.completeStoredNames(cmd, args, toComplete)
	}
	return completeDocumentFiles(cmd, args, toComplete)
}
