package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gfalace/pkg/pipeline"
)

// graphExts are the file extensions offered when completing graph inputs.
// Compressed inputs are matched by their last extension only.
var graphExts = []string{"gfa", "gz", "bgz"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for gfalace.

Completions cover subcommands, flags, graph inputs (.gfa, .gfa.gz), render
formats and config files.

  source <(gfalace completion bash)
  gfalace completion zsh > "${fpath[1]}/_gfalace"
  gfalace completion fish > ~/.config/fish/completions/gfalace.fish
  gfalace completion powershell | Out-String | Invoke-Expression`,
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
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// completeGraphFiles offers GFA inputs, plain or compressed. maxArgs limits
// how many positional graphs the command takes; negative means any number.
func completeGraphFiles(maxArgs int) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if maxArgs >= 0 && len(args) >= maxArgs {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return graphExts, cobra.ShellCompDirectiveFilterFileExt
	}
}

// completeRenderFormats offers the formats accepted by render --format.
func completeRenderFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	formats := make([]string, 0, len(pipeline.ValidFormats))
	for f := range pipeline.ValidFormats {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats, cobra.ShellCompDirectiveNoFileComp
}
