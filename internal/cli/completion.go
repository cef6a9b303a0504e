package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graft/pkg/asset"
	pkgio "github.com/matzehuels/graft/pkg/io"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for graft.

Besides commands and flags, the scripts complete actor names for --actor
(read from the --donor document) and --highlight (read from the graphed
document).

Bash:
  $ source <(graft completion bash)

Zsh:
  $ graft completion zsh > "${fpath[1]}/_graft"

Fish:
  $ graft completion fish > ~/.config/fish/completions/graft.fish

PowerShell:
  PS> graft completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// actorCompletions lists the actors of the document at path whose names
// start with prefix, each described by its class.
func actorCompletions(path, prefix string) ([]string, cobra.ShellCompDirective) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer f.Close()

	p, err := pkgio.ReadJSON(f)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, a := range asset.DescribeActors(p) {
		if strings.HasPrefix(a.Name, prefix) {
			out = append(out, a.Name+"\t"+a.Class)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeActorsFromFlag completes actor names from the document named by
// another flag of the same command.
func completeActorsFromFlag(flag string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		path, err := cmd.Flags().GetString(flag)
		if err != nil || path == "" {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return actorCompletions(path, toComplete)
	}
}

// completeActorsFromArg completes actor names from the document given as
// the command's first argument.
func completeActorsFromArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return actorCompletions(args[0], toComplete)
}

// completeDocuments restricts file completion to package documents.
func completeDocuments(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}
