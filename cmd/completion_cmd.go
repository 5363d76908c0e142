package cmd

import (
	"io"
	"os"

	"github.com/daedaleanai/cobra"
	"github.com/pkg/errors"
)

var completionCmd = &cobra.Command{
	Use:   "completion bash|zsh|fish",
	Short: "Generate completion script",
	Long: `Prints the completion script of fluecheck for the given shell.
Bash:
  $ source <(fluecheck completion bash)
Zsh:
  $ fluecheck completion zsh > "${fpath[1]}/_fluecheck"
fish:
  $ fluecheck completion fish > ~/.config/fish/completions/fluecheck.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish"},
	Args:                  cobra.ExactValidArgs(1),
	RunE: RunAndHandleError(func(command *cobra.Command, args []string) error {
		return writeCompletion(command.Root(), os.Stdout, args[0])
	}),
	Hidden: true,
}

// writeCompletion writes the completion script of root for shell.
func writeCompletion(root *cobra.Command, w io.Writer, shell string) error {
	switch shell {
	case "bash":
		return root.GenBashCompletion(w)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	}
	return errors.Errorf("unsupported shell %q", shell)
}

// Registers the completion subcommand
func init() {
	rootCmd.AddCommand(completionCmd)
}
