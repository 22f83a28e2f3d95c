package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var completionInstall bool

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Set up shell completions for task",
	Long: `Set up shell tab-completions for task commands and flags.

Supported shells: bash, zsh, fish, powershell

Quick install (adds completions to your shell profile):

  task completion bash --install
  task completion zsh --install
  task completion fish --install

Or print the completion script to stdout (for manual setup):

  task completion bash
  task completion zsh
  task completion fish
  task completion powershell`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MaximumNArgs(1),
	RunE:      runCompletion,
}

// shellCompletion describes how to generate and where to install the
// completion script for one shell. An empty installDir means --install is
// unsupported.
type shellCompletion struct {
	loadHint   string
	generate   func(w io.Writer) error
	installDir func(home string) string
	fileName   string
	afterHint  []string
}

var shells = map[string]shellCompletion{
	"bash": {
		loadHint: `eval "$(task completion bash)"`,
		generate: func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
		installDir: func(home string) string {
			return filepath.Join(home, ".local", "share", "bash-completion", "completions")
		},
		fileName:  "task",
		afterHint: []string{"Restart your shell to load them."},
	},
	"zsh": {
		loadHint: `eval "$(task completion zsh)"`,
		generate: func(w io.Writer) error { return rootCmd.GenZshCompletion(w) },
		installDir: func(home string) string {
			return filepath.Join(home, ".local", "share", "zsh", "site-functions")
		},
		fileName: "_task",
		afterHint: []string{
			"Ensure that directory is in your fpath and compinit runs in ~/.zshrc.",
		},
	},
	"fish": {
		loadHint: "task completion fish | source",
		generate: func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
		installDir: func(home string) string {
			return filepath.Join(home, ".config", "fish", "completions")
		},
		fileName:  "task.fish",
		afterHint: []string{"Completions will be available in new fish sessions."},
	},
	"powershell": {
		loadHint: "task completion powershell | Out-String | Invoke-Expression",
		generate: func(w io.Writer) error { return rootCmd.GenPowerShellCompletionWithDesc(w) },
	},
}

func init() {
	completionCmd.Flags().BoolVar(&completionInstall, "install", false,
		"Install completions into your shell profile")

	// Replace cobra's default completion command with ours.
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	name := args[0]
	sh, ok := shells[name]
	if !ok {
		return fmt.Errorf("unsupported shell %q (supported: bash, zsh, fish, powershell)", name)
	}

	if completionInstall {
		return installCompletion(cmd.OutOrStdout(), name, sh)
	}

	// Hints go to stderr so eval "$(task completion bash)" only sees the script.
	hints := cmd.ErrOrStderr()
	_, _ = fmt.Fprintln(hints, "# To load completions in your current session:")
	_, _ = fmt.Fprintf(hints, "#   %s\n", sh.loadHint)
	if sh.installDir != nil {
		_, _ = fmt.Fprintf(hints, "# To install permanently:\n#   task completion %s --install\n", name)
	}
	return sh.generate(cmd.OutOrStdout())
}

func installCompletion(out io.Writer, name string, sh shellCompletion) error {
	if sh.installDir == nil {
		return fmt.Errorf("automatic install is not supported for %s; run 'task completion %s' and add the output to your profile", name, name)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("detecting home directory: %w", err)
	}

	dir := sh.installDir(home)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating completion directory: %w", err)
	}
	target := filepath.Join(dir, sh.fileName)

	if err := writeCompletionFile(target, sh.generate); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "%s completions installed to %s\n", name, target)
	for _, line := range sh.afterHint {
		_, _ = fmt.Fprintln(out, line)
	}
	return nil
}

// writeCompletionFile creates target and writes the script into it,
// propagating close errors.
func writeCompletionFile(target string, generate func(io.Writer) error) error {
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating completion file %s: %w", target, err)
	}

	writeErr := generate(f)
	closeErr := f.Close()

	if writeErr != nil {
		return writeErr
	}
	if closeErr != nil {
		return fmt.Errorf("closing completion file %s: %w", target, closeErr)
	}
	return nil
}
