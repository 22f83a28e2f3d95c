// Package cli implements the task command-line interface on top of cobra.
// Each command lives in its own file and reaches the business logic through
// the package-level service variables set by app.go.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

const usageText = `Usage :-
$ ./task add 2 hello world    # Add a new item with priority 2 and text "hello world" to the list
$ ./task ls                   # Show incomplete priority list items sorted by priority in ascending order
$ ./task del INDEX            # Delete the incomplete item with the given index
$ ./task done INDEX           # Mark the incomplete item with the given index as complete
$ ./task help                 # Show usage
$ ./task report               # Statistics
`

var rootCmd = &cobra.Command{
	Use:   "task",
	Short: "A priority-ordered task list for the command line",
	Long: `task keeps a list of pending tasks ordered by priority (lower numbers
first) in task.txt and moves finished tasks to completed.txt.`,
	// Unknown commands fall through to Run and print the usage text.
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		printUsage(cmd.OutOrStdout())
	},
}

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show usage",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printUsage(cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "task %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func printUsage(w io.Writer) {
	_, _ = io.WriteString(w, usageText)
}

func init() {
	cobra.EnableCaseInsensitive = true
	rootCmd.FParseErrWhitelist.UnknownFlags = true
	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
