package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/task-cli/internal/core"
)

var addCmd = &cobra.Command{
	Use:   "add <priority> <text...>",
	Short: "Add a new item with the given priority",
	Long: `Add a new pending task. The task is inserted after every pending task
with an equal or lower priority value. All arguments after the priority are
joined with single spaces to form the task text.

  task add 2 hello world`,
	// Flags are not parsed so that negative priorities reach the parser.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTaskManager(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		var text string
		if len(args) >= 2 {
			text = strings.TrimSpace(strings.Join(args[1:], " "))
		}
		if text == "" {
			_, _ = fmt.Fprintln(out, "Error: Missing tasks string. Nothing added!")
			return nil
		}

		priority, ok := parseIntArg(out, "priority", args[0])
		if !ok {
			return nil
		}

		rec, err := TaskMgr.AddTask(priority, text)
		if err != nil {
			if errors.Is(err, core.ErrInvalidInput) {
				_, _ = fmt.Fprintln(out, "Error: task text must not contain a newline. Nothing added!")
				return nil
			}
			return err
		}

		_, _ = fmt.Fprintf(out, "Added task: \"%s\" with priority %d\n", rec.Text, rec.Priority)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
