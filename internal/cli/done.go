package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/task-cli/internal/core"
)

var doneCmd = &cobra.Command{
	Use:                "done <index>",
	Short:              "Mark the incomplete item with the given index as complete",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTaskManager(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			_, _ = fmt.Fprintln(out, "Error: Missing NUMBER for marking tasks as done.")
			return nil
		}
		index, ok := parseIntArg(out, "index", args[0])
		if !ok {
			return nil
		}

		if _, err := TaskMgr.CompleteTask(index); err != nil {
			if errors.Is(err, core.ErrIndexOutOfRange) {
				_, _ = fmt.Fprintf(out, "Error: no incomplete item with index #%d exists.\n", index)
				return nil
			}
			return err
		}

		_, _ = fmt.Fprintln(out, "Marked item as done.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
