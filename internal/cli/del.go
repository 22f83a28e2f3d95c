package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/task-cli/internal/core"
)

var delCmd = &cobra.Command{
	Use:   "del <index>",
	Short: "Delete the incomplete item with the given index",
	Long: `Delete a pending task. INDEX is the 1-based position shown by 'task ls'
unless indexing.delete is set to raw in .taskconfig, in which case it is the
line number in task.txt.`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTaskManager(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			_, _ = fmt.Fprintln(out, "Error: Missing NUMBER for deleting tasks.")
			return nil
		}
		index, ok := parseIntArg(out, "index", args[0])
		if !ok {
			return nil
		}

		if _, err := TaskMgr.DeleteTask(index); err != nil {
			if errors.Is(err, core.ErrIndexOutOfRange) {
				_, _ = fmt.Fprintf(out, "Error: task with index #%d does not exist. Nothing deleted.\n", index)
				return nil
			}
			return err
		}

		_, _ = fmt.Fprintf(out, "Deleted task #%d\n", index)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(delCmd)
}
