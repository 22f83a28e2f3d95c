package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Show incomplete items sorted by priority",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTaskManager(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		tasks, err := TaskMgr.ListTasks()
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			_, _ = fmt.Fprintln(out, "There are no pending tasks!")
			return nil
		}
		for i, t := range tasks {
			_, _ = fmt.Fprintf(out, "%d. %s [%d]\n", i+1, t.Text, t.Priority)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
