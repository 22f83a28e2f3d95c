package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/task-cli/pkg/models"
	"gopkg.in/yaml.v3"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show pending and completed task statistics",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTaskManager(); err != nil {
			return err
		}

		report, err := TaskMgr.Report()
		if err != nil {
			return err
		}

		switch reportFormat {
		case "", "text":
			writeTextReport(cmd.OutOrStdout(), report)
			return nil
		case "yaml":
			return writeYAMLReport(cmd.OutOrStdout(), report)
		default:
			return fmt.Errorf("unsupported report format %q (use text or yaml)", reportFormat)
		}
	},
}

func writeTextReport(w io.Writer, report *models.Report) {
	_, _ = fmt.Fprintf(w, "Pending : %d\n", report.Pending.Count)
	for i, t := range report.Pending.Tasks {
		_, _ = fmt.Fprintf(w, "%d. %s [%d]\n", i+1, t.Text, t.Priority)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Completed : %d\n", report.Completed.Count)
	for i, t := range report.Completed.Tasks {
		_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, t.Text)
	}
}

func writeYAMLReport(w io.Writer, report *models.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report as YAML: %w", err)
	}
	return enc.Close()
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "Output format: text or yaml")
	rootCmd.AddCommand(reportCmd)
}
