package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [file]",
	Short: "Show recorded revision events and check runs for a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		d, cleanup, err := openDB(cfg.Refinery.DBPath)
		if err != nil {
			return err
		}
		defer cleanup()

		item := args[0]
		events, err := d.EventsForItem(item)
		if err != nil {
			return fmt.Errorf("get events: %w", err)
		}
		runs, err := d.CheckRunsForItem(item)
		if err != nil {
			return fmt.Errorf("get check runs: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(events) == 0 && len(runs) == 0 {
			fmt.Fprintln(w, "No history recorded.")
			return nil
		}

		if len(events) > 0 {
			fmt.Fprintf(w, "%-6s %-16s %-5s %-20s %s\n", "ID", "EVENT", "ITER", "TIMESTAMP", "DETAIL")
			fmt.Fprintln(w, strings.Repeat("-", 70))
			for _, e := range events {
				detail := e.Detail
				if len(detail) > 60 {
					detail = detail[:57] + "..."
				}
				fmt.Fprintf(w, "%-6d %-16s %-5d %-20s %s\n", e.ID, e.Event, e.Iteration, e.Timestamp, detail)
			}
		}

		if len(runs) > 0 {
			fmt.Fprintf(w, "\n%-6s %-8s %-5s %-8s %-8s %s\n", "ID", "TOOL", "ITER", "EXIT", "DURATION", "SUMMARY")
			fmt.Fprintln(w, strings.Repeat("-", 70))
			for _, r := range runs {
				exit := fmt.Sprintf("%d", r.ExitCode)
				if !r.Executed {
					exit = "n/a"
				}
				fmt.Fprintf(w, "%-6d %-8s %-5d %-8s %-8s %s\n",
					r.ID, r.Tool, r.Iteration, exit, fmt.Sprintf("%dms", r.DurationMs), r.Summary)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().String("config", "", "Path to a refinery config file")
}
