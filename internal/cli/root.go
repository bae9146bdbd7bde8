package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "refinery",
	Short: "refinery — bounded automated revision of Python code",
	Long: `refinery walks a sandboxed directory of Python sources and drives each file
through an analyze → mutate → validate loop: the model audits the file,
proposes a revision, and pytest judges the result. Every file gets a fixed
iteration ceiling, and the batch report buckets each one by final status.

Run state is stored in ~/.refinery/ (SQLite for events, JSON for reports).`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(historyCmd)
}
