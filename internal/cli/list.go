package cli

import (
	"fmt"

	"github.com/lucasnoah/refinery/internal/sandbox"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the Python files a run would process",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		targetDir, _ := cmd.Flags().GetString("target-dir")
		if targetDir == "" {
			targetDir = cfg.Refinery.SandboxRoot
		}
		if targetDir == "" {
			return fmt.Errorf("no target directory: set --target-dir or sandbox_root in config")
		}

		guard, err := sandbox.NewGuard(targetDir)
		if err != nil {
			return fmt.Errorf("sandbox root: %w", err)
		}

		excludeDirs := cfg.Refinery.ExcludeDirs
		if len(excludeDirs) == 0 {
			excludeDirs = sandbox.DefaultExcludeDirs
		}

		files := sandbox.ListPythonFiles(guard, targetDir, excludeDirs)
		sources, tests := sandbox.SplitUnits(files)

		w := cmd.OutOrStdout()
		if len(files) == 0 {
			fmt.Fprintln(w, "No Python files found.")
			return nil
		}
		for _, f := range sources {
			fmt.Fprintf(w, "source  %s\n", f)
		}
		for _, f := range tests {
			fmt.Fprintf(w, "test    %s\n", f)
		}
		fmt.Fprintf(w, "\n%d source file(s), %d test file(s)\n", len(sources), len(tests))
		return nil
	},
}

func init() {
	listCmd.Flags().String("target-dir", "", "Directory to scan (overrides sandbox_root)")
	listCmd.Flags().String("config", "", "Path to a refinery config file")
}
