package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/lucasnoah/refinery/internal/checks"
	"github.com/lucasnoah/refinery/internal/config"
	"github.com/lucasnoah/refinery/internal/db"
	"github.com/lucasnoah/refinery/internal/sandbox"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single checker against one file and show the parsed result",
}

var checkPylintCmd = &cobra.Command{
	Use:   "pylint [file]",
	Short: "Run pylint on a file and print the parsed analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		tool := cfg.Refinery.Tools.Pylint
		inv, err := runTool(cmd, cfg, args[0], tool, config.DefaultPylintTimeout)
		if err != nil {
			return err
		}

		outcome := checks.ParsePylint(inv)
		recordCheckRun(cfg, args[0], "pylint", inv,
			fmt.Sprintf("score %.2f/10, %d violation(s)", outcome.Score, len(outcome.Violations)))
		w := cmd.OutOrStdout()
		if format, _ := cmd.Flags().GetString("format"); format == "json" {
			data, _ := json.MarshalIndent(outcome, "", "  ")
			fmt.Fprintln(w, string(data))
			return nil
		}

		fmt.Fprintf(w, "Score:      %.2f/10\n", outcome.Score)
		fmt.Fprintf(w, "Violations: %d\n", len(outcome.Violations))
		for _, v := range outcome.Violations {
			fmt.Fprintf(w, "  %s:%d [%s] %s\n", v.Path, v.Line, v.Symbol, v.Message)
		}
		return nil
	},
}

var checkPytestCmd = &cobra.Command{
	Use:   "pytest [file]",
	Short: "Run pytest on a file and print the parsed outcome",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		tool := cfg.Refinery.Tools.Pytest
		inv, err := runTool(cmd, cfg, args[0], tool, config.DefaultPytestTimeout)
		if err != nil {
			return err
		}

		outcome := checks.ParsePytest(inv)
		recordCheckRun(cfg, args[0], "pytest", inv,
			fmt.Sprintf("%d collected, %d passed, %d failed", outcome.Collected, outcome.PassedCount, outcome.FailedCount))
		w := cmd.OutOrStdout()
		if format, _ := cmd.Flags().GetString("format"); format == "json" {
			data, _ := json.MarshalIndent(outcome, "", "  ")
			fmt.Fprintln(w, string(data))
			return nil
		}

		result := "FAIL"
		if outcome.AllPassed {
			result = "PASS"
		}
		fmt.Fprintf(w, "[%s] %d collected, %d passed, %d failed\n",
			result, outcome.Collected, outcome.PassedCount, outcome.FailedCount)
		for _, excerpt := range outcome.FailureExcerpts {
			fmt.Fprintf(w, "\n%s\n", excerpt)
		}
		return nil
	},
}

// runTool executes one configured checker against target, guarding the
// target's own directory when no sandbox root is configured.
func runTool(cmd *cobra.Command, cfg *config.Config, target string, tool config.Tool, fallback time.Duration) (checks.Invocation, error) {
	root := cfg.Refinery.SandboxRoot
	if root == "" {
		root = filepath.Dir(target)
	}
	guard, err := sandbox.NewGuard(root)
	if err != nil {
		return checks.Invocation{}, fmt.Errorf("sandbox root: %w", err)
	}

	runner := checks.NewRunner(guard, &checks.ExecRunner{})
	timeout := config.ParseTimeout(tool.Timeout, fallback)
	inv := runner.Run(cmd.Context(), tool.Command, target, timeout)
	if inv.ExecutionError != "" && !inv.Executed {
		cmd.SilenceUsage = true
		return inv, fmt.Errorf("run checker: %s", inv.ExecutionError)
	}
	return inv, nil
}

// recordCheckRun logs an ad-hoc tool invocation to the event DB, best-effort.
func recordCheckRun(cfg *config.Config, target string, tool string, inv checks.Invocation, summary string) {
	d, cleanup, err := openDB(cfg.Refinery.DBPath)
	if err != nil {
		return
	}
	defer cleanup()
	_ = d.LogCheckRun(db.CheckRun{
		Item:       target,
		Tool:       tool,
		Executed:   inv.Executed,
		ExitCode:   inv.ExitCode,
		DurationMs: inv.DurationMs,
		Summary:    summary,
	})
}

func init() {
	for _, c := range []*cobra.Command{checkPylintCmd, checkPytestCmd} {
		c.Flags().String("config", "", "Path to a refinery config file")
		c.Flags().String("format", "text", "Output format: text or json")
	}
	checkCmd.AddCommand(checkPylintCmd)
	checkCmd.AddCommand(checkPytestCmd)
}
