package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/lucasnoah/refinery/internal/agent"
	"github.com/lucasnoah/refinery/internal/checks"
	"github.com/lucasnoah/refinery/internal/config"
	"github.com/lucasnoah/refinery/internal/engine"
	"github.com/lucasnoah/refinery/internal/pipeline"
	"github.com/lucasnoah/refinery/internal/sandbox"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Revise every Python source file under the sandbox root",
	RunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		_ = godotenv.Load(envFile)

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		r := cfg.Refinery

		targetDir, _ := cmd.Flags().GetString("target-dir")
		if targetDir == "" {
			targetDir = r.SandboxRoot
		}
		if targetDir == "" {
			return fmt.Errorf("no target directory: set --target-dir or sandbox_root in config")
		}

		if n, _ := cmd.Flags().GetInt("max-iterations"); n > 0 {
			r.MaxIterations = n
		}

		apiKey := os.Getenv(r.Provider.APIKeyName)
		if apiKey == "" {
			return fmt.Errorf("environment variable %s is not set", r.Provider.APIKeyName)
		}

		guard, err := sandbox.NewGuard(targetDir)
		if err != nil {
			return fmt.Errorf("sandbox root: %w", err)
		}
		files := sandbox.NewStore(guard)
		files.SetErrorLog(cmd.ErrOrStderr())

		reports, err := openReportStore(r.ReportDir)
		if err != nil {
			return fmt.Errorf("open report store: %w", err)
		}

		d, cleanup, err := openDB(r.DBPath)
		if err != nil {
			return err
		}
		defer cleanup()

		chat, err := agent.NewClient(agent.ClientConfig{
			APIKey:      apiKey,
			BaseURL:     r.Provider.BaseURL,
			Model:       r.Provider.Model,
			Temperature: r.Provider.Temperature,
		})
		if err != nil {
			return fmt.Errorf("provider client: %w", err)
		}

		runner := checks.NewRunner(guard, &checks.ExecRunner{})
		pylint := agent.ToolCommand{
			Command: r.Tools.Pylint.Command,
			Timeout: config.ParseTimeout(r.Tools.Pylint.Timeout, config.DefaultPylintTimeout),
		}
		pytest := agent.ToolCommand{
			Command: r.Tools.Pytest.Command,
			Timeout: config.ParseTimeout(r.Tools.Pytest.Timeout, config.DefaultPytestTimeout),
		}

		auditor := agent.NewAuditor(chat, runner, pylint, r.TemplateDir)
		fixer := agent.NewFixer(chat, r.TemplateDir)
		judge := agent.NewJudge(chat, runner, files, pytest, r.TemplateDir)

		eng := engine.New(auditor, fixer, judge, files, reports, d)
		eng.SetCeiling(r.MaxIterations)
		eng.SetProgress(cmd.OutOrStdout())
		if len(r.ExcludeDirs) > 0 {
			eng.SetExcludeDirs(r.ExcludeDirs)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		report := eng.RunBatch(ctx, targetDir)
		printBatch(cmd, report)
		return nil
	},
}

func printBatch(cmd *cobra.Command, report *pipeline.BatchReport) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	for _, item := range report.Items {
		fmt.Fprintf(w, "[%s] %s (%d iteration(s))\n", statusIcon(item.Status), item.Item, item.Iterations)
	}
	fmt.Fprintf(w, "\nProcessed %d file(s): %d succeeded, %d hit the iteration ceiling, %d errored, %d skipped\n",
		len(report.Items), report.Success, report.MaxIterations, report.Errors, report.Skipped)
}

func statusIcon(s pipeline.Status) string {
	switch s {
	case pipeline.StatusSuccess:
		return "PASS"
	case pipeline.StatusMaxIterations:
		return "CEIL"
	case pipeline.StatusSkipped:
		return "SKIP"
	default:
		return "FAIL"
	}
}

func init() {
	runCmd.Flags().String("target-dir", "", "Directory of Python files to revise (overrides sandbox_root)")
	runCmd.Flags().String("config", "", "Path to a refinery config file")
	runCmd.Flags().Int("max-iterations", 0, "Override the per-file iteration ceiling")
	runCmd.Flags().String("env-file", ".env", "Env file holding the provider API key")
}
