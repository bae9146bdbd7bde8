package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/lucasnoah/refinery/internal/checks"
	"github.com/lucasnoah/refinery/internal/prompt"
)

// ToolCommand is a checker tool invocation: the executable with its leading
// arguments, plus a timeout. The target path is appended by the runner.
type ToolCommand struct {
	Command []string
	Timeout time.Duration
}

// Auditor implements the Analyze stage: it runs pylint for static-analysis
// context, then asks the model for a full issue report.
type Auditor struct {
	chat        ChatClient
	runner      *checks.Runner
	pylint      ToolCommand
	templateDir string
}

// NewAuditor creates an Auditor.
func NewAuditor(chat ChatClient, runner *checks.Runner, pylint ToolCommand, templateDir string) *Auditor {
	return &Auditor{chat: chat, runner: runner, pylint: pylint, templateDir: templateDir}
}

// Analyze returns the findings report for the item. A pylint failure only
// degrades the static-analysis context; a model failure is returned as an
// error for the engine to convert into its in-band marker.
func (a *Auditor) Analyze(ctx context.Context, itemID string, content string) (string, error) {
	pylintContext := ""
	if a.runner != nil && len(a.pylint.Command) > 0 {
		inv := a.runner.Run(ctx, a.pylint.Command, itemID, a.pylint.Timeout)
		outcome := checks.ParsePylint(inv)
		pylintContext = formatPylintContext(outcome, inv)
	}

	system, err := prompt.Load(a.templateDir, prompt.AuditorSystem)
	if err != nil {
		return "", err
	}
	tmpl, err := prompt.Load(a.templateDir, prompt.Auditor)
	if err != nil {
		return "", err
	}
	user, err := prompt.Render(tmpl, prompt.Vars{
		"file_path":     itemID,
		"code":          content,
		"pylint_output": pylintContext,
	})
	if err != nil {
		return "", err
	}

	report, err := a.chat.Complete(ctx, system, user)
	if err != nil {
		return "", err
	}
	return report, nil
}

func formatPylintContext(outcome checks.AnalysisOutcome, inv checks.Invocation) string {
	if !inv.Executed {
		return fmt.Sprintf("pylint unavailable: %s", inv.ExecutionError)
	}
	s := fmt.Sprintf("score: %.2f/10, %d violation(s)\n", outcome.Score, len(outcome.Violations))
	for _, v := range outcome.Violations {
		s += fmt.Sprintf("line %d: %s (%s) %s\n", v.Line, v.Symbol, v.MessageID, v.Message)
	}
	return s
}
