package agent

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lucasnoah/refinery/internal/checks"
	"github.com/lucasnoah/refinery/internal/engine"
	"github.com/lucasnoah/refinery/internal/prompt"
	"github.com/lucasnoah/refinery/internal/sandbox"
)

// Judge implements the Validate stage. The first time an item has no
// validation artifact, it generates a pytest file; then it runs pytest on
// that file and parses the outcome.
type Judge struct {
	chat        ChatClient
	runner      *checks.Runner
	files       *sandbox.Store
	pytest      ToolCommand
	templateDir string
}

// NewJudge creates a Judge.
func NewJudge(chat ChatClient, runner *checks.Runner, files *sandbox.Store, pytest ToolCommand, templateDir string) *Judge {
	return &Judge{chat: chat, runner: runner, files: files, pytest: pytest, templateDir: templateDir}
}

// Validate runs tests against the item and reports the parsed outcome. Test
// generation failure is non-fatal: an older test file may still exist, and a
// missing one surfaces as "target not found" which flows into the
// zero-collected path.
func (j *Judge) Validate(ctx context.Context, itemID string, content string, findings string) (engine.ValidationResult, error) {
	testPath := sandbox.TestFileFor(itemID)

	if !j.files.Exists(testPath) {
		// Generation failure is not fatal; execution below reports the real
		// state either way.
		_ = j.generateTests(ctx, itemID, testPath, content, findings)
	}

	inv := j.runner.Run(ctx, j.pytest.Command, testPath, j.pytest.Timeout)
	if !inv.Executed {
		if strings.Contains(inv.ExecutionError, "target not found") {
			return engine.ValidationResult{
				Outcome: checks.TestOutcome{},
				Summary: "No test file available for validation",
			}, nil
		}
		return engine.ValidationResult{}, fmt.Errorf("run pytest: %s", inv.ExecutionError)
	}

	outcome := checks.ParsePytest(inv)
	return engine.ValidationResult{
		Outcome: outcome,
		Summary: summarize(outcome),
	}, nil
}

func (j *Judge) generateTests(ctx context.Context, itemID string, testPath string, content string, findings string) error {
	tmpl, err := prompt.Load(j.templateDir, prompt.TestGeneration)
	if err != nil {
		return err
	}
	base := filepath.Base(itemID)
	moduleName := strings.TrimSuffix(base, filepath.Ext(base))
	user, err := prompt.Render(tmpl, prompt.Vars{
		"file_path":   itemID,
		"module_name": moduleName,
		"code":        content,
		"issues":      findings,
	})
	if err != nil {
		return err
	}

	response, err := j.chat.Complete(ctx, "", user)
	if err != nil {
		return fmt.Errorf("generate tests: %w", err)
	}
	return j.files.Write(testPath, ExtractCode(response))
}

// summarize renders a TestOutcome as the validation summary carried into the
// next mutation round.
func summarize(outcome checks.TestOutcome) string {
	if outcome.Collected == 0 {
		lower := strings.ToLower(outcome.RawOutput)
		if strings.Contains(lower, "importerror") || strings.Contains(lower, "modulenotfounderror") || strings.Contains(lower, "import") {
			excerpt := outcome.RawOutput
			if len(excerpt) > 500 {
				excerpt = excerpt[:500]
			}
			return "IMPORT ERROR - Check test file imports match source file function names:\n" + excerpt
		}
		return "No tests collected - possible import error"
	}
	if outcome.AllPassed {
		return fmt.Sprintf("All %d tests passed", outcome.Collected)
	}
	return fmt.Sprintf("Failed %d/%d tests:\n%s",
		outcome.FailedCount, outcome.Collected, strings.Join(outcome.FailureExcerpts, "\n"))
}
