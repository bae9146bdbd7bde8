package agent

import (
	"context"

	"github.com/lucasnoah/refinery/internal/prompt"
)

// Fixer implements the Mutate stage: it asks the model for a corrected
// version of the file and extracts the code from the response.
type Fixer struct {
	chat        ChatClient
	templateDir string
}

// NewFixer creates a Fixer.
func NewFixer(chat ChatClient, templateDir string) *Fixer {
	return &Fixer{chat: chat, templateDir: templateDir}
}

// Mutate returns revised content. On error the engine retains the prior
// content, so a failed call never corrupts the item.
func (f *Fixer) Mutate(ctx context.Context, itemID string, content string, findings string, priorValidation string) (string, error) {
	system, err := prompt.Load(f.templateDir, prompt.FixerSystem)
	if err != nil {
		return "", err
	}
	tmpl, err := prompt.Load(f.templateDir, prompt.Fixer)
	if err != nil {
		return "", err
	}
	user, err := prompt.Render(tmpl, prompt.Vars{
		"file_path":     itemID,
		"code":          content,
		"issues":        findings,
		"test_failures": priorValidation,
	})
	if err != nil {
		return "", err
	}

	response, err := f.chat.Complete(ctx, system, user)
	if err != nil {
		return "", err
	}
	return ExtractCode(response), nil
}
