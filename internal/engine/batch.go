package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/lucasnoah/refinery/internal/pipeline"
	"github.com/lucasnoah/refinery/internal/sandbox"
)

// RunBatch processes every source unit under root sequentially. Items are
// isolated: a fault escaping one item's loop marks that item as an error and
// the batch moves on. Validation units (test_ files) are enumerated but never
// revised directly.
func (e *Engine) RunBatch(ctx context.Context, root string) *pipeline.BatchReport {
	report := &pipeline.BatchReport{
		Root:      root,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}

	files := sandbox.ListPythonFiles(e.guard, root, e.excludeDirs)
	sources, _ := sandbox.SplitUnits(files)
	e.logf("found %d source file(s) under %s", len(sources), root)

	for _, item := range sources {
		report.Add(e.runOne(ctx, item))
	}

	report.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	if e.reports != nil {
		_ = e.reports.SaveBatch(report)
	}
	return report
}

// runOne wraps RunItem with the skip check and panic isolation.
func (e *Engine) runOne(ctx context.Context, item string) (r pipeline.ItemReport) {
	r = pipeline.ItemReport{Item: item}

	defer func() {
		if p := recover(); p != nil {
			r.Status = pipeline.StatusError
			r.Error = fmt.Sprintf("panic: %v", p)
			e.logEvent(item, "error", 0, r.Error)
		}
		if e.reports != nil {
			_ = e.reports.SaveItem(&r)
		}
	}()

	content := e.files.Read(item)
	if content == "" {
		e.logf("%s: skipped (empty or unreadable)", item)
		r.Status = pipeline.StatusSkipped
		e.logEvent(item, "skipped", 0, "empty_or_unreadable")
		return r
	}

	state := e.RunItem(ctx, item, content)
	r.Status = state.Status
	r.Iterations = state.Iteration
	r.IssuesFound = state.Findings != ""
	r.TestsPassed = state.Status == pipeline.StatusSuccess
	return r
}
