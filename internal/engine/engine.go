// Package engine drives the bounded revision loop per work item:
// Analyze → Mutate → Validate, retrying until validation passes or the
// iteration ceiling is reached.
package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/lucasnoah/refinery/internal/checks"
	"github.com/lucasnoah/refinery/internal/db"
	"github.com/lucasnoah/refinery/internal/pipeline"
	"github.com/lucasnoah/refinery/internal/sandbox"
)

// Analyzer produces a findings report for an item's current content.
// Implementations surface their own failures as an error; the engine converts
// it to an in-band marker and keeps going.
type Analyzer interface {
	Analyze(ctx context.Context, itemID string, content string) (string, error)
}

// Mutator produces revised content from findings and the prior validation
// summary. On error the engine keeps the previous content.
type Mutator interface {
	Mutate(ctx context.Context, itemID string, content string, findings string, priorValidation string) (string, error)
}

// ValidationResult pairs the parsed test outcome with a human-readable
// summary for the next mutation round.
type ValidationResult struct {
	Outcome checks.TestOutcome
	Summary string
}

// Validator runs or generates tests for an item and reports the outcome.
type Validator interface {
	Validate(ctx context.Context, itemID string, content string, findings string) (ValidationResult, error)
}

// Engine owns the per-item state machine and the batch driver.
type Engine struct {
	analyzer  Analyzer
	mutator   Mutator
	validator Validator

	guard   *sandbox.Guard
	files   *sandbox.Store
	reports *pipeline.Store
	events  *db.DB // optional; nil disables event logging

	ceiling     int
	excludeDirs []string
	progress    io.Writer // nil = silent
}

// DefaultCeiling is the maximum number of Mutate/Validate executions per
// item.
const DefaultCeiling = 10

// New creates an Engine. reports and events may be nil to disable
// persistence.
func New(analyzer Analyzer, mutator Mutator, validator Validator, files *sandbox.Store, reports *pipeline.Store, events *db.DB) *Engine {
	return &Engine{
		analyzer:  analyzer,
		mutator:   mutator,
		validator: validator,
		guard:     files.Guard(),
		files:     files,
		reports:   reports,
		events:    events,
		ceiling:   DefaultCeiling,
	}
}

// SetCeiling overrides the retry ceiling.
func (e *Engine) SetCeiling(n int) {
	if n > 0 {
		e.ceiling = n
	}
}

// SetExcludeDirs overrides the directory names pruned during discovery.
func (e *Engine) SetExcludeDirs(dirs []string) {
	e.excludeDirs = dirs
}

// SetProgress sets a writer for live progress output (e.g. os.Stderr).
func (e *Engine) SetProgress(w io.Writer) {
	e.progress = w
}

func (e *Engine) logf(format string, args ...interface{}) {
	if e.progress != nil {
		fmt.Fprintf(e.progress, "  → "+format+"\n", args...)
	}
}

func (e *Engine) logEvent(item string, event string, iteration int, detail string) {
	if e.events != nil {
		_ = e.events.LogRevisionEvent(item, event, iteration, detail)
	}
}

// RunItem drives the full revision loop for one work item and returns its
// final state. The returned status is always terminal. Stage-level faults
// never abort the item: they are captured in-band and the loop proceeds with
// the stage's failure default. Only a panic escaping this method abandons the
// item, and that is the caller's concern.
func (e *Engine) RunItem(ctx context.Context, itemID string, content string) *pipeline.RevisionState {
	state := pipeline.NewRevisionState(itemID, content)
	state.StartedAt = time.Now().UTC().Format(time.RFC3339)
	e.logEvent(itemID, "started", state.Iteration, "")

	if e.canceled(ctx, state) {
		return e.finish(state)
	}

	// Analyze once per item; findings carry forward across retries.
	e.logf("%s: analyzing", itemID)
	findings, err := e.analyzer.Analyze(ctx, itemID, state.CurrentContent)
	if err != nil {
		findings = fmt.Sprintf("ERROR: Analysis failed - %v", err)
		e.logEvent(itemID, "analyze_failed", state.Iteration, err.Error())
	}
	state.Findings = findings

	for {
		if e.canceled(ctx, state) {
			return e.finish(state)
		}

		// Mutate. A fault keeps the prior content; the loop continues to
		// validation either way.
		e.logf("%s: mutating (iteration %d)", itemID, state.Iteration)
		fixed, err := e.mutator.Mutate(ctx, itemID, state.CurrentContent, state.Findings, state.ValidationSummary)
		if err != nil {
			e.logf("%s: mutate failed: %v", itemID, err)
			e.logEvent(itemID, "mutate_failed", state.Iteration, err.Error())
		} else {
			state.CurrentContent = fixed
			if werr := e.files.Write(itemID, fixed); werr != nil {
				e.logf("%s: write failed: %v", itemID, werr)
				e.logEvent(itemID, "write_failed", state.Iteration, werr.Error())
			}
		}

		if e.canceled(ctx, state) {
			return e.finish(state)
		}

		// Validate.
		e.logf("%s: validating (iteration %d)", itemID, state.Iteration)
		result, err := e.validator.Validate(ctx, itemID, state.CurrentContent, state.Findings)
		if err != nil {
			state.ValidationSummary = fmt.Sprintf("Test execution error: %v", err)
			e.logEvent(itemID, "validate_failed", state.Iteration, err.Error())
			e.retryOrStop(state)
		} else {
			state.ValidationSummary = result.Summary
			outcome := result.Outcome
			switch {
			case outcome.Collected == 0:
				// Could not validate; counts against the ceiling like a
				// failing run.
				e.retryOrStop(state)
			case outcome.AllPassed:
				state.Status = pipeline.StatusSuccess
			default:
				e.retryOrStop(state)
			}
		}

		if state.Status != pipeline.StatusRetry {
			return e.finish(state)
		}

		// Retry transition: the only place the counter moves.
		state.Iteration++
		state.Status = pipeline.StatusInProgress
		e.logEvent(itemID, "retry", state.Iteration, state.ValidationSummary)
	}
}

// retryOrStop routes a failed validation to retry or the terminal ceiling
// status.
func (e *Engine) retryOrStop(state *pipeline.RevisionState) {
	if state.Iteration < e.ceiling {
		state.Status = pipeline.StatusRetry
	} else {
		state.Status = pipeline.StatusMaxIterations
	}
}

// canceled checks for cooperative cancellation at a stage boundary. Once set,
// the item is pinned to a terminal canceled status and no further stage calls
// or subprocess spawns happen.
func (e *Engine) canceled(ctx context.Context, state *pipeline.RevisionState) bool {
	if ctx.Err() != nil {
		state.Status = pipeline.StatusCanceled
		return true
	}
	return false
}

func (e *Engine) finish(state *pipeline.RevisionState) *pipeline.RevisionState {
	state.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	e.logEvent(state.ItemID, string(state.Status), state.Iteration, "")
	if e.reports != nil {
		_ = e.reports.SaveStateSnapshot(state)
	}
	e.logf("%s: %s (iterations: %d)", state.ItemID, state.Status, state.Iteration)
	return state
}
