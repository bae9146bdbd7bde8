package checks

import (
	"strings"
	"testing"
)

func TestParsePylint_ScoreAndViolations(t *testing.T) {
	inv := Invocation{
		Executed: true,
		ExitCode: 4,
		Stdout: `[
			{"type": "convention", "message-id": "C0114", "symbol": "missing-module-docstring", "message": "Missing module docstring", "path": "calc.py", "line": 1},
			{"type": "error", "message-id": "E1101", "symbol": "no-member", "message": "Instance has no 'foo' member", "path": "calc.py", "line": 7}
		]`,
		Stderr: "\n------------------------------------------------------------------\nYour code has been rated at 6.67/10 (previous run: 5.00/10, +1.67)\n",
	}
	inv.RawOutput = inv.Stdout + inv.Stderr

	out := ParsePylint(inv)
	if out.Score != 6.67 {
		t.Errorf("score: got %v, want 6.67", out.Score)
	}
	if len(out.Violations) != 2 {
		t.Fatalf("violations: got %d, want 2", len(out.Violations))
	}
	if out.Violations[1].Symbol != "no-member" {
		t.Errorf("symbol: got %q", out.Violations[1].Symbol)
	}
	if out.Violations[0].Line != 1 {
		t.Errorf("line: got %d", out.Violations[0].Line)
	}
}

func TestParsePylint_BrokenJSONKeepsScore(t *testing.T) {
	inv := Invocation{
		Executed:  true,
		Stdout:    "not json at all",
		Stderr:    "Your code has been rated at 9.50/10\n",
		RawOutput: "not json at all" + "Your code has been rated at 9.50/10\n",
	}

	out := ParsePylint(inv)
	if len(out.Violations) != 0 {
		t.Errorf("expected empty violations, got %v", out.Violations)
	}
	if out.Score != 9.5 {
		t.Errorf("score: got %v, want 9.5", out.Score)
	}
	if out.RawOutput == "" {
		t.Error("raw output must be preserved")
	}
}

func TestParsePylint_MissingScoreKeepsViolations(t *testing.T) {
	inv := Invocation{
		Executed:  true,
		Stdout:    `[{"message-id": "W0611", "symbol": "unused-import", "message": "Unused import os", "line": 2}]`,
		RawOutput: `[{"message-id": "W0611", "symbol": "unused-import", "message": "Unused import os", "line": 2}]`,
	}

	out := ParsePylint(inv)
	if out.Score != 0 {
		t.Errorf("score: got %v, want 0", out.Score)
	}
	if len(out.Violations) != 1 {
		t.Errorf("violations: got %d, want 1", len(out.Violations))
	}
}

func TestParsePylint_MalformedScoreLine(t *testing.T) {
	inv := Invocation{Executed: true, RawOutput: "Your code has been rated at garbage/10\n"}
	if got := ParsePylint(inv).Score; got != 0 {
		t.Errorf("score: got %v, want 0", got)
	}
}

func TestParsePytest_AllPassed(t *testing.T) {
	inv := Invocation{
		Executed:  true,
		ExitCode:  0,
		RawOutput: "collected 5 items\n\ntest_calc.py::test_add PASSED\n\n========= 5 passed, 0 failed in 0.12s =========\n",
	}

	out := ParsePytest(inv)
	if out.PassedCount != 5 || out.FailedCount != 0 {
		t.Errorf("counts: %d passed, %d failed", out.PassedCount, out.FailedCount)
	}
	if out.Collected != 5 {
		t.Errorf("collected: got %d, want 5", out.Collected)
	}
	if !out.AllPassed {
		t.Error("expected AllPassed")
	}
}

func TestParsePytest_FailureBlock(t *testing.T) {
	raw := strings.Join([]string{
		"test_calc.py::test_add PASSED",
		"test_calc.py::test_avg FAILED",
		"",
		"FAILED test_calc.py::test_avg",
		"E       AssertionError: assert 30 == 15",
		"",
		"========= 1 passed, 1 failed in 0.20s =========",
	}, "\n")
	inv := Invocation{Executed: true, ExitCode: 1, RawOutput: raw}

	out := ParsePytest(inv)
	if out.FailedCount != 1 {
		t.Errorf("failed: got %d, want 1", out.FailedCount)
	}
	if out.Collected != 2 {
		t.Errorf("collected: got %d, want 2", out.Collected)
	}
	if out.AllPassed {
		t.Error("AllPassed must be false")
	}
	if len(out.FailureExcerpts) != 1 {
		t.Fatalf("excerpts: got %d, want 1", len(out.FailureExcerpts))
	}
	if !strings.Contains(out.FailureExcerpts[0], "FAILED test_calc.py::test_avg") ||
		!strings.Contains(out.FailureExcerpts[0], "AssertionError") {
		t.Errorf("excerpt missing lines: %q", out.FailureExcerpts[0])
	}
}

func TestParsePytest_NoSummaryLine(t *testing.T) {
	inv := Invocation{
		Executed:  true,
		ExitCode:  2,
		RawOutput: "ERROR test_calc.py - ModuleNotFoundError: No module named 'calc'\n",
	}

	out := ParsePytest(inv)
	if out.Collected != 0 {
		t.Errorf("collected: got %d, want 0", out.Collected)
	}
	if out.AllPassed {
		t.Error("zero collected must never be AllPassed")
	}
}

func TestParsePytest_ExitCodeGatesAllPassed(t *testing.T) {
	// Counts look clean but the process exited non-zero.
	inv := Invocation{Executed: true, ExitCode: 3, RawOutput: "3 passed in 0.05s\n"}
	if ParsePytest(inv).AllPassed {
		t.Error("non-zero exit must not be AllPassed")
	}
}

func TestParsePytest_LaterSummaryOverrides(t *testing.T) {
	raw := "1 passed so far...\n========= 4 passed, 2 failed in 1.2s =========\n"
	inv := Invocation{Executed: true, ExitCode: 1, RawOutput: raw}

	out := ParsePytest(inv)
	if out.PassedCount != 4 || out.FailedCount != 2 {
		t.Errorf("counts: %d passed, %d failed", out.PassedCount, out.FailedCount)
	}
}

func TestParsePytest_ExcerptCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		b.WriteString("FAILED test_x.py::test_")
		b.WriteByte(byte('a' + i))
		b.WriteString("\nE       AssertionError\n\n")
	}
	b.WriteString("8 failed in 1s\n")
	inv := Invocation{Executed: true, ExitCode: 1, RawOutput: b.String()}

	out := ParsePytest(inv)
	if len(out.FailureExcerpts) != maxFailureExcerpts {
		t.Errorf("excerpts: got %d, want %d", len(out.FailureExcerpts), maxFailureExcerpts)
	}
}

func TestParsePytest_TrailingBlockFlushed(t *testing.T) {
	raw := "1 failed in 0.1s\nFAILED test_x.py::test_y\nE       ValueError: boom"
	inv := Invocation{Executed: true, ExitCode: 1, RawOutput: raw}

	out := ParsePytest(inv)
	if len(out.FailureExcerpts) != 1 {
		t.Fatalf("excerpts: got %d, want 1", len(out.FailureExcerpts))
	}
	if !strings.Contains(out.FailureExcerpts[0], "ValueError") {
		t.Errorf("excerpt: %q", out.FailureExcerpts[0])
	}
}
