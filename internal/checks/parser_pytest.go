package checks

import (
	"regexp"
	"strconv"
	"strings"
)

// TestOutcome is the normalized result of a pytest run.
// Collected == 0 means no tests were discovered (e.g. a collection or import
// error) and is a distinct outcome from "tests ran and passed": AllPassed
// requires at least one collected test.
type TestOutcome struct {
	Collected       int      `json:"collected"`
	PassedCount     int      `json:"passed"`
	FailedCount     int      `json:"failed"`
	AllPassed       bool     `json:"all_passed"`
	FailureExcerpts []string `json:"failure_excerpts,omitempty"`
	RawOutput       string   `json:"raw_output"`
}

// maxFailureExcerpts bounds the excerpt list handed to downstream consumers.
const maxFailureExcerpts = 5

var (
	passedRe = regexp.MustCompile(`(\d+) passed`)
	failedRe = regexp.MustCompile(`(\d+) failed`)
)

// ParsePytest converts a pytest -v invocation into a TestOutcome. Every line
// is scanned for "N passed" / "N failed" tokens with later lines overriding
// earlier ones; a real run emits exactly one summary line but re-scanning
// tolerates noisy intermediate output.
func ParsePytest(inv Invocation) TestOutcome {
	outcome := TestOutcome{RawOutput: inv.RawOutput}
	lines := strings.Split(inv.RawOutput, "\n")

	for _, line := range lines {
		if m := passedRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				outcome.PassedCount = n
			}
		}
		if m := failedRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				outcome.FailedCount = n
			}
		}
	}
	outcome.Collected = outcome.PassedCount + outcome.FailedCount

	outcome.FailureExcerpts = extractFailureBlocks(lines)
	if len(outcome.FailureExcerpts) > maxFailureExcerpts {
		outcome.FailureExcerpts = outcome.FailureExcerpts[:maxFailureExcerpts]
	}

	outcome.AllPassed = outcome.Collected > 0 &&
		outcome.FailedCount == 0 &&
		inv.Executed &&
		inv.ExitCode == 0

	return outcome
}

// extractFailureBlocks isolates one text block per failing test. A
// "FAILED <file>::test_..." line opens a block; assertion and error detail
// lines are appended; a blank line after at least one detail line, or an
// ===-style summary divider, closes it. An unterminated trailing block is
// flushed at end of input.
func extractFailureBlocks(lines []string) []string {
	var blocks []string
	var buf []string
	inFailure := false

	flush := func() {
		if len(buf) > 0 {
			blocks = append(blocks, strings.Join(buf, "\n"))
			buf = nil
		}
	}

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "FAILED ") && strings.Contains(line, "::test_"):
			flush()
			buf = []string{line}
			inFailure = true
		case inFailure && isFailureDetail(line):
			buf = append(buf, line)
		case inFailure && strings.TrimSpace(line) == "" && len(buf) > 1:
			flush()
			inFailure = false
		case inFailure && strings.HasPrefix(line, "="):
			flush()
			return blocks
		}
	}
	flush()
	return blocks
}

func isFailureDetail(line string) bool {
	return strings.HasPrefix(line, "E ") ||
		strings.Contains(line, "AssertionError") ||
		strings.Contains(line, "Error:")
}
