package checks

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Violation is one structured record from the static-analysis tool.
type Violation struct {
	Type      string `json:"type"`
	MessageID string `json:"message-id"`
	Symbol    string `json:"symbol"`
	Message   string `json:"message"`
	Path      string `json:"path"`
	Line      int    `json:"line"`
}

// AnalysisOutcome is the normalized result of a pylint run.
type AnalysisOutcome struct {
	Score      float64     `json:"score"`
	Violations []Violation `json:"violations"`
	RawOutput  string      `json:"raw_output"`
}

const scoreMarker = "Your code has been rated at"

// ParsePylint converts a pylint invocation into an AnalysisOutcome. Pylint
// emits a JSON violation list on stdout and the score line on stderr. The two
// extractions are independent: a broken JSON payload degrades to an empty
// violation list without discarding a recovered score, and vice versa. Parse
// failure is never an error here.
func ParsePylint(inv Invocation) AnalysisOutcome {
	outcome := AnalysisOutcome{RawOutput: inv.RawOutput}

	if body := strings.TrimSpace(inv.Stdout); body != "" {
		var violations []Violation
		if err := json.Unmarshal([]byte(body), &violations); err == nil {
			outcome.Violations = violations
		}
	}

	outcome.Score = extractScore(inv.RawOutput)
	return outcome
}

// extractScore scans line-by-line for the "rated at X/10" marker. Absent or
// malformed numeric text defaults to 0.
func extractScore(output string) float64 {
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, scoreMarker)
		if idx < 0 {
			continue
		}
		rest := line[idx+len(scoreMarker):]
		slash := strings.Index(rest, "/")
		if slash < 0 {
			continue
		}
		text := strings.TrimSpace(rest[:slash])
		score, err := strconv.ParseFloat(text, 64)
		if err != nil {
			continue
		}
		return score
	}
	return 0
}
