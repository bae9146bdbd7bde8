package pipeline

// Status is the per-item state machine status.
type Status string

const (
	// Transient statuses inside the revision loop.
	StatusInProgress Status = "in_progress"
	StatusRetry      Status = "retry"

	// Terminal statuses for one item.
	StatusSuccess       Status = "success"
	StatusMaxIterations Status = "max_iterations"
	StatusCanceled      Status = "canceled"

	// Batch-level outcomes that never occur inside the loop.
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// Terminal reports whether a status ends the per-item loop.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusMaxIterations, StatusCanceled, StatusError, StatusSkipped:
		return true
	}
	return false
}

// RevisionState tracks one work item across iterations. ItemID and
// OriginalContent are immutable after creation; the engine owns the state
// exclusively while the item is being processed.
type RevisionState struct {
	ItemID            string `json:"item_id"`
	OriginalContent   string `json:"-"`
	Findings          string `json:"findings,omitempty"`
	CurrentContent    string `json:"-"`
	ValidationSummary string `json:"validation_summary,omitempty"`
	Iteration         int    `json:"iteration"`
	Status            Status `json:"status"`
	StartedAt         string `json:"started_at"`
	FinishedAt        string `json:"finished_at,omitempty"`
}

// NewRevisionState creates the initial state for an item, per the
// increment-on-retry-only convention: iteration starts at 1 and is bumped
// exactly once per retry transition.
func NewRevisionState(itemID string, content string) *RevisionState {
	return &RevisionState{
		ItemID:          itemID,
		OriginalContent: content,
		CurrentContent:  content,
		Iteration:       1,
		Status:          StatusInProgress,
	}
}

// ItemReport is the persisted per-item result summary.
type ItemReport struct {
	Item        string `json:"item"`
	Status      Status `json:"status"`
	Iterations  int    `json:"iterations"`
	IssuesFound bool   `json:"issues_found"`
	TestsPassed bool   `json:"tests_passed"`
	Error       string `json:"error,omitempty"`
}

// BatchReport aggregates a run over all discovered items.
type BatchReport struct {
	Root          string       `json:"root"`
	Items         []ItemReport `json:"items"`
	Success       int          `json:"success"`
	MaxIterations int          `json:"max_iterations"`
	Errors        int          `json:"errors"`
	Skipped       int          `json:"skipped"`
	StartedAt     string       `json:"started_at"`
	FinishedAt    string       `json:"finished_at"`
}

// Add appends an item report and bumps the matching bucket.
func (b *BatchReport) Add(r ItemReport) {
	b.Items = append(b.Items, r)
	switch r.Status {
	case StatusSuccess:
		b.Success++
	case StatusMaxIterations:
		b.MaxIterations++
	case StatusSkipped:
		b.Skipped++
	default:
		b.Errors++
	}
}
