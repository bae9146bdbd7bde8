package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store persists run reports as JSON under a base directory. Per-item reports
// live in items/<key>.json where key is derived from the item path; each
// batch writes a batch.json summary.
type Store struct {
	baseDir string
}

// NewStore creates a Store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// DefaultStore returns a Store at ~/.refinery/runs, creating the directory if
// needed.
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".refinery", "runs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Store{baseDir: dir}, nil
}

// BaseDir returns the store's root directory.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// itemKey flattens an absolute item path into a stable filename.
func itemKey(item string) string {
	key := strings.TrimPrefix(filepath.ToSlash(item), "/")
	key = strings.ReplaceAll(key, "/", "__")
	return key
}

func (s *Store) itemPath(item string) string {
	return filepath.Join(s.baseDir, "items", itemKey(item)+".json")
}

// SaveItem writes the report for one work item.
func (s *Store) SaveItem(r *ItemReport) error {
	return WriteJSON(s.itemPath(r.Item), r)
}

// GetItem reads the most recent report for an item.
func (s *Store) GetItem(item string) (*ItemReport, error) {
	var r ItemReport
	if err := ReadJSON(s.itemPath(item), &r); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no report for %s", item)
		}
		return nil, err
	}
	return &r, nil
}

// SaveBatch writes the batch summary, stamping FinishedAt if unset.
func (s *Store) SaveBatch(b *BatchReport) error {
	if b.FinishedAt == "" {
		b.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return WriteJSON(filepath.Join(s.baseDir, "batch.json"), b)
}

// GetBatch reads the last batch summary.
func (s *Store) GetBatch() (*BatchReport, error) {
	var b BatchReport
	if err := ReadJSON(filepath.Join(s.baseDir, "batch.json"), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// SaveStateSnapshot writes the full revision state for an item, one file per
// iteration, for post-run inspection.
func (s *Store) SaveStateSnapshot(state *RevisionState) error {
	name := fmt.Sprintf("%s.iter-%d.json", itemKey(state.ItemID), state.Iteration)
	return WriteJSON(filepath.Join(s.baseDir, "state", name), state)
}
