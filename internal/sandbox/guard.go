package sandbox

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ViolationError reports a path that resolves outside the sandbox root.
type ViolationError struct {
	Path   string
	Reason string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("sandbox violation: access to %q denied (%s)", e.Path, e.Reason)
}

// Guard confines all file operations to a single root directory.
type Guard struct {
	root string // absolute, cleaned
}

// NewGuard creates a Guard rooted at root. The root is resolved to an
// absolute path; it does not need to exist yet.
func NewGuard(root string) (*Guard, error) {
	if root == "" {
		return nil, fmt.Errorf("sandbox root must not be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve sandbox root %q: %w", root, err)
	}
	return &Guard{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute sandbox root.
func (g *Guard) Root() string {
	return g.root
}

// Validate resolves path to an absolute path and checks that it is the
// sandbox root or a descendant of it. The check is segment-based: a lexical
// sibling sharing a prefix (/sandbox-evil vs /sandbox) is rejected, and a
// path on a different volume is a violation, not an error.
func (g *Guard) Validate(path string) (string, error) {
	if path == "" {
		return "", &ViolationError{Path: path, Reason: "empty path"}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &ViolationError{Path: path, Reason: err.Error()}
	}
	abs = filepath.Clean(abs)

	if filepath.VolumeName(abs) != filepath.VolumeName(g.root) {
		return "", &ViolationError{Path: path, Reason: "different volume than sandbox"}
	}

	rel, err := filepath.Rel(g.root, abs)
	if err != nil {
		return "", &ViolationError{Path: path, Reason: "outside sandbox"}
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &ViolationError{Path: path, Reason: "outside sandbox"}
	}
	return abs, nil
}
