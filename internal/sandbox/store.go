package sandbox

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store reads and writes text content through a Guard. Reads soft-fail to an
// empty string: callers treat empty content as "nothing to process" and the
// cause goes to the error log, never to the return value.
type Store struct {
	guard  *Guard
	errLog io.Writer
}

// NewStore creates a Store confined by guard. Read errors are reported to
// stderr unless SetErrorLog overrides the destination.
func NewStore(guard *Guard) *Store {
	return &Store{guard: guard, errLog: os.Stderr}
}

// SetErrorLog redirects soft-failure reporting. Passing nil silences it.
func (s *Store) SetErrorLog(w io.Writer) {
	s.errLog = w
}

// Guard returns the confining guard.
func (s *Store) Guard() *Guard {
	return s.guard
}

func (s *Store) reportf(format string, args ...interface{}) {
	if s.errLog != nil {
		fmt.Fprintf(s.errLog, format+"\n", args...)
	}
}

// Read returns the content of path, or "" on any failure (missing file,
// permission, sandbox violation).
func (s *Store) Read(path string) string {
	safe, err := s.guard.Validate(path)
	if err != nil {
		s.reportf("read %q: %v", path, err)
		return ""
	}
	data, err := os.ReadFile(safe)
	if err != nil {
		s.reportf("read %q: %v", path, err)
		return ""
	}
	return string(data)
}

// Exists reports whether path names an existing regular file inside the
// sandbox.
func (s *Store) Exists(path string) bool {
	safe, err := s.guard.Validate(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(safe)
	return err == nil && info.Mode().IsRegular()
}

// Write stores content at path, creating missing parent directories. The
// write is atomic with respect to the target file (temp file + rename).
// A *ViolationError from the guard passes through unchanged.
func (s *Store) Write(path string, content string) error {
	safe, err := s.guard.Validate(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(safe)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			os.Remove(tmpName)
		}
	}()

	if _, err := io.WriteString(tmp, content); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, safe); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", tmpName, safe, err)
	}
	tmpName = "" // prevent deferred removal
	return nil
}

// IsViolation reports whether err is a sandbox violation.
func IsViolation(err error) bool {
	var v *ViolationError
	return errors.As(err, &v)
}
