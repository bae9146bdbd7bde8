package sandbox

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	g, err := NewGuard(root)
	if err != nil {
		t.Fatalf("NewGuard: %v", err)
	}
	s := NewStore(g)
	s.SetErrorLog(nil)
	return s, root
}

func TestStoreRoundTrip(t *testing.T) {
	s, root := newTestStore(t)
	path := filepath.Join(root, "a", "b", "code.py")

	cases := []string{
		"def f():\n    return 1\n",
		"",
		"path with separator: /etc/passwd and " + string(os.PathSeparator),
	}
	for _, content := range cases {
		if err := s.Write(path, content); err != nil {
			t.Fatalf("Write(%q): %v", content, err)
		}
		if got := s.Read(path); got != content {
			t.Errorf("Read after Write: got %q, want %q", got, content)
		}
	}
}

func TestStoreWrite_CreatesParents(t *testing.T) {
	s, root := newTestStore(t)
	path := filepath.Join(root, "deep", "nested", "dir", "f.py")

	if err := s.Write(path, "x = 1\n"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %v", err)
	}
}

func TestStoreWrite_Overwrites(t *testing.T) {
	s, root := newTestStore(t)
	path := filepath.Join(root, "f.py")

	if err := s.Write(path, "old"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write(path, "new"); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if got := s.Read(path); got != "new" {
		t.Errorf("got %q, want %q", got, "new")
	}
}

func TestStoreWrite_OutsideSandbox(t *testing.T) {
	s, root := newTestStore(t)
	err := s.Write(filepath.Join(root, "..", "escape.py"), "x")
	if err == nil {
		t.Fatal("expected violation")
	}
	if !IsViolation(err) {
		t.Errorf("expected sandbox violation, got %v", err)
	}
}

func TestStoreRead_MissingFile(t *testing.T) {
	s, root := newTestStore(t)
	var log bytes.Buffer
	s.SetErrorLog(&log)

	if got := s.Read(filepath.Join(root, "nope.py")); got != "" {
		t.Errorf("expected empty content, got %q", got)
	}
	if log.Len() == 0 {
		t.Error("expected cause reported to error log")
	}
}

func TestStoreRead_OutsideSandbox(t *testing.T) {
	s, root := newTestStore(t)
	var log bytes.Buffer
	s.SetErrorLog(&log)

	if got := s.Read(filepath.Join(root, "..", "other.py")); got != "" {
		t.Errorf("expected empty content, got %q", got)
	}
	if !strings.Contains(log.String(), "sandbox violation") {
		t.Errorf("expected violation in log, got %q", log.String())
	}
}

func TestStoreExists(t *testing.T) {
	s, root := newTestStore(t)
	path := filepath.Join(root, "f.py")

	if s.Exists(path) {
		t.Error("Exists before write")
	}
	if err := s.Write(path, "x"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !s.Exists(path) {
		t.Error("Exists after write")
	}
	if s.Exists(filepath.Join(root, "..", "f.py")) {
		t.Error("Exists outside sandbox")
	}
}
