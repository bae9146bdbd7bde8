package sandbox

import (
	"path/filepath"
	"testing"
)

func TestGuardValidate_InsideRoot(t *testing.T) {
	root := t.TempDir()
	g, err := NewGuard(root)
	if err != nil {
		t.Fatalf("NewGuard: %v", err)
	}

	got, err := g.Validate(filepath.Join(root, "a", "b.py"))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := filepath.Join(root, "a", "b.py")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGuardValidate_RootItself(t *testing.T) {
	root := t.TempDir()
	g, _ := NewGuard(root)

	got, err := g.Validate(root)
	if err != nil {
		t.Fatalf("Validate(root): %v", err)
	}
	if got != root {
		t.Errorf("got %q, want %q", got, root)
	}
}

func TestGuardValidate_OutsideRoot(t *testing.T) {
	root := t.TempDir()
	g, _ := NewGuard(filepath.Join(root, "sandbox"))

	_, err := g.Validate(filepath.Join(root, "elsewhere", "x.py"))
	if err == nil {
		t.Fatal("expected violation for path outside root")
	}
	if _, ok := err.(*ViolationError); !ok {
		t.Errorf("expected *ViolationError, got %T", err)
	}
}

func TestGuardValidate_SiblingPrefix(t *testing.T) {
	root := t.TempDir()
	g, _ := NewGuard(filepath.Join(root, "sandbox"))

	// Lexical sibling sharing the root as a string prefix must be rejected.
	_, err := g.Validate(filepath.Join(root, "sandbox-evil", "x.py"))
	if err == nil {
		t.Fatal("expected violation for sibling-prefix path")
	}
}

func TestGuardValidate_TraversalEscape(t *testing.T) {
	root := t.TempDir()
	g, _ := NewGuard(filepath.Join(root, "sandbox"))

	_, err := g.Validate(filepath.Join(root, "sandbox", "..", "secret.py"))
	if err == nil {
		t.Fatal("expected violation for ..-escape")
	}
}

func TestGuardValidate_TraversalInsideRoot(t *testing.T) {
	root := t.TempDir()
	g, _ := NewGuard(root)

	// ..-segments that still resolve inside the root are fine.
	got, err := g.Validate(filepath.Join(root, "a", "..", "b.py"))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got != filepath.Join(root, "b.py") {
		t.Errorf("got %q", got)
	}
}

func TestGuardValidate_EmptyPath(t *testing.T) {
	g, _ := NewGuard(t.TempDir())
	if _, err := g.Validate(""); err == nil {
		t.Fatal("expected violation for empty path")
	}
}

func TestNewGuard_EmptyRoot(t *testing.T) {
	if _, err := NewGuard(""); err == nil {
		t.Fatal("expected error for empty root")
	}
}
