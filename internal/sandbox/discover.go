package sandbox

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExcludeDirs are directory names never descended into during
// discovery: version-control metadata, virtual environments, bytecode and
// dependency caches.
var DefaultExcludeDirs = []string{".git", ".venv", "__pycache__", "node_modules"}

// TestFilePrefix marks validation units: files named test_<stem>.py hold the
// tests for <stem>.py in the same directory.
const TestFilePrefix = "test_"

// ListPythonFiles recursively collects all .py files under root, skipping
// excluded directory subtrees entirely (pruned, not filtered). The result is
// absolute paths, sorted. A non-existent, inaccessible, or out-of-sandbox
// root yields an empty slice: callers treat "no items" and "root unusable"
// identically.
func ListPythonFiles(guard *Guard, root string, excludeDirs []string) []string {
	safe, err := guard.Validate(root)
	if err != nil {
		return nil
	}
	if info, err := os.Stat(safe); err != nil || !info.IsDir() {
		return nil
	}

	if excludeDirs == nil {
		excludeDirs = DefaultExcludeDirs
	}
	excluded := make(map[string]bool, len(excludeDirs))
	for _, d := range excludeDirs {
		excluded[d] = true
	}

	var files []string
	_ = filepath.WalkDir(safe, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != safe && excluded[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".py") {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	return files
}

// SplitUnits separates discovered files into source units and validation
// units by the test_ naming convention.
func SplitUnits(paths []string) (sources []string, tests []string) {
	for _, p := range paths {
		if strings.HasPrefix(filepath.Base(p), TestFilePrefix) {
			tests = append(tests, p)
		} else {
			sources = append(sources, p)
		}
	}
	return sources, tests
}

// TestFileFor returns the validation-unit path for a source unit:
// dir/test_<stem>.py next to dir/<stem>.py.
func TestFileFor(sourcePath string) string {
	dir := filepath.Dir(sourcePath)
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, TestFilePrefix+stem+".py")
}
