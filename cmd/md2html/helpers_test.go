package main

// Notes:
// - Test helpers shared across CLI tests: a buffered Environment and small
//   file fixtures. These are not functions under test themselves.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-md2html/internal/config"
)

// testEnv is an Environment whose writers can be inspected.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestEnv returns an Environment reading stdin from the given text.
func newTestEnv(stdin string) *testEnv {
	var stdout, stderr bytes.Buffer
	return &testEnv{
		Environment: &Environment{
			Stdin:  strings.NewReader(stdin),
			Stdout: &stdout,
			Stderr: &stderr,
			Logger: newLogger(&stderr, false, false),
			Config: config.DefaultConfig(),
		},
		stdout: &stdout,
		stderr: &stderr,
	}
}

// writeFile creates path (and its parents) with content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) // #nosec G304 -- test path
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
