// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// StdioPath names standard input or output on the command line.
const StdioPath = "-"

// markdownExtensions lists the input extensions picked up from directories.
var markdownExtensions = []string{".md", ".markdown"}

// WriteFileAtomic writes the output of fill to path through a temporary file
// in the same directory, renamed into place once fill succeeds. A failed fill
// leaves no file at path.
func WriteFileAtomic(path string, perm os.FileMode, fill func(io.Writer) error) (err error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmpFile.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if fillErr := fill(tmpFile); fillErr != nil {
		_ = tmpFile.Close()
		return fillErr
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if chmodErr := os.Chmod(tmpPath, perm); chmodErr != nil {
		return fmt.Errorf("setting permissions: %w", chmodErr)
	}

	if renameErr := os.Rename(tmpPath, path); renameErr != nil {
		return fmt.Errorf("renaming temp file: %w", renameErr)
	}
	return nil
}

// ValidateExtension checks that the extension is safe to append to a file name.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "team" -> false (name)
//   - "./team.yaml" -> true (relative path)
//   - "/etc/md2html.yaml" -> true (absolute)
//   - "C:\config\md2html.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsMarkdownFile reports whether path has a markdown extension (.md, .markdown),
// case-insensitive.
func IsMarkdownFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range markdownExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

// IsStdio reports whether path is the "-" placeholder for stdin or stdout.
func IsStdio(path string) bool {
	return path == StdioPath
}

// ReplaceExtension swaps the extension of path for ext.
// ext must include the leading dot.
func ReplaceExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
