// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strconv"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-md2html/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-md2html) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(strings.ReplaceAll(p, `\`, "/"), ".config/go-md2html") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForInputNotFound returns hints when the input path does not exist.
func ForInputNotFound() string {
	return format(`pass a .md file, a directory, a glob such as "docs/**/*.md", or "-" for stdin`)
}

// ForNoMarkdownFiles returns hints when a directory or glob matched nothing.
func ForNoMarkdownFiles(pattern string) string {
	hints := []string{"only .md and .markdown files are converted"}
	if pattern != "" {
		hints = append(hints, "set input.pattern in the config to change "+pattern)
	}
	return formatHints(hints)
}

// ForWorkers returns a hint for an out-of-range worker count.
func ForWorkers(max int) string {
	return format("use --workers between 1 and " + strconv.Itoa(max) + ", or 0 for automatic")
}

// ForStdoutBatch returns a hint when several inputs are sent to stdout.
func ForStdoutBatch() string {
	return format("-o - accepts a single input; use -o DIR for several files")
}

// ForStyleNotFound lists the built-in styles and where custom ones are read.
func ForStyleNotFound(builtin []string) string {
	hints := []string{"set render.styleDir to a directory of NAME.css files"}
	if len(builtin) > 0 {
		hints = append([]string{"built-in styles: " + strings.Join(builtin, ", ")}, hints...)
	}
	return formatHints(hints)
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
