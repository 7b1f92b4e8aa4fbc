package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/alnah/go-md2html/internal/config"
	"github.com/alnah/go-md2html/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrNoMarkdownFiles    = errors.New("no markdown files found")
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverOptions controls how an input argument expands to files.
type discoverOptions struct {
	outputDir string // Empty = next to each source
	pattern   string // Glob applied inside directories
	ext       string // Output extension with leading dot
}

// discoverFiles expands inputPath into the markdown files to convert.
// inputPath may be a file, a directory walked recursively, or a glob such
// as "docs/**/*.md".
func discoverFiles(inputPath string, opts discoverOptions) ([]FileToConvert, error) {
	if opts.pattern == "" {
		opts.pattern = config.DefaultPattern
	}
	if opts.ext == "" {
		opts.ext = config.DefaultExtension
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && hasGlobMeta(inputPath) {
			return discoverGlob(inputPath, opts)
		}
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, "", opts)
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	return discoverDir(inputPath, opts)
}

// discoverDir walks dir and keeps files whose slash-separated path
// relative to dir matches opts.pattern.
func discoverDir(dir string, opts discoverOptions) ([]FileToConvert, error) {
	var files []FileToConvert
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		ok, err := doublestar.Match(opts.pattern, filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("matching %q: %w", opts.pattern, err)
		}
		if !ok {
			return nil
		}

		files = append(files, FileToConvert{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, dir, opts),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMarkdownFiles, dir)
	}
	return files, nil
}

// discoverGlob expands a doublestar pattern. The static prefix of the
// pattern acts as the base directory mirrored under opts.outputDir.
func discoverGlob(pattern string, opts discoverOptions) ([]FileToConvert, error) {
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, fmt.Errorf("%w: malformed glob %q", ErrUsage, pattern)
	}

	base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
	matches, err := doublestar.Glob(os.DirFS(base), rest, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", pattern, err)
	}
	slices.Sort(matches)

	baseDir := filepath.FromSlash(base)
	var files []FileToConvert
	for _, m := range matches {
		path := filepath.Join(baseDir, filepath.FromSlash(m))
		if !fileutil.IsMarkdownFile(path) {
			continue
		}
		files = append(files, FileToConvert{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, baseDir, opts),
		})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w matching %s", ErrNoMarkdownFiles, pattern)
	}
	return files, nil
}

// resolveOutputPath determines the HTML output path for a markdown file.
// baseInputDir is the directory whose layout is mirrored under outputDir,
// empty for a single file.
func resolveOutputPath(inputPath, baseInputDir string, opts discoverOptions) string {
	name := fileutil.ReplaceExtension(filepath.Base(inputPath), opts.ext)

	if opts.outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	// Single file with an explicit output file name
	if baseInputDir == "" && strings.EqualFold(filepath.Ext(opts.outputDir), opts.ext) {
		return opts.outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(opts.outputDir, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(opts.outputDir, name)
}

// hasGlobMeta reports whether path contains glob metacharacters.
func hasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !fileutil.IsMarkdownFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}
