package main

// Notes:
// - discoverFiles: we test single files, recursive directories (hidden
//   directories skipped, pattern filtering), and doublestar globs.
// - resolveOutputPath: we test next-to-source, explicit file, and mirrored
//   directory layouts.
// - validateWorkers: we test the accepted range.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Input expansion
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "# a\n")
	writeFile(t, filepath.Join(root, "b.markdown"), "# b\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "skip\n")
	writeFile(t, filepath.Join(root, "guide", "c.md"), "# c\n")
	writeFile(t, filepath.Join(root, "guide", "deep", "d.md"), "# d\n")
	writeFile(t, filepath.Join(root, ".git", "e.md"), "# hidden\n")

	out := filepath.Join(t.TempDir(), "site")

	tests := []struct {
		name    string
		input   string
		opts    discoverOptions
		want    []FileToConvert
		wantErr error
	}{
		{
			name:  "single file next to source",
			input: filepath.Join(root, "a.md"),
			want: []FileToConvert{
				{filepath.Join(root, "a.md"), filepath.Join(root, "a.html")},
			},
		},
		{
			name:  "directory mirrored under output dir",
			input: root,
			opts:  discoverOptions{outputDir: out},
			want: []FileToConvert{
				{filepath.Join(root, "a.md"), filepath.Join(out, "a.html")},
				{filepath.Join(root, "b.markdown"), filepath.Join(out, "b.html")},
				{filepath.Join(root, "guide", "c.md"), filepath.Join(out, "guide", "c.html")},
				{filepath.Join(root, "guide", "deep", "d.md"), filepath.Join(out, "guide", "deep", "d.html")},
			},
		},
		{
			name:  "directory with pattern",
			input: root,
			opts:  discoverOptions{pattern: "guide/*.md", ext: ".htm"},
			want: []FileToConvert{
				{filepath.Join(root, "guide", "c.md"), filepath.Join(root, "guide", "c.htm")},
			},
		},
		{
			name:  "doublestar glob",
			input: filepath.Join(root, "guide", "**", "*.md"),
			opts:  discoverOptions{outputDir: out},
			want: []FileToConvert{
				{filepath.Join(root, "guide", "c.md"), filepath.Join(out, "c.html")},
				{filepath.Join(root, "guide", "deep", "d.md"), filepath.Join(out, "deep", "d.html")},
			},
		},
		{
			name:    "wrong extension",
			input:   filepath.Join(root, "notes.txt"),
			wantErr: ErrInvalidExtension,
		},
		{
			name:    "missing path",
			input:   filepath.Join(root, "missing.md"),
			wantErr: fs.ErrNotExist,
		},
		{
			name:    "glob without matches",
			input:   filepath.Join(root, "*.rst"),
			wantErr: ErrNoMarkdownFiles,
		},
		{
			name:    "directory without matches",
			input:   root,
			opts:    discoverOptions{pattern: "nothing/**"},
			wantErr: ErrNoMarkdownFiles,
		},
		{
			name:    "malformed glob",
			input:   filepath.Join(root, "[*.md"),
			wantErr: ErrUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := discoverFiles(tt.input, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("discoverFiles() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("discoverFiles() error = %v", err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("discoverFiles() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("file[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Output path rules
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		baseDir string
		opts    discoverOptions
		want    string
	}{
		{
			name:  "next to source",
			input: filepath.Join("docs", "intro.md"),
			opts:  discoverOptions{ext: ".html"},
			want:  filepath.Join("docs", "intro.html"),
		},
		{
			name:  "explicit output file",
			input: "intro.md",
			opts:  discoverOptions{outputDir: filepath.Join("out", "index.html"), ext: ".html"},
			want:  filepath.Join("out", "index.html"),
		},
		{
			name:  "single file into directory",
			input: filepath.Join("docs", "intro.md"),
			opts:  discoverOptions{outputDir: "out", ext: ".html"},
			want:  filepath.Join("out", "intro.html"),
		},
		{
			name:    "mirrored subdirectory",
			input:   filepath.Join("docs", "guide", "setup.markdown"),
			baseDir: "docs",
			opts:    discoverOptions{outputDir: "out", ext: ".xhtml"},
			want:    filepath.Join("out", "guide", "setup.xhtml"),
		},
		{
			name:    "directory named like a file is still mirrored",
			input:   filepath.Join("docs", "a.md"),
			baseDir: "docs",
			opts:    discoverOptions{outputDir: "site.html", ext: ".html"},
			want:    filepath.Join("site.html", "a.html"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolveOutputPath(tt.input, tt.baseDir, tt.opts)
			if got != tt.want {
				t.Errorf("resolveOutputPath(%q, %q) = %q, want %q", tt.input, tt.baseDir, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateWorkers - Worker count bounds
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{1, false},
		{64, false},
		{65, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", tt.n, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestHasGlobMeta - Glob detection
// ---------------------------------------------------------------------------

func TestHasGlobMeta(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"*.md", "docs/**/x.md", "a?.md", "[ab].md", "{a,b}.md"} {
		if !hasGlobMeta(p) {
			t.Errorf("hasGlobMeta(%q) = false, want true", p)
		}
	}
	for _, p := range []string{"doc.md", "docs/guide", "-"} {
		if hasGlobMeta(p) {
			t.Errorf("hasGlobMeta(%q) = true, want false", p)
		}
	}
}
