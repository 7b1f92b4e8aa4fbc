package main

// Notes:
// - convertBatch: we test ordering of results, cancellation before work
//   starts, and bounded concurrency with a blocking mock.
// - convertFile: we test the happy path with the real converter and the
//   read, mkdir, and write error paths. A failed conversion must not leave
//   a partial output file behind.
// - printResultsWithWriter: we test failure counting and the three output
//   modes (quiet, normal, verbose).
// - The read-only directory case is skipped when running as root.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	md2html "github.com/alnah/go-md2html"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Mock converters
// ---------------------------------------------------------------------------

// staticMockConverter writes a fixed body or returns a fixed error.
type staticMockConverter struct {
	body string
	err  error
}

func (m *staticMockConverter) ConvertStream(_ context.Context, r io.Reader, w io.Writer) (md2html.Stats, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return md2html.Stats{}, err
	}
	if m.err != nil {
		return md2html.Stats{}, m.err
	}
	_, err := io.WriteString(w, m.body)
	return md2html.Stats{}, err
}

// gatedConverter blocks until release is closed and records peak concurrency.
type gatedConverter struct {
	release chan struct{}
	active  atomic.Int32
	peak    atomic.Int32
}

func (g *gatedConverter) ConvertStream(_ context.Context, _ io.Reader, w io.Writer) (md2html.Stats, error) {
	n := g.active.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	<-g.release
	g.active.Add(-1)
	_, err := io.WriteString(w, "ok")
	return md2html.Stats{}, err
}

func mustConverter(t *testing.T, opts ...md2html.Option) *md2html.Converter {
	t.Helper()
	conv, err := md2html.NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	return conv
}

// ---------------------------------------------------------------------------
// TestResolvePoolSize - Worker count resolution
// ---------------------------------------------------------------------------

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit value wins", 4, 4},
		{"one for sequential", 1, 1},
		{"zero uses GOMAXPROCS", 0, max(runtime.GOMAXPROCS(0), 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("resolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConvertBatch - Worker pool behavior
// ---------------------------------------------------------------------------

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	t.Run("results keep input order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var files []FileToConvert
		for i := range 6 {
			in := filepath.Join(dir, fmt.Sprintf("doc%d.md", i))
			writeFile(t, in, fmt.Sprintf("# Doc %d\n", i))
			files = append(files, FileToConvert{InputPath: in, OutputPath: filepath.Join(dir, "out", fmt.Sprintf("doc%d.html", i))})
		}

		results := convertBatch(context.Background(), mustConverter(t), files, 3)

		if len(results) != len(files) {
			t.Fatalf("len(results) = %d, want %d", len(results), len(files))
		}
		for i, r := range results {
			if r.Err != nil {
				t.Errorf("result[%d] error = %v", i, r.Err)
			}
			if r.InputPath != files[i].InputPath {
				t.Errorf("result[%d].InputPath = %q, want %q", i, r.InputPath, files[i].InputPath)
			}
			want := fmt.Sprintf("<h1>Doc %d</h1>\n", i)
			if got := readFile(t, files[i].OutputPath); got != want {
				t.Errorf("output[%d] = %q, want %q", i, got, want)
			}
		}
	})

	t.Run("canceled context skips conversion", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "doc.md")
		writeFile(t, in, "# Doc\n")
		out := filepath.Join(dir, "doc.html")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results := convertBatch(ctx, mustConverter(t), []FileToConvert{{in, out}}, 1)

		if !errors.Is(results[0].Err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", results[0].Err)
		}
		if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("output should not exist, stat error = %v", err)
		}
	})

	t.Run("concurrency is bounded by workers", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var files []FileToConvert
		for i := range 8 {
			in := filepath.Join(dir, fmt.Sprintf("doc%d.md", i))
			writeFile(t, in, "x\n")
			files = append(files, FileToConvert{InputPath: in, OutputPath: in + ".html"})
		}

		conv := &gatedConverter{release: make(chan struct{})}
		done := make(chan []ConversionResult)
		go func() { done <- convertBatch(context.Background(), conv, files, 2) }()

		deadline := time.Now().Add(5 * time.Second)
		for conv.active.Load() < 2 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		close(conv.release)
		results := <-done

		if peak := conv.peak.Load(); peak > 2 {
			t.Errorf("peak concurrency = %d, want <= 2", peak)
		}
		if s := countResults(results); s.Succeeded != len(files) {
			t.Errorf("succeeded = %d, want %d", s.Succeeded, len(files))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		if results := convertBatch(context.Background(), mustConverter(t), nil, 4); results != nil {
			t.Errorf("convertBatch(nil) = %v, want nil", results)
		}
	})
}

// ---------------------------------------------------------------------------
// TestConvertFile - Single file conversion and error paths
// ---------------------------------------------------------------------------

func TestConvertFile(t *testing.T) {
	t.Parallel()

	t.Run("writes HTML and counts bytes", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "doc.md")
		writeFile(t, in, "# Title\n**bold**\n")
		out := filepath.Join(dir, "nested", "doc.html")

		result := convertFile(context.Background(), mustConverter(t), FileToConvert{in, out})

		if result.Err != nil {
			t.Fatalf("convertFile() error = %v", result.Err)
		}
		want := "<h1>Title</h1>\n<b>bold</b><br />\n"
		if got := readFile(t, out); got != want {
			t.Errorf("output = %q, want %q", got, want)
		}
		if result.Bytes != int64(len(want)) {
			t.Errorf("Bytes = %d, want %d", result.Bytes, len(want))
		}
		if result.Stats.Nodes() != 2 {
			t.Errorf("Nodes() = %d, want 2", result.Stats.Nodes())
		}
	})

	t.Run("read failure returns ErrReadMarkdown", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		f := FileToConvert{
			InputPath:  filepath.Join(dir, "missing.md"),
			OutputPath: filepath.Join(dir, "out.html"),
		}

		result := convertFile(context.Background(), &staticMockConverter{body: "x"}, f)

		if !errors.Is(result.Err, ErrReadMarkdown) {
			t.Errorf("error = %v, want ErrReadMarkdown", result.Err)
		}
	})

	t.Run("mkdir failure returns ErrWriteHTML", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocked")
		writeFile(t, blocker, "file, not a directory")
		in := filepath.Join(dir, "doc.md")
		writeFile(t, in, "# Test\n")

		f := FileToConvert{InputPath: in, OutputPath: filepath.Join(blocker, "sub", "out.html")}
		result := convertFile(context.Background(), &staticMockConverter{body: "x"}, f)

		if !errors.Is(result.Err, ErrWriteHTML) {
			t.Errorf("error = %v, want ErrWriteHTML", result.Err)
		}
	})

	t.Run("conversion failure leaves no output", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "doc.md")
		writeFile(t, in, "# Test\n")
		out := filepath.Join(dir, "doc.html")

		result := convertFile(context.Background(), &staticMockConverter{err: md2html.ErrReadInput}, FileToConvert{in, out})

		if !errors.Is(result.Err, md2html.ErrReadInput) {
			t.Errorf("error = %v, want ErrReadInput", result.Err)
		}
		if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("output should not exist, stat error = %v", err)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 1 {
			t.Errorf("temp files left behind: %v", entries)
		}
	})

	t.Run("read-only directory returns ErrWriteHTML", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced here")
		}

		dir := t.TempDir()
		in := filepath.Join(dir, "doc.md")
		writeFile(t, in, "# Test\n")
		outDir := filepath.Join(dir, "readonly")
		if err := os.MkdirAll(outDir, 0o750); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.Chmod(outDir, 0o500); err != nil {
			t.Fatalf("setup: %v", err)
		}
		t.Cleanup(func() { _ = os.Chmod(outDir, 0o750) })

		result := convertFile(context.Background(), mustConverter(t), FileToConvert{in, filepath.Join(outDir, "out.html")})

		if !errors.Is(result.Err, ErrWriteHTML) {
			t.Errorf("error = %v, want ErrWriteHTML", result.Err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestPrintResultsWithWriter - Result reporting
// ---------------------------------------------------------------------------

func TestPrintResultsWithWriter(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.md", OutputPath: "a.html", Bytes: 2048, Duration: time.Millisecond},
		{InputPath: "b.md", OutputPath: "b.html", Err: ErrReadMarkdown},
		{InputPath: "c.md", OutputPath: "c.html", Stats: md2html.Stats{Lines: 3, Truncated: 1}},
	}

	tests := []struct {
		name          string
		quiet         bool
		verbose       bool
		wantStdout    []string
		notWantStdout []string
		wantStderr    []string
	}{
		{
			name:       "normal",
			wantStdout: []string{"Created a.html", "Created c.html", "2 succeeded, 1 failed", "2.0 kB written"},
			wantStderr: []string{"FAILED b.md", "long lines truncated", "file=c.md"},
		},
		{
			name:          "quiet",
			quiet:         true,
			notWantStdout: []string{"Created", "succeeded"},
			wantStderr:    []string{"FAILED b.md"},
		},
		{
			name:          "verbose",
			verbose:       true,
			wantStdout:    []string{"a.md -> a.html (2.0 kB, 0 nodes, 1ms)"},
			notWantStdout: []string{"Created"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("")
			failed := printResultsWithWriter(results, tt.quiet, tt.verbose, env.Environment)

			if failed != 1 {
				t.Errorf("failed = %d, want 1", failed)
			}
			for _, want := range tt.wantStdout {
				if !strings.Contains(env.stdout.String(), want) {
					t.Errorf("stdout should contain %q, got %q", want, env.stdout.String())
				}
			}
			for _, notWant := range tt.notWantStdout {
				if strings.Contains(env.stdout.String(), notWant) {
					t.Errorf("stdout should not contain %q, got %q", notWant, env.stdout.String())
				}
			}
			for _, want := range tt.wantStderr {
				if !strings.Contains(env.stderr.String(), want) {
					t.Errorf("stderr should contain %q, got %q", want, env.stderr.String())
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCountResults - Summary tallies
// ---------------------------------------------------------------------------

func TestCountResults(t *testing.T) {
	t.Parallel()

	got := countResults([]ConversionResult{
		{Bytes: 10, Stats: md2html.Stats{Truncated: 2}},
		{Bytes: 5},
		{Err: errors.New("boom"), Bytes: 100},
	})
	want := ResultSummary{Succeeded: 2, Failed: 1, Bytes: 15, Truncated: 2}

	if got != want {
		t.Errorf("countResults() = %+v, want %+v", got, want)
	}
}
