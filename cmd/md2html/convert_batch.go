package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteHTML    = errors.New("failed to write HTML file")
)

// StreamConverter is the part of md2html.Converter the batch needs.
type StreamConverter interface {
	ConvertStream(ctx context.Context, r io.Reader, w io.Writer) (md2html.Stats, error)
}

// Compile-time interface implementation check.
var _ StreamConverter = (*md2html.Converter)(nil)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
	Stats      md2html.Stats
	Bytes      int64 // Size of the written output
}

// resolvePoolSize determines the worker count.
// Priority: explicit value > GOMAXPROCS (adjusted by automaxprocs for containers).
func resolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	return n
}

// convertBatch processes files concurrently with a bounded worker pool.
// Results keep the order of files.
func convertBatch(ctx context.Context, conv StreamConverter, files []FileToConvert, workers int) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(workers, len(files))
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile converts a single file. The output file only appears once the
// whole input has been read and rendered.
func convertFile(ctx context.Context, conv StreamConverter, f FileToConvert) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	in, err := os.Open(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		result.Duration = time.Since(start)
		return result
	}
	defer in.Close()

	outDir := filepath.Dir(f.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		result.Err = fmt.Errorf("%w: creating output directory: %v", ErrWriteHTML, err)
		result.Duration = time.Since(start)
		return result
	}

	err = fileutil.WriteFileAtomic(f.OutputPath, filePermissions, func(w io.Writer) error {
		cw := &countingWriter{w: w}
		stats, err := conv.ConvertStream(ctx, in, cw)
		result.Stats = stats
		result.Bytes = cw.n
		return err
	})
	if err != nil {
		if !errors.Is(err, md2html.ErrReadInput) && !errors.Is(err, md2html.ErrWriteOutput) && ctx.Err() == nil {
			err = fmt.Errorf("%w: %v", ErrWriteHTML, err)
		}
		result.Err = err
	}

	result.Duration = time.Since(start)
	return result
}

// countingWriter counts bytes passed to w.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Bytes     int64
	Truncated int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Bytes += r.Bytes
		summary.Truncated += r.Stats.Truncated
	}
	return summary
}

// printResultsWithWriter outputs conversion results using the environment's
// writers and returns the number of failures.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if r.Stats.Truncated > 0 {
			env.Logger.Warn("long lines truncated",
				"file", r.InputPath,
				"lines", r.Stats.Truncated,
				"limit", md2html.MaxLineSize)
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, %d nodes, %v)\n",
				r.InputPath, r.OutputPath, humanize.Bytes(uint64(r.Bytes)), r.Stats.Nodes(), r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed (%s written)\n",
			summary.Succeeded, summary.Failed, humanize.Bytes(uint64(summary.Bytes)))
	}

	return summary.Failed
}
