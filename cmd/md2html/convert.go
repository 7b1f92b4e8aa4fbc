package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/assets"
	"github.com/alnah/go-md2html/internal/config"
	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrStdoutBatch = errors.New("stdout output requires a single input")
)

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return fmt.Errorf("%w%s", err, hints.ForWorkers(config.MaxWorkers))
	}
	if len(positionalArgs) > 1 {
		return fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positionalArgs))
	}

	cfg, err := loadConvertConfig(flags.common.config, env)
	if err != nil {
		return err
	}

	// Merge CLI flags into config (CLI wins)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	convOpts, err := converterOptions(cfg)
	if err != nil {
		return err
	}
	conv, err := md2html.NewConverter(convOpts...)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForInputNotFound())
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	if fileutil.IsStdio(inputPath) {
		if flags.watch {
			return fmt.Errorf("%w: --watch cannot read from stdin", ErrUsage)
		}
		return convertStdin(ctx, conv, resolveStdinOutput(flags.output, cfg), env)
	}

	opts := discoverOptions{
		outputDir: outputDir,
		pattern:   cfg.InputPattern(),
		ext:       cfg.OutputExtension(),
	}

	files, err := discoverFiles(inputPath, opts)
	if err != nil {
		return discoveryError(err, opts.pattern)
	}

	if fileutil.IsStdio(outputDir) {
		if len(files) != 1 || flags.watch {
			return fmt.Errorf("%w: %d files matched%s", ErrStdoutBatch, len(files), hints.ForStdoutBatch())
		}
		return convertToWriter(ctx, conv, files[0].InputPath, env)
	}

	workers := resolvePoolSize(cfg.Workers)
	env.Logger.Debug("starting conversion", "files", len(files), "workers", workers)

	results := convertBatch(ctx, conv, files, workers)
	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)

	if flags.watch {
		return watchAndConvert(ctx, inputPath, opts, conv, flags.common, env)
	}
	if failedCount > 0 {
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}

	return nil
}

// loadConvertConfig resolves the config in priority order:
// --config flag, MD2HTML_CONFIG, then the environment's base config.
// MD2HTML_* values fill fields the file left empty.
func loadConvertConfig(name string, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Logger)
	warnUnknownEnvVars(env.Logger)

	if name == "" {
		name = envCfg.ConfigPath
	}

	var cfg *config.Config
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		env.Logger.Debug("loaded config", "name", name)
		cfg = loaded
	} else {
		base := config.DefaultConfig()
		if env.Config != nil {
			*base = *env.Config
		}
		cfg = base
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
// Boolean flags override only when set explicitly, so --standalone=false
// can turn off a config default.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.ext != "" {
		cfg.Output.Extension = flags.ext
	}

	// Render flags
	if flags.render.title != "" {
		cfg.Render.Title = flags.render.title
	}
	if flags.render.lang != "" {
		cfg.Render.Lang = flags.render.lang
	}
	if flags.render.stylesheet != "" {
		cfg.Render.Stylesheet = flags.render.stylesheet
	}
	if flags.render.style != "" {
		cfg.Render.Style = flags.render.style
	}
	if flags.changed["standalone"] {
		cfg.Render.Standalone = flags.render.standalone
	}
	if flags.changed["escape-html"] {
		cfg.Render.EscapeHTML = flags.render.escapeHTML
	}

	// Page metadata only makes sense on a full page
	if flags.render.title != "" || flags.render.lang != "" || flags.render.stylesheet != "" || flags.render.style != "" {
		if !flags.changed["standalone"] {
			cfg.Render.Standalone = true
		}
	}
}

// converterOptions translates the render config into converter options,
// loading the inlined style if one is named.
func converterOptions(cfg *config.Config) ([]md2html.Option, error) {
	opts := []md2html.Option{md2html.WithEscapeHTML(cfg.Render.EscapeHTML)}
	if !cfg.Render.Standalone {
		return opts, nil
	}

	css, err := loadStyle(cfg.Render.Style, cfg.Render.StyleDir)
	if err != nil {
		return nil, err
	}
	opts = append(opts, md2html.WithStandalone(md2html.StandaloneOptions{
		Title:      cfg.Render.Title,
		Lang:       cfg.Render.Lang,
		Stylesheet: cfg.Render.Stylesheet,
		CSS:        css,
	}))
	return opts, nil
}

// loadStyle resolves a style name against dir, then the built-in styles.
// An empty name means no inlined CSS.
func loadStyle(name, dir string) (string, error) {
	if name == "" {
		return "", nil
	}
	resolver, err := assets.NewResolver(dir)
	if err != nil {
		return "", fmt.Errorf("loading style: %w", err)
	}
	css, err := resolver.LoadStyle(name)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return "", fmt.Errorf("loading style: %w%s", err, hints.ForStyleNotFound(assets.Names()))
		}
		return "", fmt.Errorf("loading style: %w", err)
	}
	return css, nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// stdinBaseName names the file written for stdin input in an output directory.
const stdinBaseName = "stdin"

// resolveStdinOutput picks the destination for converted stdin: "" for
// stdout, otherwise a file path. output.defaultDir, an existing directory,
// or a path ending in a separator receive stdin<ext>.
func resolveStdinOutput(flagOutput string, cfg *config.Config) string {
	out, isDir := flagOutput, false
	if out == "" {
		out, isDir = cfg.Output.DefaultDir, true
	}
	if out == "" || fileutil.IsStdio(out) {
		return ""
	}
	if strings.HasSuffix(out, "/") || strings.HasSuffix(out, string(filepath.Separator)) {
		isDir = true
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		isDir = true
	}
	if isDir {
		return filepath.Join(out, stdinBaseName+cfg.OutputExtension())
	}
	return out
}

// discoveryError attaches a hint to file discovery failures.
func discoveryError(err error, pattern string) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("discovering files: %w%s", err, hints.ForInputNotFound())
	case errors.Is(err, ErrNoMarkdownFiles):
		return fmt.Errorf("discovering files: %w%s", err, hints.ForNoMarkdownFiles(pattern))
	default:
		return fmt.Errorf("discovering files: %w", err)
	}
}

// convertStdin converts standard input. Output goes to stdout unless
// outputPath names a file; missing parent directories are created.
func convertStdin(ctx context.Context, conv StreamConverter, outputPath string, env *Environment) error {
	if outputPath == "" || fileutil.IsStdio(outputPath) {
		stats, err := conv.ConvertStream(ctx, env.Stdin, env.Stdout)
		logStats(env, "stdin", stats)
		return err
	}

	start := time.Now()
	if err := os.MkdirAll(filepath.Dir(outputPath), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %v%s", ErrWriteHTML, err, hints.ForOutputDirectory())
	}

	var stats md2html.Stats
	err := fileutil.WriteFileAtomic(outputPath, filePermissions, func(w io.Writer) error {
		var err error
		stats, err = conv.ConvertStream(ctx, env.Stdin, w)
		return err
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %v%s", ErrWriteHTML, err, hints.ForOutputDirectory())
		}
		return err
	}
	logStats(env, "stdin", stats)
	env.Logger.Debug("converted", "output", outputPath, "duration", time.Since(start))
	return nil
}

// convertToWriter streams a single file to stdout.
func convertToWriter(ctx context.Context, conv StreamConverter, inputPath string, env *Environment) error {
	in, err := os.Open(inputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}
	defer in.Close()

	stats, err := conv.ConvertStream(ctx, in, env.Stdout)
	logStats(env, inputPath, stats)
	return err
}

// logStats reports truncated lines and node counts for a streamed input.
func logStats(env *Environment, source string, stats md2html.Stats) {
	if stats.Truncated > 0 {
		env.Logger.Warn("long lines truncated",
			"file", source,
			"lines", stats.Truncated,
			"limit", md2html.MaxLineSize)
	}
	env.Logger.Debug("converted", "file", source, "lines", stats.Lines, "nodes", stats.Nodes())
}
