package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-md2html/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // MD2HTML_CONFIG: config file name or path
	InputDir   string // MD2HTML_INPUT_DIR: default input directory
	OutputDir  string // MD2HTML_OUTPUT_DIR: default output directory
	Extension  string // MD2HTML_EXT: output extension
	Lang       string // MD2HTML_LANG: html lang attribute
	Style      string // MD2HTML_STYLE: inlined CSS style name
	Workers    int    // MD2HTML_WORKERS: parallel workers
	Standalone *bool  // MD2HTML_STANDALONE: wrap in a full page
	EscapeHTML *bool  // MD2HTML_ESCAPE: escape payload text
}

// knownEnvVars lists valid MD2HTML_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2HTML_CONFIG":     true,
	"MD2HTML_INPUT_DIR":  true,
	"MD2HTML_OUTPUT_DIR": true,
	"MD2HTML_EXT":        true,
	"MD2HTML_LANG":       true,
	"MD2HTML_STYLE":      true,
	"MD2HTML_WORKERS":    true,
	"MD2HTML_STANDALONE": true,
	"MD2HTML_ESCAPE":     true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and booleans are ignored with a warning.
func loadEnvConfig(logger *slog.Logger) *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MD2HTML_CONFIG"),
		InputDir:   os.Getenv("MD2HTML_INPUT_DIR"),
		OutputDir:  os.Getenv("MD2HTML_OUTPUT_DIR"),
		Extension:  os.Getenv("MD2HTML_EXT"),
		Lang:       os.Getenv("MD2HTML_LANG"),
		Style:      os.Getenv("MD2HTML_STYLE"),
	}

	if workers := os.Getenv("MD2HTML_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		} else {
			logger.Warn("ignoring invalid environment value", "name", "MD2HTML_WORKERS", "value", workers)
		}
	}

	cfg.Standalone = envBool(logger, "MD2HTML_STANDALONE")
	cfg.EscapeHTML = envBool(logger, "MD2HTML_ESCAPE")

	return cfg
}

// envBool parses a boolean variable. Returns nil when unset or invalid.
func envBool(logger *slog.Logger, name string) *bool {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		logger.Warn("ignoring invalid environment value", "name", name, "value", raw)
		return nil
	}
	return &v
}

// warnUnknownEnvVars logs warnings for unrecognized MD2HTML_* variables.
// Helps catch typos like MD2HTML_OUTDIR instead of MD2HTML_OUTPUT_DIR.
func warnUnknownEnvVars(logger *slog.Logger) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MD2HTML_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				logger.Warn("unknown environment variable (typo?)", "name", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Extension != "" && cfg.Output.Extension == "" {
		cfg.Output.Extension = env.Extension
	}
	if env.Lang != "" && cfg.Render.Lang == "" {
		cfg.Render.Lang = env.Lang
	}
	if env.Style != "" && cfg.Render.Style == "" {
		cfg.Render.Style = env.Style
	}
	if env.Workers > 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}

	// Booleans cannot tell "false" from "unset" in YAML, so a set variable
	// only turns a feature on.
	if env.Standalone != nil && *env.Standalone {
		cfg.Render.Standalone = true
	}
	if env.EscapeHTML != nil && *env.EscapeHTML {
		cfg.Render.EscapeHTML = true
	}
}
