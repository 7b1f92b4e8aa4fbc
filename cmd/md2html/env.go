package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/alnah/go-md2html/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, configuration, and diagnostics.
type Environment struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger   // Diagnostics on Stderr; replaced once -q/-v are parsed
	Config *config.Config // Base config when no config file is named
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: newLogger(os.Stderr, false, false),
		Config: config.DefaultConfig(),
	}
}

// newLogger returns a text logger on w.
// verbose enables debug records, quiet keeps errors only.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
