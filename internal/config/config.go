package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/alnah/go-md2html/internal/assets"
	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDirName is the directory searched under the user config dir.
const AppDirName = "go-md2html"

// Field length limits.
const (
	MaxPathLength      = 4096 // PATH_MAX on Linux
	MaxPatternLength   = 256
	MaxExtensionLength = 16
	MaxTitleLength     = 200 // Same as the library's page title limit
	MaxLangLength      = 35  // BCP 47 tags in practice
	MaxURLLength       = 2048
	MaxWorkers         = 64
)

// Defaults applied when a field is left empty.
const (
	DefaultPattern   = "**/*.{md,markdown}"
	DefaultExtension = ".html"
)

// Config holds all configuration for a conversion run.
type Config struct {
	Input   InputConfig  `yaml:"input"`
	Output  OutputConfig `yaml:"output"`
	Render  RenderConfig `yaml:"render"`
	Workers int          `yaml:"workers"` // 0 = automatic (GOMAXPROCS)
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
	Pattern    string `yaml:"pattern"`    // Glob matched against paths relative to an input directory
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Extension  string `yaml:"extension"`  // Output file extension (default: ".html")
}

// RenderConfig defines how nodes are turned into HTML.
type RenderConfig struct {
	EscapeHTML bool   `yaml:"escapeHTML"` // Escape payload text (default: verbatim)
	Standalone bool   `yaml:"standalone"` // Wrap fragments in a full HTML5 page
	Title      string `yaml:"title"`      // Page title (empty = first heading)
	Lang       string `yaml:"lang"`       // html lang attribute (empty = "en")
	Stylesheet string `yaml:"stylesheet"` // Optional stylesheet href
	Style      string `yaml:"style"`      // CSS style inlined in the page (built-in or from styleDir)
	StyleDir   string `yaml:"styleDir"`   // Directory of NAME.css files overriding built-in styles
}

// Validate checks field lengths and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("input.pattern", c.Input.Pattern, MaxPatternLength); err != nil {
		return err
	}
	if c.Input.Pattern != "" && !doublestar.ValidatePattern(c.Input.Pattern) {
		return fmt.Errorf("%w: input.pattern: malformed glob %q", ErrInvalidValue, c.Input.Pattern)
	}

	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.extension", c.Output.Extension, MaxExtensionLength); err != nil {
		return err
	}
	if c.Output.Extension != "" {
		if err := fileutil.ValidateExtension(c.Output.Extension); err != nil {
			return fmt.Errorf("%w: output.extension: %v", ErrInvalidValue, err)
		}
	}

	if err := validateFieldLength("render.title", c.Render.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.lang", c.Render.Lang, MaxLangLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Render.Lang, " \t\"<>") {
		return fmt.Errorf("%w: render.lang: %q", ErrInvalidValue, c.Render.Lang)
	}
	if err := validateFieldLength("render.stylesheet", c.Render.Stylesheet, MaxURLLength); err != nil {
		return err
	}
	if c.Render.Style != "" {
		if err := assets.ValidateStyleName(c.Render.Style); err != nil {
			return fmt.Errorf("%w: render.style: %v", ErrInvalidValue, err)
		}
	}
	if err := validateFieldLength("render.styleDir", c.Render.StyleDir, MaxPathLength); err != nil {
		return err
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	return nil
}

// InputPattern returns the configured glob or DefaultPattern.
func (c *Config) InputPattern() string {
	if c.Input.Pattern == "" {
		return DefaultPattern
	}
	return c.Input.Pattern
}

// OutputExtension returns the configured extension with a leading dot,
// or DefaultExtension.
func (c *Config) OutputExtension() string {
	ext := c.Output.Extension
	if ext == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: fragments only, verbatim
// payloads, automatic worker count.
func DefaultConfig() *Config {
	return &Config{
		Input:  InputConfig{DefaultDir: ""},
		Output: OutputConfig{DefaultDir: ""},
		Render: RenderConfig{EscapeHTML: false, Standalone: false},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths returns the locations tried for a config name, in order.
// Extensions: .yaml, .yml. Locations: current directory, <user config dir>/go-md2html/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDirName, name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing path from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
