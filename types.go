package md2html

import (
	"fmt"
	"io"
	"strings"
)

// Standalone page limits.
const (
	MaxTitleLength = 200
	MaxLangLength  = 35 // BCP 47 tags in practice
	DefaultTitle   = "Document"
	DefaultLang    = "en"
)

// Input contains conversion parameters.
// Exactly one of Markdown or Reader should be set; Reader wins when both are.
type Input struct {
	Markdown string    // Markdown content
	Reader   io.Reader // Markdown stream (optional alternative to Markdown)
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	HTML     string    // Rendered fragments, or a full page in standalone mode
	Document *Document // Classified nodes
	Stats    Stats
}

// Stats counts what a conversion saw.
type Stats struct {
	Lines     int          // Physical lines read, blank ones included
	Blank     int          // Lines dropped because they were empty
	Truncated int          // Lines cut to MaxLineSize
	Kinds     map[Kind]int // Nodes per kind
}

func newStats() Stats {
	return Stats{Kinds: make(map[Kind]int, kindCount)}
}

// Nodes returns the number of nodes produced.
func (s Stats) Nodes() int {
	return s.Lines - s.Blank
}

// StandaloneOptions configures wrapping the fragments in a full HTML page.
type StandaloneOptions struct {
	Title      string // Page title ("" = text of the first heading, then DefaultTitle)
	Lang       string // html lang attribute ("" = DefaultLang)
	Stylesheet string // Optional stylesheet href
	CSS        string // Optional CSS inlined in a <style> element
}

// Validate checks field lengths.
// Returns nil if s is nil (nil means fragments only).
func (s *StandaloneOptions) Validate() error {
	if s == nil {
		return nil
	}
	if len(s.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title is %d bytes (max %d)", ErrStandalone, len(s.Title), MaxTitleLength)
	}
	if len(s.Lang) > MaxLangLength {
		return fmt.Errorf("%w: lang is %d bytes (max %d)", ErrStandalone, len(s.Lang), MaxLangLength)
	}
	if strings.ContainsAny(s.Lang, " \t\"<>") {
		return fmt.Errorf("%w: invalid lang %q", ErrStandalone, s.Lang)
	}
	if strings.Contains(strings.ToLower(s.CSS), "</style") {
		return fmt.Errorf("%w: CSS must not close the style element", ErrStandalone)
	}
	return nil
}

// Option configures a Converter.
type Option func(*Converter)

// WithEscapeHTML enables or disables escaping of payload text.
func WithEscapeHTML(enabled bool) Option {
	return func(c *Converter) {
		c.renderer.EscapeHTML = enabled
	}
}

// WithStandalone wraps output in a complete HTML5 page.
func WithStandalone(opts StandaloneOptions) Option {
	return func(c *Converter) {
		o := opts
		c.standalone = &o
	}
}

// WithClassifier replaces the default classifier.
// Panics if cls is nil (programmer error).
func WithClassifier(cls *Classifier) Option {
	if cls == nil {
		panic("md2html: WithClassifier classifier must not be nil")
	}
	return func(c *Converter) {
		c.classifier = cls
	}
}
