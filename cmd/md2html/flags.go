package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds flags that shape the HTML output.
type renderFlags struct {
	standalone bool
	title      string
	lang       string
	stylesheet string
	style      string
	escapeHTML bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int
	ext     string
	watch   bool
	render  renderFlags
	changed map[string]bool // Flags explicitly set on the command line
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and diagnostics")
}

// addRenderFlags adds output shaping flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.BoolVar(&f.standalone, "standalone", false, "wrap output in a complete HTML5 page")
	fs.StringVar(&f.title, "title", "", "page title (\"\" = first heading)")
	fs.StringVar(&f.lang, "lang", "", "page language (default: en)")
	fs.StringVar(&f.stylesheet, "stylesheet", "", "stylesheet href linked from the page head")
	fs.StringVar(&f.style, "style", "", "CSS style inlined in the page head")
	fs.BoolVar(&f.escapeHTML, "escape-html", false, "escape HTML in line text")
}

// newConvertFlagSet registers every convert flag on a new FlagSet bound to f.
// Shared by parseConvertFlags and shell completion.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file, directory, or - for stdout")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.ext, "ext", "", "output file extension (default: .html)")
	fs.BoolVar(&f.watch, "watch", false, "convert again when input files change")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{changed: make(map[string]bool)}
	fs := newConvertFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	fs.Visit(func(fl *flag.Flag) {
		f.changed[fl.Name] = true
	})

	return f, fs.Args(), nil
}

// newCommonFlagSet returns a FlagSet holding only -c/-q/-v.
func newCommonFlagSet(name string, f *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	addCommonFlags(fs, f)
	return fs
}

// parseCommonFlags parses commands that only take -c/-q/-v.
func parseCommonFlags(name string, args []string, stderr io.Writer, usage func(io.Writer)) (*commonFlags, []string, error) {
	f := &commonFlags{}
	fs := newCommonFlagSet(name, f)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
