package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert markdown files to HTML")
	fmt.Fprintln(w, "  rules       Print the line classification rules")
	fmt.Fprintln(w, "  config      Print the effective configuration")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Shorthand: 'md2html doc.md' and 'md2html -' run convert.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2html help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown files to HTML, one line at a time.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file, directory, glob (\"docs/**/*.md\"), or - for stdin")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file, directory, or - for stdout")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --ext <s>             Output extension (default: .html)")
	fmt.Fprintln(w, "      --watch               Convert again when input files change")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --escape-html         Escape &, <, > and \" in line text")
	fmt.Fprintln(w, "      --standalone          Wrap output in a complete HTML5 page")
	fmt.Fprintln(w, "      --title <s>           Page title (\"\" = first heading)")
	fmt.Fprintln(w, "      --lang <s>            Page language (default: en)")
	fmt.Fprintln(w, "      --stylesheet <href>   Stylesheet linked from the page head")
	fmt.Fprintln(w, "      --style <name>        CSS style inlined in the page (built-in or render.styleDir)")
	fmt.Fprintln(w, "                            --title, --lang, --stylesheet and --style imply --standalone")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing and diagnostics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2HTML_CONFIG, MD2HTML_INPUT_DIR, MD2HTML_OUTPUT_DIR, MD2HTML_EXT,")
	fmt.Fprintln(w, "  MD2HTML_LANG, MD2HTML_STYLE, MD2HTML_WORKERS, MD2HTML_STANDALONE,")
	fmt.Fprintln(w, "  MD2HTML_ESCAPE")
}

// printRulesUsage prints usage for the rules command.
func printRulesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html rules")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the ordered line classification rules. The first matching")
	fmt.Fprintln(w, "rule wins; lines matching none become plain text.")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html config [-c <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration as YAML, after the config file")
	fmt.Fprintln(w, "and MD2HTML_* environment variables are applied.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "rules":
		printRulesUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2html version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: unknown command: %s", ErrUsage, args[0])
	}
	return nil
}
