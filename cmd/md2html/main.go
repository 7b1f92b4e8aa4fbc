package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-md2html/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// commands lists the subcommands accepted as the first argument.
var commands = []string{"convert", "rules", "config", "completion", "version", "help"}

func main() {
	// Configure GOMAXPROCS; its log lines only show with -v.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	logger := newLogger(os.Stderr, false, hasVerboseFlag(os.Args[1:]))
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches args to a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if env.Logger == nil {
		env.Logger = newLogger(env.Stderr, false, false)
	}

	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	if !isCommand(cmd) {
		switch {
		case looksLikeInput(cmd):
			cmd, rest = "convert", args[1:]
		case cmd == "-h" || cmd == "--help":
			printUsage(env.Stdout)
			return ExitSuccess
		default:
			fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
			printUsage(env.Stderr)
			return ExitUsage
		}
	}

	err := runCommand(cmd, rest, env)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runCommand runs a known command.
func runCommand(cmd string, args []string, env *Environment) error {
	switch cmd {
	case "convert":
		flags, positional, err := parseConvertFlags(args, env.Stderr)
		if err != nil {
			return usageError(err)
		}
		env.Logger = newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)

		ctx, stop := notifyContext(context.Background())
		defer stop()
		return runConvert(ctx, positional, flags, env)
	case "rules":
		if _, _, err := parseCommonFlags("rules", args, env.Stderr, printRulesUsage); err != nil {
			return usageError(err)
		}
		return runRules(env)
	case "config":
		flags, _, err := parseCommonFlags("config", args, env.Stderr, printConfigUsage)
		if err != nil {
			return usageError(err)
		}
		env.Logger = newLogger(env.Stderr, flags.quiet, flags.verbose)
		return runConfig(flags.config, env)
	case "completion":
		return runCompletion(args, env)
	case "version":
		fmt.Fprintf(env.Stdout, "md2html %s\n", Version)
		return nil
	case "help":
		return runHelp(args, env)
	}
	return fmt.Errorf("%w: unknown command: %s", ErrUsage, cmd)
}

// usageError marks flag parse failures as usage errors.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// isCommand reports whether arg names a subcommand.
func isCommand(arg string) bool {
	return slices.Contains(commands, arg)
}

// looksLikeInput reports whether arg is a markdown file or "-" for stdin,
// allowing "md2html doc.md" as a shorthand for convert.
func looksLikeInput(arg string) bool {
	return fileutil.IsStdio(arg) || fileutil.IsMarkdownFile(arg)
}

// hasVerboseFlag scans args for -v or --verbose before flags are parsed.
func hasVerboseFlag(args []string) bool {
	return slices.Contains(args, "-v") || slices.Contains(args, "--verbose")
}
