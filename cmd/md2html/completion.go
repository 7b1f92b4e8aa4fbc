package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2html/internal/assets"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// programName is the binary name used in completion scripts.
const programName = "md2html"

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed positional values (shells, commands)
	TakesFiles  bool     // accepts file arguments
	FilePattern string   // glob for file arguments (e.g., "*.md")
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"ext":        {Values: []string{".html", ".htm", ".xhtml"}},
	"config":     {FileGlob: "*.yaml,*.yml"},
	"stylesheet": {FileGlob: "*.css"},
	"style":      {Values: assets.Names()},
	"output":     {IsDir: true},
}

// supportedShells lists shells in the order shown to users.
var supportedShells = []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	convertDefs := extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{}))
	commonDefs := extractFlagsFromFlagSet(newCommonFlagSet("common", &commonFlags{}))

	commands := []commandDef{
		{
			Name:        "convert",
			Desc:        "Convert markdown files to HTML",
			Flags:       convertDefs,
			TakesFiles:  true,
			FilePattern: "*.md,*.markdown",
		},
		{Name: "rules", Desc: "Print the line classification rules", Flags: commonDefs},
		{Name: "config", Desc: "Print the effective configuration", Flags: commonDefs},
		{Name: "completion", Desc: "Generate shell completion script", Args: supportedShells},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}

	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.Name)
	}
	commands[len(commands)-1].Args = names

	return commands
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var b strings.Builder
	commands := getCommands()

	switch shell {
	case ShellBash:
		generateBash(&b, commands)
	case ShellZsh:
		generateZsh(&b, commands)
	case ShellFish:
		generateFish(&b, commands)
	case ShellPowerShell:
		generatePowerShell(&b, commands)
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(supportedShells, ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// flagNames returns every spelling of the flags, long first.
func flagNames(flags []flagDef) []string {
	names := make([]string, 0, len(flags)*2)
	for _, f := range flags {
		names = append(names, "--"+f.Long)
		if f.Short != "" {
			names = append(names, "-"+f.Short)
		}
	}
	return names
}

// globs splits a comma separated glob list.
func globs(pattern string) []string {
	if pattern == "" {
		return nil
	}
	return strings.Split(pattern, ",")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(b *strings.Builder, commands []commandDef) {
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.Name)
	}

	fmt.Fprintf(b, "# bash completion for %s\n\n", programName)
	fmt.Fprintf(b, "_%s_completions() {\n", programName)
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	fmt.Fprintf(b, "    local commands=%q\n\n", strings.Join(names, " "))
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	b.WriteString("        COMPREPLY=( $(compgen -W \"${commands}\" -- \"${cur}\") )\n")
	b.WriteString("        return 0\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, c := range commands {
		if len(c.Flags) == 0 && len(c.Args) == 0 && !c.TakesFiles {
			continue
		}
		fmt.Fprintf(b, "        %s)\n", c.Name)
		writeBashFlagValues(b, c.Flags)

		if len(c.Flags) > 0 {
			b.WriteString("            if [[ \"${cur}\" == -* ]]; then\n")
			fmt.Fprintf(b, "                COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(flagNames(c.Flags), " "))
			b.WriteString("                return 0\n")
			b.WriteString("            fi\n")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(b, "            COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(c.Args, " "))
		case c.TakesFiles:
			fmt.Fprintf(b, "            COMPREPLY=( %s $(compgen -d -- \"${cur}\") )\n", bashFileCompgen(c.FilePattern))
		}
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(b, "complete -F _%s_completions %s\n", programName, programName)
}

// writeBashFlagValues completes the value following a flag.
func writeBashFlagValues(b *strings.Builder, flags []flagDef) {
	var cases []string
	for _, f := range flags {
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern = "-" + f.Short + "|" + pattern
		}

		switch f.Type {
		case flagEnum:
			cases = append(cases, fmt.Sprintf("                %s) COMPREPLY=( $(compgen -W %q -- \"${cur}\") ); return 0 ;;\n",
				pattern, strings.Join(f.Values, " ")))
		case flagFile:
			cases = append(cases, fmt.Sprintf("                %s) COMPREPLY=( %s ); return 0 ;;\n",
				pattern, bashFileCompgen(f.FileGlob)))
		case flagDir:
			cases = append(cases, fmt.Sprintf("                %s) COMPREPLY=( $(compgen -d -- \"${cur}\") ); return 0 ;;\n", pattern))
		case flagString, flagInt:
			cases = append(cases, fmt.Sprintf("                %s) return 0 ;;\n", pattern))
		}
	}
	if len(cases) == 0 {
		return
	}

	b.WriteString("            case \"${prev}\" in\n")
	for _, c := range cases {
		b.WriteString(c)
	}
	b.WriteString("            esac\n")
}

// bashFileCompgen returns one compgen call per glob.
func bashFileCompgen(pattern string) string {
	parts := make([]string, 0, 2)
	for _, g := range globs(pattern) {
		parts = append(parts, fmt.Sprintf("$(compgen -f -X '!%s' -- \"${cur}\")", g))
	}
	return strings.Join(parts, " ")
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func generateZsh(b *strings.Builder, commands []commandDef) {
	fmt.Fprintf(b, "#compdef %s\n\n", programName)
	fmt.Fprintf(b, "_%s() {\n", programName)
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range commands {
		fmt.Fprintf(b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    local cmd=\"${words[2]}\"\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, c := range commands {
		if len(c.Flags) == 0 && len(c.Args) == 0 && !c.TakesFiles {
			continue
		}
		fmt.Fprintf(b, "        %s)\n", c.Name)
		b.WriteString("            _arguments \\\n")
		for _, f := range c.Flags {
			fmt.Fprintf(b, "                %s \\\n", zshFlagSpec(f))
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(b, "                '1:value:(%s)'\n", strings.Join(c.Args, " "))
		case c.TakesFiles:
			fmt.Fprintf(b, "                '*:file:_files -g \"%s\"'\n", strings.Join(globs(c.FilePattern), " "))
		default:
			b.WriteString("                '*:: :'\n")
		}
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(b, "_%s \"$@\"\n", programName)
}

// zshFlagSpec builds an _arguments spec for f.
func zshFlagSpec(f flagDef) string {
	desc := "[" + zshEscape(f.Desc) + "]"

	var action string
	switch f.Type {
	case flagEnum:
		action = ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":file:_files -g \"" + strings.Join(globs(f.FileGlob), " ") + "\""
	case flagDir:
		action = ":directory:_files -/"
	case flagString, flagInt:
		action = ":value: "
	}

	if f.Short == "" {
		return "'--" + f.Long + desc + action + "'"
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

// zshEscape escapes text placed inside single quotes and brackets.
func zshEscape(s string) string {
	r := strings.NewReplacer(`'`, `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func generateFish(b *strings.Builder, commands []commandDef) {
	fmt.Fprintf(b, "# fish completion for %s\n\n", programName)

	fmt.Fprintf(b, "function __fish_%s_needs_command\n", programName)
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")

	fmt.Fprintf(b, "function __fish_%s_using_command\n", programName)
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")

	fmt.Fprintf(b, "complete -c %s -f\n\n", programName)

	for _, c := range commands {
		fmt.Fprintf(b, "complete -c %s -n __fish_%s_needs_command -a %s -d %s\n",
			programName, programName, c.Name, fishQuote(c.Desc))
	}

	for _, c := range commands {
		cond := fmt.Sprintf("'__fish_%s_using_command %s'", programName, c.Name)
		if len(c.Flags) == 0 && len(c.Args) == 0 && !c.TakesFiles {
			continue
		}
		b.WriteString("\n")
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c %s -n %s", programName, cond)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long + " -d " + fishQuote(f.Desc)

			switch f.Type {
			case flagEnum:
				line += " -x -a " + fishQuote(strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagString, flagInt:
				line += " -x"
			}
			b.WriteString(line + "\n")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(b, "complete -c %s -n %s -a %s\n", programName, cond, fishQuote(strings.Join(c.Args, " ")))
		case c.TakesFiles:
			fmt.Fprintf(b, "complete -c %s -n %s -F\n", programName, cond)
		}
	}
}

// fishQuote single-quotes s for fish.
func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func generatePowerShell(b *strings.Builder, commands []commandDef) {
	fmt.Fprintf(b, "# powershell completion for %s\n\n", programName)
	fmt.Fprintf(b, "Register-ArgumentCompleter -Native -CommandName %s -ScriptBlock {\n", programName)
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = [ordered]@{\n")
	for _, c := range commands {
		fmt.Fprintf(b, "        %s = %s\n", psQuote(c.Name), psQuote(c.Desc))
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $values = @{\n")
	for _, c := range commands {
		vals := flagNames(c.Flags)
		vals = append(vals, c.Args...)
		if len(vals) == 0 {
			continue
		}
		quoted := make([]string, len(vals))
		for i, v := range vals {
			quoted[i] = psQuote(v)
		}
		fmt.Fprintf(b, "        %s = @(%s)\n", psQuote(c.Name), strings.Join(quoted, ", "))
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n")
	b.WriteString("    if ($elements.Count -le 1 -or ($elements.Count -eq 2 -and $wordToComplete -ne '')) {\n")
	b.WriteString("        $commands.GetEnumerator() | Where-Object { $_.Key -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $cmd = $elements[1]\n")
	b.WriteString("    if ($values.ContainsKey($cmd)) {\n")
	b.WriteString("        $values[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
}

// psQuote single-quotes s for PowerShell.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(md2html completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(md2html completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    md2html completion fish > ~/.config/fish/completions/md2html.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    md2html completion powershell | Out-String | Invoke-Expression")
}
