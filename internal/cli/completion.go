package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/numkernels/internal/kernels"
)

// FlagCompletion describes a CLI flag for shell completion generation. Every
// generator reads flagRegistry, so a new flag only needs a new entry there.
type FlagCompletion struct {
	Long      string   // long flag name without "--"
	Short     string   // short flag without "-"
	Help      string   // description text
	Values    []string // suggested values (nil = boolean or free-form)
	ValueName string   // value label for zsh
	IsFile    bool     // value is a file path
	IsOp      bool     // values come from the operation catalogue
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "op", Help: "Operation to run", IsOp: true, ValueName: "operation"},
	{Long: "a", Help: "First argument", ValueName: "number"},
	{Long: "b", Help: "Second argument", ValueName: "number"},
	{Long: "verify", Help: "Cross-check against the reference implementations"},
	{Long: "batch", Help: "YAML batch manifest", IsFile: true, ValueName: "file"},
	{Long: "concurrency", Help: "Maximum concurrent batch jobs", Values: []string{"1", "2", "4", "8", "16"}, ValueName: "jobs"},
	{Long: "repl", Help: "Start an interactive session"},
	{Long: "tui", Help: "Start the demo console"},
	{Long: "serve", Help: "Serve the kernels over HTTP"},
	{Long: "addr", Help: "Listen address", Values: []string{":8080", "127.0.0.1:8080"}, ValueName: "address"},
	{Long: "script", Help: "Lua script to run", IsFile: true, ValueName: "file"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"10s", "1m", "5m", "30m"}, ValueName: "duration"},
	{Long: "output", Short: "o", Help: "Output file path", IsFile: true, ValueName: "file"},
	{Long: "quiet", Short: "q", Help: "Print only the result"},
	{Long: "verbose", Short: "v", Help: "Show kernel log and memory statistics"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
	{Long: "max-matrix-size", Help: "Largest matrix size for -serve and -script", ValueName: "size"},
	{Long: "max-prime-limit", Help: "Largest prime limit for -serve and -script", ValueName: "limit"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion writes a completion script for shell ("bash", "zsh" or
// "fish") covering every flag and operation name of program.
func GenerateCompletion(out io.Writer, shell, program string) error {
	ops := opNames()
	switch shell {
	case "bash":
		return generateBashCompletion(out, program, ops)
	case "zsh":
		return generateZshCompletion(out, program, ops)
	case "fish":
		return generateFishCompletion(out, program, ops)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
}

func opNames() string {
	names := make([]string, 0, len(kernels.Ops()))
	for _, op := range kernels.Ops() {
		names = append(names, string(op))
	}
	return strings.Join(names, " ")
}

// ident turns a program name into a shell function identifier.
func ident(program string) string {
	return strings.NewReplacer("-", "_", ".", "_").Replace(program)
}

func generateBashCompletion(out io.Writer, program, ops string) error {
	var opts []string
	var fileFlags []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		opts = append(opts, "-"+f.Long)
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
		switch {
		case f.IsFile:
			fileFlags = append(fileFlags, "-"+f.Long)
			if f.Short != "" {
				fileFlags = append(fileFlags, "-"+f.Short)
			}
		case f.IsOp:
			fmt.Fprintf(&cases, "        -%s)\n            COMPREPLY=( $(compgen -W \"${ops}\" -- \"${cur}\") )\n            return 0\n            ;;\n", f.Long)
		case len(f.Values) > 0:
			fmt.Fprintf(&cases, "        -%s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				f.Long, strings.Join(f.Values, " "))
		}
	}
	if len(fileFlags) > 0 {
		fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n",
			strings.Join(fileFlags, "|"))
	}

	fn := ident(program)
	_, err := fmt.Fprintf(out, `# Bash completion script for %[1]s
# Add this to your ~/.bashrc or ~/.bash_completion

_%[2]s_completions() {
    local cur prev opts ops
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%[3]s"
    ops="%[4]s"

    case "${prev}" in
%[5]s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
    else
        COMPREPLY=( $(compgen -W "${ops}" -- "${cur}") )
    fi
    return 0
}

complete -F _%[2]s_completions %[1]s
`, program, fn, strings.Join(opts, " "), ops, cases.String())
	if err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

func generateZshCompletion(out io.Writer, program, ops string) error {
	args := make([]string, 0, len(flagRegistry)+1)
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	args = append(args, "        '1:operation:($ops)'")

	fn := ident(program)
	_, err := fmt.Fprintf(out, `#compdef %[1]s

# Zsh completion script for %[1]s
# Place this file in a directory listed in $fpath

_%[2]s() {
    local -a ops
    ops=(%[3]s)

    _arguments -s \
%[4]s
}

_%[2]s "$@"
`, program, fn, ops, strings.Join(args, " \\\n"))
	if err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsOp:
		valueSuffix = fmt.Sprintf(":%s:($ops)", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Short != "" {
		return fmt.Sprintf("        '(-%s -%s)'{-%s,-%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '-%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func generateFishCompletion(out io.Writer, program, ops string) error {
	lines := []string{
		"# Fish completion script for " + program,
		fmt.Sprintf("# Add this to ~/.config/fish/completions/%s.fish", program),
		"",
		"complete -c " + program + " -f",
		fmt.Sprintf("complete -c %s -n '__fish_is_first_arg' -a '%s'", program, ops),
	}
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(program, f, ops))
	}
	lines = append(lines, "")

	if _, err := fmt.Fprint(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// fishCompleteLine uses -o (old-style long option) because the flag package
// accepts single-dash long flags.
func fishCompleteLine(program string, f FlagCompletion, ops string) string {
	parts := []string{"complete -c " + program}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	parts = append(parts, "-o "+f.Long, fmt.Sprintf("-d '%s'", f.Help))

	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case f.IsOp:
		parts = append(parts, fmt.Sprintf("-xa '%s'", ops))
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}
