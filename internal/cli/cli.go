// Package cli provides the command-line interface for treebank.
package cli

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/treebank/internal/config"
	"github.com/AndreyAkinshin/treebank/internal/errors"
	"github.com/AndreyAkinshin/treebank/internal/output"
)

// Version is set at build time.
var Version = "dev"

// wantsHelp returns true if args contain -h or --help before any -- separator.
// Arguments after -- are treated as positional, so help flags there are ignored.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
		if arg == "--" {
			return false
		}
	}
	return false
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 0
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return 0
	case "--version", "version":
		fmt.Printf("treebank %s\n", Version)
		return 0
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitSetupError
	}

	// Re-extract command after flag parsing
	if len(remaining) == 0 {
		printUsage()
		return 0
	}
	cmd := remaining[0]
	cmdArgs := remaining[1:]

	switch cmd {
	// Corpus suites
	case "run":
		return cmdRun(cmdArgs, opts)
	case "errors":
		return cmdErrors(cmdArgs, opts)
	case "grammars":
		return cmdGrammars(cmdArgs, opts)
	case "all":
		return cmdAll(cmdArgs, opts)

	// One-shot utilities
	case "parse":
		return cmdParse(cmdArgs, opts)
	case "generate":
		return cmdGenerate(cmdArgs, opts)
	case "languages":
		return cmdLanguages(cmdArgs, opts)

	// Fixture scaffolding
	case "init":
		return cmdInit(cmdArgs)

	case "completion":
		return cmdCompletion(cmdArgs)

	default:
		out.ErrorPrefix("unknown command %q", cmd)
		out.Hint("run 'treebank help' for usage")
		return errors.ExitSetupError
	}
}

// GlobalOptions holds parsed global flags.
type GlobalOptions struct {
	Fixtures string
	Example  string
	TraceLog bool
	GraphLog bool
	Quiet    bool
	Verbose  bool
	NoColor  bool
}

// parseGlobalFlags manually parses global flags from arguments.
//
// Manual parsing is used instead of the stdlib flag package because:
// - Flags can appear anywhere in the argument list, not just before the command
// - Positional arguments after -- must be preserved verbatim
// - Custom error messages with usage hints are needed
func parseGlobalFlags(args []string) (*GlobalOptions, []string, error) {
	opts := &GlobalOptions{}
	var remaining []string

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "--fixtures":
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("--fixtures requires a value")
			}
			opts.Fixtures = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--fixtures="):
			opts.Fixtures = strings.TrimPrefix(arg, "--fixtures=")
			i++
		case arg == "--example":
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("--example requires a value")
			}
			opts.Example = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--example="):
			opts.Example = strings.TrimPrefix(arg, "--example=")
			i++
		case arg == "--log":
			opts.TraceLog = true
			i++
		case arg == "--log-graphs":
			opts.GraphLog = true
			i++
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
			i++
		case arg == "--verbose":
			opts.Verbose = true
			i++
		case arg == "--no-color":
			opts.NoColor = true
			i++
		case arg == "--":
			// Everything after -- is positional
			remaining = append(remaining, args[i+1:]...)
			i = len(args)
		default:
			remaining = append(remaining, arg)
			i++
		}
	}

	if err := validateGlobalOptions(opts); err != nil {
		return nil, nil, err
	}

	// Apply output settings once so every command prints consistently.
	applyOutputOptions(opts)

	return opts, remaining, nil
}

// validateGlobalOptions checks that global options are valid.
func validateGlobalOptions(opts *GlobalOptions) error {
	if opts.Quiet && opts.Verbose {
		return fmt.Errorf("--quiet and --verbose are mutually exclusive")
	}
	return nil
}

// snapshotFor resolves the run configuration: environment first, then
// command-line overrides on top.
func snapshotFor(languageArg string, opts *GlobalOptions) config.Snapshot {
	return config.Resolve(config.FromEnv(), config.Overrides{
		Language: languageArg,
		Example:  opts.Example,
		TraceLog: opts.TraceLog,
		GraphLog: opts.GraphLog,
	})
}

func printUsage() {
	w := output.New()

	w.HelpTitle("treebank - parser corpus conformance runner")

	w.HelpSection("Usage:")
	w.HelpUsage("treebank <command> [arguments] [flags]")

	w.HelpSection("Corpus Commands:")
	w.HelpCommand("run [language]", "Run the shipped language corpora", helpCommandWidth)
	w.HelpCommand("errors [language]", "Run the error-recovery corpora", helpCommandWidth)
	w.HelpCommand("grammars [name]", "Run the conformance grammar suite", helpCommandWidth)
	w.HelpCommand("all [language]", "Run every corpus suite", helpCommandWidth)

	w.HelpSection("Utility Commands:")
	w.HelpCommand("parse <language> <file>", "Parse a file and print its tree", helpCommandWidth)
	w.HelpCommand("generate <grammar.json>", "Compile a grammar and print the definition", helpCommandWidth)
	w.HelpCommand("languages", "List the shipped languages", helpCommandWidth)
	w.HelpCommand("init [dir]", "Scaffold a fixture tree", helpCommandWidth)
	w.HelpCommand("completion <shell>", "Generate shell completion (bash, zsh, fish)", helpCommandWidth)
	w.HelpCommand("version", "Show version information", helpCommandWidth)

	printGlobalFlags(w)

	w.HelpSection("Examples:")
	w.HelpExample("treebank all", "Run every corpus suite")
	w.HelpExample("treebank run json", "Run only the JSON corpus")
	w.HelpExample("treebank run --example 'nested'", "Run examples whose name contains 'nested'")
	w.HelpExample("treebank errors --log", "Trace the error-recovery runs")
	w.HelpExample("treebank parse sexp demo.sexp", "Print the tree of one file")
	w.Println("")
}

func printGlobalFlags(w *output.Writer) {
	w.HelpSection("Global Flags:")
	w.HelpFlag("--fixtures <dir>", "Use this fixture tree instead of discovering one", helpFlagWidth)
	w.HelpFlag("--example <substr>", "Run only examples whose name contains the substring", helpFlagWidth)
	w.HelpFlag("--log", "Log parser events while running", helpFlagWidth)
	w.HelpFlag("--log-graphs", "Capture parse trees into "+defaultGraphLogName, helpFlagWidth)
	w.HelpFlag("-q, --quiet", "Minimal output (errors only)", helpFlagWidth)
	w.HelpFlag("--verbose", "Report per-language allocation figures", helpFlagWidth)
	w.HelpFlag("--no-color", "Disable colored output", helpFlagWidth)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidth)
	w.HelpFlag("--version", "Show version", helpFlagWidth)

	w.HelpSection("Environment:")
	w.HelpEnvVar(config.EnvLanguageFilter, "Run a single language (exact name)", helpEnvWidth)
	w.HelpEnvVar(config.EnvExampleFilter, "Run matching examples (substring)", helpEnvWidth)
	w.HelpEnvVar(config.EnvLog, "Log parser events (presence enables)", helpEnvWidth)
	w.HelpEnvVar(config.EnvLogGraphs, "Capture parse trees (presence enables)", helpEnvWidth)
}
