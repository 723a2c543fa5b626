package cli

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/treebank/internal/errors"
	"github.com/AndreyAkinshin/treebank/internal/output"
)

// cmdCompletion generates shell completion scripts.
func cmdCompletion(args []string) int {
	shell := ""
	alias := ""

	// Parse arguments
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			printCompletionUsage()
			return 0
		case strings.HasPrefix(arg, "--alias="):
			alias = strings.TrimPrefix(arg, "--alias=")
		case arg == "--alias":
			out.ErrorPrefix("completion: --alias requires a value (--alias=<name>)")
			return errors.ExitSetupError
		case strings.HasPrefix(arg, "-"):
			out.ErrorPrefix("completion: unknown flag: %s", arg)
			printCompletionUsage()
			return errors.ExitSetupError
		default:
			if shell != "" {
				out.ErrorPrefix("completion: unexpected argument: %s", arg)
				return errors.ExitSetupError
			}
			shell = arg
		}
	}

	if shell == "" {
		out.ErrorPrefix("completion: shell required (bash, zsh, fish)")
		printCompletionUsage()
		return errors.ExitSetupError
	}

	// Use "treebank" as default command name
	cmdName := "treebank"
	if alias != "" {
		cmdName = alias
	}

	switch shell {
	case "bash":
		out.Print("%s", generateBashCompletion(cmdName))
	case "zsh":
		out.Print("%s", generateZshCompletion(cmdName))
	case "fish":
		out.Print("%s", generateFishCompletion(cmdName))
	default:
		out.ErrorPrefix("completion: unsupported shell %q (use bash, zsh, or fish)", shell)
		return errors.ExitSetupError
	}

	return errors.ExitSuccess
}

// printCompletionUsage prints the help text for the completion command.
func printCompletionUsage() {
	w := output.New()

	w.HelpTitle("treebank completion - generate shell completion scripts")

	w.HelpSection("Usage:")
	w.HelpUsage("treebank completion <shell> [--alias=<name>]")

	w.HelpSection("Arguments:")
	w.HelpFlag("<shell>", "Shell type: bash, zsh, or fish", 10)

	w.HelpSection("Options:")
	w.HelpFlag("--alias=<name>", "Generate completion for command alias", 14)
	w.HelpFlag("-h, --help", "Show this help", 14)

	w.HelpSection("Examples:")
	w.HelpExample("treebank completion bash", "Generate bash completion")
	w.HelpExample("treebank completion zsh", "Generate zsh completion")
	w.HelpExample("treebank completion fish", "Generate fish completion")
	w.HelpExample("treebank completion bash --alias=tb", "Generate bash completion for alias 'tb'")

	w.HelpSection("Installation:")
	w.Println("  Bash:  eval \"$(treebank completion bash)\"")
	w.Println("  Zsh:   eval \"$(treebank completion zsh)\"")
	w.Println("  Fish:  treebank completion fish | source")
	w.Println("")
}

// builtinCommands returns the list of CLI commands.
func builtinCommands() []string {
	return []string{
		"run",
		"errors",
		"grammars",
		"all",
		"parse",
		"generate",
		"languages",
		"init",
		"completion",
		"version",
		"help",
	}
}

// languageCommands returns the commands that take a language argument.
func languageCommands() []string {
	return []string{"run", "errors", "grammars", "all", "parse"}
}

// globalFlags returns the global CLI flags.
func globalFlags() []string {
	return []string{
		"--fixtures",
		"--example",
		"--log",
		"--log-graphs",
		"--quiet",
		"--verbose",
		"--no-color",
		"--help",
		"--version",
	}
}

func generateBashCompletion(cmdName string) string {
	commands := builtinCommands()
	flags := globalFlags()

	// Generate function name from command (replace - with _)
	funcName := "_" + strings.ReplaceAll(cmdName, "-", "_") + "_completions"

	var aliasNote string
	if cmdName == "treebank" {
		aliasNote = `
# Alias support:
# If you use an alias (e.g., alias tb="treebank"), add completion for it:
#   complete -F _treebank_completions tb
# Or generate completion directly for your alias:
#   eval "$(treebank completion bash --alias=tb)"
`
	} else {
		aliasNote = fmt.Sprintf(`
# This completion is generated for the alias "%s"
# Make sure you have the alias defined: alias %s="treebank"
`, cmdName, cmdName)
	}

	return fmt.Sprintf(`# treebank bash completion
# Add to ~/.bashrc: eval "$(treebank completion bash)"
%s
%s() {
    local cur prev words cword
    _init_completion || return

    local commands="%s"
    local flags="%s"
    local language_commands="%s"
    local completion_shells="bash zsh fish"

    case "${prev}" in
        %s)
            COMPREPLY=($(compgen -W "${commands} ${flags}" -- "${cur}"))
            return
            ;;
        completion)
            COMPREPLY=($(compgen -W "${completion_shells}" -- "${cur}"))
            return
            ;;
        --fixtures)
            _filedir -d
            return
            ;;
        --example)
            return
            ;;
        generate)
            _filedir json
            return
            ;;
    esac

    # Language argument after a corpus command
    for word in ${language_commands}; do
        if [[ "${prev}" == "${word}" ]]; then
            local languages
            languages=$(treebank languages 2>/dev/null | awk 'NR>2 {print $1}')
            COMPREPLY=($(compgen -W "${languages} ${flags}" -- "${cur}"))
            return
        fi
    done

    # Complete flags if current word starts with -
    if [[ "${cur}" == -* ]]; then
        COMPREPLY=($(compgen -W "${flags}" -- "${cur}"))
        return
    fi

    COMPREPLY=($(compgen -W "${commands} ${flags}" -- "${cur}"))
}

complete -F %s %s
`, aliasNote, funcName, strings.Join(commands, " "), strings.Join(flags, " "), strings.Join(languageCommands(), " "), cmdName, funcName, cmdName)
}

func generateZshCompletion(cmdName string) string {
	// Generate function name from command (replace - with _)
	funcName := "_" + strings.ReplaceAll(cmdName, "-", "_")

	var aliasNote string
	if cmdName == "treebank" {
		aliasNote = `
# Alias support:
# If you use an alias (e.g., alias tb="treebank"), add completion for it:
#   compdef _treebank tb
# Or generate completion directly for your alias:
#   eval "$(treebank completion zsh --alias=tb)"
`
	} else {
		aliasNote = fmt.Sprintf(`
# This completion is generated for the alias "%s"
# Make sure you have the alias defined: alias %s="treebank"
`, cmdName, cmdName)
	}

	return fmt.Sprintf(`#compdef %s
# treebank zsh completion
# Add to ~/.zshrc: eval "$(treebank completion zsh)"
%s
%s() {
    local -a commands flags completion_shells

    commands=(
        'run:Run the shipped language corpora'
        'errors:Run the error-recovery corpora'
        'grammars:Run the conformance grammar suite'
        'all:Run every corpus suite'
        'parse:Parse a file and print its tree'
        'generate:Compile a grammar and print the definition'
        'languages:List the shipped languages'
        'init:Scaffold a fixture tree'
        'completion:Generate shell completion'
        'version:Show version information'
        'help:Show help'
    )

    flags=(
        '--fixtures=[Use this fixture tree]:directory:_files -/'
        '--example=[Run only matching examples]'
        '--log[Log parser events while running]'
        '--log-graphs[Capture parse trees]'
        '--quiet[Minimal output]'
        '--verbose[Report allocation figures]'
        '--no-color[Disable colored output]'
        '--help[Show help]'
        '--version[Show version]'
    )

    completion_shells=(
        'bash:Generate bash completion'
        'zsh:Generate zsh completion'
        'fish:Generate fish completion'
    )

    # Get dynamic language names (used for corpus commands)
    local -a languages
    languages=(${(f)"$(treebank languages 2>/dev/null | awk 'NR>2 {print $1}')"})

    local cur_pos=$((CURRENT - 1))

    if (( cur_pos == 1 )); then
        _describe -t commands 'command' commands
        _arguments -s $flags[@]
        return
    fi

    case "${words[2]}" in
        run|errors|grammars|all|parse)
            if [[ ${#languages[@]} -gt 0 && -n "${languages[1]}" ]]; then
                _describe -t languages 'language' languages
            fi
            _arguments -s $flags[@]
            ;;
        generate)
            _files -g '*.json'
            ;;
        completion)
            _describe -t shells 'shell' completion_shells
            ;;
        *)
            _arguments -s $flags[@]
            ;;
    esac
}

compdef %s %s
`, cmdName, aliasNote, funcName, funcName, cmdName)
}

func generateFishCompletion(cmdName string) string {
	var sb strings.Builder

	var aliasNote string
	if cmdName == "treebank" {
		aliasNote = `# Alias support:
# If you use an alias (e.g., alias tb="treebank"), add completion for it:
#   complete -c tb -w treebank
# Or generate completion directly for your alias:
#   treebank completion fish --alias=tb | source
`
	} else {
		aliasNote = fmt.Sprintf(`# This completion is generated for the alias "%s"
# Make sure you have the alias defined: alias %s="treebank"
`, cmdName, cmdName)
	}

	sb.WriteString(fmt.Sprintf(`# treebank fish completion
# Add to config: treebank completion fish | source

%s
# Disable file completion by default
complete -c %s -f

`, aliasNote, cmdName))

	// Built-in commands
	commandDescs := map[string]string{
		"run":        "Run the shipped language corpora",
		"errors":     "Run the error-recovery corpora",
		"grammars":   "Run the conformance grammar suite",
		"all":        "Run every corpus suite",
		"parse":      "Parse a file and print its tree",
		"generate":   "Compile a grammar and print the definition",
		"languages":  "List the shipped languages",
		"init":       "Scaffold a fixture tree",
		"completion": "Generate shell completion",
		"version":    "Show version information",
		"help":       "Show help",
	}

	for _, cmd := range builtinCommands() {
		sb.WriteString(fmt.Sprintf("complete -c %s -n '__fish_use_subcommand' -a '%s' -d '%s'\n", cmdName, cmd, commandDescs[cmd]))
	}

	sb.WriteString("\n# Global flags\n")
	sb.WriteString(fmt.Sprintf("complete -c %s -l fixtures -d 'Use this fixture tree' -xa '(__fish_complete_directories)'\n", cmdName))
	sb.WriteString(fmt.Sprintf("complete -c %s -l example -d 'Run only matching examples'\n", cmdName))
	sb.WriteString(fmt.Sprintf("complete -c %s -l log -d 'Log parser events while running'\n", cmdName))
	sb.WriteString(fmt.Sprintf("complete -c %s -l log-graphs -d 'Capture parse trees'\n", cmdName))
	sb.WriteString(fmt.Sprintf("complete -c %s -l quiet -d 'Minimal output'\n", cmdName))
	sb.WriteString(fmt.Sprintf("complete -c %s -l verbose -d 'Report allocation figures'\n", cmdName))
	sb.WriteString(fmt.Sprintf("complete -c %s -l no-color -d 'Disable colored output'\n", cmdName))
	sb.WriteString(fmt.Sprintf("complete -c %s -l help -d 'Show help'\n", cmdName))
	sb.WriteString(fmt.Sprintf("complete -c %s -l version -d 'Show version'\n", cmdName))

	sb.WriteString("\n# Language argument for corpus commands\n")
	langCondition := "__fish_seen_subcommand_from " + strings.Join(languageCommands(), " ")
	sb.WriteString(fmt.Sprintf("complete -c %s -n '%s' -a '(treebank languages 2>/dev/null | tail -n +3 | string match -r \"^\\S+\")' -d 'Language'\n", cmdName, langCondition))

	sb.WriteString("\n# completion subcommands\n")
	sb.WriteString(fmt.Sprintf("complete -c %s -n '__fish_seen_subcommand_from completion' -a 'bash' -d 'Generate bash completion'\n", cmdName))
	sb.WriteString(fmt.Sprintf("complete -c %s -n '__fish_seen_subcommand_from completion' -a 'zsh' -d 'Generate zsh completion'\n", cmdName))
	sb.WriteString(fmt.Sprintf("complete -c %s -n '__fish_seen_subcommand_from completion' -a 'fish' -d 'Generate fish completion'\n", cmdName))

	sb.WriteString("\n# File arguments\n")
	sb.WriteString(fmt.Sprintf("complete -c %s -n '__fish_seen_subcommand_from parse' -F\n", cmdName))
	sb.WriteString(fmt.Sprintf("complete -c %s -n '__fish_seen_subcommand_from generate' -F\n", cmdName))

	return sb.String()
}
