package cli

import (
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/treebank/internal/driver"
	"github.com/AndreyAkinshin/treebank/internal/errors"
	"github.com/AndreyAkinshin/treebank/internal/fixtures"
	"github.com/AndreyAkinshin/treebank/internal/generate"
	"github.com/AndreyAkinshin/treebank/internal/output"
	"github.com/AndreyAkinshin/treebank/internal/session"
	"github.com/AndreyAkinshin/treebank/internal/syntax"
)

// out is the shared output writer for CLI commands.
var out = output.New()

// defaultGraphLogName is shown in help text for --log-graphs.
const defaultGraphLogName = session.DefaultGraphLogPath

// Help text alignment widths for consistent formatting.
const (
	helpCommandWidth = 24 // Width for commands like "parse <language> <file>"
	helpFlagWidth    = 20 // Width for flags like "--example <substr>"
	helpEnvWidth     = 26 // Width for environment variable names
)

// applyOutputOptions configures the output writer from global flags.
func applyOutputOptions(opts *GlobalOptions) {
	out.SetQuiet(opts.Quiet)
	if opts.NoColor {
		out.SetColor(false)
	}
}

// resolveLayout locates the fixture tree: an explicit --fixtures value
// wins, otherwise the tree is discovered by walking up from the working
// directory.
func resolveLayout(opts *GlobalOptions) (fixtures.Layout, int) {
	if opts.Fixtures != "" {
		return fixtures.At(opts.Fixtures), 0
	}
	root, err := fixtures.FindRoot()
	if err != nil {
		out.ErrorPrefix("%v", err)
		out.Hint("run 'treebank init' to scaffold a fixture tree, or pass --fixtures <dir>")
		return fixtures.Layout{}, errors.ExitSetupError
	}
	return fixtures.At(root), 0
}

// runSuite executes one corpus suite end to end: resolve fixtures, apply
// the configuration snapshot, run, and report the final verdict.
func runSuite(cmdName string, args []string, opts *GlobalOptions, suite func(*driver.Driver) (bool, error)) int {
	if wantsHelp(args) {
		printSuiteUsage(cmdName)
		return 0
	}

	languageArg := ""
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			out.ErrorPrefix("%s: unknown option %q", cmdName, arg)
			return errors.ExitSetupError
		}
		if languageArg != "" {
			out.ErrorPrefix("%s: unexpected argument %q", cmdName, arg)
			return errors.ExitSetupError
		}
		languageArg = arg
	}

	layout, code := resolveLayout(opts)
	if code != 0 {
		return code
	}

	d, err := driver.New(layout, snapshotFor(languageArg, opts), out, driver.Options{Verbose: opts.Verbose})
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	failed, err := suite(d)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	if failed {
		out.FinalFailure("Corpus tests failed")
		return errors.ExitTestFailure
	}
	out.FinalSuccess("All corpus tests passed")
	return errors.ExitSuccess
}

// cmdRun runs the shipped language corpora.
func cmdRun(args []string, opts *GlobalOptions) int {
	return runSuite("run", args, opts, (*driver.Driver).Languages)
}

// cmdErrors runs the error-recovery corpora.
func cmdErrors(args []string, opts *GlobalOptions) int {
	return runSuite("errors", args, opts, (*driver.Driver).ErrorRecovery)
}

// cmdGrammars runs the conformance grammar suite.
func cmdGrammars(args []string, opts *GlobalOptions) int {
	return runSuite("grammars", args, opts, (*driver.Driver).TestGrammars)
}

// cmdAll runs every corpus suite.
func cmdAll(args []string, opts *GlobalOptions) int {
	return runSuite("all", args, opts, (*driver.Driver).All)
}

// cmdParse parses a single file with a shipped language and prints the
// canonical s-expression of the resulting tree.
func cmdParse(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printParseUsage()
		return 0
	}
	var positional []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			out.ErrorPrefix("parse: unknown option %q", arg)
			return errors.ExitSetupError
		}
		positional = append(positional, arg)
	}
	if len(positional) != 2 {
		out.ErrorPrefix("parse: expected <language> <file>")
		return errors.ExitSetupError
	}
	languageName, file := positional[0], positional[1]

	layout, code := resolveLayout(opts)
	if code != 0 {
		return code
	}
	d, err := driver.New(layout, snapshotFor("", opts), out, driver.Options{})
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	lang, err := d.Registry().Get(languageName)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		out.ErrorPrefix("cannot read %s: %v", file, err)
		return errors.ExitSetupError
	}

	factory := session.NewFactory(snapshotFor("", opts), out, "")
	sess, err := factory.Open(lang)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	tree, err := sess.Parse(syntax.SliceReader(data))
	if err != nil {
		sess.Close()
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	if err := sess.Close(); err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	out.Println("%s", tree.Sexp())
	return errors.ExitSuccess
}

// cmdGenerate compiles a grammar file and prints the language definition.
func cmdGenerate(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printGenerateUsage()
		return 0
	}
	var positional []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			out.ErrorPrefix("generate: unknown option %q", arg)
			return errors.ExitSetupError
		}
		positional = append(positional, arg)
	}
	if len(positional) != 1 {
		out.ErrorPrefix("generate: expected <grammar.json>")
		return errors.ExitSetupError
	}

	data, err := os.ReadFile(positional[0])
	if err != nil {
		out.ErrorPrefix("cannot read %s: %v", positional[0], err)
		return errors.ExitSetupError
	}
	source, err := generate.ParserForGrammar(string(data))
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitSetupError
	}
	out.Print("%s", source)
	return errors.ExitSuccess
}

// cmdLanguages lists the shipped languages. The listing needs only the
// embedded manifest, so it works outside a fixture tree too.
func cmdLanguages(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printLanguagesUsage()
		return 0
	}
	if len(args) > 0 {
		out.ErrorPrefix("languages: unexpected argument %q", args[0])
		return errors.ExitSetupError
	}

	layout := fixtures.Layout{}
	if opts.Fixtures != "" {
		layout = fixtures.At(opts.Fixtures)
	} else if root, err := fixtures.FindRoot(); err == nil {
		layout = fixtures.At(root)
	}
	d, err := driver.New(layout, snapshotFor("", opts), out, driver.Options{})
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	registry := d.Registry()
	titleCase := cases.Title(language.English)
	rows := make([][]string, 0, len(registry.Names()))
	for _, name := range registry.Names() {
		title := registry.Title(name)
		if title == name {
			title = titleCase.String(name)
		}
		rows = append(rows, []string{name, title})
	}
	out.Table([]string{"NAME", "TITLE"}, rows)
	return errors.ExitSuccess
}

// printSuiteUsage prints the help text for the corpus suite commands.
func printSuiteUsage(cmd string) {
	w := output.New()

	switch cmd {
	case "run":
		w.HelpTitle("treebank run - run the shipped language corpora")
	case "errors":
		w.HelpTitle("treebank errors - run the error-recovery corpora")
	case "grammars":
		w.HelpTitle("treebank grammars - run the conformance grammar suite")
	default:
		w.HelpTitle("treebank all - run every corpus suite")
	}

	w.HelpSection("Usage:")
	w.HelpUsage("treebank " + cmd + " [language] [flags]")

	w.HelpSection("Arguments:")
	w.HelpFlag("[language]", "Run a single language or grammar (exact name)", helpFlagWidth)

	printGlobalFlags(w)

	w.HelpSection("Examples:")
	w.HelpExample("treebank "+cmd, "Run the whole suite")
	w.HelpExample("treebank "+cmd+" json", "Run only json")
	w.HelpExample("treebank "+cmd+" --example 'nested'", "Run matching examples only")
	w.Println("")
}

// printParseUsage prints the help text for the parse command.
func printParseUsage() {
	w := output.New()

	w.HelpTitle("treebank parse - parse a file and print its tree")

	w.HelpSection("Usage:")
	w.HelpUsage("treebank parse <language> <file> [flags]")

	w.HelpSection("Arguments:")
	w.HelpFlag("<language>", "A shipped language name (see 'treebank languages')", helpFlagWidth)
	w.HelpFlag("<file>", "The file to parse", helpFlagWidth)

	w.HelpSection("Examples:")
	w.HelpExample("treebank parse json data.json", "Print the tree of data.json")
	w.HelpExample("treebank parse sexp demo.sexp --log", "Parse with event logging")
	w.Println("")
}

// printGenerateUsage prints the help text for the generate command.
func printGenerateUsage() {
	w := output.New()

	w.HelpTitle("treebank generate - compile a grammar and print the definition")

	w.HelpSection("Usage:")
	w.HelpUsage("treebank generate <grammar.json>")

	w.HelpSection("Description:")
	w.Println("  Validates and compiles a grammar file, printing the versioned")
	w.Println("  language definition on success or the compilation error otherwise.")

	w.HelpSection("Examples:")
	w.HelpExample("treebank generate fixtures/grammars/json/grammar.json", "Compile the json grammar")
	w.Println("")
}

// printLanguagesUsage prints the help text for the languages command.
func printLanguagesUsage() {
	w := output.New()

	w.HelpTitle("treebank languages - list the shipped languages")

	w.HelpSection("Usage:")
	w.HelpUsage("treebank languages")
	w.Println("")
}
