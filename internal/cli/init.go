package cli

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/treebank/internal/errors"
	"github.com/AndreyAkinshin/treebank/internal/fixtures"
	"github.com/AndreyAkinshin/treebank/internal/output"
)

// scaffoldFS contains the starter fixture tree written by init: the four
// shipped grammars with small corpora, one error-recovery corpus, and one
// conformance grammar.
//
//go:embed scaffold
var scaffoldFS embed.FS

// scaffoldRoot is the directory prefix inside scaffoldFS.
const scaffoldRoot = "scaffold"

// cmdInit scaffolds a fixture tree in the target directory.
// This command is idempotent - it only creates files that don't exist.
func cmdInit(args []string) int {
	if wantsHelp(args) {
		printInitUsage()
		return 0
	}

	dir := ""
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			out.ErrorPrefix("init: unknown option %q", arg)
			return errors.ExitSetupError
		}
		if dir != "" {
			out.ErrorPrefix("init: unexpected argument %q", arg)
			return errors.ExitSetupError
		}
		dir = arg
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			out.ErrorPrefix("%v", err)
			return errors.ExitSetupError
		}
		dir = cwd
	}

	// A fixtures/grammars directory marks an already-initialized tree.
	marker := filepath.Join(dir, fixtures.FixturesDirName, fixtures.GrammarsDirName)
	_, statErr := os.Stat(marker)
	isNew := os.IsNotExist(statErr)

	created, err := writeScaffold(dir)
	if err != nil {
		out.ErrorPrefix("init: %v", err)
		return errors.ExitSetupError
	}

	updateGitignore(dir)

	out.Println("")
	if isNew {
		out.Success("Initialized treebank fixtures in %s", dir)
	} else if len(created) > 0 {
		out.Success("Updated treebank fixtures")
	} else {
		out.Info("Fixtures already initialized (nothing to do)")
	}

	if len(created) > 0 {
		out.HelpSection("Created:")
		for _, f := range created {
			out.Println("  - %s", f)
		}
	}

	if isNew {
		printNextSteps(out)
	}
	return errors.ExitSuccess
}

// writeScaffold copies the embedded fixture tree into dir, skipping any
// file that already exists, and returns the paths it created.
func writeScaffold(dir string) ([]string, error) {
	var created []string
	err := fs.WalkDir(scaffoldFS, scaffoldRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := strings.TrimPrefix(path, scaffoldRoot+"/")
		target := filepath.Join(dir, filepath.FromSlash(rel))
		if _, err := os.Stat(target); err == nil {
			return nil
		}
		data, err := scaffoldFS.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return err
		}
		created = append(created, rel)
		return nil
	})
	return created, err
}

// updateGitignore adds Treebank entries to .gitignore.
func updateGitignore(root string) {
	gitignorePath := filepath.Join(root, ".gitignore")

	// Treebank gitignore entries
	entries := []string{
		"# Treebank",
		defaultGraphLogName,
	}

	existingContent := ""
	if data, err := os.ReadFile(gitignorePath); err == nil {
		existingContent = string(data)
	}

	// Check if already contains Treebank entries
	if strings.Contains(existingContent, "# Treebank") {
		return
	}

	// Append entries
	var content strings.Builder
	if existingContent != "" {
		content.WriteString(existingContent)
		if !strings.HasSuffix(existingContent, "\n") {
			content.WriteString("\n")
		}
		content.WriteString("\n")
	}

	for _, entry := range entries {
		content.WriteString(entry)
		content.WriteString("\n")
	}

	if err := os.WriteFile(gitignorePath, []byte(content.String()), 0644); err != nil {
		out.Warning("could not update .gitignore: %v", err)
	}
}

// printNextSteps prints helpful guidance after initialization.
func printNextSteps(w *output.Writer) {
	w.HelpSection("Next steps:")
	w.Println("  1. Run 'treebank all' to execute every corpus suite")
	w.Println("  2. Add examples under fixtures/grammars/<language>/corpus/")
	w.Println("  3. Add conformance grammars under fixtures/test_grammars/")
	w.Println("")
}

// printInitUsage prints the help text for the init command.
func printInitUsage() {
	w := output.New()

	w.HelpTitle("treebank init - scaffold a fixture tree")

	w.HelpSection("Usage:")
	w.HelpUsage("treebank init [dir]")

	w.HelpSection("Description:")
	w.Println("  Creates a starter fixture tree: the shipped grammars with a small")
	w.Println("  corpus each, an error-recovery corpus, and one conformance grammar.")
	w.Println("  Existing files are never overwritten.")

	w.HelpSection("Examples:")
	w.HelpExample("treebank init", "Scaffold into the current directory")
	w.HelpExample("treebank init ./playground", "Scaffold into ./playground")
	w.Println("")
}
