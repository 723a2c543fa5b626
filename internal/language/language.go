// Package language is the registry of prebuilt languages: the fixed,
// ordered set of grammars the corpus drivers run against.
package language

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/treebank/internal/errors"
	"github.com/AndreyAkinshin/treebank/internal/fixtures"
	"github.com/AndreyAkinshin/treebank/internal/generate"
	"github.com/AndreyAkinshin/treebank/internal/syntax"
)

//go:embed languages.yml
var manifestYAML []byte

type manifestEntry struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
}

// Registry resolves prebuilt languages by name. A language compiles on
// first use and stays cached for the rest of the process.
type Registry struct {
	layout fixtures.Layout
	names  []string
	titles map[string]string
	cache  map[string]*syntax.Language
}

// NewRegistry loads the embedded manifest against one fixture layout.
func NewRegistry(layout fixtures.Layout) (*Registry, error) {
	var entries []manifestEntry
	if err := yaml.Unmarshal(manifestYAML, &entries); err != nil {
		return nil, errors.Setupf("cannot parse language manifest: %v", err)
	}

	r := &Registry{
		layout: layout,
		titles: make(map[string]string, len(entries)),
		cache:  make(map[string]*syntax.Language),
	}
	for _, e := range entries {
		if e.Name == "" {
			return nil, errors.Setup("language manifest entry has no name")
		}
		if _, dup := r.titles[e.Name]; dup {
			return nil, errors.Setupf("duplicate language '%s' in manifest", e.Name)
		}
		r.names = append(r.names, e.Name)
		r.titles[e.Name] = e.Title
	}
	return r, nil
}

// Names returns the manifest languages in manifest order.
func (r *Registry) Names() []string {
	return r.names
}

// Has reports whether name is in the manifest.
func (r *Registry) Has(name string) bool {
	_, ok := r.titles[name]
	return ok
}

// Title returns the display title of a language, falling back to the
// name itself when the manifest has none.
func (r *Registry) Title(name string) string {
	if title := r.titles[name]; title != "" {
		return title
	}
	return name
}

// Get returns the compiled language, compiling its grammar fixture on
// first use. An unknown name or a grammar that fails to compile is a
// setup error.
func (r *Registry) Get(name string) (*syntax.Language, error) {
	if lang, ok := r.cache[name]; ok {
		return lang, nil
	}
	if !r.Has(name) {
		return nil, errors.Setupf("unknown language '%s'", name)
	}
	lang, err := CompileFile(name, r.layout.GrammarPath(name))
	if err != nil {
		return nil, err
	}
	r.cache[name] = lang
	return lang, nil
}

// CompileFile builds a language named name from one grammar file.
func CompileFile(name, path string) (*syntax.Language, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Setupf("cannot read grammar for language '%s': %v", name, err)
	}
	source, err := generate.ParserForGrammar(string(data))
	if err != nil {
		return nil, errors.Setupf("cannot compile grammar for language '%s': %v", name, err)
	}
	lang, err := syntax.FromSource(name, source)
	if err != nil {
		return nil, errors.Setupf("cannot load language '%s': %v", name, err)
	}
	return lang, nil
}
