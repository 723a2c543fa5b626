// Package schema provides JSON schema validation for treebank grammar files.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "github.com/AndreyAkinshin/treebank/schema"
)

var (
	grammarSchema *jsonschema.Schema
	compileOnce   sync.Once
	compileErr    error
)

// compileSchemas compiles all embedded schemas once.
func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		grammarData, err := schemafs.FS.ReadFile("grammar.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("read grammar schema: %w", err)
			return
		}

		grammarDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(grammarData))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal grammar schema: %w", err)
			return
		}

		if err := compiler.AddResource("grammar.schema.json", grammarDoc); err != nil {
			compileErr = fmt.Errorf("add grammar schema resource: %w", err)
			return
		}

		grammarSchema, err = compiler.Compile("grammar.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile grammar schema: %w", err)
			return
		}
	})

	return compileErr
}

// ValidateGrammar validates JSON data against the grammar schema.
func ValidateGrammar(data []byte) error {
	if err := compileSchemas(); err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := grammarSchema.Validate(v); err != nil {
		return fmt.Errorf("grammar validation failed: %w", err)
	}

	return nil
}
