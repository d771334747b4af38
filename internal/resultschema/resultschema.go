// Package resultschema validates outline JSON against the published result
// schema. The server checks its own responses in tests and the CLI checks
// what it receives from a server.
package resultschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jackzampolin/docustruct/internal/outline"
)

//go:embed result.schema.json
var schemaJSON []byte

const schemaURL = "result.schema.json"

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to load result schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile result schema: %w", err)
	}
	return schema, nil
})

// Schema returns the raw JSON Schema document.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// Validate checks raw JSON against the result schema.
func Validate(data []byte) error {
	schema, err := compiled()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode result JSON for validation: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("result does not match schema: %w", err)
	}
	return nil
}

// ValidateResult marshals r and validates it.
func ValidateResult(r *outline.Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return Validate(data)
}
