package client

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const propertyViewSchema = "schemas/property-view.json"

var compileViewSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	raw, err := schemaFS.ReadFile(propertyViewSchema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(propertyViewSchema, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", propertyViewSchema, err)
	}
	return compiler.Compile(propertyViewSchema)
})

// ValidateView checks one raw property view against the client contract.
func ValidateView(raw []byte) error {
	schema, err := compileViewSchema()
	if err != nil {
		return fmt.Errorf("compile view schema: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("property view is not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("property view schema validation failed: %w", err)
	}
	return nil
}
