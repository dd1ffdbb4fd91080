package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	rosterSchemaOnce sync.Once
	rosterSchema     *jsonschema.Schema
	rosterSchemaErr  error
)

// CompileSchema compiles schemaMap with the draft 2020-12 compiler.
func CompileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	schema, err := CompileSchema(schemaMap)
	if err != nil {
		return err
	}
	v, err := decodeJSON(data)
	if err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	return validateValue(schema, v)
}

// ValidateRoster validates an already decoded reply against the roster schema.
func ValidateRoster(v any) error {
	rosterSchemaOnce.Do(func() {
		rosterSchema, rosterSchemaErr = CompileSchema(BuildRosterJSONSchema())
	})
	if rosterSchemaErr != nil {
		return rosterSchemaErr
	}
	return validateValue(rosterSchema, v)
}

func validateValue(schema *jsonschema.Schema, v any) error {
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// decodeJSON keeps numbers as json.Number so a clock like 021646 or 21646 is not reformatted.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}
