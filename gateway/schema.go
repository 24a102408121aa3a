package gateway

import (
	"fmt"

	"github.com/kaptinlin/jsonschema"
)

// profileEnvelopeSchema accepts {"data": {"username": "<non-empty>", ...}}.
const profileEnvelopeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["data"],
  "properties": {
    "data": {
      "type": "object",
      "required": ["username"],
      "properties": {
        "username": {"type": "string", "minLength": 1},
        "expires_at": {"type": "string"}
      }
    }
  }
}`

func compileSchema(src string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func validateJSON(schema *jsonschema.Schema, data []byte) error {
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("schema validation failed: %v", result.Errors)
}
