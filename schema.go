package sdkgate

import (
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// StructuredOutput asks the provider to shape its reply to a JSON schema.
type StructuredOutput struct {
	// Name identifies this output format
	Name string

	// Description explains the purpose and usage of this format
	Description string

	// Schema defines the JSON structure responses should follow
	Schema *jsonschema.Schema
}

// Structured Outputs uses a subset of JSON schema.
// These flags are necessary to comply with the subset.
var reflector = jsonschema.Reflector{
	AllowAdditionalProperties: false,
	DoNotReference:            true,
}

// SchemaFor derives a structured-output schema from a Go type.
func SchemaFor[T any]() *jsonschema.Schema {
	var v T
	schema := reflector.Reflect(v)
	schema.Version = ""
	return schema
}

// SchemaFromFields builds an object schema from field-name/type pairs,
// where the type is one of "string", "number", "integer", "boolean".
// Every field is required. Field order is preserved in the schema.
func SchemaFromFields(fields ...[2]string) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: orderedmap.New[string, *jsonschema.Schema](),
	}
	for _, field := range fields {
		schema.Properties.Set(field[0], &jsonschema.Schema{Type: field[1]})
		schema.Required = append(schema.Required, field[0])
	}
	return schema
}
