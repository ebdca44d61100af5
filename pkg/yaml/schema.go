package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator reflects a JSON schema from a Go value, using
// [github.com/invopop/jsonschema]. The value's json and jsonschema struct
// tags drive the result.
type SchemaGenerator struct {
	v         any
	reflector *jsonschema.Reflector
}

func NewSchemaGenerator(v any) *SchemaGenerator {
	return &SchemaGenerator{
		v: v,
		reflector: &jsonschema.Reflector{
			Anonymous:      true,
			DoNotReference: true,
		},
	}
}

// Generate returns the indented JSON schema.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	jss := g.reflector.Reflect(g.v)

	b, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return b, nil
}

// Validator generates the schema and compiles it into a [Validator].
func (g *SchemaGenerator) Validator(url string) (*Validator, error) {
	b, err := g.Generate()
	if err != nil {
		return nil, err
	}

	return NewValidator(url, b)
}
