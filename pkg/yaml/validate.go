package yaml

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator validates decoded documents against a JSON schema, using
// [github.com/santhosh-tekuri/jsonschema/v6].
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaData, registered under url.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	var schema any

	err := json.Unmarshal(schemaData, &schema)
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()

	err = compiler.AddResource(url, schema)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	jss, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: jss}, nil
}

func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate validates data, which must be the generic form of a document
// (maps, slices and scalars). Failures are returned as an [*Error] whose
// path points at the most specific failing value.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	return &Error{
		Err:  validationErr,
		Path: buildPathFromLocation(findMostSpecificLocation(validationErr)),
	}
}

// ValidateBytes decodes source as YAML and validates it. Returned [*Error]s
// carry source, so their position can be resolved.
func (v *Validator) ValidateBytes(source []byte) error {
	var data any

	err := Unmarshal(source, &data)
	if err != nil {
		return err
	}

	return Wrap(v.Validate(normalize(data)), source)
}

func findMostSpecificLocation(err *jsonschema.ValidationError) []string {
	longest := err.InstanceLocation

	for _, cause := range err.Causes {
		if loc := findMostSpecificLocation(cause); len(loc) > len(longest) {
			longest = loc
		}
	}

	return longest
}

func buildPathFromLocation(location []string) *yaml.Path {
	current := NewPathBuilder().Root()

	for _, part := range location {
		index, err := strconv.ParseUint(part, 10, 0)
		if err == nil {
			current = current.Index(uint(index))
		} else {
			current = current.Child(part)
		}
	}

	return current.Build()
}

// normalize converts goccy's decoded values into the types the validator
// understands.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}

		return t

	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}

		return m

	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}

		return t

	case uint64:
		return json.Number(strconv.FormatUint(t, 10))

	case int64:
		return json.Number(strconv.FormatInt(t, 10))

	case int:
		return json.Number(strconv.Itoa(t))

	case float64:
		return json.Number(strconv.FormatFloat(t, 'g', -1, 64))
	}

	return v
}
