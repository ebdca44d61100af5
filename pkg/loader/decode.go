package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/macropower/tempo/pkg/profile"
	"github.com/macropower/tempo/pkg/yaml"
)

const schemaURL = "/profile.v1beta1.json"

// Validator validates the generic form of a decoded record.
type Validator interface {
	Validate(data any) error
}

// RecordValidator returns the validator for profile records, generated from
// [profile.Record].
var RecordValidator = sync.OnceValues(func() (*yaml.Validator, error) {
	return yaml.NewSchemaGenerator(&profile.Record{}).Validator(schemaURL)
})

// IsTOML reports whether path is decoded as TOML.
func IsTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// DecodeRecord decodes data as a profile record, choosing the format from
// the file extension of path, and validates it with v when v is not nil.
// Errors are returned as a [*FormatError].
func DecodeRecord(path string, data []byte, v Validator) (profile.Record, error) {
	var (
		rec     profile.Record
		generic any
		err     error
	)

	if IsTOML(path) {
		generic, err = decodeTOML(data, &rec)
	} else {
		generic, err = decodeYAML(data, &rec)
	}

	if err != nil {
		return profile.Record{}, newFormatError(path, data, err)
	}

	if v != nil {
		err = v.Validate(generic)
		if err != nil {
			return profile.Record{}, newFormatError(path, data, yaml.Wrap(err, yamlSource(path, data)))
		}
	}

	return rec, nil
}

func decodeYAML(data []byte, rec *profile.Record) (any, error) {
	var raw any

	err := yaml.Unmarshal(data, &raw)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(data, rec)
	if err != nil {
		return nil, err
	}

	return canonicalize(raw)
}

func decodeTOML(data []byte, rec *profile.Record) (any, error) {
	var raw map[string]any

	err := toml.Unmarshal(data, &raw)
	if err != nil {
		return nil, err //nolint:wrapcheck // Unwrapped by newFormatError.
	}

	err = toml.Unmarshal(data, rec)
	if err != nil {
		return nil, err //nolint:wrapcheck // Unwrapped by newFormatError.
	}

	return canonicalize(raw)
}

// canonicalize converts a decoded document into the JSON data model the
// schema validator expects.
func canonicalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("convert record: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var out any

	err = dec.Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("convert record: %w", err)
	}

	return out, nil
}

// yamlSource returns data when it can be used to resolve YAML paths.
func yamlSource(path string, data []byte) []byte {
	if IsTOML(path) {
		return nil
	}

	return data
}

func newFormatError(path string, data []byte, err error) *FormatError {
	fe := &FormatError{Path: path, Err: err}

	var (
		yamlErr *yaml.Error
		tomlErr *toml.DecodeError
	)

	switch {
	case errors.As(err, &yamlErr):
		if yamlErr.Source == nil {
			yamlErr.Source = yamlSource(path, data)
		}

		fe.Line, fe.Column = yamlErr.Position()

	case errors.As(err, &tomlErr):
		fe.Line, fe.Column = tomlErr.Position()
	}

	return fe
}
