// Package yaml wraps [github.com/goccy/go-yaml] with positioned errors and
// JSON schema validation for tempo's configuration and profile files.
package yaml

import (
	"errors"
	"io"

	"github.com/goccy/go-yaml"
)

type Decoder struct {
	d *yaml.Decoder
}

// NewDecoder creates a [Decoder] reading from r. Unknown fields are ignored
// here; schema validation rejects them separately.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		d: yaml.NewDecoder(r, yaml.AllowDuplicateMapKey()),
	}
}

// Decode decodes the next document into v. Syntax and type errors are
// returned as an [*Error] carrying the offending token.
func (d *Decoder) Decode(v any) error {
	err := d.d.Decode(v)
	if err == nil {
		return nil
	}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		return NewError(errors.New(yamlErr.GetMessage()), WithToken(yamlErr.GetToken()))
	}

	//nolint:wrapcheck // Return the original error if it's not a [yaml.Error].
	return err
}

// Unmarshal decodes a single document from b into v.
func Unmarshal(b []byte, v any) error {
	err := yaml.Unmarshal(b, v)
	if err == nil {
		return nil
	}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		return NewError(errors.New(yamlErr.GetMessage()),
			WithToken(yamlErr.GetToken()),
			WithSource(b),
		)
	}

	//nolint:wrapcheck // Return the original error if it's not a [yaml.Error].
	return err
}
