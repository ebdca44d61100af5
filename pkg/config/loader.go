package config

import (
	"bytes"
	"fmt"

	"github.com/macropower/tempo/api"
	"github.com/macropower/tempo/api/v1beta1"
	"github.com/macropower/tempo/pkg/yaml"
)

// Validator validates raw configuration data against a schema.
type Validator interface {
	ValidateBytes(source []byte) error
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*loaderOptions)

type loaderOptions struct {
	validator Validator
}

// WithValidator sets a custom validator. A nil validator disables schema
// validation.
func WithValidator(v Validator) LoaderOpt {
	return func(o *loaderOptions) {
		o.validator = v
	}
}

// Loader is a generic configuration loader that handles validation and
// YAML parsing for any config type T.
type Loader[T v1beta1.Object] struct {
	validator Validator
	newFunc   func() T
	data      []byte
}

// NewLoaderFromBytes creates a [Loader] from byte data.
// The newFunc parameter is the constructor for type T (e.g., configs.New).
func NewLoaderFromBytes[T v1beta1.Object](
	data []byte,
	newFunc func() T,
	defaultValidator Validator,
	opts ...LoaderOpt,
) *Loader[T] {
	options := &loaderOptions{
		validator: defaultValidator,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Loader[T]{
		data:      data,
		newFunc:   newFunc,
		validator: options.validator,
	}
}

// NewLoaderFromFile creates a [Loader] from a file path.
func NewLoaderFromFile[T v1beta1.Object](
	path string,
	newFunc func() T,
	defaultValidator Validator,
	opts ...LoaderOpt,
) (*Loader[T], error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // Return the original error.
	}

	return NewLoaderFromBytes(data, newFunc, defaultValidator, opts...), nil
}

// Validate validates the configuration data against the schema.
func (l *Loader[T]) Validate() error {
	if l.validator == nil {
		return nil
	}

	err := l.validator.ValidateBytes(l.data)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	return nil
}

// Load validates, parses and returns the configuration.
//
//nolint:ireturn // Generic type parameter return is intentional.
func (l *Loader[T]) Load() (T, error) {
	var zero T

	err := l.Validate()
	if err != nil {
		return zero, err
	}

	cfg := l.newFunc()

	err = yaml.NewDecoder(bytes.NewReader(l.data)).Decode(cfg)
	if err != nil {
		return zero, fmt.Errorf("decode config: %w", yaml.Wrap(err, l.data))
	}

	cfg.EnsureDefaults()

	return cfg, nil
}

// Source returns the raw configuration data.
func (l *Loader[T]) Source() []byte {
	return l.data
}
