// Package configs provides the Configuration type for tempo.
package configs

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/tempo/api"
	"github.com/macropower/tempo/api/v1beta1"
	"github.com/macropower/tempo/pkg/selector"
	"github.com/macropower/tempo/pkg/ui"
	"github.com/macropower/tempo/pkg/yaml"
)

// SchemaURL identifies the configuration schema.
const SchemaURL = "/configs.v1beta1.json"

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	// ValidKinds contains the valid kind values for configurations.
	ValidKinds = []string{"Configuration"}

	// ErrSelectorProfile is returned when a selector has no profile label.
	ErrSelectorProfile = errors.New("selector missing a profile")

	// Compile-time interface checks.
	_ v1beta1.Object = (*Config)(nil)
)

// Schema returns the JSON schema of [Config].
var Schema = sync.OnceValues(func() ([]byte, error) {
	return yaml.NewSchemaGenerator(&Config{}).Generate()
})

// DefaultValidator returns the validator for configuration files.
var DefaultValidator = sync.OnceValues(func() (*yaml.Validator, error) {
	b, err := Schema()
	if err != nil {
		return nil, err
	}

	return yaml.NewValidator(SchemaURL, b)
})

// Config represents the tempo configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	v1beta1.TypeMeta `json:",inline"`

	// UI configures the interactive UI.
	UI *ui.Config `json:"ui,omitempty" jsonschema:"title=UI"`
	// ProfileDir is the directory profiles are loaded from. Defaults to
	// $XDG_DATA_HOME/tempo/profiles.
	ProfileDir string `json:"profileDir,omitempty" jsonschema:"title=Profile Directory"`
	// DefaultProfile is used when neither the command line nor a selector
	// names a profile.
	DefaultProfile string `json:"defaultProfile,omitempty" jsonschema:"title=Default Profile"`
	// Selectors choose a profile from the input. The first match wins.
	Selectors []*selector.Selector `json:"selectors,omitempty" jsonschema:"title=Selectors"`
}

// New creates a new [Config] with default values.
func New() *Config {
	c := &Config{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       "Configuration",
		},
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.UI == nil {
		c.UI = ui.NewConfig()
	} else {
		c.UI.EnsureDefaults()
	}
}

// Validate compiles the selectors and checks the key binds.
func (c *Config) Validate() error {
	for i, s := range c.Selectors {
		if s.Profile == "" {
			return fmt.Errorf("selectors[%d]: %w", i, ErrSelectorProfile)
		}
	}

	_, err := selector.NewSet(c.Selectors...)
	if err != nil {
		return fmt.Errorf("validate selectors: %w", err)
	}

	if c.UI != nil {
		err = c.UI.Validate()
		if err != nil {
			return fmt.Errorf("validate ui config: %w", err)
		}
	}

	return nil
}

// SelectorSet compiles the selectors into a [selector.Set].
func (c *Config) SelectorSet() (*selector.Set, error) {
	set, err := selector.NewSet(c.Selectors...)
	if err != nil {
		return nil, fmt.Errorf("compile selectors: %w", err)
	}

	return set, nil
}

// GetProfileDir returns ProfileDir, or the default profile directory when
// it is unset.
func (c *Config) GetProfileDir() string {
	if c.ProfileDir != "" {
		return c.ProfileDir
	}

	return api.GetDataPath("profiles")
}

// JSONSchemaExtend pins the document header to tempo's Configuration kind.
func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ConstrainTypeMeta(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := api.MarshalYAML(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// Write writes the config to the specified path if it doesn't already exist.
func (c Config) Write(path string) error {
	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = api.WriteIfNotExists(path, b)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// WriteDefault writes the embedded default config.yaml to the specified
// path, and its JSON schema next to it. Existing files are replaced only when
// force is set.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML, force, "configuration")
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	schema, err := Schema()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}

	err = api.WriteDefaultFile(GetSchemaPath(path), schema, force, "schema")
	if err != nil {
		return fmt.Errorf("write schema: %w", err)
	}

	return nil
}

// GetPath returns the path to the configuration file.
func GetPath() string {
	return api.GetConfigPath("config.yaml")
}

// GetSchemaPath returns the path of the schema written next to the
// configuration file at path.
func GetSchemaPath(path string) string {
	return filepath.Join(filepath.Dir(path), "config.v1beta1.json")
}
