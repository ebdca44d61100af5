package configs_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/tempo/api/v1beta1/configs"
	"github.com/macropower/tempo/pkg/config"
	"github.com/macropower/tempo/pkg/selector"
)

func TestNew(t *testing.T) {
	t.Parallel()

	cfg := configs.New()

	assert.Equal(t, "tempo.jacobcolvin.com/v1beta1", cfg.GetAPIVersion())
	assert.Equal(t, "Configuration", cfg.GetKind())
	assert.NotNil(t, cfg.UI)
	assert.Empty(t, cfg.Selectors)
	require.NoError(t, cfg.Validate())
}

func TestConfig_EnsureDefaults(t *testing.T) {
	t.Parallel()

	cfg := &configs.Config{}
	assert.Nil(t, cfg.UI)

	cfg.EnsureDefaults()
	require.NotNil(t, cfg.UI)
	assert.NotNil(t, cfg.UI.KeyBinds)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		selectors []*selector.Selector
		wantErr   string
	}{
		"valid selectors": {
			selectors: []*selector.Selector{{Match: `input.contains(":now")`, Profile: "time"}},
		},
		"missing profile": {
			selectors: []*selector.Selector{{Match: "true"}},
			wantErr:   "selectors[0]: selector missing a profile",
		},
		"bad expression": {
			selectors: []*selector.Selector{
				{Match: "true", Profile: "a"},
				{Match: "input +", Profile: "b"},
			},
			wantErr: "selectors[1]",
		},
		"non-boolean expression": {
			selectors: []*selector.Selector{{Match: "input", Profile: "a"}},
			wantErr:   selector.ErrNotBool.Error(),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := configs.New()
			cfg.Selectors = tc.selectors

			err := cfg.Validate()
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)

				return
			}

			require.NoError(t, err)
		})
	}
}

//nolint:paralleltest // We need to set environment variables.
func TestConfig_GetProfileDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")

	cfg := configs.New()
	assert.Equal(t, "/custom/data/tempo/profiles", cfg.GetProfileDir())

	cfg.ProfileDir = "/srv/profiles"
	assert.Equal(t, "/srv/profiles", cfg.GetProfileDir())
}

func TestConfig_Write(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		setupPath func(t *testing.T) string
		errMsg    string
		wantErr   bool
	}{
		"new file": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), "config.yaml")
			},
		},
		"existing file": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				path := filepath.Join(t.TempDir(), "config.yaml")
				err := os.WriteFile(path, []byte("existing"), 0o600)
				require.NoError(t, err)

				return path
			},
		},
		"creates parent directories": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), "subdir", "config.yaml")
			},
		},
		"path is directory": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				return t.TempDir()
			},
			wantErr: true,
			errMsg:  "path is a directory",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := tc.setupPath(t)

			err := configs.New().Write(path)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)

				return
			}

			require.NoError(t, err)
			assert.FileExists(t, path)
		})
	}
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	t.Run("new file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "config.yaml")
		require.NoError(t, configs.WriteDefault(path, false))

		got, err := os.ReadFile(path)
		require.NoError(t, err)

		want, err := os.ReadFile("config.yaml")
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))

		schema, err := os.ReadFile(configs.GetSchemaPath(path))
		require.NoError(t, err)
		assert.True(t, json.Valid(schema))
	})

	t.Run("existing file is kept", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("existing"), 0o600))

		require.NoError(t, configs.WriteDefault(path, false))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "existing", string(got))
	})

	t.Run("force creates backup", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("existing content"), 0o600))

		require.NoError(t, configs.WriteDefault(path, true))

		matches, err := filepath.Glob(filepath.Join(dir, "config.yaml.*.old"))
		require.NoError(t, err)
		require.Len(t, matches, 1)

		backup, err := os.ReadFile(matches[0])
		require.NoError(t, err)
		assert.Equal(t, "existing content", string(backup))
	})

	t.Run("path is directory", func(t *testing.T) {
		t.Parallel()

		err := configs.WriteDefault(t.TempDir(), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path is a directory")
	})
}

//nolint:paralleltest // We need to set environment variables.
func TestGetPath(t *testing.T) {
	tcs := map[string]struct {
		env  map[string]string
		want string
	}{
		"XDG_CONFIG_HOME is set": {
			env:  map[string]string{"XDG_CONFIG_HOME": "/custom/config"},
			want: "/custom/config/tempo/config.yaml",
		},
		"XDG_CONFIG_HOME is empty and HOME is set": {
			env:  map[string]string{"XDG_CONFIG_HOME": "", "HOME": "/test/home"},
			want: "/test/home/.config/tempo/config.yaml",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			got := configs.GetPath()
			assert.Equal(t, tc.want, got)
			assert.Equal(t, filepath.Join(filepath.Dir(tc.want), "config.v1beta1.json"), configs.GetSchemaPath(got))
		})
	}
}

func TestSchema(t *testing.T) {
	t.Parallel()

	b, err := configs.Schema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(b, &schema))

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)

	for _, key := range []string{"apiVersion", "kind", "profileDir", "defaultProfile", "selectors", "ui"} {
		assert.Contains(t, props, key)
	}
}

func TestDefaultConfigFullPipeline(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, configs.WriteDefault(path, false))

	v, err := configs.DefaultValidator()
	require.NoError(t, err)

	cl, err := config.NewLoaderFromFile(path, configs.New, v)
	require.NoError(t, err)

	cfg, err := cl.Load()
	require.NoError(t, err, "embedded default config should load without errors")
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "tempo.jacobcolvin.com/v1beta1", cfg.GetAPIVersion())
	assert.Equal(t, "Configuration", cfg.GetKind())
	require.NotEmpty(t, cfg.Selectors)
	assert.True(t, cfg.UI.KeyBinds.Toggle.Match(" "))

	// The embedded file spells out the built-in key binds.
	assert.Equal(t, configs.New().UI, cfg.UI)

	// Round trip through MarshalYAML.
	b, err := cfg.MarshalYAML()
	require.NoError(t, err)

	cfg2, err := config.NewLoaderFromBytes(b, configs.New, v).Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.GetKind(), cfg2.GetKind())
	assert.Len(t, cfg2.Selectors, len(cfg.Selectors))
	assert.Equal(t, cfg.UI, cfg2.UI)
}
