package config

import (
	"fmt"
	"log/slog"

	"github.com/macropower/tempo/api/v1beta1/configs"
)

// LoadConfiguration loads and validates the [configs.Config] at path. When
// no file exists there, the default configuration is written first. If that
// fails, the built-in defaults are used.
func LoadConfiguration(path string) (*configs.Config, error) {
	err := configs.WriteDefault(path, false)
	if err != nil {
		slog.Warn("could not write default configuration, using defaults",
			slog.String("path", path),
			slog.Any("error", err),
		)

		return configs.New(), nil
	}

	v, err := configs.DefaultValidator()
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}

	l, err := NewLoaderFromFile(path, configs.New, v)
	if err != nil {
		return nil, fmt.Errorf("read configuration: %w", err)
	}

	cfg, err := l.Load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug("loaded configuration", slog.String("path", path))

	return cfg, nil
}
