// Package api holds the file conventions shared by tempo's configuration
// kinds: where they live on disk and how they are read and written.
package api

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/macropower/tempo/pkg/yaml"
)

// AppName names tempo's directories under the XDG base directories.
const AppName = "tempo"

var (
	ErrIsDirectory  = errors.New("path is a directory")
	ErrUnknownState = errors.New("unknown file state")
)

// GetConfigPath returns the path of filename in tempo's config directory:
// $XDG_CONFIG_HOME/tempo, then ~/.config/tempo, then a temp directory.
func GetConfigPath(filename string) string {
	return xdgPath("XDG_CONFIG_HOME", ".config", filename)
}

// GetDataPath returns the path of name in tempo's data directory:
// $XDG_DATA_HOME/tempo, then ~/.local/share/tempo, then a temp directory.
// An empty name returns the directory itself.
func GetDataPath(name string) string {
	return xdgPath("XDG_DATA_HOME", filepath.Join(".local", "share"), name)
}

func xdgPath(env, homeDir, name string) string {
	if xdgHome, ok := os.LookupEnv(env); ok && xdgHome != "" {
		return filepath.Join(xdgHome, AppName, name)
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, homeDir, AppName, name)
	}

	tmpPath := filepath.Join(os.TempDir(), AppName, name)

	slog.Warn("could not determine user directory, using temp path",
		slog.String("env", env),
		slog.String("path", tmpPath),
		slog.Any("error", err),
	)

	return tmpPath
}

// ReadFile reads a regular file.
func ReadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownState)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// MarshalYAML serializes an object to YAML bytes.
func MarshalYAML(obj any) ([]byte, error) {
	b, err := yaml.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b, nil
}

// fileExists reports whether path is a regular file. Directories and other
// non-regular files are errors.
func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat file: %w", err)
	case info.IsDir():
		return false, fmt.Errorf("%s: %w", path, ErrIsDirectory)
	case !info.Mode().IsRegular():
		return false, fmt.Errorf("%s: %w", path, ErrUnknownState)
	}

	return true, nil
}

// WriteIfNotExists writes data to path unless a file is already there.
func WriteIfNotExists(path string, data []byte) error {
	exists, err := fileExists(path)
	if err != nil || exists {
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// WriteDefaultFile writes defaultData to path. An existing file is kept,
// unless force is set, in which case it is renamed to a timestamped backup
// first.
func WriteDefaultFile(path string, defaultData []byte, force bool, kind string) error {
	exists, err := fileExists(path)
	if err != nil {
		return err
	}

	if exists && !force {
		slog.Debug("file already exists, skipping write",
			slog.String("type", kind),
			slog.String("path", path),
		)

		return nil
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if exists {
		backupPath := fmt.Sprintf("%s.%d.old", path, time.Now().UnixNano())
		slog.Info("backing up existing file",
			slog.String("type", kind),
			slog.String("path", backupPath),
		)

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("back up %s file: %w", kind, err)
		}
	}

	slog.Info("write default file",
		slog.String("type", kind),
		slog.String("path", path),
	)

	err = os.WriteFile(path, defaultData, 0o600)
	if err != nil {
		return fmt.Errorf("write %s file: %w", kind, err)
	}

	return nil
}
