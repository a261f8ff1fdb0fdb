package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile returns ~/.config/appimage-installer/config.yaml.
func DefaultConfigFile() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("could not get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "appimage-installer", "config.yaml"), nil
}

// Default returns the settings used when no config file overrides them.
func Default() (Settings, error) {
	home, err := homedir.Dir()
	if err != nil {
		return Settings{}, fmt.Errorf("could not get home directory: %w", err)
	}
	return Settings{
		InstallDir:      filepath.Join(home, ".local", "bin"),
		ApplicationsDir: filepath.Join(home, ".local", "share", "applications"),
		IconsDir:        filepath.Join(home, ".local", "share", "icons"),
		StateFile:       filepath.Join(home, ".local", "share", "appimage-installer", "state.json"),
		ExtractFlag:     DefaultExtractFlag,
		ExtractRoot:     DefaultExtractRoot,
		RemoveCommand:   DefaultRemoveCommand,
	}, nil
}

// Load overlays the YAML file at path on top of Default().
// When required is false a missing file is not an error, which is how the
// default config location is treated.
func Load(path string, required bool) (Settings, error) {
	st, err := Default()
	if err != nil {
		return Settings{}, err
	}
	if path == "" {
		return st, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return st, nil
		}
		return Settings{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Unmarshal into the defaults so absent keys keep their default value
	if err := yaml.Unmarshal(raw, &st); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}
	if err := st.expand(); err != nil {
		return Settings{}, err
	}
	return st, nil
}

// expand resolves ~ in every path and restores empty command settings.
func (s *Settings) expand() error {
	for _, p := range []*string{&s.InstallDir, &s.ApplicationsDir, &s.IconsDir, &s.StateFile, &s.TempDir} {
		expanded, err := ExpandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	if s.ExtractFlag == "" {
		s.ExtractFlag = DefaultExtractFlag
	}
	if s.ExtractRoot == "" {
		s.ExtractRoot = DefaultExtractRoot
	}
	if s.RemoveCommand == "" {
		s.RemoveCommand = DefaultRemoveCommand
	}
	return nil
}

// ExpandPath expands a leading ~ and makes the result absolute.
// An empty path stays empty.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("could not expand %s: %w", path, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("could not resolve %s: %w", path, err)
	}
	return abs, nil
}
