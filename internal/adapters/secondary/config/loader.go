package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
	"github.com/fredcamaral/versedeck/internal/domain/ports"
)

// TOMLLoader reads versedeck settings from ~/.config/versedeck/config.toml
// and from a versedeck.toml beside the input document.
type TOMLLoader struct {
	globalPath string
	localName  string
}

// NewTOMLLoader returns a loader rooted at the user's home directory.
func NewTOMLLoader() *TOMLLoader {
	homeDir, _ := os.UserHomeDir()
	globalPath := filepath.Join(homeDir, ".config", "versedeck", "config.toml")

	return &TOMLLoader{
		globalPath: globalPath,
		localName:  "versedeck.toml",
	}
}

// NewTOMLLoaderWithPath overrides the user-level file, as --config does.
func NewTOMLLoaderWithPath(globalPath string) *TOMLLoader {
	l := NewTOMLLoader()
	l.globalPath = globalPath
	return l
}

// LoadGlobal reads the user-level file. A missing file yields nil.
func (l *TOMLLoader) LoadGlobal(ctx context.Context) (*entities.Config, error) {
	if _, err := os.Stat(l.globalPath); os.IsNotExist(err) {
		return nil, nil // Global config is optional; `config init` writes it
	}

	return l.loadConfig(l.globalPath)
}

// LoadLocal reads versedeck.toml from dir. A missing file yields nil.
func (l *TOMLLoader) LoadLocal(ctx context.Context, dir string) (*entities.Config, error) {
	localPath := filepath.Join(dir, l.localName)

	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		return nil, nil // Local config is optional
	}

	return l.loadConfig(localPath)
}

// CreateDefaults writes the built-in slot offsets, variable keys and verse
// settings to path.
func (l *TOMLLoader) CreateDefaults(ctx context.Context, path string) error {
	if err := l.ensureConfigDir(path); err != nil {
		return err
	}

	defaults := GetDefaultConfig()

	file, err := os.Create(path) // #nosec G304 - path is chosen by the user running `config init`
	if err != nil {
		return fmt.Errorf("creating config file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	encoder := toml.NewEncoder(file)
	encoder.Indent = "  "

	if err := encoder.Encode(defaults); err != nil {
		return fmt.Errorf("encoding config to %s: %w", path, err)
	}

	return nil
}

// GetGlobalPath reports the user-level file location.
func (l *TOMLLoader) GetGlobalPath() string {
	return l.globalPath
}

func (l *TOMLLoader) GetLocalPath(dir string) string {
	return filepath.Join(dir, l.localName)
}

// loadConfig decodes path strictly; unknown keys are errors.
func (l *TOMLLoader) loadConfig(path string) (*entities.Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is from controlled sources (global/local config)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var config entities.Config
	meta, err := toml.Decode(string(data), &config)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML from %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}

	return &config, nil
}

func (l *TOMLLoader) ensureConfigDir(path string) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	return nil
}

var _ ports.ConfigLoader = (*TOMLLoader)(nil)
