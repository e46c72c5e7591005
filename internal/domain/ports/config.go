package ports

import (
	"context"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
)

// ConfigLoader defines the interface for loading configuration files
type ConfigLoader interface {
	// LoadGlobal loads the global configuration file; a missing file yields nil
	LoadGlobal(ctx context.Context) (*entities.Config, error)

	// LoadLocal loads versedeck.toml from the specified directory
	LoadLocal(ctx context.Context, dir string) (*entities.Config, error)

	// CreateDefaults writes a default configuration file at the specified path
	CreateDefaults(ctx context.Context, path string) error

	// GetGlobalPath returns the path to the global configuration file
	GetGlobalPath() string

	// GetLocalPath returns the path to the local configuration file for a directory
	GetLocalPath(dir string) string
}

// ConfigMerger defines the interface for merging configurations
type ConfigMerger interface {
	// Merge merges multiple configurations with later configs taking precedence
	Merge(configs ...*entities.Config) *entities.Config

	// ApplyFlags applies CLI flag overrides to a configuration
	ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config

	// ApplyEnvVars applies VERSEDECK_* environment overrides to a configuration
	ApplyEnvVars(config *entities.Config) *entities.Config
}

// ConfigService resolves the layered configuration
type ConfigService interface {
	// LoadConfig loads defaults, global and local files, environment and flags
	LoadConfig(ctx context.Context, workingDir string, flags map[string]interface{}) (*entities.Config, error)

	// Sources lists the layers applied by the last LoadConfig
	Sources() []string

	// GetDefaultConfig returns the built-in configuration
	GetDefaultConfig() *entities.Config

	// ValidateConfig validates a merged configuration
	ValidateConfig(config *entities.Config) error

	// InitFile writes the defaults to path, or to the global path when empty
	InitFile(ctx context.Context, path string) (string, error)
}
