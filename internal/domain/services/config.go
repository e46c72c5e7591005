package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
	"github.com/fredcamaral/versedeck/internal/domain/ports"
)

// ConfigService resolves the layered configuration:
// defaults, global file, local versedeck.toml, VERSEDECK_* environment and
// command-line flags, each layer overriding the previous one.
type ConfigService struct {
	loader  ports.ConfigLoader
	merger  ports.ConfigMerger
	sources []string
}

// NewConfigService creates a configuration service
func NewConfigService(loader ports.ConfigLoader, merger ports.ConfigMerger) *ConfigService {
	return &ConfigService{
		loader: loader,
		merger: merger,
	}
}

// fileLayer is one optional configuration file.
type fileLayer struct {
	path string
	load func() (*entities.Config, error)
}

// LoadConfig resolves the configuration for inputs located in dir.
func (s *ConfigService) LoadConfig(ctx context.Context, dir string, flags map[string]interface{}) (*entities.Config, error) {
	layers := []*entities.Config{s.GetDefaultConfig()}
	s.sources = []string{"defaults"}

	files := []struct {
		name string
		fileLayer
	}{
		{"global", fileLayer{s.loader.GetGlobalPath(), func() (*entities.Config, error) { return s.loader.LoadGlobal(ctx) }}},
		{"local", fileLayer{s.loader.GetLocalPath(dir), func() (*entities.Config, error) { return s.loader.LoadLocal(ctx, dir) }}},
	}

	for _, f := range files {
		cfg, err := f.load()
		if err != nil {
			return nil, fmt.Errorf("loading %s config: %w", f.name, err)
		}
		if cfg == nil {
			continue
		}
		layers = append(layers, cfg)
		s.sources = append(s.sources, f.path)
	}

	cfg := s.merger.ApplyFlags(s.merger.ApplyEnvVars(s.merger.Merge(layers...)), flags)

	if err := s.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("final config validation: %w", err)
	}

	return cfg, nil
}

// Sources returns the layers applied by the last LoadConfig: "defaults"
// followed by the paths of the files that were found.
func (s *ConfigService) Sources() []string {
	return append([]string(nil), s.sources...)
}

// GetDefaultConfig returns the built-in configuration
func (s *ConfigService) GetDefaultConfig() *entities.Config {
	// the merger owns the defaults; merging nothing yields them
	return s.merger.Merge()
}

// ValidateConfig validates a merged configuration
func (s *ConfigService) ValidateConfig(config *entities.Config) error {
	if config == nil {
		return errors.New("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return err
	}

	// layers may leave lists empty; the merged result must not
	if len(config.Variables.VersePrefixes) == 0 {
		return errors.New("variables config: at least one verse prefix is required")
	}

	return nil
}

// InitFile writes the default configuration to path, or to the global
// config path when path is empty, and returns the path written.
func (s *ConfigService) InitFile(ctx context.Context, path string) (string, error) {
	if path == "" {
		path = s.loader.GetGlobalPath()
	}
	if err := s.loader.CreateDefaults(ctx, path); err != nil {
		return "", err
	}
	return path, nil
}

// Ensure ConfigService implements ports.ConfigService
var _ ports.ConfigService = (*ConfigService)(nil)
