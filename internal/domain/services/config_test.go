package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/versedeck/internal/adapters/secondary/config"
	"github.com/fredcamaral/versedeck/internal/domain/entities"
)

// stubLoader serves fixed layers in place of TOML files.
type stubLoader struct {
	global    *entities.Config
	local     *entities.Config
	globalErr error
	localErr  error
	created   []string
}

func (l *stubLoader) LoadGlobal(context.Context) (*entities.Config, error) {
	return l.global, l.globalErr
}

func (l *stubLoader) LoadLocal(context.Context, string) (*entities.Config, error) {
	return l.local, l.localErr
}

func (l *stubLoader) CreateDefaults(_ context.Context, path string) error {
	l.created = append(l.created, path)
	return nil
}

func (l *stubLoader) GetGlobalPath() string { return "/home/user/.config/versedeck/config.toml" }

func (l *stubLoader) GetLocalPath(dir string) string { return dir + "/versedeck.toml" }

func newConfigService(l *stubLoader) *ConfigService {
	return NewConfigService(l, config.NewConfigMerger())
}

func TestConfigService_Precedence(t *testing.T) {
	global := &entities.Config{Template: entities.TemplateConfig{Tolerance: 0.2}}
	local := &entities.Config{Template: entities.TemplateConfig{Tolerance: 0.3}}

	tests := []struct {
		name  string
		local *entities.Config
		env   string
		flags map[string]interface{}
		want  float64
	}{
		{name: "global over defaults", want: 0.2},
		{name: "local over global", local: local, want: 0.3},
		{name: "environment over local", local: local, env: "0.4", want: 0.4},
		{name: "flag over environment", local: local, env: "0.4", flags: map[string]interface{}{"tolerance": 0.5}, want: 0.5},
		{name: "zero flag keeps lower layers", local: local, flags: map[string]interface{}{"tolerance": 0.0}, want: 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("VERSEDECK_TOLERANCE", tt.env)

			svc := newConfigService(&stubLoader{global: global, local: tt.local})
			cfg, err := svc.LoadConfig(context.Background(), "/sermons", tt.flags)

			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Template.Tolerance)
		})
	}
}

func TestConfigService_LoadConfig(t *testing.T) {
	t.Run("defaults only", func(t *testing.T) {
		svc := newConfigService(&stubLoader{})

		cfg, err := svc.LoadConfig(context.Background(), "/sermons", nil)
		require.NoError(t, err)

		assert.Equal(t, config.GetDefaultConfig(), cfg)
		assert.Equal(t, []string{"defaults"}, svc.Sources())
	})

	t.Run("records the files applied", func(t *testing.T) {
		svc := newConfigService(&stubLoader{
			global: &entities.Config{},
			local:  &entities.Config{Verse: entities.VerseConfig{RefStyle: entities.RefStyleBracket}},
		})

		cfg, err := svc.LoadConfig(context.Background(), "/sermons", nil)
		require.NoError(t, err)

		assert.Equal(t, entities.RefStyleBracket, cfg.Verse.RefStyle)
		assert.Equal(t, []string{
			"defaults",
			"/home/user/.config/versedeck/config.toml",
			"/sermons/versedeck.toml",
		}, svc.Sources())
	})

	t.Run("verbose flag switches to debug", func(t *testing.T) {
		svc := newConfigService(&stubLoader{})

		cfg, err := svc.LoadConfig(context.Background(), "/sermons", map[string]interface{}{"verbose": true})
		require.NoError(t, err)
		assert.Equal(t, entities.LogLevelDebug, cfg.Logging.GetLevel())
	})

	t.Run("loader errors name the layer", func(t *testing.T) {
		boom := errors.New("permission denied")

		_, err := newConfigService(&stubLoader{globalErr: boom}).LoadConfig(context.Background(), "/sermons", nil)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "loading global config")

		_, err = newConfigService(&stubLoader{localErr: boom}).LoadConfig(context.Background(), "/sermons", nil)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "loading local config")
	})

	t.Run("invalid merged result", func(t *testing.T) {
		svc := newConfigService(&stubLoader{
			local: &entities.Config{Verse: entities.VerseConfig{RefStyle: "short"}},
		})

		_, err := svc.LoadConfig(context.Background(), "/sermons", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "final config validation")
	})

	t.Run("invalid environment value", func(t *testing.T) {
		t.Setenv("VERSEDECK_REF_COLOR", "blue")

		_, err := newConfigService(&stubLoader{}).LoadConfig(context.Background(), "/sermons", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ref color")
	})
}

func TestConfigService_ValidateConfig(t *testing.T) {
	svc := newConfigService(&stubLoader{})

	assert.NoError(t, svc.ValidateConfig(svc.GetDefaultConfig()))

	err := svc.ValidateConfig(nil)
	assert.EqualError(t, err, "config cannot be nil")

	noPrefix := svc.GetDefaultConfig()
	noPrefix.Variables.VersePrefixes = nil
	err = svc.ValidateConfig(noPrefix)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verse prefix")
}

func TestConfigService_InitFile(t *testing.T) {
	loader := &stubLoader{}
	svc := newConfigService(loader)

	path, err := svc.InitFile(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, loader.GetGlobalPath(), path)

	path, err = svc.InitFile(context.Background(), "./versedeck.toml")
	require.NoError(t, err)
	assert.Equal(t, "./versedeck.toml", path)

	assert.Equal(t, []string{loader.GetGlobalPath(), "./versedeck.toml"}, loader.created)
}
