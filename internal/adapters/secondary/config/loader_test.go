package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
)

func TestTOMLLoader_LoadGlobal(t *testing.T) {
	t.Run("missing global config yields nil", func(t *testing.T) {
		loader := NewTOMLLoaderWithPath(filepath.Join(t.TempDir(), "config.toml"))

		config, err := loader.LoadGlobal(context.Background())
		require.NoError(t, err)
		assert.Nil(t, config)
	})

	t.Run("loads existing config", func(t *testing.T) {
		globalPath := filepath.Join(t.TempDir(), "config.toml")

		configContent := `
[template]
tolerance = 0.2

[[template.roles.cover.slots]]
name = "date_line"
top = 1.5

[variables]
verse_prefixes = ["v"]

[verse]
ref_style = "bracket"

[logging]
level = "debug"
`
		require.NoError(t, os.WriteFile(globalPath, []byte(configContent), 0644))

		config, err := NewTOMLLoaderWithPath(globalPath).LoadGlobal(context.Background())
		require.NoError(t, err)
		require.NotNil(t, config)

		assert.Equal(t, 0.2, config.Template.Tolerance)
		require.Len(t, config.Template.Roles.Cover.Slots, 1)
		assert.Equal(t, "date_line", config.Template.Roles.Cover.Slots[0].Name)
		require.NotNil(t, config.Template.Roles.Cover.Slots[0].Top)
		assert.Equal(t, 1.5, *config.Template.Roles.Cover.Slots[0].Top)
		assert.Equal(t, []string{"v"}, config.Variables.VersePrefixes)
		assert.Equal(t, entities.RefStyleBracket, config.Verse.RefStyle)
		assert.Equal(t, "debug", config.Logging.Level)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		globalPath := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(globalPath, []byte("[server]\nport = 8080\n"), 0644))

		_, err := NewTOMLLoaderWithPath(globalPath).LoadGlobal(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown key")
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		globalPath := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(globalPath, []byte("[verse]\nref_style = \"short\"\n"), 0644))

		_, err := NewTOMLLoaderWithPath(globalPath).LoadGlobal(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})

	t.Run("rejects malformed TOML", func(t *testing.T) {
		globalPath := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(globalPath, []byte("[verse\n"), 0644))

		_, err := NewTOMLLoaderWithPath(globalPath).LoadGlobal(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "parsing TOML")
	})
}

func TestTOMLLoader_LoadLocal(t *testing.T) {
	loader := NewTOMLLoader()

	t.Run("missing local config is optional", func(t *testing.T) {
		config, err := loader.LoadLocal(context.Background(), t.TempDir())
		require.NoError(t, err)
		assert.Nil(t, config)
	})

	t.Run("loads versedeck.toml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "versedeck.toml"), []byte("[extract]\ntolerance = 30\n"), 0644))

		config, err := loader.LoadLocal(context.Background(), dir)
		require.NoError(t, err)
		require.NotNil(t, config)
		assert.Equal(t, 30, config.Extract.Tolerance)
		assert.Equal(t, filepath.Join(dir, "versedeck.toml"), loader.GetLocalPath(dir))
	})
}

func TestTOMLLoader_CreateDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	loader := NewTOMLLoaderWithPath(path)

	require.NoError(t, loader.CreateDefaults(context.Background(), path))

	var written entities.Config
	_, err := toml.DecodeFile(path, &written)
	require.NoError(t, err)

	assert.Equal(t, []string{"經文", "verse"}, written.Variables.VersePrefixes)
	require.Len(t, written.Template.Roles.Title.Slots, 4)
	assert.Nil(t, written.Template.Roles.Content.Slots[0].Top)

	loaded, err := loader.LoadGlobal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig().Template, loaded.Template)
}

func TestGetDefaultConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config := GetDefaultConfig()

		require.NoError(t, config.Validate())
		assert.Equal(t, 0.1, config.Template.GetTolerance())
		assert.Equal(t, entities.RefStyleLong, config.Verse.GetRefStyle())
		assert.Equal(t, entities.RGB{B: 255}, config.Extract.GetTargetColor())
		assert.Equal(t, 50, config.Extract.Tolerance)

		ref, body, err := config.Verse.Colors()
		require.NoError(t, err)
		assert.Equal(t, entities.VerseRefColor, ref)
		assert.Equal(t, entities.VerseBodyColor, body)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("VERSEDECK_VERSE_PREFIXES", "v, verse ,")
		t.Setenv("VERSEDECK_EXTRACT_TOLERANCE", "20")
		t.Setenv("VERSEDECK_LOG_JSON", "true")

		config := GetDefaultConfig()
		assert.Equal(t, []string{"v", "verse"}, config.Variables.VersePrefixes)
		assert.Equal(t, 20, config.Extract.Tolerance)
		assert.True(t, config.Logging.JSONFormat)
	})
}
