package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
)

func TestConfigMerger_Merge(t *testing.T) {
	merger := NewConfigMerger()

	t.Run("merge with no configs returns defaults", func(t *testing.T) {
		result := merger.Merge()
		require.NotNil(t, result)
		assert.Equal(t, DefaultTemplateConfig(), result.Template)
	})

	t.Run("later configs take precedence", func(t *testing.T) {
		base := GetDefaultConfig()
		override := &entities.Config{
			Template: entities.TemplateConfig{
				Tolerance: 0.25,
				Roles: entities.RolesConfig{
					Verse: entities.RoleConfig{Slots: []entities.SlotConfig{{Name: "body", Top: top(2)}}},
				},
			},
			Variables: entities.VariablesConfig{Theme: []string{"topic"}},
			Verse:     entities.VerseConfig{RefStyle: entities.RefStyleBracket},
			Logging:   entities.LoggingConfig{JSONFormat: true},
		}

		result := merger.Merge(base, nil, override)

		assert.Equal(t, 0.25, result.Template.Tolerance)
		require.Len(t, result.Template.Roles.Verse.Slots, 1)
		assert.Equal(t, 2.0, *result.Template.Roles.Verse.Slots[0].Top)
		// untouched roles keep the base slots
		assert.Len(t, result.Template.Roles.Title.Slots, 4)
		assert.Equal(t, []string{"topic"}, result.Variables.Theme)
		assert.Equal(t, []string{"日期", "date"}, result.Variables.Date)
		assert.Equal(t, entities.RefStyleBracket, result.Verse.RefStyle)
		assert.Equal(t, entities.VerseRefColor.String(), result.Verse.RefColor)
		assert.True(t, result.Logging.JSONFormat)
		assert.Equal(t, "info", result.Logging.Level)
	})

	t.Run("merge does not alias inputs", func(t *testing.T) {
		base := GetDefaultConfig()
		result := merger.Merge(base)

		*result.Template.Roles.Cover.Slots[0].Top = 9
		result.Variables.VersePrefixes[0] = "changed"

		assert.Equal(t, 1.23, *base.Template.Roles.Cover.Slots[0].Top)
		assert.Equal(t, "經文", base.Variables.VersePrefixes[0])
	})
}

func TestConfigMerger_ApplyFlags(t *testing.T) {
	merger := NewConfigMerger()
	base := GetDefaultConfig()

	result := merger.ApplyFlags(base, map[string]interface{}{
		"tolerance":       0.3,
		"ref-style":       "bracket",
		"target-color":    "#FF0000",
		"color-tolerance": 10,
		"no-header":       true,
		"verbose":         true,
	})

	assert.Equal(t, 0.3, result.Template.Tolerance)
	assert.Equal(t, entities.RefStyleBracket, result.Verse.RefStyle)
	assert.Equal(t, "#FF0000", result.Extract.TargetColor)
	assert.Equal(t, 10, result.Extract.Tolerance)
	assert.False(t, result.Extract.Header)
	assert.True(t, result.Logging.Verbose)
	assert.Equal(t, "debug", result.Logging.Level)

	// base untouched
	assert.Equal(t, 0.1, base.Template.Tolerance)
	assert.True(t, base.Extract.Header)
}

func TestConfigMerger_ApplyEnvVars(t *testing.T) {
	merger := NewConfigMerger()

	t.Setenv("VERSEDECK_TOLERANCE", "0.15")
	t.Setenv("VERSEDECK_REF_STYLE", "bracket")
	t.Setenv("VERSEDECK_BODY_COLOR", "#000000")
	t.Setenv("VERSEDECK_VERSE_PREFIXES", "scripture")
	t.Setenv("VERSEDECK_LOG_LEVEL", "warn")

	result := merger.ApplyEnvVars(&entities.Config{})

	assert.Equal(t, 0.15, result.Template.Tolerance)
	assert.Equal(t, entities.RefStyleBracket, result.Verse.RefStyle)
	assert.Equal(t, "#000000", result.Verse.BodyColor)
	assert.Equal(t, []string{"scripture"}, result.Variables.VersePrefixes)
	assert.Equal(t, "warn", result.Logging.Level)
}
