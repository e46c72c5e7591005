package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
)

// GetDefaultConfig returns the default configuration with environment overrides
func GetDefaultConfig() *entities.Config {
	config := &entities.Config{
		Template: DefaultTemplateConfig(),
		Variables: entities.VariablesConfig{
			Date:          []string{"日期", "date"},
			ServiceType:   []string{"禮拜類型", "service_type"},
			Theme:         []string{"主題", "theme", "title"},
			VerseSummary:  []string{"經文章節", "verse_summary"},
			VersePrefixes: getEnvSliceOrDefault("VERSEDECK_VERSE_PREFIXES", []string{"經文", "verse"}),
		},
		Verse: entities.VerseConfig{
			RefColor:  entities.VerseRefColor.String(),
			BodyColor: entities.VerseBodyColor.String(),
			RefStyle:  entities.RefStyle(getEnvOrDefault("VERSEDECK_REF_STYLE", string(entities.RefStyleLong))),
		},
		Extract: entities.ExtractConfig{
			TargetColor: getEnvOrDefault("VERSEDECK_EXTRACT_COLOR", "#0000FF"),
			Tolerance:   getEnvIntOrDefault("VERSEDECK_EXTRACT_TOLERANCE", 50),
			Header:      true,
		},
		Logging: entities.LoggingConfig{
			Level:      getEnvOrDefault("VERSEDECK_LOG_LEVEL", "info"),
			Verbose:    getEnvBoolOrDefault("VERSEDECK_LOG_VERBOSE", false),
			JSONFormat: getEnvBoolOrDefault("VERSEDECK_LOG_JSON", false),
			File:       getEnvOrDefault("VERSEDECK_LOG_FILE", ""),
		},
	}

	return config
}

// DefaultTemplateConfig returns the slot layout of the standard template:
// cover and title slots are found by their top offset, content and verse
// slides use their first text shape.
func DefaultTemplateConfig() entities.TemplateConfig {
	return entities.TemplateConfig{
		Tolerance: 0.1,
		Roles: entities.RolesConfig{
			Cover: entities.RoleConfig{Slots: []entities.SlotConfig{
				{Name: string(entities.SlotDateLine), Top: top(1.23)},
				{Name: string(entities.SlotSubtitle), Top: top(4.30)},
				{Name: string(entities.SlotVerseSummary), Top: top(3.40)},
			}},
			Title: entities.RoleConfig{Slots: []entities.SlotConfig{
				{Name: string(entities.SlotDateLine), Top: top(0.51)},
				{Name: string(entities.SlotTheme), Top: top(1.72)},
				{Name: string(entities.SlotVerseSummary), Top: top(3.76)},
				{Name: string(entities.SlotSubtitle), Top: top(4.46)},
			}},
			Content: entities.RoleConfig{Slots: []entities.SlotConfig{
				{Name: string(entities.SlotBody)},
			}},
			Verse: entities.RoleConfig{Slots: []entities.SlotConfig{
				{Name: string(entities.SlotBody)},
			}},
		},
	}
}

func top(v float64) *float64 {
	return &v
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvSliceOrDefault returns environment variable as slice or default
func getEnvSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		// Split by comma and trim whitespace
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
