package config

import (
	"os"
	"strconv"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
	"github.com/fredcamaral/versedeck/internal/domain/ports"
)

// ConfigMerger implements the ConfigMerger interface
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges multiple configurations with later configs taking precedence
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	// Start with first config as base
	result := deepCopy(configs[0])
	if result == nil {
		result = GetDefaultConfig()
	}

	// Merge subsequent configs
	for i := 1; i < len(configs); i++ {
		if configs[i] != nil {
			m.mergeInto(result, configs[i])
		}
	}

	return result
}

// ApplyFlags applies CLI flag overrides to a configuration
func (m *ConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	if tolerance, ok := flags["tolerance"].(float64); ok && tolerance > 0 {
		result.Template.Tolerance = tolerance
	}

	if style, ok := flags["ref-style"].(string); ok && style != "" {
		result.Verse.RefStyle = entities.RefStyle(style)
	}

	if color, ok := flags["target-color"].(string); ok && color != "" {
		result.Extract.TargetColor = color
	}

	if tolerance, ok := flags["color-tolerance"].(int); ok && tolerance > 0 {
		result.Extract.Tolerance = tolerance
	}

	if noHeader, ok := flags["no-header"].(bool); ok && noHeader {
		result.Extract.Header = false
	}

	if level, ok := flags["log-level"].(string); ok && level != "" {
		result.Logging.Level = level
	}

	if verbose, ok := flags["verbose"].(bool); ok && verbose {
		result.Logging.Verbose = true
		result.Logging.Level = string(entities.LogLevelDebug)
	}

	return result
}

// ApplyEnvVars applies environment variable overrides to a configuration
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	// Template configuration from environment
	if tolStr := os.Getenv("VERSEDECK_TOLERANCE"); tolStr != "" {
		if tol, err := strconv.ParseFloat(tolStr, 64); err == nil && tol > 0 {
			result.Template.Tolerance = tol
		}
	}

	// Verse configuration from environment
	if style := os.Getenv("VERSEDECK_REF_STYLE"); style != "" {
		result.Verse.RefStyle = entities.RefStyle(style)
	}

	if color := os.Getenv("VERSEDECK_REF_COLOR"); color != "" {
		result.Verse.RefColor = color
	}

	if color := os.Getenv("VERSEDECK_BODY_COLOR"); color != "" {
		result.Verse.BodyColor = color
	}

	if prefixes := getEnvSliceOrDefault("VERSEDECK_VERSE_PREFIXES", nil); prefixes != nil {
		result.Variables.VersePrefixes = prefixes
	}

	// Extraction configuration from environment
	if color := os.Getenv("VERSEDECK_EXTRACT_COLOR"); color != "" {
		result.Extract.TargetColor = color
	}

	if tolStr := os.Getenv("VERSEDECK_EXTRACT_TOLERANCE"); tolStr != "" {
		if tol, err := strconv.Atoi(tolStr); err == nil && tol >= 0 {
			result.Extract.Tolerance = tol
		}
	}

	// Logging configuration from environment
	if level := os.Getenv("VERSEDECK_LOG_LEVEL"); level != "" {
		result.Logging.Level = level
	}

	if jsonStr := os.Getenv("VERSEDECK_LOG_JSON"); jsonStr != "" {
		if v, err := strconv.ParseBool(jsonStr); err == nil {
			result.Logging.JSONFormat = v
		}
	}

	if file := os.Getenv("VERSEDECK_LOG_FILE"); file != "" {
		result.Logging.File = file
	}

	return result
}

// mergeInto merges source configuration into target configuration
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	// Template config
	if source.Template.Tolerance != 0 {
		target.Template.Tolerance = source.Template.Tolerance
	}
	for _, role := range entities.Roles {
		if slots := source.Template.Roles.For(role).Slots; len(slots) > 0 {
			setRoleSlots(&target.Template.Roles, role, copySlots(slots))
		}
	}

	// Variables config: a non-empty alias list replaces the inherited one
	mergeList(&target.Variables.Date, source.Variables.Date)
	mergeList(&target.Variables.ServiceType, source.Variables.ServiceType)
	mergeList(&target.Variables.Theme, source.Variables.Theme)
	mergeList(&target.Variables.VerseSummary, source.Variables.VerseSummary)
	mergeList(&target.Variables.VersePrefixes, source.Variables.VersePrefixes)

	// Verse config
	if source.Verse.RefColor != "" {
		target.Verse.RefColor = source.Verse.RefColor
	}
	if source.Verse.BodyColor != "" {
		target.Verse.BodyColor = source.Verse.BodyColor
	}
	if source.Verse.RefStyle != "" {
		target.Verse.RefStyle = source.Verse.RefStyle
	}

	// Extract config
	if source.Extract.TargetColor != "" {
		target.Extract.TargetColor = source.Extract.TargetColor
	}
	if source.Extract.Tolerance != 0 {
		target.Extract.Tolerance = source.Extract.Tolerance
	}

	// Logging config
	if source.Logging.Level != "" {
		target.Logging.Level = source.Logging.Level
	}
	if source.Logging.File != "" {
		target.Logging.File = source.Logging.File
	}
	// TOML cannot tell false from unset, so booleans only ever switch on
	if source.Logging.Verbose {
		target.Logging.Verbose = true
	}
	if source.Logging.JSONFormat {
		target.Logging.JSONFormat = true
	}
}

func mergeList(target *[]string, source []string) {
	if len(source) == 0 {
		return
	}
	*target = append([]string(nil), source...)
}

func setRoleSlots(roles *entities.RolesConfig, role entities.Role, slots []entities.SlotConfig) {
	switch role {
	case entities.RoleCover:
		roles.Cover.Slots = slots
	case entities.RoleTitle:
		roles.Title.Slots = slots
	case entities.RoleContent:
		roles.Content.Slots = slots
	default:
		roles.Verse.Slots = slots
	}
}

func copySlots(src []entities.SlotConfig) []entities.SlotConfig {
	if src == nil {
		return nil
	}
	dst := make([]entities.SlotConfig, len(src))
	for i, s := range src {
		dst[i] = entities.SlotConfig{Name: s.Name}
		if s.Top != nil {
			dst[i].Top = top(*s.Top)
		}
	}
	return dst
}

func copyList(src []string) []string {
	if src == nil {
		return nil
	}
	return append([]string(nil), src...)
}

// deepCopy creates a deep copy of a configuration
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	// Manual copy to avoid reflection for performance
	return &entities.Config{
		Template: entities.TemplateConfig{
			Tolerance: src.Template.Tolerance,
			Roles: entities.RolesConfig{
				Cover:   entities.RoleConfig{Slots: copySlots(src.Template.Roles.Cover.Slots)},
				Title:   entities.RoleConfig{Slots: copySlots(src.Template.Roles.Title.Slots)},
				Content: entities.RoleConfig{Slots: copySlots(src.Template.Roles.Content.Slots)},
				Verse:   entities.RoleConfig{Slots: copySlots(src.Template.Roles.Verse.Slots)},
			},
		},
		Variables: entities.VariablesConfig{
			Date:          copyList(src.Variables.Date),
			ServiceType:   copyList(src.Variables.ServiceType),
			Theme:         copyList(src.Variables.Theme),
			VerseSummary:  copyList(src.Variables.VerseSummary),
			VersePrefixes: copyList(src.Variables.VersePrefixes),
		},
		Verse:   src.Verse,
		Extract: src.Extract,
		Logging: src.Logging,
	}
}

// Ensure ConfigMerger implements ports.ConfigMerger
var _ ports.ConfigMerger = (*ConfigMerger)(nil)
