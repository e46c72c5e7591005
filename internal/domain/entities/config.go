package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the complete application configuration
type Config struct {
	Template  TemplateConfig  `toml:"template"`
	Variables VariablesConfig `toml:"variables"`
	Verse     VerseConfig     `toml:"verse"`
	Extract   ExtractConfig   `toml:"extract"`
	Logging   LoggingConfig   `toml:"logging"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Template.Validate(); err != nil {
		return fmt.Errorf("template config: %w", err)
	}

	if err := c.Variables.Validate(); err != nil {
		return fmt.Errorf("variables config: %w", err)
	}

	if err := c.Verse.Validate(); err != nil {
		return fmt.Errorf("verse config: %w", err)
	}

	if err := c.Extract.Validate(); err != nil {
		return fmt.Errorf("extract config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// TemplateConfig describes how role slides of a template are read
type TemplateConfig struct {
	Tolerance float64     `toml:"tolerance"` // slot matching tolerance in inches
	Roles     RolesConfig `toml:"roles"`
}

// RolesConfig lists the slots of each template role
type RolesConfig struct {
	Cover   RoleConfig `toml:"cover"`
	Title   RoleConfig `toml:"title"`
	Content RoleConfig `toml:"content"`
	Verse   RoleConfig `toml:"verse"`
}

// RoleConfig declares the ordered slots of one role slide
type RoleConfig struct {
	Slots []SlotConfig `toml:"slots"`
}

// SlotConfig binds a slot name to a vertical offset on the role slide.
// A nil Top binds the slot to the first text shape of the slide.
type SlotConfig struct {
	Name string   `toml:"name"`
	Top  *float64 `toml:"top,omitempty"`
}

// Validate validates template configuration
func (t TemplateConfig) Validate() error {
	if t.Tolerance < 0 {
		return errors.New("tolerance must be non-negative")
	}

	for _, role := range Roles {
		for i, slot := range t.Roles.For(role).Slots {
			if slot.Name == "" {
				return fmt.Errorf("%s slot %d has no name", role, i+1)
			}
			if slot.Top != nil && *slot.Top < 0 {
				return fmt.Errorf("%s slot %s has a negative top offset", role, slot.Name)
			}
		}
	}

	return nil
}

// GetTolerance returns the slot tolerance with default (0.1 inch)
func (t TemplateConfig) GetTolerance() float64 {
	if t.Tolerance <= 0 {
		return 0.1
	}
	return t.Tolerance
}

// For returns the configuration of role
func (r RolesConfig) For(role Role) RoleConfig {
	switch role {
	case RoleCover:
		return r.Cover
	case RoleTitle:
		return r.Title
	case RoleContent:
		return r.Content
	default:
		return r.Verse
	}
}

// VariablesConfig lists the variable names read for each placeholder. The
// first name present in the input wins.
type VariablesConfig struct {
	Date          []string `toml:"date"`
	ServiceType   []string `toml:"service_type"`
	Theme         []string `toml:"theme"`
	VerseSummary  []string `toml:"verse_summary"`
	VersePrefixes []string `toml:"verse_prefixes"`
}

// Validate validates variables configuration
func (v VariablesConfig) Validate() error {
	for _, p := range v.VersePrefixes {
		if p == "" {
			return errors.New("verse prefix cannot be empty")
		}
	}
	return nil
}

// RefStyle selects how the reference line of a verse slide is written.
type RefStyle string

const (
	// RefStyleLong expands compact citations (創世記19章17節).
	RefStyleLong RefStyle = "long"
	// RefStyleBracket keeps the citation and wraps it in 【】.
	RefStyleBracket RefStyle = "bracket"
)

// VerseConfig contains verse slide styling
type VerseConfig struct {
	RefColor  string   `toml:"ref_color"`
	BodyColor string   `toml:"body_color"`
	RefStyle  RefStyle `toml:"ref_style"`
}

// Validate validates verse configuration
func (v VerseConfig) Validate() error {
	if _, _, err := v.Colors(); err != nil {
		return err
	}

	switch v.RefStyle {
	case "", RefStyleLong, RefStyleBracket:
		return nil
	default:
		return fmt.Errorf("invalid ref style: %s (must be long or bracket)", v.RefStyle)
	}
}

// Colors returns the reference and body colors, falling back to the
// default palette for empty values
func (v VerseConfig) Colors() (RGB, RGB, error) {
	ref, body := VerseRefColor, VerseBodyColor

	if v.RefColor != "" {
		c, err := ParseRGB(v.RefColor)
		if err != nil {
			return RGB{}, RGB{}, fmt.Errorf("ref color: %w", err)
		}
		ref = c
	}

	if v.BodyColor != "" {
		c, err := ParseRGB(v.BodyColor)
		if err != nil {
			return RGB{}, RGB{}, fmt.Errorf("body color: %w", err)
		}
		body = c
	}

	return ref, body, nil
}

// GetRefStyle returns the ref style with default
func (v VerseConfig) GetRefStyle() RefStyle {
	if v.RefStyle == "" {
		return RefStyleLong
	}
	return v.RefStyle
}

// ExtractConfig controls colored-text extraction from word documents
type ExtractConfig struct {
	TargetColor string `toml:"target_color"`
	Tolerance   int    `toml:"tolerance"`
	Header      bool   `toml:"header"` // prepend a variable section template
}

// Validate validates extract configuration
func (e ExtractConfig) Validate() error {
	if e.TargetColor != "" {
		if _, err := ParseRGB(e.TargetColor); err != nil {
			return fmt.Errorf("target color: %w", err)
		}
	}

	if e.Tolerance < 0 || e.Tolerance > 255 {
		return errors.New("tolerance must be between 0 and 255")
	}

	return nil
}

// GetTargetColor returns the target color with default (pure blue)
func (e ExtractConfig) GetTargetColor() RGB {
	if c, err := ParseRGB(e.TargetColor); err == nil {
		return c
	}
	return RGB{B: 255}
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `toml:"level"`       // debug, info, warn, error
	Verbose    bool   `toml:"verbose"`     // Enable verbose logging
	JSONFormat bool   `toml:"json_format"` // Output logs in JSON format
	File       string `toml:"file"`        // Log to file (optional)
}

// LogLevel represents logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Validate validates logging configuration
func (l LoggingConfig) Validate() error {
	switch LogLevel(l.Level) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	case "":
		// Empty is okay, will use default
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l.Level)
	}

	if l.File != "" {
		if !filepath.IsAbs(l.File) {
			return errors.New("log file path must be absolute")
		}

		dir := filepath.Dir(l.File)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("log file directory does not exist: %s", dir)
		}
	}

	return nil
}

// GetLevel returns the log level with default
func (l LoggingConfig) GetLevel() LogLevel {
	if l.Level == "" {
		return LogLevelInfo
	}
	return LogLevel(l.Level)
}
