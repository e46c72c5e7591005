package entities

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fatal failure classes.
var (
	// ErrConfiguration indicates a template or configuration that cannot
	// satisfy the page structure.
	ErrConfiguration = errors.New("configuration error")
	// ErrParse indicates input that cannot be decoded or understood.
	ErrParse = errors.New("parse error")
	// ErrSave indicates the output document could not be written.
	ErrSave = errors.New("save error")
)

// ConfigurationError reports a template that lacks role slides, or an
// otherwise unusable configuration.
type ConfigurationError struct {
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Err)
	}
	return "configuration error: " + e.Message
}

func (e *ConfigurationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrConfiguration
}

// Is lets errors.Is match ErrConfiguration even when Err is set.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ParseError reports input that cannot be decoded or parsed.
type ParseError struct {
	Source string // file or logical source name
	Line   int    // 1-based, 0 when not line specific
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrParse
}

// Is lets errors.Is match ErrParse even when Err is set.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// SaveError wraps an I/O failure while writing the output document.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("saving %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrSave.
func (e *SaveError) Is(target error) bool {
	return target == ErrSave
}

// WarningKind classifies recoverable input problems.
type WarningKind string

const (
	WarnMissingMarkers      WarningKind = "missing_markers"
	WarnMalformedVariable   WarningKind = "malformed_variable"
	WarnUnbalancedReference WarningKind = "unbalanced_reference"
	WarnVerseScanGap        WarningKind = "verse_scan_gap"
	WarnSkippedVerse        WarningKind = "skipped_verse"
	WarnMissingSlot         WarningKind = "missing_slot"
	WarnShapeAttribute      WarningKind = "shape_attribute"
	WarnUnknownLine         WarningKind = "unknown_line"
	WarnUnknownDirective    WarningKind = "unknown_directive"
)

// Warning is a non-fatal problem that was recovered with a fallback.
type Warning struct {
	Kind    WarningKind `json:"kind" yaml:"kind"`
	Line    int         `json:"line,omitempty" yaml:"line,omitempty"`
	Message string      `json:"message" yaml:"message"`
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", w.Kind, w.Line, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
