package parser

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
	"github.com/fredcamaral/versedeck/internal/domain/ports"
)

const (
	variablesStart = "[變數]"
	variablesEnd   = "[變數結束]"
)

// parseMode is the section of the input the parser is in.
type parseMode int

const (
	modeBeforeMarkers parseMode = iota
	modeVariables
	modeContent
)

// AnnotatedTextParser parses the variables-plus-content input format.
type AnnotatedTextParser struct {
	logger *slog.Logger
}

// NewAnnotatedTextParser creates a parser
func NewAnnotatedTextParser(logger *slog.Logger) *AnnotatedTextParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnnotatedTextParser{logger: logger}
}

// Parse reads the variable section and splits the content section into
// blank-line separated blocks. Input without either marker is read
// entirely as content.
func (p *AnnotatedTextParser) Parse(ctx context.Context, raw []byte) (*entities.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := decodeText(raw)
	if err != nil {
		return nil, err
	}
	lines := splitLines(text)

	doc := &entities.Document{Variables: entities.VariableMap{}}

	hasStart, hasEnd := false, false
	for _, line := range lines {
		switch strings.TrimSpace(line) {
		case variablesStart:
			hasStart = true
		case variablesEnd:
			hasEnd = true
		}
	}

	mode := modeBeforeMarkers
	switch {
	case !hasStart && !hasEnd:
		doc.Legacy = true
		mode = modeContent
		doc.Warnings = append(doc.Warnings, lineWarning(entities.WarnMissingMarkers, 0,
			"no %s/%s markers; whole input read as content", variablesStart, variablesEnd))
	case !hasEnd:
		doc.Warnings = append(doc.Warnings, lineWarning(entities.WarnMissingMarkers, 0,
			"%s without %s; no content section", variablesStart, variablesEnd))
	case !hasStart:
		doc.Warnings = append(doc.Warnings, lineWarning(entities.WarnMissingMarkers, 0,
			"%s without %s; lines before it ignored", variablesEnd, variablesStart))
	}

	var block []string
	flush := func() {
		if len(block) > 0 {
			doc.Blocks = append(doc.Blocks, entities.NewContentBlock(block...))
			block = nil
		}
	}

	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)

		switch mode {
		case modeBeforeMarkers:
			switch trimmed {
			case variablesStart:
				mode = modeVariables
			case variablesEnd:
				mode = modeContent
			}

		case modeVariables:
			switch {
			case trimmed == variablesEnd:
				mode = modeContent
			case trimmed == "", trimmed == variablesStart:
			case strings.Contains(line, "="):
				key, value, _ := strings.Cut(line, "=")
				doc.Variables[strings.TrimSpace(key)] = strings.TrimSpace(value)
			default:
				doc.Warnings = append(doc.Warnings, lineWarning(entities.WarnMalformedVariable, lineNo,
					"variable line without '=': %q", trimmed))
			}

		case modeContent:
			switch {
			case trimmed == "":
				flush()
			case !doc.Legacy && (trimmed == variablesStart || trimmed == variablesEnd):
				doc.Warnings = append(doc.Warnings, lineWarning(entities.WarnUnknownLine, lineNo,
					"marker %s inside content ignored", trimmed))
			default:
				block = append(block, trimmed)
			}
		}
	}
	flush()

	for _, w := range doc.Warnings {
		p.logger.Warn("input warning", slog.String("kind", string(w.Kind)), slog.Int("line", w.Line), slog.String("message", w.Message))
	}
	p.logger.Debug("input parsed",
		slog.Int("variables", len(doc.Variables)),
		slog.Int("blocks", len(doc.Blocks)),
		slog.Bool("legacy", doc.Legacy))

	return doc, nil
}

// Ensure AnnotatedTextParser implements ports.DocumentParser
var _ ports.DocumentParser = (*AnnotatedTextParser)(nil)
