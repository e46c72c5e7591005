package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
	"github.com/fredcamaral/versedeck/internal/domain/ports"
)

const structureHeader = "[頁面結構]"

// StructureParser parses page-structure scripts.
type StructureParser struct {
	logger *slog.Logger
}

// NewStructureParser creates a parser
func NewStructureParser(logger *slog.Logger) *StructureParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &StructureParser{logger: logger}
}

// Parse reads the directives following the [頁面結構] header. Blank lines
// and lines starting with '#' are ignored everywhere; other lines before the
// header are ignored too. Lines naming an unknown page type are skipped with
// a warning; the remaining directives keep their order.
func (p *StructureParser) Parse(ctx context.Context, raw []byte) (*entities.Structure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := decodeText(raw)
	if err != nil {
		return nil, err
	}

	structure := &entities.Structure{}
	inStructure := false

	for i, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if trimmed == structureHeader {
			inStructure = true
			continue
		}
		if !inStructure {
			continue
		}

		name, param, hasParam := strings.Cut(trimmed, "=")
		pageType, err := entities.ParsePageType(name)
		if err != nil {
			w := lineWarning(entities.WarnUnknownDirective, i+1, "%v; line skipped", err)
			structure.Warnings = append(structure.Warnings, w)
			p.logger.Warn(w.Message, slog.Int("line", i+1))
			continue
		}

		structure.Directives = append(structure.Directives, entities.PageDirective{
			Type:     pageType,
			Param:    strings.TrimSpace(param),
			HasParam: hasParam,
			Line:     i + 1,
		})
	}

	if !inStructure {
		p.logger.Warn("structure script has no header", slog.String("header", structureHeader))
	}
	p.logger.Debug("structure parsed", slog.Int("directives", len(structure.Directives)))

	return structure, nil
}

// Describe renders a structure back to script syntax.
func Describe(s *entities.Structure) string {
	var b strings.Builder
	b.WriteString(structureHeader + "\n")
	for _, d := range s.Directives {
		fmt.Fprintln(&b, d.String())
	}
	return b.String()
}

// Ensure StructureParser implements ports.StructureParser
var _ ports.StructureParser = (*StructureParser)(nil)
