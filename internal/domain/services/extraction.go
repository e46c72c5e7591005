package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
	"github.com/fredcamaral/versedeck/internal/domain/ports"
)

// headerKeys are written, empty, into the variable section of extracted text.
var headerKeys = []string{"日期", "禮拜類型", "主題", "經文章節", "經文1", "經文2"}

// ExtractionResult is the annotated text recovered from a document.
type ExtractionResult struct {
	Blocks []entities.ContentBlock
	Text   string
}

// ExtractionService recovers colored text from word-processor documents.
type ExtractionService struct {
	reader ports.WordReader
	logger *slog.Logger
}

// NewExtractionService creates an extraction service
func NewExtractionService(reader ports.WordReader, logger *slog.Logger) *ExtractionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractionService{reader: reader, logger: logger}
}

// Extract keeps the runs colored within cfg's tolerance of the target color
// and arranges them into content blocks.
//
// Colored runs of one paragraph are joined by spaces. Consecutive colored
// paragraphs form one block. A paragraph holding only a reference starts its
// own block and the paragraphs that follow it become its body, joined by
// spaces.
func (s *ExtractionService) Extract(ctx context.Context, data []byte, cfg entities.ExtractConfig) (*ExtractionResult, error) {
	if s.reader == nil {
		return nil, errors.New("extraction service has no document reader")
	}

	paragraphs, err := s.reader.ReadParagraphs(ctx, data)
	if err != nil {
		return nil, err
	}

	target := cfg.GetTargetColor()
	var (
		blocks  []entities.ContentBlock
		lines   []string
		ref     string
		refBody []string
	)

	flush := func() {
		if ref != "" {
			block := []string{ref}
			if len(refBody) > 0 {
				block = append(block, strings.Join(refBody, " "))
			}
			blocks = append(blocks, entities.NewContentBlock(block...))
			ref, refBody = "", nil
		}
		if len(lines) > 0 {
			blocks = append(blocks, entities.NewContentBlock(lines...))
			lines = nil
		}
	}

	for _, p := range paragraphs {
		text := coloredText(p, target, cfg.Tolerance)
		switch {
		case text == "":
			flush()
		case isBareReference(text):
			flush()
			ref = text
		case ref != "":
			refBody = append(refBody, text)
		default:
			lines = append(lines, text)
		}
	}
	flush()

	s.logger.Info("colored text extracted",
		slog.Int("paragraphs", len(paragraphs)),
		slog.Int("blocks", len(blocks)),
		slog.String("color", target.String()))

	return &ExtractionResult{Blocks: blocks, Text: formatExtraction(blocks, cfg.Header)}, nil
}

// coloredText joins the trimmed text of the runs colored near target.
func coloredText(p ports.WordParagraph, target entities.RGB, tolerance int) string {
	var parts []string
	for _, r := range p.Runs {
		if r.Color == nil || !r.Color.Within(target, tolerance) {
			continue
		}
		if t := strings.TrimSpace(r.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// isBareReference reports whether text is reference markup and nothing else.
func isBareReference(text string) bool {
	_, body, ok := entities.IsReference(text)
	return ok && body == ""
}

func formatExtraction(blocks []entities.ContentBlock, header bool) string {
	var sb strings.Builder
	if header {
		sb.WriteString("[變數]\n")
		for _, k := range headerKeys {
			sb.WriteString(k + "=\n")
		}
		sb.WriteString("[變數結束]\n\n")
	}

	doc := entities.Document{Blocks: blocks}
	sb.WriteString(doc.Serialize())
	if len(blocks) > 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}
