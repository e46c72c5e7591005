package ports

import (
	"context"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
)

// TextRun is a run of text and its explicit color, if one is set
type TextRun struct {
	Text  string
	Color *entities.RGB
}

// WordParagraph is one paragraph of a word-processor document
type WordParagraph struct {
	Runs []TextRun
}

// WordReader reads the paragraphs of a word-processor document
type WordReader interface {
	ReadParagraphs(ctx context.Context, data []byte) ([]WordParagraph, error)
}
