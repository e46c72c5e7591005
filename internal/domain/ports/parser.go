package ports

import (
	"context"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
)

// DocumentParser parses annotated text into variables and content blocks
type DocumentParser interface {
	Parse(ctx context.Context, content []byte) (*entities.Document, error)
}

// StructureParser parses a page-structure script into directives
type StructureParser interface {
	Parse(ctx context.Context, content []byte) (*entities.Structure, error)
}
