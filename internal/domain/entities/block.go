package entities

import "strings"

// ContentBlock is one blank-line delimited unit of source text. Lines are
// stored trimmed and in source order.
type ContentBlock struct {
	Lines []string `json:"lines" yaml:"lines"`
}

// NewContentBlock builds a block from already trimmed lines.
func NewContentBlock(lines ...string) ContentBlock {
	return ContentBlock{Lines: append([]string(nil), lines...)}
}

// Text returns the block with its internal line breaks preserved.
func (b ContentBlock) Text() string {
	return strings.Join(b.Lines, "\n")
}

// IsEmpty reports whether the block carries no lines.
func (b ContentBlock) IsEmpty() bool {
	return len(b.Lines) == 0
}

// BlockKind distinguishes classified blocks.
type BlockKind int

const (
	// PlainBlock is ordinary content rendered on a content slide.
	PlainBlock BlockKind = iota
	// ScriptureBlock is a citation plus body rendered on a verse slide.
	ScriptureBlock
)

// String returns the kind name.
func (k BlockKind) String() string {
	if k == ScriptureBlock {
		return "scripture"
	}
	return "plain"
}

// ClassifiedBlock is the result of Classify. Scripture is set only for
// scripture blocks; Text holds the plain content otherwise.
type ClassifiedBlock struct {
	Kind      BlockKind
	Scripture ScriptureReference
	Text      string
}

// Classify inspects the first line of the block for reference markup.
//
// A reference followed by text on the same line takes any further lines as
// continuation joined by spaces. A reference standing alone on the first
// line takes the following lines as its body, newline-joined. Everything
// else, including unbalanced brackets, is plain content.
func (b ContentBlock) Classify() ClassifiedBlock {
	plain := ClassifiedBlock{Kind: PlainBlock, Text: b.Text()}
	if b.IsEmpty() {
		return plain
	}

	ref, body, ok := IsReference(b.Lines[0])
	if !ok {
		return plain
	}

	rest := b.Lines[1:]
	if body != "" {
		parts := append([]string{body}, rest...)
		return ClassifiedBlock{
			Kind:      ScriptureBlock,
			Scripture: ScriptureReference{Ref: ref, Body: strings.Join(parts, " ")},
		}
	}

	return ClassifiedBlock{
		Kind:      ScriptureBlock,
		Scripture: ScriptureReference{Ref: ref, Body: strings.Join(rest, "\n")},
	}
}
