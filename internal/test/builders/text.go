package builders

import (
	"fmt"
	"strings"
)

// AnnotatedTextBuilder helps build annotated input documents for testing
type AnnotatedTextBuilder struct {
	variables [][2]string
	blocks    [][]string
	legacy    bool
}

// NewAnnotatedTextBuilder creates a builder with no variables and no blocks
func NewAnnotatedTextBuilder() *AnnotatedTextBuilder {
	return &AnnotatedTextBuilder{}
}

// WithVariable appends a key=value line to the variable section
func (b *AnnotatedTextBuilder) WithVariable(key, value string) *AnnotatedTextBuilder {
	b.variables = append(b.variables, [2]string{key, value})
	return b
}

// WithBlock appends a content block made of the given lines
func (b *AnnotatedTextBuilder) WithBlock(lines ...string) *AnnotatedTextBuilder {
	b.blocks = append(b.blocks, lines)
	return b
}

// Legacy omits the variable markers entirely
func (b *AnnotatedTextBuilder) Legacy() *AnnotatedTextBuilder {
	b.legacy = true
	return b
}

// Build renders the document text
func (b *AnnotatedTextBuilder) Build() string {
	var out strings.Builder
	if !b.legacy {
		out.WriteString("[變數]\n")
		for _, kv := range b.variables {
			fmt.Fprintf(&out, "%s=%s\n", kv[0], kv[1])
		}
		out.WriteString("[變數結束]\n\n")
	}

	blocks := make([]string, 0, len(b.blocks))
	for _, lines := range b.blocks {
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	out.WriteString(strings.Join(blocks, "\n\n"))
	out.WriteString("\n")
	return out.String()
}

// StructureBuilder helps build page-structure scripts for testing
type StructureBuilder struct {
	lines []string
}

// NewStructureBuilder creates a builder with only the section header
func NewStructureBuilder() *StructureBuilder {
	return &StructureBuilder{lines: []string{"# generated for tests", "[頁面結構]"}}
}

// With appends a directive; an empty param writes the bare type
func (b *StructureBuilder) With(pageType, param string) *StructureBuilder {
	if param == "" {
		b.lines = append(b.lines, pageType)
	} else {
		b.lines = append(b.lines, pageType+"="+param)
	}
	return b
}

// Build renders the script text
func (b *StructureBuilder) Build() string {
	return strings.Join(b.lines, "\n") + "\n"
}
