package builders

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// DocxRun describes one run of a word-processing paragraph
type DocxRun struct {
	Text  string
	Color string // RRGGBB, "auto" or "" for none
}

// DocxBuilder helps build in-memory .docx documents for testing
type DocxBuilder struct {
	paragraphs [][]DocxRun
}

// NewDocxBuilder creates an empty document builder
func NewDocxBuilder() *DocxBuilder {
	return &DocxBuilder{}
}

// WithParagraph appends a paragraph made of the given runs
func (b *DocxBuilder) WithParagraph(runs ...DocxRun) *DocxBuilder {
	b.paragraphs = append(b.paragraphs, runs)
	return b
}

// WithColored appends a single-run paragraph in the given color
func (b *DocxBuilder) WithColored(text, color string) *DocxBuilder {
	return b.WithParagraph(DocxRun{Text: text, Color: color})
}

// WithPlain appends a single-run paragraph without color
func (b *DocxBuilder) WithPlain(text string) *DocxBuilder {
	return b.WithParagraph(DocxRun{Text: text})
}

// Build creates the .docx archive bytes
func (b *DocxBuilder) Build() []byte {
	var body strings.Builder
	for _, runs := range b.paragraphs {
		body.WriteString("<w:p>")
		for _, r := range runs {
			body.WriteString("<w:r>")
			if r.Color != "" {
				fmt.Fprintf(&body, `<w:rPr><w:color w:val="%s"/></w:rPr>`, r.Color)
			}
			fmt.Fprintf(&body, `<w:t xml:space="preserve">%s</w:t></w:r>`, escape(r.Text))
		}
		body.WriteString("</w:p>")
	}

	parts := map[string]string{
		"[Content_Types].xml": xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`</Types>`,
		"_rels/.rels": xml.Header + rels(rel("rId1", "officeDocument", "word/document.xml")),
		"word/document.xml": xml.Header +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
	}

	return zipParts([]string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"}, parts)
}
