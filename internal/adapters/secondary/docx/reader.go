// Package docx reads the runs of WordprocessingML documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
	"github.com/fredcamaral/versedeck/internal/domain/ports"
)

const documentPart = "word/document.xml"

// run is a w:r element.
type run struct {
	Properties *runProperties `xml:"rPr"`
	Content    []runContent   `xml:",any"`
}

// runProperties holds the character formatting read from w:rPr.
type runProperties struct {
	Color *color `xml:"color"`
}

// color is w:color; val is RRGGBB or "auto".
type color struct {
	Val string `xml:"val,attr"`
}

// runContent is any child of a run; only text, tabs and breaks carry text.
type runContent struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

// Reader implements ports.WordReader.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a document reader
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// ReadParagraphs returns every paragraph of the main document part in
// document order, table cells included.
func (r *Reader) ReadParagraphs(ctx context.Context, data []byte) ([]ports.WordParagraph, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &entities.ParseError{Source: "docx", Reason: "not a zip archive", Err: err}
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, &entities.ParseError{Source: "docx", Reason: "missing " + documentPart}
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", documentPart, err)
	}
	defer func() { _ = rc.Close() }()

	paragraphs, err := decodeParagraphs(ctx, rc)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("document read", slog.Int("paragraphs", len(paragraphs)))
	return paragraphs, nil
}

func decodeParagraphs(ctx context.Context, rd io.Reader) ([]ports.WordParagraph, error) {
	dec := xml.NewDecoder(rd)

	var (
		out   []ports.WordParagraph
		stack []*ports.WordParagraph
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, &entities.ParseError{Source: documentPart, Reason: "malformed xml", Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				stack = append(stack, &ports.WordParagraph{})
			case "r":
				var rn run
				if err := dec.DecodeElement(&rn, &t); err != nil {
					return nil, &entities.ParseError{Source: documentPart, Reason: "malformed run", Err: err}
				}
				if len(stack) > 0 {
					cur := stack[len(stack)-1]
					cur.Runs = append(cur.Runs, rn.textRun())
				}
			}
		case xml.EndElement:
			if t.Name.Local == "p" && len(stack) > 0 {
				out = append(out, *stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
		}
	}
}

func (rn run) textRun() ports.TextRun {
	var sb strings.Builder
	for _, c := range rn.Content {
		switch c.XMLName.Local {
		case "t":
			sb.WriteString(c.Text)
		case "tab":
			sb.WriteString("\t")
		case "br", "cr":
			sb.WriteString("\n")
		}
	}

	tr := ports.TextRun{Text: sb.String()}
	if rn.Properties != nil && rn.Properties.Color != nil {
		if c, err := entities.ParseRGB(rn.Properties.Color.Val); err == nil {
			tr.Color = &c
		}
	}
	return tr
}
