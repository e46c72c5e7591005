package pptx

import (
	"strings"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
)

// EMUPerInch is the number of English Metric Units in one inch.
const EMUPerInch = 914400

// ShapeKind is the capability class of a shape.
type ShapeKind int

const (
	// KindOther covers groups, connectors, graphic frames and shapes
	// without a text body.
	KindOther ShapeKind = iota
	// KindTextBox is any shape with a text body.
	KindTextBox
	// KindPicture is a picture shape.
	KindPicture
)

func (k ShapeKind) String() string {
	switch k {
	case KindTextBox:
		return "text"
	case KindPicture:
		return "picture"
	default:
		return "other"
	}
}

// Frame is a shape's position and size in EMU.
type Frame struct {
	X, Y, CX, CY int64
}

// TopInches returns the top edge in inches.
func (f Frame) TopInches() float64 {
	return float64(f.Y) / EMUPerInch
}

// LeftInches returns the left edge in inches.
func (f Frame) LeftInches() float64 {
	return float64(f.X) / EMUPerInch
}

// Placeholder identifies a layout placeholder a shape inherits from.
type Placeholder struct {
	Type string // empty means the default "obj"
	Idx  string // empty means 0
}

// Shape is a top-level shape of a slide, layout or master.
type Shape struct {
	ID          int
	Name        string
	Kind        ShapeKind
	Frame       Frame
	HasFrame    bool
	Placeholder *Placeholder
	Body        *TextBody
}

// HasTextFrame reports whether the shape can hold text.
func (s *Shape) HasTextFrame() bool {
	return s.Kind == KindTextBox && s.Body != nil
}

// Text returns the shape text with paragraphs separated by newlines.
func (s *Shape) Text() string {
	if s.Body == nil {
		return ""
	}
	return s.Body.Text()
}

// AutoFit is the text body autofit mode.
type AutoFit int

const (
	AutoFitUnset AutoFit = iota
	AutoFitNone
	AutoFitNormal
	AutoFitShape
)

// TextBody is a shape's text frame.
type TextBody struct {
	Wrap       string // bodyPr@wrap: "square", "none" or empty
	Anchor     string // bodyPr@anchor: "t", "ctr", "b" or empty
	AutoFit    AutoFit
	Paragraphs []Paragraph
}

// Text joins paragraph text with newlines.
func (b *TextBody) Text() string {
	parts := make([]string, 0, len(b.Paragraphs))
	for _, p := range b.Paragraphs {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

// Paragraph is an a:p element.
type Paragraph struct {
	Align string // pPr@algn: "l", "ctr", "r", "just" or empty
	Runs  []Run
}

// Text concatenates the run text; line breaks become "\v".
func (p Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		if r.Break {
			sb.WriteString("\v")
			continue
		}
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// FirstFont returns the font of the first text run.
func (p Paragraph) FirstFont() (Font, bool) {
	for _, r := range p.Runs {
		if !r.Break {
			return r.Font, true
		}
	}
	return Font{}, false
}

// Run is a run of text (a:r) or a line break (a:br).
type Run struct {
	Text  string
	Break bool
	Font  Font
}

// Font holds the directly set character properties of a run. Zero values
// mean "inherited".
type Font struct {
	Size      int // hundredths of a point
	Bold      *bool
	Family    string // a:latin@typeface
	EastAsian string // a:ea@typeface
	Color     *entities.RGB
	Scheme    string // a:schemeClr@val, used when Color is nil
}
