package entities

// TextSegment is one paragraph of text placed into a slot. A "\n" inside
// Text becomes a line break within the paragraph. Color, when set,
// overrides the color copied from the template.
type TextSegment struct {
	Text  string `json:"text" yaml:"text"`
	Color *RGB   `json:"color,omitempty" yaml:"color,omitempty"`
}

// Paragraphs splits text on newlines into one segment per line.
func Paragraphs(text string) []TextSegment {
	lines := splitLines(text)
	segs := make([]TextSegment, 0, len(lines))
	for _, l := range lines {
		segs = append(segs, TextSegment{Text: l})
	}
	return segs
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	return append(lines, text[start:])
}

// SlideKind is the logical kind of an output slide.
type SlideKind string

const (
	SlideCover   SlideKind = "cover"
	SlideTitle   SlideKind = "title"
	SlideContent SlideKind = "content"
	SlideVerse   SlideKind = "verse"
)

// Role returns the template role that donates the slide's layout.
func (k SlideKind) Role() Role {
	switch k {
	case SlideCover:
		return RoleCover
	case SlideTitle:
		return RoleTitle
	case SlideContent:
		return RoleContent
	default:
		return RoleVerse
	}
}

// SlotText is the text placed into one slot of a slide.
type SlotText struct {
	Slot     Slot          `json:"slot" yaml:"slot"`
	Segments []TextSegment `json:"segments" yaml:"segments"`
}

// Text joins the segments with newlines.
func (s SlotText) Text() string {
	out := ""
	for i, seg := range s.Segments {
		if i > 0 {
			out += "\n"
		}
		out += seg.Text
	}
	return out
}

// SlidePlan records one output slide: what it is, which directive produced
// it and the text placed into each slot.
type SlidePlan struct {
	Index     int        `json:"index" yaml:"index"`
	Kind      SlideKind  `json:"kind" yaml:"kind"`
	Directive PageType   `json:"directive" yaml:"directive"`
	Slots     []SlotText `json:"slots" yaml:"slots"`
}

// SlotText returns the text placed into slot, if any.
func (p SlidePlan) SlotText(slot Slot) (SlotText, bool) {
	for _, s := range p.Slots {
		if s.Slot == slot {
			return s, true
		}
	}
	return SlotText{}, false
}

// Plan is the outcome of interpreting a page structure: the slides in
// output order and every warning raised along the way.
type Plan struct {
	RunID    string      `json:"run_id" yaml:"run_id"`
	Slides   []SlidePlan `json:"slides" yaml:"slides"`
	Warnings []Warning   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	// Removed is the number of template role slides dropped from the output.
	Removed int `json:"removed_template_slides" yaml:"removed_template_slides"`
}

// SlideCount returns the number of output slides.
func (p *Plan) SlideCount() int {
	return len(p.Slides)
}

// Kinds returns the slide kinds in output order.
func (p *Plan) Kinds() []SlideKind {
	kinds := make([]SlideKind, 0, len(p.Slides))
	for _, s := range p.Slides {
		kinds = append(kinds, s.Kind)
	}
	return kinds
}
