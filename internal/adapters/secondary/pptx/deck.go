package pptx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// ErrReadOnlySlide is returned when mutating a slide that came from the
// opened file. Only slides created with AddSlide are editable.
var ErrReadOnlySlide = errors.New("slide is read-only")

// lowest slide id PowerPoint accepts
const minSlideID = 256

var sldIDListPattern = regexp.MustCompile(`(?s)<(\w+:)?sldIdLst\s*/>|<(\w+:)?sldIdLst>.*?</(?:\w+:)?sldIdLst>`)

// section members (p14:sectionLst) carry an id and no r:id
var sectionSlidePattern = regexp.MustCompile(`<(\w+:)?sldId\s+id="(\d+)"\s*/>`)

// skipped when cloning layout placeholders onto a new slide
var footerPlaceholders = map[string]bool{"dt": true, "ftr": true, "sldNum": true}

type slideRef struct {
	ID  uint32
	RID string
}

// Deck is an opened presentation.
type Deck struct {
	pkg      *Package
	presPart string
	slides   []*Slide
	layouts  map[string][]*Shape
	masters  map[string][]*Shape
}

// Slide is one slide of a deck, in presentation order.
type Slide struct {
	deck     *Deck
	id       uint32
	rid      string
	part     string
	layout   string
	shapes   []*Shape
	readOnly bool
}

// Open reads a presentation from disk.
func Open(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presentation: %w", err)
	}
	return OpenBytes(data)
}

// OpenBytes reads a presentation from raw .pptx bytes.
func OpenBytes(data []byte) (*Deck, error) {
	pkg, err := OpenPackage(data)
	if err != nil {
		return nil, err
	}

	rootRels, err := pkg.Rels("")
	if err != nil {
		return nil, err
	}
	office, ok := rootRels.FirstOfType(RelTypeOfficeDocument)
	if !ok {
		return nil, errors.New("package has no main document")
	}

	d := &Deck{
		pkg:      pkg,
		presPart: ResolveTarget("", office.Target),
		layouts:  map[string][]*Shape{},
		masters:  map[string][]*Shape{},
	}
	if err := d.loadSlides(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Deck) loadSlides() error {
	presXML, ok := d.pkg.Part(d.presPart)
	if !ok {
		return fmt.Errorf("missing %s", d.presPart)
	}
	refs, err := slideIDs(presXML)
	if err != nil {
		return fmt.Errorf("reading slide list: %w", err)
	}
	presRels, err := d.pkg.Rels(d.presPart)
	if err != nil {
		return err
	}

	for _, ref := range refs {
		rel, ok := presRels.ByID(ref.RID)
		if !ok {
			return fmt.Errorf("slide %d: unknown relationship %s", ref.ID, ref.RID)
		}
		part := ResolveTarget(d.presPart, rel.Target)

		data, ok := d.pkg.Part(part)
		if !ok {
			return fmt.Errorf("slide %d: missing part %s", ref.ID, part)
		}
		shapes, err := parseShapes(data)
		if err != nil {
			return fmt.Errorf("reading %s: %w", part, err)
		}

		layout, err := d.linkedPart(part, RelTypeSlideLayout)
		if err != nil {
			return err
		}
		if err := d.inheritFrames(shapes, layout); err != nil {
			return err
		}

		d.slides = append(d.slides, &Slide{
			deck:     d,
			id:       ref.ID,
			rid:      ref.RID,
			part:     part,
			layout:   layout,
			shapes:   shapes,
			readOnly: true,
		})
	}
	return nil
}

// linkedPart returns the first part source relates to with relType, or ""
// when there is none.
func (d *Deck) linkedPart(source, relType string) (string, error) {
	rels, err := d.pkg.Rels(source)
	if err != nil {
		return "", fmt.Errorf("reading relationships of %s: %w", source, err)
	}
	rel, ok := rels.FirstOfType(relType)
	if !ok {
		return "", nil
	}
	return ResolveTarget(source, rel.Target), nil
}

// LayoutShapes returns the shapes of a slide layout, with placeholder
// frames inherited from its master.
func (d *Deck) LayoutShapes(layout string) ([]*Shape, error) {
	if shapes, ok := d.layouts[layout]; ok {
		return shapes, nil
	}

	data, ok := d.pkg.Part(layout)
	if !ok {
		return nil, fmt.Errorf("missing layout %s", layout)
	}
	shapes, err := parseShapes(data)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", layout, err)
	}

	master, err := d.linkedPart(layout, RelTypeSlideMaster)
	if err != nil {
		return nil, err
	}
	if master != "" {
		masterShapes, err := d.masterShapes(master)
		if err != nil {
			return nil, err
		}
		for _, sh := range shapes {
			if sh.Placeholder == nil || sh.HasFrame {
				continue
			}
			if src := matchByType(masterShapes, sh.Placeholder); src != nil && src.HasFrame {
				sh.Frame, sh.HasFrame = src.Frame, true
			}
		}
	}

	d.layouts[layout] = shapes
	return shapes, nil
}

func (d *Deck) masterShapes(master string) ([]*Shape, error) {
	if shapes, ok := d.masters[master]; ok {
		return shapes, nil
	}
	data, ok := d.pkg.Part(master)
	if !ok {
		return nil, fmt.Errorf("missing master %s", master)
	}
	shapes, err := parseShapes(data)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", master, err)
	}
	d.masters[master] = shapes
	return shapes, nil
}

// inheritFrames gives placeholders without their own xfrm the frame of the
// matching layout placeholder.
func (d *Deck) inheritFrames(shapes []*Shape, layout string) error {
	if layout == "" {
		return nil
	}
	var layoutShapes []*Shape
	for _, sh := range shapes {
		if sh.Placeholder == nil || sh.HasFrame {
			continue
		}
		if layoutShapes == nil {
			var err error
			if layoutShapes, err = d.LayoutShapes(layout); err != nil {
				return err
			}
		}
		src := matchByIdx(layoutShapes, sh.Placeholder)
		if src == nil {
			src = matchByType(layoutShapes, sh.Placeholder)
		}
		if src != nil && src.HasFrame {
			sh.Frame, sh.HasFrame = src.Frame, true
		}
	}
	return nil
}

func matchByIdx(shapes []*Shape, ph *Placeholder) *Shape {
	want := placeholderIdx(ph)
	for _, sh := range shapes {
		if sh.Placeholder != nil && placeholderIdx(sh.Placeholder) == want {
			return sh
		}
	}
	return nil
}

func matchByType(shapes []*Shape, ph *Placeholder) *Shape {
	want := placeholderClass(ph.Type)
	for _, sh := range shapes {
		if sh.Placeholder != nil && placeholderClass(sh.Placeholder.Type) == want {
			return sh
		}
	}
	return nil
}

func placeholderIdx(ph *Placeholder) string {
	if ph.Idx == "" {
		return "0"
	}
	return ph.Idx
}

// placeholderClass folds placeholder types the way masters define them.
func placeholderClass(t string) string {
	switch t {
	case "ctrTitle", "title":
		return "title"
	case "", "obj", "body", "subTitle":
		return "body"
	default:
		return t
	}
}

// Slides returns the slides in presentation order.
func (d *Deck) Slides() []*Slide {
	return append([]*Slide(nil), d.slides...)
}

// Slide returns the slide at index i.
func (d *Deck) Slide(i int) (*Slide, bool) {
	if i < 0 || i >= len(d.slides) {
		return nil, false
	}
	return d.slides[i], true
}

// AddSlide appends a slide based on layout. The layout's placeholders are
// cloned onto the new slide empty, except date, footer and slide number.
func (d *Deck) AddSlide(layout string) (*Slide, error) {
	layoutShapes, err := d.LayoutShapes(layout)
	if err != nil {
		return nil, err
	}

	part := d.pkg.NextPartName("ppt/slides", "slide")

	slideRels := &Relationships{}
	slideRels.Add(RelTypeSlideLayout, RelativeTarget(part, layout))
	if err := d.pkg.PutRels(part, slideRels); err != nil {
		return nil, err
	}

	presRels, err := d.pkg.Rels(d.presPart)
	if err != nil {
		return nil, err
	}
	rid := presRels.Add(RelTypeSlide, RelativeTarget(d.presPart, part))
	if err := d.pkg.PutRels(d.presPart, presRels); err != nil {
		return nil, err
	}

	if err := d.pkg.AddOverride(part, ContentTypeSlide); err != nil {
		return nil, err
	}

	s := &Slide{deck: d, id: d.nextSlideID(), rid: rid, part: part, layout: layout}
	for _, src := range layoutShapes {
		if src.Placeholder == nil || footerPlaceholders[src.Placeholder.Type] {
			continue
		}
		ph := *src.Placeholder
		s.shapes = append(s.shapes, &Shape{
			ID:          s.nextShapeID(),
			Name:        src.Name,
			Kind:        KindTextBox,
			Frame:       src.Frame,
			HasFrame:    src.HasFrame,
			Placeholder: &ph,
			Body:        &TextBody{},
		})
	}

	// placeholder-only slide until shapes are edited
	if err := s.flush(); err != nil {
		return nil, err
	}

	d.slides = append(d.slides, s)
	return s, nil
}

func (d *Deck) nextSlideID() uint32 {
	next := uint32(minSlideID)
	for _, s := range d.slides {
		if s.id >= next {
			next = s.id + 1
		}
	}
	return next
}

// RemoveSlide drops a slide from the presentation. Its part is no longer
// reachable and is left out when the deck is written.
func (d *Deck) RemoveSlide(s *Slide) error {
	idx := -1
	for i, cur := range d.slides {
		if cur == s {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.New("slide does not belong to this deck")
	}

	presRels, err := d.pkg.Rels(d.presPart)
	if err != nil {
		return err
	}
	presRels.Remove(s.rid)
	if err := d.pkg.PutRels(d.presPart, presRels); err != nil {
		return err
	}

	d.slides = append(d.slides[:idx], d.slides[idx+1:]...)
	return nil
}

// WriteTo writes the deck as a .pptx archive.
func (d *Deck) WriteTo(w io.Writer) (int64, error) {
	if err := d.writeSlideList(); err != nil {
		return 0, err
	}
	return d.pkg.WriteTo(w)
}

// Save writes the deck to path.
func (d *Deck) Save(path string) error {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (d *Deck) writeSlideList() error {
	presXML, ok := d.pkg.Part(d.presPart)
	if !ok {
		return fmt.Errorf("missing %s", d.presPart)
	}

	loc := sldIDListPattern.FindSubmatchIndex(presXML)
	if loc == nil {
		return errors.New("presentation has no slide list")
	}

	prefix := ""
	for _, g := range []int{2, 4} {
		if loc[g] >= 0 {
			prefix = string(presXML[loc[g]:loc[g+1]])
		}
	}

	var list strings.Builder
	list.WriteString("<" + prefix + "sldIdLst>")
	for _, s := range d.slides {
		fmt.Fprintf(&list, `<%ssldId id="%d" r:id="%s"/>`, prefix, s.id, s.rid)
	}
	list.WriteString("</" + prefix + "sldIdLst>")

	var out bytes.Buffer
	out.Write(presXML[:loc[0]])
	out.WriteString(list.String())
	out.Write(presXML[loc[1]:])
	d.pkg.Put(d.presPart, d.pruneSections(out.Bytes()))
	return nil
}

// pruneSections drops section entries pointing at slides no longer in the
// deck; PowerPoint asks to repair files that keep them.
func (d *Deck) pruneSections(presXML []byte) []byte {
	keep := make(map[string]bool, len(d.slides))
	for _, s := range d.slides {
		keep[fmt.Sprint(s.id)] = true
	}
	return sectionSlidePattern.ReplaceAllFunc(presXML, func(m []byte) []byte {
		if keep[string(sectionSlidePattern.FindSubmatch(m)[2])] {
			return m
		}
		return nil
	})
}

// Part returns the slide's part name.
func (s *Slide) Part() string { return s.part }

// ID returns the slide id from the presentation's slide list.
func (s *Slide) ID() uint32 { return s.id }

// Layout returns the slide's layout part.
func (s *Slide) Layout() string { return s.layout }

// ReadOnly reports whether the slide came from the opened file.
func (s *Slide) ReadOnly() bool { return s.readOnly }

// Shapes returns the slide's top-level shapes in z-order.
func (s *Slide) Shapes() []*Shape {
	return append([]*Shape(nil), s.shapes...)
}

// TextShapes returns the shapes that carry a text frame.
func (s *Slide) TextShapes() []*Shape {
	var out []*Shape
	for _, sh := range s.shapes {
		if sh.HasTextFrame() {
			out = append(out, sh)
		}
	}
	return out
}

// AddTextBox appends a text box with the given frame and body.
func (s *Slide) AddTextBox(frame Frame, body *TextBody) (*Shape, error) {
	if s.readOnly {
		return nil, ErrReadOnlySlide
	}
	id := s.nextShapeID()
	sh := &Shape{
		ID:       id,
		Name:     fmt.Sprintf("TextBox %d", id-1),
		Kind:     KindTextBox,
		Frame:    frame,
		HasFrame: true,
		Body:     body,
	}
	s.shapes = append(s.shapes, sh)
	return sh, s.flush()
}

// RemoveShape removes a shape from the slide.
func (s *Slide) RemoveShape(sh *Shape) error {
	if s.readOnly {
		return ErrReadOnlySlide
	}
	for i, cur := range s.shapes {
		if cur == sh {
			s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
			return s.flush()
		}
	}
	return errors.New("shape not on slide")
}

func (s *Slide) nextShapeID() int {
	next := 2
	for _, sh := range s.shapes {
		if sh.ID >= next {
			next = sh.ID + 1
		}
	}
	return next
}

// flush re-serializes an editable slide into its part.
func (s *Slide) flush() error {
	data, err := marshalSlide(s.shapes)
	if err != nil {
		return err
	}
	s.deck.pkg.Put(s.part, data)
	return nil
}
