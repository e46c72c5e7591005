// Package materializer implements ports.SlideMaterializer over PresentationML
// templates, plus a recording implementation used for dry runs.
package materializer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/fredcamaral/versedeck/internal/adapters/secondary/pptx"
	"github.com/fredcamaral/versedeck/internal/domain/entities"
	"github.com/fredcamaral/versedeck/internal/domain/ports"
)

// Loader opens .pptx templates.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a template loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load opens the template at path and binds the configured slots of every
// role slide present.
func (l *Loader) Load(ctx context.Context, path string, cfg entities.TemplateConfig) (ports.SlideMaterializer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deck, err := pptx.Open(path)
	if err != nil {
		return nil, &entities.ConfigurationError{Message: "cannot open template " + path, Err: err}
	}

	l.logger.Debug("template opened",
		slog.String("path", path),
		slog.Int("slides", len(deck.Slides())))

	return NewPPTXMaterializer(deck, cfg, l.logger), nil
}

// PPTXMaterializer builds output slides inside a copy of the template deck.
type PPTXMaterializer struct {
	deck      *pptx.Deck
	template  []*pptx.Slide
	bindings  map[entities.Role]entities.RoleBinding
	created   []*pptx.Slide
	warnings  []entities.Warning
	finalized bool
	logger    *slog.Logger
}

// NewPPTXMaterializer wraps an opened deck. Every slide already in the deck
// is treated as a template slide and removed by Finalize.
func NewPPTXMaterializer(deck *pptx.Deck, cfg entities.TemplateConfig, logger *slog.Logger) *PPTXMaterializer {
	if logger == nil {
		logger = slog.Default()
	}

	m := &PPTXMaterializer{
		deck:     deck,
		template: deck.Slides(),
		bindings: make(map[entities.Role]entities.RoleBinding),
		logger:   logger,
	}

	for _, role := range entities.Roles {
		if int(role) >= len(m.template) {
			break
		}
		m.bindings[role] = m.bind(role, cfg)
	}

	return m
}

// bind resolves the configured slots of role against its template slide.
func (m *PPTXMaterializer) bind(role entities.Role, cfg entities.TemplateConfig) entities.RoleBinding {
	binding := entities.NewRoleBinding(role)
	shapes := m.template[role].Shapes()
	tolerance := cfg.GetTolerance()

	for _, slot := range cfg.Roles.For(role).Slots {
		var idx int
		if slot.Top == nil {
			idx = firstTextShape(shapes)
		} else {
			idx = textShapeAt(shapes, *slot.Top, tolerance)
		}

		if idx < 0 {
			msg := fmt.Sprintf("%s slot %s has no matching text shape", role, slot.Name)
			if slot.Top != nil {
				msg = fmt.Sprintf("%s slot %s: no text shape within %.2fin of %.2fin", role, slot.Name, tolerance, *slot.Top)
			}
			m.warn(entities.WarnMissingSlot, msg)
			continue
		}

		binding.Bind(entities.Slot(slot.Name), entities.ShapeRef{Role: role, Index: idx})
		m.logger.Debug("slot bound",
			slog.String("role", role.String()),
			slog.String("slot", slot.Name),
			slog.String("shape", shapes[idx].Name))
	}

	return binding
}

// firstTextShape prefers a text shape that carries text, falling back to the
// first text-capable shape.
func firstTextShape(shapes []*pptx.Shape) int {
	fallback := -1
	for i, sh := range shapes {
		if !sh.HasTextFrame() {
			continue
		}
		if strings.TrimSpace(sh.Text()) != "" {
			return i
		}
		if fallback < 0 {
			fallback = i
		}
	}
	return fallback
}

func textShapeAt(shapes []*pptx.Shape, top, tolerance float64) int {
	for i, sh := range shapes {
		if !sh.HasTextFrame() || !sh.HasFrame {
			continue
		}
		if math.Abs(sh.Frame.TopInches()-top) <= tolerance {
			return i
		}
	}
	return -1
}

func (m *PPTXMaterializer) warn(kind entities.WarningKind, msg string) {
	m.warnings = append(m.warnings, entities.Warning{Kind: kind, Message: msg})
}

// RoleCount returns the number of template slides available as roles.
func (m *PPTXMaterializer) RoleCount() int {
	return len(m.template)
}

// Binding returns the slot binding of role.
func (m *PPTXMaterializer) Binding(role entities.Role) (entities.RoleBinding, error) {
	binding, ok := m.bindings[role]
	if !ok {
		return entities.RoleBinding{}, &entities.ConfigurationError{
			Message: fmt.Sprintf("template has no %s slide (slide %d)", role, int(role)+1),
		}
	}
	return binding, nil
}

// CloneRole adds a slide using the layout of the role slide.
func (m *PPTXMaterializer) CloneRole(role entities.Role) (ports.SlideHandle, error) {
	if m.finalized {
		return 0, fmt.Errorf("cannot add slides after finalize")
	}
	if int(role) >= len(m.template) {
		return 0, &entities.ConfigurationError{
			Message: fmt.Sprintf("template has no %s slide (slide %d)", role, int(role)+1),
		}
	}

	src := m.template[role]
	if src.Layout() == "" {
		return 0, &entities.ConfigurationError{
			Message: fmt.Sprintf("%s slide %s has no layout", role, src.Part()),
		}
	}

	slide, err := m.deck.AddSlide(src.Layout())
	if err != nil {
		return 0, fmt.Errorf("adding %s slide: %w", role, err)
	}

	m.created = append(m.created, slide)
	return ports.SlideHandle(len(m.created) - 1), nil
}

func (m *PPTXMaterializer) slide(h ports.SlideHandle) (*pptx.Slide, error) {
	if int(h) < 0 || int(h) >= len(m.created) {
		return nil, fmt.Errorf("unknown slide handle %d", h)
	}
	return m.created[h], nil
}

// StripInheritedPlaceholders removes text-capable shapes with no text.
func (m *PPTXMaterializer) StripInheritedPlaceholders(h ports.SlideHandle) (int, error) {
	slide, err := m.slide(h)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, sh := range slide.Shapes() {
		if sh.Kind != pptx.KindTextBox || strings.TrimSpace(sh.Text()) != "" {
			continue
		}
		if err := slide.RemoveShape(sh); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// PlaceText adds a text box styled after the template shape src.
func (m *PPTXMaterializer) PlaceText(h ports.SlideHandle, src entities.ShapeRef, segments []entities.TextSegment) error {
	slide, err := m.slide(h)
	if err != nil {
		return err
	}

	source, err := m.sourceShape(src)
	if err != nil {
		return err
	}

	if !source.HasFrame {
		m.warn(entities.WarnShapeAttribute,
			fmt.Sprintf("%s shape %q has no position; text box placed at origin", src.Role, source.Name))
	}

	body := &pptx.TextBody{}
	var template []pptx.Paragraph
	if source.Body != nil {
		body.Wrap = source.Body.Wrap
		body.Anchor = source.Body.Anchor
		body.AutoFit = source.Body.AutoFit
		template = source.Body.Paragraphs
	}

	for i, seg := range segments {
		para := pptx.Paragraph{}
		var font pptx.Font
		if len(template) > 0 {
			tp := template[min(i, len(template)-1)]
			para.Align = tp.Align
			font, _ = tp.FirstFont()
		}
		if seg.Color != nil {
			c := *seg.Color
			font.Color = &c
			font.Scheme = ""
		}

		for j, line := range strings.Split(seg.Text, "\n") {
			if j > 0 {
				para.Runs = append(para.Runs, pptx.Run{Break: true, Font: font})
			}
			para.Runs = append(para.Runs, pptx.Run{Text: line, Font: font})
		}
		body.Paragraphs = append(body.Paragraphs, para)
	}

	if _, err := slide.AddTextBox(source.Frame, body); err != nil {
		return fmt.Errorf("placing text: %w", err)
	}
	return nil
}

func (m *PPTXMaterializer) sourceShape(ref entities.ShapeRef) (*pptx.Shape, error) {
	if int(ref.Role) >= len(m.template) {
		return nil, &entities.ConfigurationError{Message: fmt.Sprintf("template has no %s slide", ref.Role)}
	}
	shapes := m.template[ref.Role].Shapes()
	if ref.Index < 0 || ref.Index >= len(shapes) {
		return nil, fmt.Errorf("%s slide has no shape %d", ref.Role, ref.Index)
	}
	return shapes[ref.Index], nil
}

// Finalize removes every template slide from the output.
func (m *PPTXMaterializer) Finalize() (int, error) {
	if m.finalized {
		return 0, nil
	}
	for i, s := range m.template {
		if err := m.deck.RemoveSlide(s); err != nil {
			return i, fmt.Errorf("removing template slide %d: %w", i+1, err)
		}
	}
	m.finalized = true
	return len(m.template), nil
}

// Save writes the output deck.
func (m *PPTXMaterializer) Save(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return &entities.SaveError{Path: path, Err: err}
	}
	if err := m.deck.Save(path); err != nil {
		return &entities.SaveError{Path: path, Err: err}
	}
	m.logger.Info("presentation saved",
		slog.String("path", path),
		slog.Int("slides", len(m.deck.Slides())))
	return nil
}

// Warnings returns binding and placement warnings.
func (m *PPTXMaterializer) Warnings() []entities.Warning {
	return append([]entities.Warning(nil), m.warnings...)
}

// Template returns the template slides in role order, for inspection.
func (m *PPTXMaterializer) Template() []*pptx.Slide {
	return append([]*pptx.Slide(nil), m.template...)
}
