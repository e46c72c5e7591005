package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
	"github.com/fredcamaral/versedeck/internal/domain/ports"
)

// GenerateRequest is the input of one slide generation run.
type GenerateRequest struct {
	Document  *entities.Document
	Structure *entities.Structure
	Variables entities.VariablesConfig
	Verse     entities.VerseConfig

	// Template and Output are used by Generate; Interpret ignores them.
	TemplatePath string
	Output       string
	Template     entities.TemplateConfig
}

// GenerateResult reports what a run produced.
type GenerateResult struct {
	Plan   *entities.Plan
	Output string
}

// GeneratorService interprets page structures into slides.
type GeneratorService struct {
	loader ports.TemplateLoader
	logger *slog.Logger
}

// NewGeneratorService creates a generator. The loader is only needed by
// Generate; Interpret works on any materializer.
func NewGeneratorService(loader ports.TemplateLoader, logger *slog.Logger) *GeneratorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeneratorService{loader: loader, logger: logger}
}

// Generate loads the template, interprets the structure into it, removes
// the template slides and saves the result.
func (s *GeneratorService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if s.loader == nil {
		return nil, errors.New("generator has no template loader")
	}
	if req.TemplatePath == "" || req.Output == "" {
		return nil, errors.New("template and output paths are required")
	}

	m, err := s.loader.Load(ctx, req.TemplatePath, req.Template)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}

	plan, err := s.Interpret(ctx, req, m)
	if err != nil {
		return nil, err
	}

	if err := m.Save(ctx, req.Output); err != nil {
		return nil, err
	}

	return &GenerateResult{Plan: plan, Output: req.Output}, nil
}

// Interpret runs every directive against m in order and finalizes it. The
// template is checked for enough role slides before any slide is created.
func (s *GeneratorService) Interpret(ctx context.Context, req GenerateRequest, m ports.SlideMaterializer) (*entities.Plan, error) {
	if req.Document == nil || req.Structure == nil {
		return nil, errors.New("document and structure are required")
	}

	if need, have := req.Structure.RequiredRoles(), m.RoleCount(); have < need {
		return nil, &entities.ConfigurationError{
			Message: fmt.Sprintf("page structure needs %d template slides, template has %d", need, have),
		}
	}

	refColor, bodyColor, err := req.Verse.Colors()
	if err != nil {
		return nil, &entities.ConfigurationError{Message: "verse colors", Err: err}
	}

	runID := uuid.NewString()
	in := &interpreter{
		m:         m,
		vars:      req.Document.Variables,
		names:     req.Variables,
		style:     req.Verse.GetRefStyle(),
		refColor:  refColor,
		bodyColor: bodyColor,
		queue:     entities.NewBlockQueue(req.Document.Blocks),
		plan:      &entities.Plan{RunID: runID},
		logger:    s.logger.With(slog.String("run_id", runID)),
	}
	in.plan.Warnings = append(in.plan.Warnings, req.Document.Warnings...)
	in.plan.Warnings = append(in.plan.Warnings, req.Structure.Warnings...)
	loadWarnings := m.Warnings()
	in.plan.Warnings = append(in.plan.Warnings, loadWarnings...)

	for _, d := range req.Structure.Directives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := in.run(d); err != nil {
			return nil, fmt.Errorf("line %d %s: %w", d.Line, d.Type, err)
		}
	}

	removed, err := m.Finalize()
	if err != nil {
		return nil, fmt.Errorf("removing template slides: %w", err)
	}
	in.plan.Removed = removed

	// placement warnings raised while running
	if all := m.Warnings(); len(all) > len(loadWarnings) {
		in.plan.Warnings = append(in.plan.Warnings, all[len(loadWarnings):]...)
	}

	in.logger.Info("slides generated",
		slog.Int("slides", in.plan.SlideCount()),
		slog.Int("warnings", len(in.plan.Warnings)),
		slog.Int("unused_blocks", in.queue.Remaining()))

	return in.plan, nil
}

type interpreter struct {
	m         ports.SlideMaterializer
	vars      entities.VariableMap
	names     entities.VariablesConfig
	style     entities.RefStyle
	refColor  entities.RGB
	bodyColor entities.RGB
	queue     *entities.BlockQueue
	plan      *entities.Plan
	logger    *slog.Logger
}

func (in *interpreter) run(d entities.PageDirective) error {
	in.logger.Debug("directive", slog.String("type", string(d.Type)), slog.String("param", d.Param))

	switch d.Type {
	case entities.PageCover:
		date, service := in.vars.Lookup(in.names.Date...), in.vars.Lookup(in.names.ServiceType...)
		slots := []entities.SlotText{
			slotText(entities.SlotDateLine, date+"\n\n"+service),
			slotText(entities.SlotVerseSummary, in.vars.Lookup(in.names.VerseSummary...)),
		}
		if d.Param != "" {
			slots = append(slots, slotText(entities.SlotSubtitle, d.Param))
		}
		return in.emit(entities.SlideCover, d, slots)

	case entities.PageTitle:
		date, service := in.vars.Lookup(in.names.Date...), in.vars.Lookup(in.names.ServiceType...)
		slots := []entities.SlotText{
			slotText(entities.SlotDateLine, date+" "+service),
			slotText(entities.SlotTheme, in.vars.Lookup(in.names.Theme...)),
			slotText(entities.SlotVerseSummary, in.vars.Lookup(in.names.VerseSummary...)),
		}
		if d.Param != "" {
			slots = append(slots, slotText(entities.SlotSubtitle, d.Param))
		}
		return in.emit(entities.SlideTitle, d, slots)

	case entities.PageContent:
		if d.Param == "" {
			return nil
		}
		return in.emit(entities.SlideContent, d, []entities.SlotText{slotText(entities.SlotBody, d.Param)})

	case entities.PageBible:
		return in.bible(d)

	case entities.PageAutoContent:
		return in.autoContent(d)

	default:
		return fmt.Errorf("unsupported page type %q", d.Type)
	}
}

// bible emits one verse slide per numbered verse variable, stopping at the
// first missing number.
func (in *interpreter) bible(d entities.PageDirective) error {
	n := 1
	for ; ; n++ {
		key, ok := in.vars.NumberedKey(n, in.names.VersePrefixes...)
		if !ok {
			break
		}

		verse, ok := entities.SplitVerseValue(in.vars[key])
		if !ok {
			in.warn(entities.WarnSkippedVerse, d.Line, "%s has no closing bracket; skipped", key)
			continue
		}
		if err := in.verse(d, verse); err != nil {
			return err
		}
	}

	if later := in.laterVerse(n); later != "" {
		in.warn(entities.WarnVerseScanGap, d.Line, "no verse %d; %s and later verses ignored", n, later)
	}
	return nil
}

// laterVerse returns a numbered verse key above n, if any exists.
func (in *interpreter) laterVerse(n int) string {
	for _, key := range in.vars.Keys() {
		for _, prefix := range in.names.VersePrefixes {
			suffix, ok := strings.CutPrefix(key, prefix)
			if !ok {
				continue
			}
			if k, err := strconv.Atoi(suffix); err == nil && k > n {
				return key
			}
		}
	}
	return ""
}

// autoContent drains the shared block queue.
func (in *interpreter) autoContent(d entities.PageDirective) error {
	for {
		block, ok := in.queue.Next()
		if !ok {
			return nil
		}

		classified := block.Classify()
		if classified.Kind == entities.ScriptureBlock {
			if err := in.verse(d, classified.Scripture); err != nil {
				return err
			}
			continue
		}

		if first := block.Lines[0]; strings.HasPrefix(first, entities.OpenAngle) || strings.HasPrefix(first, entities.OpenASCII) {
			in.warn(entities.WarnUnbalancedReference, d.Line, "block %q starts like a reference but is not one; used as content", first)
		}
		if err := in.emit(entities.SlideContent, d, []entities.SlotText{slotText(entities.SlotBody, classified.Text)}); err != nil {
			return err
		}
	}
}

func (in *interpreter) verse(d entities.PageDirective, ref entities.ScriptureReference) error {
	label := entities.Normalize(ref.Ref)
	if in.style == entities.RefStyleBracket {
		label = entities.FormatForSlide(entities.OpenAngle + ref.Ref + entities.CloseAngle)
	}

	refColor, bodyColor := in.refColor, in.bodyColor
	return in.emit(entities.SlideVerse, d, []entities.SlotText{{
		Slot: entities.SlotBody,
		Segments: []entities.TextSegment{
			{Text: label, Color: &refColor},
			{Text: ref.Body, Color: &bodyColor},
		},
	}})
}

// emit creates one slide from the role of kind and places text into every
// bound slot. Slots the template does not bind are reported and skipped.
func (in *interpreter) emit(kind entities.SlideKind, d entities.PageDirective, slots []entities.SlotText) error {
	role := kind.Role()
	binding, err := in.m.Binding(role)
	if err != nil {
		return err
	}

	h, err := in.m.CloneRole(role)
	if err != nil {
		return err
	}
	if _, err := in.m.StripInheritedPlaceholders(h); err != nil {
		return fmt.Errorf("clearing %s slide: %w", kind, err)
	}

	placed := make([]entities.SlotText, 0, len(slots))
	for _, st := range slots {
		ref, ok := binding.Shape(st.Slot)
		if !ok {
			in.warn(entities.WarnMissingSlot, d.Line, "%s slide has no %s slot; text dropped", kind, st.Slot)
			continue
		}
		if err := in.m.PlaceText(h, ref, st.Segments); err != nil {
			return fmt.Errorf("placing %s on %s slide: %w", st.Slot, kind, err)
		}
		placed = append(placed, st)
	}

	in.plan.Slides = append(in.plan.Slides, entities.SlidePlan{
		Index:     len(in.plan.Slides),
		Kind:      kind,
		Directive: d.Type,
		Slots:     placed,
	})
	return nil
}

func (in *interpreter) warn(kind entities.WarningKind, line int, format string, args ...any) {
	w := entities.Warning{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
	in.plan.Warnings = append(in.plan.Warnings, w)
	in.logger.Warn(w.Message, slog.String("kind", string(kind)), slog.Int("line", line))
}

func slotText(slot entities.Slot, text string) entities.SlotText {
	return entities.SlotText{Slot: slot, Segments: entities.Paragraphs(text)}
}
