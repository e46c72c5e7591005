package materializer

import (
	"context"
	"errors"
	"fmt"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
	"github.com/fredcamaral/versedeck/internal/domain/ports"
)

// ErrDryRun is returned by Recorder.Save.
var ErrDryRun = errors.New("dry run: nothing to save")

// Placement is one text placement captured by a Recorder.
type Placement struct {
	Source   entities.ShapeRef
	Slot     entities.Slot
	Segments []entities.TextSegment
}

// RecordedSlide is one slide created on a Recorder.
type RecordedSlide struct {
	Role       entities.Role
	Stripped   bool
	Placements []Placement
}

// Recorder is a SlideMaterializer that never touches a template. Every
// configured slot of every role is bound, so a dry run shows the full
// slot-by-slot outcome of a page structure.
type Recorder struct {
	bindings  map[entities.Role]entities.RoleBinding
	slots     map[entities.ShapeRef]entities.Slot
	slides    []RecordedSlide
	finalized bool
}

// NewRecorder creates a recorder whose bindings follow cfg.
func NewRecorder(cfg entities.TemplateConfig) *Recorder {
	r := &Recorder{
		bindings: make(map[entities.Role]entities.RoleBinding),
		slots:    make(map[entities.ShapeRef]entities.Slot),
	}
	for _, role := range entities.Roles {
		binding := entities.NewRoleBinding(role)
		for i, slot := range cfg.Roles.For(role).Slots {
			ref := entities.ShapeRef{Role: role, Index: i}
			binding.Bind(entities.Slot(slot.Name), ref)
			r.slots[ref] = entities.Slot(slot.Name)
		}
		r.bindings[role] = binding
	}
	return r
}

// RoleCount reports every role as available.
func (r *Recorder) RoleCount() int {
	return len(entities.Roles)
}

// Binding returns the configured binding of role.
func (r *Recorder) Binding(role entities.Role) (entities.RoleBinding, error) {
	b, ok := r.bindings[role]
	if !ok {
		return entities.RoleBinding{}, &entities.ConfigurationError{Message: fmt.Sprintf("unknown role %s", role)}
	}
	return b, nil
}

// CloneRole records a new slide.
func (r *Recorder) CloneRole(role entities.Role) (ports.SlideHandle, error) {
	if r.finalized {
		return 0, errors.New("cannot add slides after finalize")
	}
	r.slides = append(r.slides, RecordedSlide{Role: role})
	return ports.SlideHandle(len(r.slides) - 1), nil
}

// StripInheritedPlaceholders marks the slide as stripped.
func (r *Recorder) StripInheritedPlaceholders(h ports.SlideHandle) (int, error) {
	if int(h) < 0 || int(h) >= len(r.slides) {
		return 0, fmt.Errorf("unknown slide handle %d", h)
	}
	r.slides[h].Stripped = true
	return 0, nil
}

// PlaceText records a placement.
func (r *Recorder) PlaceText(h ports.SlideHandle, src entities.ShapeRef, segments []entities.TextSegment) error {
	if int(h) < 0 || int(h) >= len(r.slides) {
		return fmt.Errorf("unknown slide handle %d", h)
	}
	r.slides[h].Placements = append(r.slides[h].Placements, Placement{
		Source:   src,
		Slot:     r.slots[src],
		Segments: append([]entities.TextSegment(nil), segments...),
	})
	return nil
}

// Finalize has no template slides to remove.
func (r *Recorder) Finalize() (int, error) {
	r.finalized = true
	return 0, nil
}

// Save always fails; a dry run produces no document.
func (r *Recorder) Save(_ context.Context, path string) error {
	return &entities.SaveError{Path: path, Err: ErrDryRun}
}

// Warnings returns nothing; recorded bindings never miss.
func (r *Recorder) Warnings() []entities.Warning {
	return nil
}

// Slides returns the recorded slides in creation order.
func (r *Recorder) Slides() []RecordedSlide {
	return append([]RecordedSlide(nil), r.slides...)
}
