package ports

import (
	"context"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
)

// SlideHandle identifies a slide created by a SlideMaterializer
type SlideHandle int

// SlideMaterializer creates output slides styled after template role slides.
// The output document starts as a copy of the template; role slides stay
// available until Finalize removes them.
type SlideMaterializer interface {
	// RoleCount returns the number of role slides the template provides
	RoleCount() int

	// Binding returns the slot binding computed for role at load time
	Binding(role entities.Role) (entities.RoleBinding, error)

	// CloneRole creates a new slide from the layout of the role slide
	CloneRole(role entities.Role) (SlideHandle, error)

	// StripInheritedPlaceholders removes empty text shapes inherited from
	// the layout and returns how many were removed
	StripInheritedPlaceholders(slide SlideHandle) (int, error)

	// PlaceText adds a text box positioned and styled like source, one
	// paragraph per segment
	PlaceText(slide SlideHandle, source entities.ShapeRef, segments []entities.TextSegment) error

	// Finalize removes every original template slide and returns how many
	// were removed
	Finalize() (int, error)

	// Save writes the output document
	Save(ctx context.Context, path string) error

	// Warnings returns non-fatal problems found while binding slots and
	// copying shape attributes
	Warnings() []entities.Warning
}

// TemplateLoader opens a template and binds its role slots
type TemplateLoader interface {
	Load(ctx context.Context, path string, cfg entities.TemplateConfig) (SlideMaterializer, error)
}
