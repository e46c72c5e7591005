package entities

import "fmt"

// Role indexes the template slides that donate layout and styling.
type Role int

const (
	RoleCover Role = iota
	RoleTitle
	RoleContent
	RoleVerse
)

// Roles lists all roles in template order.
var Roles = []Role{RoleCover, RoleTitle, RoleContent, RoleVerse}

// String returns the role name used in configuration.
func (r Role) String() string {
	switch r {
	case RoleCover:
		return "cover"
	case RoleTitle:
		return "title"
	case RoleContent:
		return "content"
	case RoleVerse:
		return "verse"
	default:
		return fmt.Sprintf("role%d", int(r))
	}
}

// ParseRole resolves a configuration role name.
func ParseRole(name string) (Role, error) {
	for _, r := range Roles {
		if r.String() == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", name)
}

// Slot names a text position on a role slide.
type Slot string

const (
	SlotDateLine     Slot = "date_line"
	SlotTheme        Slot = "theme"
	SlotVerseSummary Slot = "verse_summary"
	SlotSubtitle     Slot = "subtitle"
	SlotBody         Slot = "body"
)

// ShapeRef identifies a shape on a template role slide by its position in
// the slide's shape tree.
type ShapeRef struct {
	Role  Role `json:"role" yaml:"role"`
	Index int  `json:"index" yaml:"index"`
}

// RoleBinding maps the slots of one role to concrete template shapes. It is
// computed once when the template is loaded.
type RoleBinding struct {
	Role  Role
	slots map[Slot]ShapeRef
	order []Slot
}

// NewRoleBinding creates an empty binding for role.
func NewRoleBinding(role Role) RoleBinding {
	return RoleBinding{Role: role, slots: make(map[Slot]ShapeRef)}
}

// Bind records the shape for slot. Rebinding a slot keeps its original
// position in Slots.
func (b *RoleBinding) Bind(slot Slot, ref ShapeRef) {
	if b.slots == nil {
		b.slots = make(map[Slot]ShapeRef)
	}
	if _, exists := b.slots[slot]; !exists {
		b.order = append(b.order, slot)
	}
	b.slots[slot] = ref
}

// Shape returns the template shape bound to slot.
func (b RoleBinding) Shape(slot Slot) (ShapeRef, bool) {
	ref, ok := b.slots[slot]
	return ref, ok
}

// Slots returns the bound slots in binding order.
func (b RoleBinding) Slots() []Slot {
	return append([]Slot(nil), b.order...)
}
