package entities

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PageType is the kind of page a directive renders.
type PageType string

const (
	PageCover       PageType = "COVER"
	PageTitle       PageType = "TITLE"
	PageContent     PageType = "CONTENT"
	PageBible       PageType = "BIBLE"
	PageAutoContent PageType = "AUTOCONTENT"
)

// PageTypes lists every supported page type in declaration order.
var PageTypes = []PageType{PageCover, PageTitle, PageContent, PageBible, PageAutoContent}

// ParsePageType resolves a directive keyword. Matching ignores case and
// surrounding whitespace.
func ParsePageType(s string) (PageType, error) {
	candidate := PageType(cases.Upper(language.Und).String(strings.TrimSpace(s)))
	for _, t := range PageTypes {
		if t == candidate {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown page type %q", s)
}

// Role returns the template role that donates layout and styling for the
// page type.
func (t PageType) Role() Role {
	switch t {
	case PageCover:
		return RoleCover
	case PageTitle:
		return RoleTitle
	case PageContent:
		return RoleContent
	default:
		// AUTOCONTENT needs both the content and verse roles.
		return RoleVerse
	}
}

// PageDirective is one line of the page-structure script.
type PageDirective struct {
	Type     PageType `json:"type" yaml:"type"`
	Param    string   `json:"param,omitempty" yaml:"param,omitempty"`
	HasParam bool     `json:"-" yaml:"-"`
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"`
}

// String renders the directive in script syntax.
func (d PageDirective) String() string {
	if d.HasParam {
		return string(d.Type) + "=" + d.Param
	}
	return string(d.Type)
}

// Structure is the ordered directive list of a page-structure script.
type Structure struct {
	Directives []PageDirective `json:"directives" yaml:"directives"`
	// Warnings lists skipped lines, such as unknown page types.
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// RequiredRoles returns the number of template role slides the structure
// needs: one more than the highest role index referenced.
func (s Structure) RequiredRoles() int {
	highest := -1
	for _, d := range s.Directives {
		if r := int(d.Type.Role()); r > highest {
			highest = r
		}
	}
	return highest + 1
}
