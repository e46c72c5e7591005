package pptx

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Relationship types used by the document model.
const (
	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	RelTypeSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	RelTypeSlideMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
)

const relationshipsNS = "http://schemas.openxmlformats.org/package/2006/relationships"

// Relationships is a relationships part (*.rels).
type Relationships struct {
	XMLName xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Items   []Relationship `xml:"Relationship"`
}

// Relationship links a source part to a target.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// External reports whether the target lies outside the package.
func (r Relationship) External() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

// ParseRelationships decodes a relationships part.
func ParseRelationships(data []byte) (*Relationships, error) {
	var rels Relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}
	return &rels, nil
}

// Marshal encodes the relationships part.
func (r *Relationships) Marshal() ([]byte, error) {
	r.XMLName = xml.Name{Space: relationshipsNS, Local: "Relationships"}
	out, err := xml.Marshal(r)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// ByID returns the relationship with the given id.
func (r *Relationships) ByID(id string) (Relationship, bool) {
	for _, rel := range r.Items {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// FirstOfType returns the first relationship of the given type.
func (r *Relationships) FirstOfType(relType string) (Relationship, bool) {
	for _, rel := range r.Items {
		if rel.Type == relType {
			return rel, true
		}
	}
	return Relationship{}, false
}

// Add appends a relationship with a fresh id and returns the id.
func (r *Relationships) Add(relType, target string) string {
	id := r.nextID()
	r.Items = append(r.Items, Relationship{ID: id, Type: relType, Target: target})
	return id
}

// Remove drops the relationship with the given id.
func (r *Relationships) Remove(id string) bool {
	for i, rel := range r.Items {
		if rel.ID == id {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Relationships) nextID() string {
	highest := 0
	for _, rel := range r.Items {
		if n, err := strconv.Atoi(strings.TrimPrefix(rel.ID, "rId")); err == nil && n > highest {
			highest = n
		}
	}
	return "rId" + strconv.Itoa(highest+1)
}
