package pptx

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// ContentTypeSlide is the content type of a slide part.
const ContentTypeSlide = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"

const contentTypesNS = "http://schemas.openxmlformats.org/package/2006/content-types"

// ContentTypes is the [Content_Types].xml part.
type ContentTypes struct {
	XMLName   xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []DefaultType  `xml:"Default"`
	Overrides []OverrideType `xml:"Override"`
}

// DefaultType maps a file extension to a content type.
type DefaultType struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// OverrideType assigns a content type to a single part.
type OverrideType struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ParseContentTypes decodes [Content_Types].xml.
func ParseContentTypes(data []byte) (*ContentTypes, error) {
	var ct ContentTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("parsing content types: %w", err)
	}
	return &ct, nil
}

// Marshal encodes the part.
func (c *ContentTypes) Marshal() ([]byte, error) {
	c.XMLName = xml.Name{Space: contentTypesNS, Local: "Types"}
	out, err := xml.Marshal(c)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// SetOverride registers or replaces the content type of part.
func (c *ContentTypes) SetOverride(part, contentType string) {
	name := "/" + strings.TrimPrefix(part, "/")
	for i, o := range c.Overrides {
		if o.PartName == name {
			c.Overrides[i].ContentType = contentType
			return
		}
	}
	c.Overrides = append(c.Overrides, OverrideType{PartName: name, ContentType: contentType})
}

// Override returns the explicit content type of part.
func (c *ContentTypes) Override(part string) (string, bool) {
	name := "/" + strings.TrimPrefix(part, "/")
	for _, o := range c.Overrides {
		if o.PartName == name {
			return o.ContentType, true
		}
	}
	return "", false
}

// Retain drops overrides for parts not in keep.
func (c *ContentTypes) Retain(keep map[string]bool) {
	kept := c.Overrides[:0]
	for _, o := range c.Overrides {
		if keep[strings.TrimPrefix(o.PartName, "/")] {
			kept = append(kept, o)
		}
	}
	c.Overrides = kept
}
