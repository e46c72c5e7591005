package pptx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		source, target, want string
	}{
		{"", "ppt/presentation.xml", "ppt/presentation.xml"},
		{"ppt/presentation.xml", "slides/slide1.xml", "ppt/slides/slide1.xml"},
		{"ppt/slides/slide1.xml", "../slideLayouts/slideLayout2.xml", "ppt/slideLayouts/slideLayout2.xml"},
		{"ppt/slides/slide1.xml", "/ppt/media/image1.png", "ppt/media/image1.png"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTarget(tt.source, tt.target))
		})
	}
}

func TestRelativeTarget(t *testing.T) {
	tests := []struct {
		source, part, want string
	}{
		{"ppt/presentation.xml", "ppt/slides/slide3.xml", "slides/slide3.xml"},
		{"ppt/slides/slide3.xml", "ppt/slideLayouts/slideLayout1.xml", "../slideLayouts/slideLayout1.xml"},
		{"ppt/slides/slide3.xml", "ppt/slides/slide4.xml", "slide4.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.part, func(t *testing.T) {
			got := RelativeTarget(tt.source, tt.part)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.part, ResolveTarget(tt.source, got))
		})
	}
}

func TestRelsPartName(t *testing.T) {
	assert.Equal(t, "_rels/.rels", RelsPartName(""))
	assert.Equal(t, "ppt/slides/_rels/slide1.xml.rels", RelsPartName("ppt/slides/slide1.xml"))
}

func TestNextPartName(t *testing.T) {
	pkg := &Package{parts: map[string][]byte{}}
	assert.Equal(t, "ppt/slides/slide1.xml", pkg.NextPartName("ppt/slides", "slide"))

	pkg.Put("ppt/slides/slide2.xml", nil)
	pkg.Put("ppt/slides/slide10.xml", nil)
	pkg.Put("ppt/slides/_rels/slide10.xml.rels", nil)
	assert.Equal(t, "ppt/slides/slide11.xml", pkg.NextPartName("ppt/slides", "slide"))
}

func TestRelationships(t *testing.T) {
	rels, err := ParseRelationships([]byte(`<?xml version="1.0"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId3" Type="` + RelTypeSlide + `" Target="slides/slide1.xml"/>` +
		`<Relationship Id="rId7" Type="x" Target="https://example.com" TargetMode="External"/>` +
		`</Relationships>`))
	require.NoError(t, err)

	assert.Equal(t, "rId8", rels.Add(RelTypeSlide, "slides/slide2.xml"))

	first, ok := rels.FirstOfType(RelTypeSlide)
	require.True(t, ok)
	assert.Equal(t, "rId3", first.ID)

	ext, ok := rels.ByID("rId7")
	require.True(t, ok)
	assert.True(t, ext.External())

	assert.True(t, rels.Remove("rId3"))
	assert.False(t, rels.Remove("rId3"))

	data, err := rels.Marshal()
	require.NoError(t, err)
	again, err := ParseRelationships(data)
	require.NoError(t, err)
	assert.Len(t, again.Items, 2)
}

func TestShapeKindString(t *testing.T) {
	assert.Equal(t, "text", KindTextBox.String())
	assert.Equal(t, "picture", KindPicture.String())
	assert.Equal(t, "other", KindOther.String())
}
