package builders

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	parts := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		parts[f.Name] = string(content)
	}
	return parts
}

func TestTemplateBuilder(t *testing.T) {
	t.Run("standard template has four role slides", func(t *testing.T) {
		parts := readZip(t, StandardTemplate().Build())

		for _, name := range []string{
			"[Content_Types].xml",
			"_rels/.rels",
			"ppt/presentation.xml",
			"ppt/slideLayouts/slideLayout1.xml",
			"ppt/slideMasters/slideMaster1.xml",
			"ppt/slides/slide4.xml",
		} {
			assert.Contains(t, parts, name)
		}
		assert.NotContains(t, parts, "ppt/slides/slide5.xml")
		assert.Contains(t, parts["ppt/presentation.xml"], `<p:sldId id="259" r:id="rId5"/>`)
	})

	t.Run("escapes shape text", func(t *testing.T) {
		parts := readZip(t, NewTemplateBuilder().WithSlide(TextBox("Body", 1, "a < b & c")).Build())

		assert.Contains(t, parts["ppt/slides/slide1.xml"], "a &lt; b &amp; c")
	})
}

func TestDocxBuilder(t *testing.T) {
	data := NewDocxBuilder().
		WithColored("〈創1:1〉", "0000FF").
		WithPlain("plain").
		Build()

	doc := readZip(t, data)["word/document.xml"]
	assert.Contains(t, doc, `<w:color w:val="0000FF"/>`)
	assert.Contains(t, doc, "plain")
}

func TestAnnotatedTextBuilder(t *testing.T) {
	t.Run("with variables", func(t *testing.T) {
		text := NewAnnotatedTextBuilder().
			WithVariable("日期", "2024年1月7日").
			WithBlock("〈創1:1〉", "起初").
			WithBlock("plain").
			Build()

		assert.Equal(t, "[變數]\n日期=2024年1月7日\n[變數結束]\n\n〈創1:1〉\n起初\n\nplain\n", text)
	})

	t.Run("legacy", func(t *testing.T) {
		text := NewAnnotatedTextBuilder().Legacy().WithBlock("a").Build()

		assert.Equal(t, "a\n", text)
	})
}

func TestStructureBuilder(t *testing.T) {
	script := NewStructureBuilder().With("COVER", "").With("CONTENT", "hello").Build()

	assert.Equal(t, "# generated for tests\n[頁面結構]\nCOVER\nCONTENT=hello\n", script)
}
