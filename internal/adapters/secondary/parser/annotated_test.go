package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
	"github.com/fredcamaral/versedeck/internal/test/builders"
)

func parseText(t *testing.T, text string) *entities.Document {
	t.Helper()
	doc, err := NewAnnotatedTextParser(nil).Parse(context.Background(), []byte(text))
	require.NoError(t, err)
	return doc
}

func blockTexts(doc *entities.Document) []string {
	out := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		out = append(out, b.Text())
	}
	return out
}

func warningKinds(ws []entities.Warning) []entities.WarningKind {
	out := make([]entities.WarningKind, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Kind)
	}
	return out
}

func TestAnnotatedTextParser_Variables(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected entities.VariableMap
		warnings []entities.WarningKind
	}{
		{
			name:     "trims keys and values",
			input:    "[變數]\n  日期 =  2024年1月7日  \n[變數結束]\n",
			expected: entities.VariableMap{"日期": "2024年1月7日"},
		},
		{
			name:     "last write wins",
			input:    "[變數]\n主題=舊\n主題=新\n[變數結束]\n",
			expected: entities.VariableMap{"主題": "新"},
		},
		{
			name:     "splits on first equals sign",
			input:    "[變數]\n經文1=〈創1:1〉a=b\n[變數結束]\n",
			expected: entities.VariableMap{"經文1": "〈創1:1〉a=b"},
		},
		{
			name:     "skips lines without equals",
			input:    "[變數]\nnot a variable\n\nk=v\n[變數結束]\n",
			expected: entities.VariableMap{"k": "v"},
			warnings: []entities.WarningKind{entities.WarnMalformedVariable},
		},
		{
			name:     "lines before the markers are ignored",
			input:    "intro=ignored\n[變數]\nk=v\n[變數結束]\n",
			expected: entities.VariableMap{"k": "v"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseText(t, tt.input)

			assert.Equal(t, tt.expected, doc.Variables)
			assert.Equal(t, tt.warnings, nilIfEmpty(warningKinds(doc.Warnings)))
			assert.False(t, doc.Legacy)
		})
	}
}

func nilIfEmpty(kinds []entities.WarningKind) []entities.WarningKind {
	if len(kinds) == 0 {
		return nil
	}
	return kinds
}

func TestAnnotatedTextParser_Blocks(t *testing.T) {
	t.Run("blank lines separate blocks", func(t *testing.T) {
		doc := parseText(t, "[變數]\n[變數結束]\n\n  first  \nsecond\n\n\n\nthird\n")

		assert.Equal(t, []string{"first\nsecond", "third"}, blockTexts(doc))
	})

	t.Run("EOF flushes the last block", func(t *testing.T) {
		doc := parseText(t, "[變數]\n[變數結束]\na\nb")

		assert.Equal(t, []string{"a\nb"}, blockTexts(doc))
	})

	t.Run("whitespace-only lines are blank", func(t *testing.T) {
		doc := parseText(t, "[變數]\n[變數結束]\na\n \t　\nb\n")

		assert.Equal(t, []string{"a", "b"}, blockTexts(doc))
	})

	t.Run("CRLF line endings", func(t *testing.T) {
		doc := parseText(t, "[變數]\r\nk=v\r\n[變數結束]\r\na\r\n\r\nb\r\n")

		assert.Equal(t, entities.VariableMap{"k": "v"}, doc.Variables)
		assert.Equal(t, []string{"a", "b"}, blockTexts(doc))
	})

	t.Run("legacy input without markers", func(t *testing.T) {
		doc := parseText(t, "a=b\n\n〈創1:1〉起初\n")

		assert.True(t, doc.Legacy)
		assert.Empty(t, doc.Variables)
		assert.Equal(t, []string{"a=b", "〈創1:1〉起初"}, blockTexts(doc))
		assert.Equal(t, []entities.WarningKind{entities.WarnMissingMarkers}, warningKinds(doc.Warnings))
	})

	t.Run("start marker without end has no content", func(t *testing.T) {
		doc := parseText(t, "[變數]\nk=v\n\ntext\n")

		assert.Empty(t, doc.Blocks)
		assert.Contains(t, warningKinds(doc.Warnings), entities.WarnMissingMarkers)
	})

	t.Run("markers inside content are ignored", func(t *testing.T) {
		doc := parseText(t, "[變數]\n[變數結束]\na\n[變數]\nb\n")

		assert.Equal(t, []string{"a\nb"}, blockTexts(doc))
		assert.Equal(t, []entities.WarningKind{entities.WarnUnknownLine}, warningKinds(doc.Warnings))
	})
}

func TestAnnotatedTextParser_Idempotent(t *testing.T) {
	input := builders.NewAnnotatedTextBuilder().
		WithVariable("日期", "2024年1月7日").
		WithBlock("〈創19:17〉領他們出來以後", "就說逃命吧").
		WithBlock("  plain  ", "text").
		WithBlock("〈約3:16〉").
		Build()

	first := parseText(t, input)
	second := parseText(t, first.Serialize())

	assert.Equal(t, first.Blocks, second.Blocks)
}

func TestAnnotatedTextParser_Encoding(t *testing.T) {
	t.Run("UTF-8 BOM", func(t *testing.T) {
		doc := parseText(t, "\ufeff[變數]\nk=v\n[變數結束]\n")

		assert.False(t, doc.Legacy)
		assert.Equal(t, "v", doc.Variables["k"])
	})

	t.Run("UTF-16 with BOM", func(t *testing.T) {
		for _, endian := range []unicode.Endianness{unicode.LittleEndian, unicode.BigEndian} {
			enc := unicode.UTF16(endian, unicode.UseBOM).NewEncoder()
			raw, err := enc.Bytes([]byte("[變數]\n主題=平安\n[變數結束]\n內容\n"))
			require.NoError(t, err)

			doc, err := NewAnnotatedTextParser(nil).Parse(context.Background(), raw)
			require.NoError(t, err)
			assert.Equal(t, "平安", doc.Variables["主題"])
			assert.Equal(t, []string{"內容"}, blockTexts(doc))
		}
	})

	t.Run("invalid UTF-8 is a parse error", func(t *testing.T) {
		_, err := NewAnnotatedTextParser(nil).Parse(context.Background(), []byte("ok\nbad \xff byte\n"))

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrParse)
		var perr *entities.ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 2, perr.Line)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewAnnotatedTextParser(nil).Parse(ctx, []byte("x"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
