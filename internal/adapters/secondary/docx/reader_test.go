package docx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
	"github.com/fredcamaral/versedeck/internal/test/builders"
)

func TestReader_ReadParagraphs(t *testing.T) {
	data := builders.NewDocxBuilder().
		WithColored("〈創19:17〉", "0000FF").
		WithParagraph(
			builders.DocxRun{Text: "逃命吧", Color: "0000FF"},
			builders.DocxRun{Text: " 旁註"},
			builders.DocxRun{Text: "自動", Color: "auto"},
		).
		WithPlain("").
		Build()

	paragraphs, err := NewReader(nil).ReadParagraphs(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, paragraphs, 3)

	first := paragraphs[0]
	require.Len(t, first.Runs, 1)
	assert.Equal(t, "〈創19:17〉", first.Runs[0].Text)
	require.NotNil(t, first.Runs[0].Color)
	assert.Equal(t, entities.RGB{B: 255}, *first.Runs[0].Color)

	second := paragraphs[1]
	require.Len(t, second.Runs, 3)
	assert.Equal(t, " 旁註", second.Runs[1].Text)
	assert.Nil(t, second.Runs[1].Color)
	assert.Nil(t, second.Runs[2].Color, "auto is not an explicit color")
}

func TestReader_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("plain text")},
		{"no document part", builders.StandardTemplate().Build()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(nil).ReadParagraphs(context.Background(), tt.data)
			assert.ErrorIs(t, err, entities.ErrParse)
		})
	}
}
