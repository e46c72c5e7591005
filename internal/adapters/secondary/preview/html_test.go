package preview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
)

func samplePlan() *entities.Plan {
	ref := entities.VerseRefColor
	return &entities.Plan{
		RunID: "run",
		Slides: []entities.SlidePlan{
			{
				Index:     0,
				Kind:      entities.SlideContent,
				Directive: entities.PageContent,
				Slots: []entities.SlotText{{
					Slot:     entities.SlotBody,
					Segments: entities.Paragraphs("第一行\n<script>alert(1)</script> *強調*"),
				}},
			},
			{
				Index:     1,
				Kind:      entities.SlideVerse,
				Directive: entities.PageBible,
				Slots: []entities.SlotText{{
					Slot: entities.SlotBody,
					Segments: []entities.TextSegment{
						{Text: "創世記19章17節", Color: &ref},
						{Text: "逃命吧"},
					},
				}},
			},
		},
		Warnings: []entities.Warning{{Kind: entities.WarnVerseScanGap, Line: 3, Message: "no verse 3"}},
		Removed:  4,
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(samplePlan())

	assert.Contains(t, md, "# 2 slides")
	assert.Contains(t, md, "## 2. verse")
	assert.Contains(t, md, `\<script\>`)
	assert.Contains(t, md, `\*強調\*`)
	assert.Contains(t, md, "4 template slides removed")
}

func TestHTMLRenderer_Render(t *testing.T) {
	out, err := NewHTMLRenderer("").Render(context.Background(), samplePlan())
	require.NoError(t, err)

	page := string(out)
	assert.Contains(t, page, "<title>versedeck plan</title>")
	assert.Contains(t, page, "第一行")
	assert.Contains(t, page, "創世記19章17節")
	assert.Contains(t, page, "color: #799BC1")
	assert.Contains(t, page, "verse_scan_gap")
	assert.NotContains(t, page, "<script>")
	assert.NotContains(t, page, "<em>強調</em>")
}

func TestHTMLRenderer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTMLRenderer("x").Render(ctx, samplePlan())
	assert.ErrorIs(t, err, context.Canceled)
}
