package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/versedeck/internal/adapters/secondary/config"
	"github.com/fredcamaral/versedeck/internal/adapters/secondary/materializer"
	"github.com/fredcamaral/versedeck/internal/adapters/secondary/parser"
	"github.com/fredcamaral/versedeck/internal/adapters/secondary/pptx"
	"github.com/fredcamaral/versedeck/internal/domain/entities"
	"github.com/fredcamaral/versedeck/internal/domain/ports"
	"github.com/fredcamaral/versedeck/internal/test/builders"
)

func sundayText() *builders.AnnotatedTextBuilder {
	return builders.NewAnnotatedTextBuilder().
		WithVariable("日期", "2024年1月7日").
		WithVariable("禮拜類型", "主日崇拜").
		WithVariable("主題", "逃到山上").
		WithVariable("經文章節", "創世記19章")
}

func newRequest(t *testing.T, text, structure string) GenerateRequest {
	t.Helper()
	ctx := context.Background()

	doc, err := parser.NewAnnotatedTextParser(nil).Parse(ctx, []byte(text))
	require.NoError(t, err)
	st, err := parser.NewStructureParser(nil).Parse(ctx, []byte(structure))
	require.NoError(t, err)

	cfg := config.GetDefaultConfig()
	return GenerateRequest{
		Document:  doc,
		Structure: st,
		Variables: cfg.Variables,
		Verse:     cfg.Verse,
		Template:  cfg.Template,
	}
}

func interpret(t *testing.T, req GenerateRequest) (*entities.Plan, *materializer.Recorder) {
	t.Helper()
	rec := materializer.NewRecorder(req.Template)
	plan, err := NewGeneratorService(nil, nil).Interpret(context.Background(), req, rec)
	require.NoError(t, err)
	return plan, rec
}

func placedText(t *testing.T, p entities.SlidePlan, slot entities.Slot) string {
	t.Helper()
	st, ok := p.SlotText(slot)
	require.True(t, ok, "slot %s not placed", slot)
	return st.Text()
}

func warningKinds(ws []entities.Warning) []entities.WarningKind {
	var kinds []entities.WarningKind
	for _, w := range ws {
		kinds = append(kinds, w.Kind)
	}
	return kinds
}

func TestGeneratorService_Interpret(t *testing.T) {
	t.Run("cover title and autocontent", func(t *testing.T) {
		text := sundayText().
			WithBlock("〈創19:17〉逃命吧，不可回頭看").
			WithBlock("第一行", "第二行").
			Build()
		structure := builders.NewStructureBuilder().
			With("COVER", "").
			With("TITLE", "").
			With("AUTOCONTENT", "").
			Build()

		plan, rec := interpret(t, newRequest(t, text, structure))

		assert.NotEmpty(t, plan.RunID)
		assert.Equal(t, []entities.SlideKind{
			entities.SlideCover, entities.SlideTitle, entities.SlideVerse, entities.SlideContent,
		}, plan.Kinds())
		assert.Empty(t, plan.Warnings)

		cover := plan.Slides[0]
		assert.Equal(t, "2024年1月7日\n\n主日崇拜", placedText(t, cover, entities.SlotDateLine))
		assert.Equal(t, "創世記19章", placedText(t, cover, entities.SlotVerseSummary))
		_, hasSubtitle := cover.SlotText(entities.SlotSubtitle)
		assert.False(t, hasSubtitle)

		title := plan.Slides[1]
		assert.Equal(t, "2024年1月7日 主日崇拜", placedText(t, title, entities.SlotDateLine))
		assert.Equal(t, "逃到山上", placedText(t, title, entities.SlotTheme))

		verse, ok := plan.Slides[2].SlotText(entities.SlotBody)
		require.True(t, ok)
		require.Len(t, verse.Segments, 2)
		assert.Equal(t, "創世記19章17節", verse.Segments[0].Text)
		assert.Equal(t, entities.VerseRefColor, *verse.Segments[0].Color)
		assert.Equal(t, "逃命吧，不可回頭看", verse.Segments[1].Text)
		assert.Equal(t, entities.VerseBodyColor, *verse.Segments[1].Color)

		assert.Equal(t, "第一行\n第二行", placedText(t, plan.Slides[3], entities.SlotBody))

		slides := rec.Slides()
		require.Len(t, slides, 4)
		for _, s := range slides {
			assert.True(t, s.Stripped)
		}
		assert.Equal(t, entities.RoleVerse, slides[2].Role)
		assert.Equal(t, entities.RoleContent, slides[3].Role)
	})

	t.Run("subtitle placed only with a parameter", func(t *testing.T) {
		structure := builders.NewStructureBuilder().With("TITLE", "聖餐主日").Build()
		plan, _ := interpret(t, newRequest(t, sundayText().Build(), structure))

		require.Len(t, plan.Slides, 1)
		assert.Equal(t, "聖餐主日", placedText(t, plan.Slides[0], entities.SlotSubtitle))
	})

	t.Run("content without parameter emits nothing", func(t *testing.T) {
		structure := builders.NewStructureBuilder().
			With("CONTENT", "").
			With("CONTENT", "報告").
			Build()
		plan, _ := interpret(t, newRequest(t, sundayText().Build(), structure))

		require.Len(t, plan.Slides, 1)
		assert.Equal(t, entities.PageContent, plan.Slides[0].Directive)
		assert.Equal(t, "報告", placedText(t, plan.Slides[0], entities.SlotBody))
	})

	t.Run("content with an empty value emits nothing", func(t *testing.T) {
		plan, _ := interpret(t, newRequest(t, sundayText().Build(), "[頁面結構]\nCONTENT=\nCONTENT=  \n"))

		assert.Empty(t, plan.Slides)
		assert.Empty(t, plan.Warnings)
	})

	t.Run("bible stops at the first gap", func(t *testing.T) {
		text := sundayText().
			WithVariable("經文1", "〈創19:17〉逃命吧").
			WithVariable("經文2", "〈創19:26〉羅得的妻子在後邊回頭一看").
			WithVariable("經文4", "〈創19:29〉神記念亞伯拉罕").
			Build()
		structure := builders.NewStructureBuilder().With("BIBLE", "").Build()

		plan, _ := interpret(t, newRequest(t, text, structure))

		assert.Equal(t, []entities.SlideKind{entities.SlideVerse, entities.SlideVerse}, plan.Kinds())
		assert.Equal(t, []entities.WarningKind{entities.WarnVerseScanGap}, warningKinds(plan.Warnings))
	})

	t.Run("bible skips values without a closing bracket", func(t *testing.T) {
		text := sundayText().
			WithVariable("經文1", "創19:17 逃命吧").
			WithVariable("經文2", "<創19:26>回頭一看").
			Build()
		structure := builders.NewStructureBuilder().With("BIBLE", "").Build()

		plan, _ := interpret(t, newRequest(t, text, structure))

		require.Len(t, plan.Slides, 1)
		assert.Equal(t, []entities.WarningKind{entities.WarnSkippedVerse}, warningKinds(plan.Warnings))
		assert.Equal(t, "創世記19章26節\n回頭一看", placedText(t, plan.Slides[0], entities.SlotBody))
	})

	t.Run("bracket reference style", func(t *testing.T) {
		text := sundayText().WithVariable("verse1", "〈創19:17〉逃命吧").Build()
		structure := builders.NewStructureBuilder().With("BIBLE", "").Build()

		req := newRequest(t, text, structure)
		req.Verse.RefStyle = entities.RefStyleBracket
		plan, _ := interpret(t, req)

		require.Len(t, plan.Slides, 1)
		st, _ := plan.Slides[0].SlotText(entities.SlotBody)
		assert.Equal(t, "【創19:17】", st.Segments[0].Text)
	})

	t.Run("autocontent queue is shared", func(t *testing.T) {
		text := sundayText().WithBlock("一").WithBlock("二").Build()
		structure := builders.NewStructureBuilder().
			With("AUTOCONTENT", "").
			With("AUTOCONTENT", "").
			Build()

		plan, _ := interpret(t, newRequest(t, text, structure))
		assert.Len(t, plan.Slides, 2)
	})

	t.Run("unbalanced reference becomes content", func(t *testing.T) {
		text := sundayText().WithBlock("〈創19:17 沒有結尾").Build()
		structure := builders.NewStructureBuilder().With("AUTOCONTENT", "").Build()

		plan, _ := interpret(t, newRequest(t, text, structure))

		assert.Equal(t, []entities.SlideKind{entities.SlideContent}, plan.Kinds())
		assert.Equal(t, []entities.WarningKind{entities.WarnUnbalancedReference}, warningKinds(plan.Warnings))
	})

	t.Run("unknown directive is skipped with a warning", func(t *testing.T) {
		text := sundayText().WithBlock("第一行").Build()
		plan, _ := interpret(t, newRequest(t, text, "[頁面結構]\nCOVER\nHYMN=聖哉\nAUTOCONTENT\n"))

		assert.Equal(t, []entities.SlideKind{entities.SlideCover, entities.SlideContent}, plan.Kinds())
		require.Len(t, plan.Warnings, 1)
		assert.Equal(t, entities.WarnUnknownDirective, plan.Warnings[0].Kind)
		assert.Equal(t, 3, plan.Warnings[0].Line)
	})

	t.Run("cancelled context", func(t *testing.T) {
		req := newRequest(t, sundayText().Build(), builders.NewStructureBuilder().With("COVER", "").Build())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewGeneratorService(nil, nil).Interpret(ctx, req, materializer.NewRecorder(req.Template))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// repeatingMaterializer raises the same warning at load and on every placement.
type repeatingMaterializer struct {
	*materializer.Recorder
	warnings []entities.Warning
}

var repeated = entities.Warning{Kind: entities.WarnShapeAttribute, Message: "font size unreadable"}

func (m *repeatingMaterializer) PlaceText(h ports.SlideHandle, src entities.ShapeRef, segments []entities.TextSegment) error {
	m.warnings = append(m.warnings, repeated)
	return m.Recorder.PlaceText(h, src, segments)
}

func (m *repeatingMaterializer) Warnings() []entities.Warning {
	return append([]entities.Warning(nil), m.warnings...)
}

func TestGeneratorService_RepeatedWarningsKept(t *testing.T) {
	structure := builders.NewStructureBuilder().
		With("CONTENT", "報告").
		With("CONTENT", "代禱").
		Build()
	req := newRequest(t, sundayText().Build(), structure)
	m := &repeatingMaterializer{
		Recorder: materializer.NewRecorder(req.Template),
		warnings: []entities.Warning{repeated},
	}

	plan, err := NewGeneratorService(nil, nil).Interpret(context.Background(), req, m)
	require.NoError(t, err)

	placements := 0
	for _, s := range m.Slides() {
		placements += len(s.Placements)
	}
	require.Equal(t, 2, len(m.Slides()))
	assert.Len(t, plan.Warnings, 1+placements, "each raised warning appears once, repeats included")
	for _, w := range plan.Warnings {
		assert.Equal(t, repeated, w)
	}
}

func TestGeneratorService_TooFewRoleSlides(t *testing.T) {
	data := builders.NewTemplateBuilder().
		WithSlide(builders.TextBox("Date", 1.23, "x")).
		WithSlide(builders.TextBox("Date", 0.51, "x")).
		Build()
	deck, err := pptx.OpenBytes(data)
	require.NoError(t, err)

	req := newRequest(t, sundayText().Build(),
		builders.NewStructureBuilder().With("COVER", "").With("BIBLE", "").Build())
	m := materializer.NewPPTXMaterializer(deck, req.Template, nil)

	_, err = NewGeneratorService(nil, nil).Interpret(context.Background(), req, m)
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrConfiguration)
	assert.Len(t, deck.Slides(), 2, "no slide may be created before the check")
}

func TestGeneratorService_Generate(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "template.pptx")
	require.NoError(t, os.WriteFile(templatePath, builders.StandardTemplate().Build(), 0600))

	text := sundayText().
		WithVariable("經文1", "〈創19:17〉逃命吧").
		WithBlock("第一行", "第二行").
		Build()
	structure := builders.NewStructureBuilder().
		With("COVER", "").
		With("TITLE", "").
		With("BIBLE", "").
		With("AUTOCONTENT", "").
		Build()

	req := newRequest(t, text, structure)
	req.TemplatePath = templatePath
	req.Output = filepath.Join(dir, "out.pptx")

	result, err := NewGeneratorService(materializer.NewLoader(nil), nil).Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Plan.SlideCount())
	assert.Equal(t, 4, result.Plan.Removed)

	out, err := pptx.Open(req.Output)
	require.NoError(t, err)
	slides := out.Slides()
	require.Len(t, slides, 4)

	// no template text survives
	for _, s := range slides {
		for _, sh := range s.Shapes() {
			assert.NotContains(t, sh.Text(), "副標題")
			assert.NotContains(t, sh.Text(), "起初")
		}
	}

	verse := slides[2].Shapes()
	require.Len(t, verse, 1)
	assert.Equal(t, "創世記19章17節\n逃命吧", verse[0].Text())

	cover := slides[0].TextShapes()
	require.Len(t, cover, 2)
	assert.Equal(t, "2024年1月7日\n\n主日崇拜", cover[0].Text())
}

func TestGeneratorService_GenerateErrors(t *testing.T) {
	req := newRequest(t, sundayText().Build(), builders.NewStructureBuilder().With("COVER", "").Build())

	_, err := NewGeneratorService(nil, nil).Generate(context.Background(), req)
	assert.Error(t, err)

	req.TemplatePath = filepath.Join(t.TempDir(), "missing.pptx")
	req.Output = filepath.Join(t.TempDir(), "out.pptx")
	_, err = NewGeneratorService(materializer.NewLoader(nil), nil).Generate(context.Background(), req)
	assert.ErrorIs(t, err, entities.ErrConfiguration)
}
