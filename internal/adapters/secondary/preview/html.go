// Package preview renders slide plans as sanitized HTML for proofreading.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
)

const page = `<!DOCTYPE html>
<html lang="zh-Hant">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
section.slide { border: 1px solid #ccc; margin: 1em 0; padding: 0 1em; }
span.slot { color: #888; font-size: 0.8em; }
</style>
</head>
<body>
%s
</body>
</html>
`

// colorStyle is the only inline style the sanitizer lets through.
var colorStyle = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// markdownSpecial matches the ASCII punctuation markdown may interpret.
var markdownSpecial = regexp.MustCompile("[\\\\`*_{}\\[\\]()#+\\-.!|~<>&]")

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("h1", "h2", "h3", "p", "br", "hr", "ul", "li", "strong", "em")
	p.AllowElements("section").AllowAttrs("class").OnElements("section")
	p.AllowElements("span").AllowAttrs("class").OnElements("span")
	p.AllowStyles("color").Matching(colorStyle).OnElements("span")
	return p
}

// HTMLRenderer implements ports.PlanRenderer with goldmark and bluemonday.
type HTMLRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	title  string
}

// NewHTMLRenderer creates a plan renderer. title is used for the page title.
func NewHTMLRenderer(title string) *HTMLRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithUnsafe(), // slide sections and colored spans
		),
	)
	if title == "" {
		title = "versedeck plan"
	}
	return &HTMLRenderer{md: md, policy: newPolicy(), title: title}
}

// Render converts plan into a standalone HTML page.
func (r *HTMLRenderer) Render(ctx context.Context, plan *entities.Plan) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := r.md.Convert([]byte(Markdown(plan)), &body); err != nil {
		return nil, fmt.Errorf("rendering plan: %w", err)
	}

	clean := r.policy.SanitizeBytes(body.Bytes())
	return []byte(fmt.Sprintf(page, html.EscapeString(r.title), clean)), nil
}

// Markdown writes plan as markdown, one section per slide.
func Markdown(plan *entities.Plan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %d slides\n\n", plan.SlideCount())

	for _, s := range plan.Slides {
		sb.WriteString("<section class=\"slide\">\n\n")
		fmt.Fprintf(&sb, "## %d. %s\n\n", s.Index+1, s.Kind)
		fmt.Fprintf(&sb, "*%s*\n\n", escape(string(s.Directive)))

		for _, st := range s.Slots {
			fmt.Fprintf(&sb, "<span class=\"slot\">%s</span>\n\n", st.Slot)
			for _, seg := range st.Segments {
				writeSegment(&sb, seg)
			}
		}
		sb.WriteString("</section>\n\n")
	}

	if len(plan.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range plan.Warnings {
			fmt.Fprintf(&sb, "- %s\n", escape(w.String()))
		}
		sb.WriteString("\n")
	}

	if plan.Removed > 0 {
		fmt.Fprintf(&sb, "---\n\n%d template slides removed\n", plan.Removed)
	}

	return sb.String()
}

func writeSegment(sb *strings.Builder, seg entities.TextSegment) {
	if seg.Text == "" {
		sb.WriteString("&nbsp;\n\n")
		return
	}

	text := escape(seg.Text)
	if seg.Color != nil {
		fmt.Fprintf(sb, "<span style=\"color: %s\">%s</span>\n\n", seg.Color.String(), text)
		return
	}
	sb.WriteString(text + "\n\n")
}

// escape neutralizes markdown syntax; hard wraps keep the line breaks.
func escape(s string) string {
	return markdownSpecial.ReplaceAllString(s, `\$0`)
}
