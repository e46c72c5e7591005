package builders

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const emuPerInch = 914400

// Run describes one run of template text
type Run struct {
	Text  string
	Size  int // hundredths of a point
	Bold  bool
	Font  string
	Color string // RRGGBB, empty for none
}

// Para describes one paragraph of template text
type Para struct {
	Align string
	Runs  []Run
}

// TemplateShape describes one shape on a template slide
type TemplateShape struct {
	Name        string
	Top         float64 // inches
	Left        float64
	Width       float64
	Height      float64
	Picture     bool
	Placeholder string // placeholder type, "" for a plain text box
	Idx         string
	NoFrame     bool // placeholder inherits its frame from the layout
	Wrap        string
	Anchor      string
	AutoFit     string // "norm", "none", "shape" or ""
	Paragraphs  []Para
}

// TemplateBuilder helps build in-memory .pptx templates for testing
type TemplateBuilder struct {
	slides [][]TemplateShape
}

// NewTemplateBuilder creates a template builder with no slides
func NewTemplateBuilder() *TemplateBuilder {
	return &TemplateBuilder{}
}

// WithSlide appends a template slide with the given shapes
func (b *TemplateBuilder) WithSlide(shapes ...TemplateShape) *TemplateBuilder {
	b.slides = append(b.slides, shapes)
	return b
}

// TextBox returns a plain text box at top inches holding one paragraph per line
func TextBox(name string, top float64, lines ...string) TemplateShape {
	shape := TemplateShape{Name: name, Top: top, Left: 0.5, Width: 9, Height: 0.8, Wrap: "square", AutoFit: "norm"}
	for _, line := range lines {
		shape.Paragraphs = append(shape.Paragraphs, Para{
			Align: "ctr",
			Runs:  []Run{{Text: line, Size: 3200, Bold: true, Font: "Microsoft JhengHei", Color: "000000"}},
		})
	}
	return shape
}

// StandardTemplate creates the four role slides (cover, title, content,
// verse) with text shapes at the default slot offsets
func StandardTemplate() *TemplateBuilder {
	verse := TextBox("Verse", 1.0, "【創1:1】", "起初，神創造天地。")
	verse.Paragraphs[0].Runs[0].Color = "799BC1"
	verse.Paragraphs[1].Align = "l"
	verse.Paragraphs[1].Runs[0].Size = 4000
	verse.Paragraphs[1].Runs[0].Color = "1B366A"

	return NewTemplateBuilder().
		WithSlide(
			TemplateShape{Name: "Logo", Top: 0.1, Left: 0.1, Width: 1, Height: 1, Picture: true},
			TextBox("Date", 1.23, "2024年1月7日", "", "主日崇拜"),
			TextBox("Summary", 3.40, "創世記1章1節"),
			TextBox("Subtitle", 4.30, "副標題"),
		).
		WithSlide(
			TextBox("Date", 0.51, "2024年1月7日 主日崇拜"),
			TextBox("Theme", 1.72, "主題"),
			TextBox("Summary", 3.76, "創世記1章1節"),
			TextBox("Subtitle", 4.46, "副標題"),
		).
		WithSlide(
			TemplateShape{Name: "Title 1", Placeholder: "title", NoFrame: true},
			TextBox("Body", 1.0, "內容"),
		).
		WithSlide(verse)
}

// Build creates the .pptx archive bytes
func (b *TemplateBuilder) Build() []byte {
	parts := map[string]string{}
	var order []string
	put := func(name, content string) {
		order = append(order, name)
		parts[name] = xml.Header + content
	}

	var overrides strings.Builder
	override := func(part, contentType string) {
		fmt.Fprintf(&overrides, `<Override PartName="/%s" ContentType="%s"/>`, part, contentType)
	}
	override("ppt/presentation.xml", "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml")
	override("ppt/slideMasters/slideMaster1.xml", "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml")
	override("ppt/slideLayouts/slideLayout1.xml", "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml")
	for i := range b.slides {
		override(fmt.Sprintf("ppt/slides/slide%d.xml", i+1), "application/vnd.openxmlformats-officedocument.presentationml.slide+xml")
	}

	put("[Content_Types].xml", `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`+
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`+
		`<Default Extension="xml" ContentType="application/xml"/>`+
		overrides.String()+`</Types>`)

	put("_rels/.rels", rels(rel("rId1", "officeDocument", "ppt/presentation.xml")))

	var sldIDs strings.Builder
	presRels := []string{rel("rId1", "slideMaster", "slideMasters/slideMaster1.xml")}
	for i := range b.slides {
		rid := fmt.Sprintf("rId%d", i+2)
		fmt.Fprintf(&sldIDs, `<p:sldId id="%d" r:id="%s"/>`, 256+i, rid)
		presRels = append(presRels, rel(rid, "slide", fmt.Sprintf("slides/slide%d.xml", i+1)))
	}
	put("ppt/presentation.xml", `<p:presentation `+namespaces+`>`+
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`+
		`<p:sldIdLst>`+sldIDs.String()+`</p:sldIdLst>`+
		`<p:sldSz cx="12192000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/>`+
		`</p:presentation>`)
	put("ppt/_rels/presentation.xml.rels", rels(presRels...))

	put("ppt/slideMasters/slideMaster1.xml", `<p:sldMaster `+namespaces+`><p:cSld><p:spTree>`+groupProps+
		shapeXML(2, TemplateShape{Name: "Title Placeholder 1", Placeholder: "title", Top: 0.4, Left: 0.5, Width: 9, Height: 1})+
		shapeXML(3, TemplateShape{Name: "Text Placeholder 2", Placeholder: "body", Idx: "1", Top: 1.6, Left: 0.5, Width: 9, Height: 4})+
		`</p:spTree></p:cSld></p:sldMaster>`)
	put("ppt/slideMasters/_rels/slideMaster1.xml.rels", rels(rel("rId1", "slideLayout", "../slideLayouts/slideLayout1.xml")))

	put("ppt/slideLayouts/slideLayout1.xml", `<p:sldLayout `+namespaces+`><p:cSld><p:spTree>`+groupProps+
		shapeXML(2, TemplateShape{Name: "Title 1", Placeholder: "title", NoFrame: true})+
		shapeXML(3, TemplateShape{Name: "Content Placeholder 2", Placeholder: "body", Idx: "1", Top: 1.5, Left: 0.5, Width: 9, Height: 4})+
		shapeXML(4, TemplateShape{Name: "Date Placeholder 3", Placeholder: "dt", Idx: "10", Top: 6.8, Left: 0.5, Width: 2, Height: 0.4})+
		shapeXML(5, TemplateShape{Name: "Slide Number Placeholder 4", Placeholder: "sldNum", Idx: "12", Top: 6.8, Left: 8, Width: 2, Height: 0.4})+
		`</p:spTree></p:cSld></p:sldLayout>`)
	put("ppt/slideLayouts/_rels/slideLayout1.xml.rels", rels(rel("rId1", "slideMaster", "../slideMasters/slideMaster1.xml")))

	for i, shapes := range b.slides {
		var tree strings.Builder
		for j, shape := range shapes {
			tree.WriteString(shapeXML(j+2, shape))
		}
		put(fmt.Sprintf("ppt/slides/slide%d.xml", i+1), `<p:sld `+namespaces+`><p:cSld><p:spTree>`+groupProps+
			tree.String()+`</p:spTree></p:cSld></p:sld>`)
		put(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), rels(rel("rId1", "slideLayout", "../slideLayouts/slideLayout1.xml")))
	}

	return zipParts(order, parts)
}

const namespaces = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

const groupProps = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

func rel(id, kind, target string) string {
	return fmt.Sprintf(`<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/%s" Target="%s"/>`, id, kind, target)
}

func rels(items ...string) string {
	return `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		strings.Join(items, "") + `</Relationships>`
}

func xfrm(s TemplateShape) string {
	if s.NoFrame {
		return ""
	}
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		inches(s.Left), inches(s.Top), inches(s.Width), inches(s.Height))
}

func inches(v float64) int64 {
	return int64(v * emuPerInch)
}

func shapeXML(id int, s TemplateShape) string {
	if s.Picture {
		return fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="%s"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`+
			`<p:blipFill><a:blip r:embed="rId9"/></p:blipFill><p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
			id, escape(s.Name), xfrm(s))
	}

	nvPr := "<p:nvPr/>"
	cNvSpPr := `<p:cNvSpPr txBox="1"/>`
	if s.Placeholder != "" {
		ph := fmt.Sprintf(`<p:ph type="%s"`, s.Placeholder)
		if s.Idx != "" {
			ph += fmt.Sprintf(` idx="%s"`, s.Idx)
		}
		nvPr = "<p:nvPr>" + ph + "/></p:nvPr>"
		cNvSpPr = `<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`
	}

	var body strings.Builder
	body.WriteString("<a:bodyPr")
	if s.Wrap != "" {
		fmt.Fprintf(&body, ` wrap="%s"`, s.Wrap)
	}
	if s.Anchor != "" {
		fmt.Fprintf(&body, ` anchor="%s"`, s.Anchor)
	}
	switch s.AutoFit {
	case "norm":
		body.WriteString("><a:normAutofit/></a:bodyPr>")
	case "none":
		body.WriteString("><a:noAutofit/></a:bodyPr>")
	case "shape":
		body.WriteString("><a:spAutoFit/></a:bodyPr>")
	default:
		body.WriteString("/>")
	}
	body.WriteString("<a:lstStyle/>")
	if len(s.Paragraphs) == 0 {
		body.WriteString(`<a:p><a:endParaRPr lang="zh-TW"/></a:p>`)
	}
	for _, p := range s.Paragraphs {
		body.WriteString("<a:p>")
		if p.Align != "" {
			fmt.Fprintf(&body, `<a:pPr algn="%s"/>`, p.Align)
		}
		for _, r := range p.Runs {
			body.WriteString(runXML(r))
		}
		body.WriteString("</a:p>")
	}

	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/>%s%s</p:nvSpPr><p:spPr>%s</p:spPr><p:txBody>%s</p:txBody></p:sp>`,
		id, escape(s.Name), cNvSpPr, nvPr, xfrm(s), body.String())
}

func runXML(r Run) string {
	var b strings.Builder
	b.WriteString(`<a:r><a:rPr lang="zh-TW"`)
	if r.Size > 0 {
		fmt.Fprintf(&b, ` sz="%d"`, r.Size)
	}
	if r.Bold {
		b.WriteString(` b="1"`)
	}
	b.WriteString(">")
	if r.Color != "" {
		fmt.Fprintf(&b, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, r.Color)
	}
	if r.Font != "" {
		fmt.Fprintf(&b, `<a:latin typeface="%s"/><a:ea typeface="%s"/>`, r.Font, r.Font)
	}
	fmt.Fprintf(&b, "</a:rPr><a:t>%s</a:t></a:r>", escape(r.Text))
	return b.String()
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func zipParts(order []string, parts map[string]string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(parts[name])); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
