package pptx

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
)

var (
	spTreeExpr = xpath.MustCompile("//*[local-name()='spTree']")
	sldIDExpr  = xpath.MustCompile("//*[local-name()='sldIdLst']/*[local-name()='sldId']")
)

// parseXML parses a part into an xmlquery document.
func parseXML(data []byte) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return doc, nil
}

// parseShapes reads the top-level shapes of a slide, layout or master part.
func parseShapes(data []byte) ([]*Shape, error) {
	doc, err := parseXML(data)
	if err != nil {
		return nil, err
	}

	tree := xmlquery.QuerySelector(doc, spTreeExpr)
	if tree == nil {
		return nil, errors.New("missing shape tree")
	}

	var shapes []*Shape
	for n := tree.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != xmlquery.ElementNode {
			continue
		}
		switch n.Data {
		case "sp":
			shapes = append(shapes, readShape(n, "nvSpPr", "spPr"))
		case "pic":
			sh := readShape(n, "nvPicPr", "spPr")
			sh.Kind = KindPicture
			shapes = append(shapes, sh)
		case "cxnSp":
			sh := readShape(n, "nvCxnSpPr", "spPr")
			sh.Kind = KindOther
			shapes = append(shapes, sh)
		case "grpSp":
			sh := readShape(n, "nvGrpSpPr", "grpSpPr")
			sh.Kind = KindOther
			shapes = append(shapes, sh)
		case "graphicFrame":
			sh := readShape(n, "nvGraphicFramePr", "")
			if xfrm := child(n, "xfrm"); xfrm != nil {
				sh.Frame, sh.HasFrame = readXfrm(xfrm)
			}
			sh.Kind = KindOther
			shapes = append(shapes, sh)
		}
	}

	return shapes, nil
}

// slideIDs reads the sldId entries of presentation.xml in order.
func slideIDs(data []byte) ([]slideRef, error) {
	doc, err := parseXML(data)
	if err != nil {
		return nil, err
	}

	var refs []slideRef
	for _, n := range xmlquery.QuerySelectorAll(doc, sldIDExpr) {
		id, err := strconv.ParseUint(attr(n, "id"), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid slide id %q: %w", attr(n, "id"), err)
		}
		refs = append(refs, slideRef{ID: uint32(id), RID: prefixedAttr(n, "id")})
	}
	return refs, nil
}

func readShape(n *xmlquery.Node, nvName, prName string) *Shape {
	sh := &Shape{Kind: KindOther}

	if nv := child(n, nvName); nv != nil {
		if c := child(nv, "cNvPr"); c != nil {
			sh.ID, _ = strconv.Atoi(attr(c, "id"))
			sh.Name = attr(c, "name")
		}
		if ph := descend(nv, "nvPr", "ph"); ph != nil {
			sh.Placeholder = &Placeholder{Type: attr(ph, "type"), Idx: attr(ph, "idx")}
		}
	}

	if prName != "" {
		if xfrm := descend(n, prName, "xfrm"); xfrm != nil {
			sh.Frame, sh.HasFrame = readXfrm(xfrm)
		}
	}

	if tx := child(n, "txBody"); tx != nil {
		sh.Kind = KindTextBox
		sh.Body = readTextBody(tx)
	}

	return sh
}

func readXfrm(xfrm *xmlquery.Node) (Frame, bool) {
	off, ext := child(xfrm, "off"), child(xfrm, "ext")
	if off == nil || ext == nil {
		return Frame{}, false
	}
	return Frame{
		X:  parseInt64(attr(off, "x")),
		Y:  parseInt64(attr(off, "y")),
		CX: parseInt64(attr(ext, "cx")),
		CY: parseInt64(attr(ext, "cy")),
	}, true
}

func readTextBody(tx *xmlquery.Node) *TextBody {
	body := &TextBody{}

	if pr := child(tx, "bodyPr"); pr != nil {
		body.Wrap = attr(pr, "wrap")
		body.Anchor = attr(pr, "anchor")
		switch {
		case child(pr, "noAutofit") != nil:
			body.AutoFit = AutoFitNone
		case child(pr, "normAutofit") != nil:
			body.AutoFit = AutoFitNormal
		case child(pr, "spAutoFit") != nil:
			body.AutoFit = AutoFitShape
		}
	}

	for _, p := range children(tx, "p") {
		body.Paragraphs = append(body.Paragraphs, readParagraph(p))
	}

	return body
}

func readParagraph(p *xmlquery.Node) Paragraph {
	var para Paragraph
	if pPr := child(p, "pPr"); pPr != nil {
		para.Align = attr(pPr, "algn")
	}

	for n := p.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != xmlquery.ElementNode {
			continue
		}
		switch n.Data {
		case "r", "fld":
			run := Run{}
			if t := child(n, "t"); t != nil {
				run.Text = t.InnerText()
			}
			if rPr := child(n, "rPr"); rPr != nil {
				run.Font = readFont(rPr)
			}
			para.Runs = append(para.Runs, run)
		case "br":
			para.Runs = append(para.Runs, Run{Break: true})
		}
	}

	return para
}

func readFont(rPr *xmlquery.Node) Font {
	var f Font

	if sz := attr(rPr, "sz"); sz != "" {
		f.Size, _ = strconv.Atoi(sz)
	}

	switch attr(rPr, "b") {
	case "1", "true":
		b := true
		f.Bold = &b
	case "0", "false":
		b := false
		f.Bold = &b
	}

	if latin := child(rPr, "latin"); latin != nil {
		f.Family = attr(latin, "typeface")
	}
	if ea := child(rPr, "ea"); ea != nil {
		f.EastAsian = attr(ea, "typeface")
	}

	if fill := child(rPr, "solidFill"); fill != nil {
		if clr := child(fill, "srgbClr"); clr != nil {
			if c, err := entities.ParseRGB(attr(clr, "val")); err == nil {
				f.Color = &c
			}
		} else if clr := child(fill, "schemeClr"); clr != nil {
			f.Scheme = attr(clr, "val")
		}
	}

	return f
}

// child returns the first child element with the given local name.
func child(n *xmlquery.Node, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			return c
		}
	}
	return nil
}

func children(n *xmlquery.Node, local string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			out = append(out, c)
		}
	}
	return out
}

func descend(n *xmlquery.Node, path ...string) *xmlquery.Node {
	for _, local := range path {
		if n = child(n, local); n == nil {
			return nil
		}
	}
	return n
}

// attr returns an unprefixed attribute.
func attr(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local && a.Name.Space == "" {
			return a.Value
		}
	}
	return ""
}

// prefixedAttr returns a namespace-qualified attribute such as r:id.
func prefixedAttr(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local && a.Name.Space != "" && a.Name.Space != "xmlns" {
			return a.Value
		}
	}
	return ""
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
