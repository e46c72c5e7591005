package pptx

import (
	"encoding/xml"
	"fmt"
)

const (
	nsDrawingML     = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPresentation  = "http://schemas.openxmlformats.org/presentationml/2006/main"
)

type xSld struct {
	XMLName   xml.Name   `xml:"p:sld"`
	XmlnsA    string     `xml:"xmlns:a,attr"`
	XmlnsR    string     `xml:"xmlns:r,attr"`
	XmlnsP    string     `xml:"xmlns:p,attr"`
	CSld      xCSld      `xml:"p:cSld"`
	ClrMapOvr xClrMapOvr `xml:"p:clrMapOvr"`
}

type xCSld struct {
	SpTree xSpTree `xml:"p:spTree"`
}

type xClrMapOvr struct {
	MasterClrMapping struct{} `xml:"a:masterClrMapping"`
}

type xSpTree struct {
	NvGrpSpPr xNvGrpSpPr `xml:"p:nvGrpSpPr"`
	GrpSpPr   xGrpSpPr   `xml:"p:grpSpPr"`
	Shapes    []xSp      `xml:"p:sp"`
}

type xNvGrpSpPr struct {
	CNvPr      xCNvPr   `xml:"p:cNvPr"`
	CNvGrpSpPr struct{} `xml:"p:cNvGrpSpPr"`
	NvPr       xNvPr    `xml:"p:nvPr"`
}

type xGrpSpPr struct {
	Xfrm xGroupXfrm `xml:"a:xfrm"`
}

type xGroupXfrm struct {
	Off   xOff `xml:"a:off"`
	Ext   xExt `xml:"a:ext"`
	ChOff xOff `xml:"a:chOff"`
	ChExt xExt `xml:"a:chExt"`
}

type xSp struct {
	NvSpPr xNvSpPr  `xml:"p:nvSpPr"`
	SpPr   xSpPr    `xml:"p:spPr"`
	TxBody *xTxBody `xml:"p:txBody,omitempty"`
}

type xNvSpPr struct {
	CNvPr   xCNvPr   `xml:"p:cNvPr"`
	CNvSpPr xCNvSpPr `xml:"p:cNvSpPr"`
	NvPr    xNvPr    `xml:"p:nvPr"`
}

type xCNvPr struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type xCNvSpPr struct {
	TxBox   string    `xml:"txBox,attr,omitempty"`
	SpLocks *xSpLocks `xml:"a:spLocks,omitempty"`
}

type xSpLocks struct {
	NoGrp string `xml:"noGrp,attr"`
}

type xNvPr struct {
	Ph *xPh `xml:"p:ph,omitempty"`
}

type xPh struct {
	Type string `xml:"type,attr,omitempty"`
	Idx  string `xml:"idx,attr,omitempty"`
}

type xSpPr struct {
	Xfrm     *xXfrm     `xml:"a:xfrm,omitempty"`
	PrstGeom *xPrstGeom `xml:"a:prstGeom,omitempty"`
	NoFill   *struct{}  `xml:"a:noFill,omitempty"`
}

type xXfrm struct {
	Off xOff `xml:"a:off"`
	Ext xExt `xml:"a:ext"`
}

type xOff struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type xExt struct {
	CX int64 `xml:"cx,attr"`
	CY int64 `xml:"cy,attr"`
}

type xPrstGeom struct {
	Prst  string   `xml:"prst,attr"`
	AvLst struct{} `xml:"a:avLst"`
}

type xTxBody struct {
	BodyPr     xBodyPr  `xml:"a:bodyPr"`
	LstStyle   struct{} `xml:"a:lstStyle"`
	Paragraphs []xP     `xml:"a:p"`
}

type xBodyPr struct {
	Wrap        string    `xml:"wrap,attr,omitempty"`
	Anchor      string    `xml:"anchor,attr,omitempty"`
	NoAutofit   *struct{} `xml:"a:noAutofit,omitempty"`
	NormAutofit *struct{} `xml:"a:normAutofit,omitempty"`
	SpAutoFit   *struct{} `xml:"a:spAutoFit,omitempty"`
}

// xP holds a:r and a:br children in document order.
type xP struct {
	PPr   *xPPr `xml:"a:pPr,omitempty"`
	Items []any
}

type xPPr struct {
	Algn string `xml:"algn,attr,omitempty"`
}

type xR struct {
	XMLName xml.Name `xml:"a:r"`
	RPr     xRPr     `xml:"a:rPr"`
	T       string   `xml:"a:t"`
}

type xBr struct {
	XMLName xml.Name `xml:"a:br"`
	RPr     *xRPr    `xml:"a:rPr,omitempty"`
}

type xRPr struct {
	Lang      string      `xml:"lang,attr,omitempty"`
	Sz        int         `xml:"sz,attr,omitempty"`
	B         string      `xml:"b,attr,omitempty"`
	SolidFill *xSolidFill `xml:"a:solidFill,omitempty"`
	Latin     *xTypeface  `xml:"a:latin,omitempty"`
	Ea        *xTypeface  `xml:"a:ea,omitempty"`
}

type xSolidFill struct {
	SrgbClr   *xVal `xml:"a:srgbClr,omitempty"`
	SchemeClr *xVal `xml:"a:schemeClr,omitempty"`
}

type xVal struct {
	Val string `xml:"val,attr"`
}

type xTypeface struct {
	Typeface string `xml:"typeface,attr"`
}

// marshalSlide serializes the shapes of a generated slide.
func marshalSlide(shapes []*Shape) ([]byte, error) {
	sld := xSld{
		XmlnsA: nsDrawingML,
		XmlnsR: nsRelationships,
		XmlnsP: nsPresentation,
	}
	sld.CSld.SpTree.NvGrpSpPr.CNvPr = xCNvPr{ID: 1}

	for _, sh := range shapes {
		sld.CSld.SpTree.Shapes = append(sld.CSld.SpTree.Shapes, encodeShape(sh))
	}

	out, err := xml.Marshal(sld)
	if err != nil {
		return nil, fmt.Errorf("encoding slide: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func encodeShape(sh *Shape) xSp {
	sp := xSp{NvSpPr: xNvSpPr{CNvPr: xCNvPr{ID: sh.ID, Name: sh.Name}}}

	if sh.Placeholder != nil {
		sp.NvSpPr.CNvSpPr.SpLocks = &xSpLocks{NoGrp: "1"}
		sp.NvSpPr.NvPr.Ph = &xPh{Type: sh.Placeholder.Type, Idx: sh.Placeholder.Idx}
	} else {
		sp.NvSpPr.CNvSpPr.TxBox = "1"
		sp.SpPr.PrstGeom = &xPrstGeom{Prst: "rect"}
		sp.SpPr.NoFill = &struct{}{}
	}

	if sh.HasFrame && sh.Placeholder == nil {
		sp.SpPr.Xfrm = &xXfrm{
			Off: xOff{X: sh.Frame.X, Y: sh.Frame.Y},
			Ext: xExt{CX: sh.Frame.CX, CY: sh.Frame.CY},
		}
	}

	body := sh.Body
	if body == nil {
		body = &TextBody{}
	}
	sp.TxBody = encodeTextBody(body)

	return sp
}

func encodeTextBody(body *TextBody) *xTxBody {
	tx := &xTxBody{BodyPr: xBodyPr{Wrap: body.Wrap, Anchor: body.Anchor}}

	switch body.AutoFit {
	case AutoFitNone:
		tx.BodyPr.NoAutofit = &struct{}{}
	case AutoFitNormal:
		tx.BodyPr.NormAutofit = &struct{}{}
	case AutoFitShape:
		tx.BodyPr.SpAutoFit = &struct{}{}
	}

	for _, para := range body.Paragraphs {
		tx.Paragraphs = append(tx.Paragraphs, encodeParagraph(para))
	}
	// a:txBody requires at least one a:p
	if len(tx.Paragraphs) == 0 {
		tx.Paragraphs = []xP{{}}
	}

	return tx
}

func encodeParagraph(para Paragraph) xP {
	p := xP{}
	if para.Align != "" {
		p.PPr = &xPPr{Algn: para.Align}
	}

	for _, run := range para.Runs {
		rPr := encodeFont(run.Font)
		if run.Break {
			p.Items = append(p.Items, xBr{RPr: &rPr})
			continue
		}
		p.Items = append(p.Items, xR{RPr: rPr, T: run.Text})
	}

	return p
}

func encodeFont(f Font) xRPr {
	rPr := xRPr{Lang: "zh-TW", Sz: f.Size}

	if f.Bold != nil {
		if *f.Bold {
			rPr.B = "1"
		} else {
			rPr.B = "0"
		}
	}

	switch {
	case f.Color != nil:
		rPr.SolidFill = &xSolidFill{SrgbClr: &xVal{Val: f.Color.Hex()}}
	case f.Scheme != "":
		rPr.SolidFill = &xSolidFill{SchemeClr: &xVal{Val: f.Scheme}}
	}

	if f.Family != "" {
		rPr.Latin = &xTypeface{Typeface: f.Family}
	}
	if f.EastAsian != "" {
		rPr.Ea = &xTypeface{Typeface: f.EastAsian}
	}

	return rPr
}
