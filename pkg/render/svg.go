package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/matzehuels/figpanel/pkg/errors"
	"github.com/matzehuels/figpanel/pkg/geometry"
	"github.com/matzehuels/figpanel/pkg/metrics"
	"github.com/matzehuels/figpanel/pkg/units"
)

const (
	svgNS   = "http://www.w3.org/2000/svg"
	xlinkNS = "http://www.w3.org/1999/xlink"

	labelFont        = "Helvetica, Arial, sans-serif"
	placeholderFill  = "#f2f2f2"
	placeholderColor = "#999999"
)

// SVGCanvas composes sources into a single SVG document.
type SVGCanvas struct {
	doc    *etree.Document
	root   *etree.Element
	panels int
}

// NewSVGCanvas creates an empty page with a white background.
func NewSVGCanvas(width, height float64) *SVGCanvas {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", svgNS)
	root.CreateAttr("xmlns:xlink", xlinkNS)
	root.CreateAttr("version", "1.1")
	root.CreateAttr("width", num(width)+"pt")
	root.CreateAttr("height", num(height)+"pt")
	root.CreateAttr("viewBox", fmt.Sprintf("0 0 %s %s", num(width), num(height)))

	bg := root.CreateElement("rect")
	bg.CreateAttr("width", "100%")
	bg.CreateAttr("height", "100%")
	bg.CreateAttr("fill", "#ffffff")

	return &SVGCanvas{doc: doc, root: root}
}

// Place embeds src at dest.
func (c *SVGCanvas) Place(src *Source, dest geometry.Rect) error {
	var err error
	if src.Vector() {
		err = c.placeVector(src, dest)
	} else {
		err = c.placeRaster(src, dest)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "embed %s", src.Path)
	}
	c.panels++
	return nil
}

func (c *SVGCanvas) placeVector(src *Source, dest geometry.Rect) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(src.Data); err != nil {
		return err
	}
	in := doc.Root()
	if in == nil || in.Tag != "svg" {
		return fmt.Errorf("root element is not <svg>")
	}

	vb, ok := metrics.ParseViewBox(in.SelectAttrValue("viewBox", ""))
	if !ok {
		vb = metrics.ViewBox{Width: src.Width / units.PointsPerPixel, Height: src.Height / units.PointsPerPixel}
	}

	prefix := fmt.Sprintf("p%d-", c.panels)
	scope := panelScope(c.panels)

	out := c.root.CreateElement("svg")
	setRect(out, dest)
	out.CreateAttr("viewBox", vb.String())
	out.CreateAttr("preserveAspectRatio", "xMidYMid meet")
	out.CreateAttr("overflow", "hidden")
	out.CreateAttr("class", scope)

	// Inherited presentation attributes of the source root move to a group
	// so they keep applying to the copied children.
	body := out
	for _, a := range in.Attr {
		switch {
		case a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns"):
			if a.Key != "xlink" {
				out.CreateAttr(a.FullKey(), a.Value)
			}
		case a.Space == "" && viewportAttrs[a.Key]:
		default:
			if body == out {
				body = out.CreateElement("g")
			}
			body.CreateAttr(a.FullKey(), a.Value)
		}
	}
	if body != out {
		prefixIDs(body, prefix, scope)
	}

	for _, child := range in.ChildElements() {
		el := child.Copy()
		prefixIDs(el, prefix, scope)
		body.AddChild(el)
	}
	return nil
}

// viewportAttrs are root <svg> attributes replaced by the panel's own
// viewport rather than inherited by its content.
var viewportAttrs = map[string]bool{
	"x": true, "y": true, "width": true, "height": true,
	"viewBox": true, "preserveAspectRatio": true,
	"version": true, "baseProfile": true, "overflow": true,
}

// panelScope is the class carried by the nested <svg> of panel n; the
// panel's stylesheets are rewritten to match only below it.
func panelScope(n int) string {
	return fmt.Sprintf("figpanel-p%d", n)
}

func (c *SVGCanvas) placeRaster(src *Source, dest geometry.Rect) error {
	if src.MIME == "" {
		return fmt.Errorf("unknown image type")
	}
	img := c.root.CreateElement("image")
	setRect(img, dest)
	img.CreateAttr("preserveAspectRatio", "none")
	img.CreateAttr("xlink:href", "data:"+src.MIME+";base64,"+base64.StdEncoding.EncodeToString(src.Data))
	return nil
}

// Placeholder draws a grey frame with both diagonals.
func (c *SVGCanvas) Placeholder(dest geometry.Rect) {
	g := c.root.CreateElement("g")
	g.CreateAttr("class", "placeholder")
	g.CreateAttr("stroke", placeholderColor)
	g.CreateAttr("stroke-width", "1")

	r := g.CreateElement("rect")
	setRect(r, dest)
	r.CreateAttr("fill", placeholderFill)

	for _, l := range [][4]float64{
		{dest.X0, dest.Y0, dest.X1, dest.Y1},
		{dest.X0, dest.Y1, dest.X1, dest.Y0},
	} {
		line := g.CreateElement("line")
		line.CreateAttr("x1", num(l[0]))
		line.CreateAttr("y1", num(l[1]))
		line.CreateAttr("x2", num(l[2]))
		line.CreateAttr("y2", num(l[3]))
	}
}

// Label draws bold sans-serif text.
func (c *SVGCanvas) Label(text string, x, y, size float64) {
	t := c.root.CreateElement("text")
	t.CreateAttr("x", num(x))
	t.CreateAttr("y", num(y))
	t.CreateAttr("font-family", labelFont)
	t.CreateAttr("font-weight", "bold")
	t.CreateAttr("font-size", num(size))
	t.CreateAttr("fill", "#000000")
	t.SetText(text)
}

// Bytes returns the serialized document.
func (c *SVGCanvas) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := c.doc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the SVG document.
func (c *SVGCanvas) Encode(ctx context.Context, w io.Writer) error {
	data, err := c.Bytes()
	if err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "serialize svg")
	}
	_, err = w.Write(data)
	return err
}

// PDFCanvas composes an SVG page and converts it to PDF when encoded.
type PDFCanvas struct {
	*SVGCanvas
}

// NewPDFCanvas creates an empty PDF page.
func NewPDFCanvas(width, height float64) *PDFCanvas {
	return &PDFCanvas{SVGCanvas: NewSVGCanvas(width, height)}
}

// Encode converts the page with rsvg-convert and writes the PDF.
func (c *PDFCanvas) Encode(ctx context.Context, w io.Writer) error {
	svg, err := c.Bytes()
	if err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "serialize svg")
	}
	pdf, err := ToPDF(ctx, svg)
	if err != nil {
		return err
	}
	_, err = w.Write(pdf)
	return err
}

var urlRefRe = regexp.MustCompile(`url\(\s*['"]?#([^)'"\s]+)['"]?\s*\)`)

func prefixURLRefs(s, prefix string) string {
	if !strings.Contains(s, "url(") {
		return s
	}
	return urlRefRe.ReplaceAllString(s, "url(#"+prefix+"$1)")
}

// prefixIDs renames every id in the subtree, rewrites local references
// (url(#id), href="#id") to match and scopes <style> rules to the panel.
func prefixIDs(el *etree.Element, prefix, scope string) {
	for i := range el.Attr {
		a := &el.Attr[i]
		switch {
		case a.Key == "id":
			a.Value = prefix + a.Value
		case a.Key == "href" && strings.HasPrefix(a.Value, "#"):
			a.Value = "#" + prefix + a.Value[1:]
		default:
			a.Value = prefixURLRefs(a.Value, prefix)
		}
	}
	if el.Tag == "style" {
		if text := el.Text(); strings.TrimSpace(text) != "" {
			el.SetText(scopeStylesheet(text, prefix, scope))
		}
	}
	for _, child := range el.ChildElements() {
		prefixIDs(child, prefix, scope)
	}
}

func setRect(el *etree.Element, r geometry.Rect) {
	el.CreateAttr("x", num(r.X0))
	el.CreateAttr("y", num(r.Y0))
	el.CreateAttr("width", num(r.Width()))
	el.CreateAttr("height", num(r.Height()))
}

// num formats a coordinate with at most three decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
