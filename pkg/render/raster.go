package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/figpanel/pkg/errors"
	"github.com/matzehuels/figpanel/pkg/geometry"
	"github.com/matzehuels/figpanel/pkg/units"
)

// maxRasterDim bounds the output image in either direction.
const maxRasterDim = 20000

var (
	placeholderFillRGBA  = color.RGBA{0xf2, 0xf2, 0xf2, 0xff}
	placeholderColorRGBA = color.RGBA{0x99, 0x99, 0x99, 0xff}
)

// RasterCanvas draws directly into an RGBA image.
type RasterCanvas struct {
	kind  Kind
	opts  Options
	scale float64 // pixels per point
	img   *image.RGBA
	faces map[float64]font.Face
}

// NewRasterCanvas creates a white image covering width×height points at opts.DPI.
func NewRasterCanvas(kind Kind, width, height float64, opts Options) (*RasterCanvas, error) {
	opts = opts.withDefaults()
	w := int(math.Ceil(units.Pixels(width, opts.DPI)))
	h := int(math.Ceil(units.Pixels(height, opts.DPI)))
	w, h = max(w, 1), max(h, 1)
	if w > maxRasterDim || h > maxRasterDim {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"raster output %dx%d px exceeds %d px; lower the DPI", w, h, maxRasterDim)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return &RasterCanvas{
		kind:  kind,
		opts:  opts,
		scale: float64(opts.DPI) / units.PointsPerInch,
		img:   img,
		faces: make(map[float64]font.Face),
	}, nil
}

// Image returns the canvas image.
func (c *RasterCanvas) Image() *image.RGBA { return c.img }

// Place draws src into dest.
func (c *RasterCanvas) Place(src *Source, dest geometry.Rect) error {
	var err error
	if src.Vector() {
		err = c.placeVector(src, dest.Scale(c.scale))
	} else {
		err = c.placeRaster(src, dest.Scale(c.scale))
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "draw %s", src.Path)
	}
	return nil
}

func (c *RasterCanvas) placeVector(src *Source, px geometry.Rect) error {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(src.Data))
	if err != nil {
		return err
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		icon.ViewBox.X, icon.ViewBox.Y = 0, 0
		icon.ViewBox.W = src.Width / units.PointsPerPixel
		icon.ViewBox.H = src.Height / units.PointsPerPixel
	}
	icon.SetTarget(px.X0, px.Y0, px.Width(), px.Height())

	b := c.img.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), c.img, b)
	dasher := rasterx.NewDasher(b.Dx(), b.Dy(), scanner)
	icon.Draw(dasher, 1.0)
	return nil
}

func (c *RasterCanvas) placeRaster(src *Source, px geometry.Rect) error {
	img, err := imaging.Decode(bytes.NewReader(src.Data), imaging.AutoOrientation(true))
	if err != nil {
		return err
	}
	draw.CatmullRom.Scale(c.img, pixelRect(px), img, img.Bounds(), draw.Over, nil)
	return nil
}

// Placeholder fills dest with grey and outlines it.
func (c *RasterCanvas) Placeholder(dest geometry.Rect) {
	r := pixelRect(dest.Scale(c.scale))
	draw.Draw(c.img, r, &image.Uniform{C: placeholderFillRGBA}, image.Point{}, draw.Src)

	t := max(1, int(math.Round(c.scale)))
	edge := &image.Uniform{C: placeholderColorRGBA}
	for _, e := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t),
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y),
		image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(c.img, e.Intersect(r), edge, image.Point{}, draw.Src)
	}
}

// Label draws bold Go font text in black.
func (c *RasterCanvas) Label(text string, x, y, size float64) {
	if text == "" || size <= 0 {
		return
	}
	face, err := c.face(size)
	if err != nil {
		return
	}
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(int(math.Round(x*c.scale)), int(math.Round(y*c.scale))),
	}
	d.DrawString(text)
}

func (c *RasterCanvas) face(size float64) (font.Face, error) {
	if f, ok := c.faces[size]; ok {
		return f, nil
	}
	ft, err := boldFont()
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     float64(c.opts.DPI),
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	c.faces[size] = f
	return f, nil
}

var boldFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(gobold.TTF)
})

// Encode writes the image in the canvas kind's format.
func (c *RasterCanvas) Encode(ctx context.Context, w io.Writer) error {
	defer c.closeFaces()

	var err error
	switch c.kind {
	case KindPNG:
		err = imaging.Encode(w, c.img, imaging.PNG)
	case KindJPEG:
		err = imaging.Encode(w, c.img, imaging.JPEG, imaging.JPEGQuality(c.opts.JPEGQuality))
	case KindTIFF:
		err = imaging.Encode(w, c.img, imaging.TIFF)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "%s is not a raster format", c.kind)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "encode %s", c.kind)
	}
	return nil
}

func (c *RasterCanvas) closeFaces() {
	for size, f := range c.faces {
		_ = f.Close()
		delete(c.faces, size)
	}
}

func pixelRect(r geometry.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X0)), int(math.Round(r.Y0)),
		int(math.Round(r.X1)), int(math.Round(r.Y1)),
	)
}

func (c *RasterCanvas) String() string {
	b := c.img.Bounds()
	return fmt.Sprintf("%s %dx%d px @ %d dpi", c.kind, b.Dx(), b.Dy(), c.opts.DPI)
}
