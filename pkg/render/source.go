package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"

	"github.com/beevik/etree"
	"github.com/h2non/filetype"

	"github.com/matzehuels/figpanel/pkg/errors"
	"github.com/matzehuels/figpanel/pkg/metrics"
	"github.com/matzehuels/figpanel/pkg/units"
)

// Source is a loaded input ready to be drawn.
//
// Vector sources (SVG files and converted PDF pages) carry SVG markup in Data.
// Raster sources carry the encoded image bytes and their MIME type.
type Source struct {
	Path   string
	Origin metrics.Kind
	Data   []byte
	MIME   string
	Width  float64 // points
	Height float64 // points
}

// Vector reports whether Data holds SVG markup.
func (s *Source) Vector() bool {
	return s.Origin == metrics.KindPDF || s.Origin == metrics.KindSVG
}

// LoadSource reads path for drawing. The first page of a PDF is converted to
// SVG with pdftocairo.
func LoadSource(ctx context.Context, path string) (*Source, error) {
	kind, err := metrics.DetectFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}

	src := &Source{Path: path, Origin: kind}
	switch kind {
	case metrics.KindPDF:
		src.Data, err = PDFPageToSVG(ctx, path)
		if err != nil {
			return nil, err
		}
		src.MIME = "image/svg+xml"
	case metrics.KindSVG:
		src.Data, err = os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnreadable, err, "read %s", path)
		}
		src.MIME = "image/svg+xml"
	case metrics.KindRaster:
		src.Data, err = os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnreadable, err, "read %s", path)
		}
		if t, err := filetype.Match(src.Data); err == nil && t != filetype.Unknown {
			src.MIME = t.MIME.Value
		}
	default:
		return nil, errors.New(errors.ErrCodeUnreadable, "%s: unsupported document type", path)
	}

	if err := src.measure(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnreadable, err, "measure %s", path)
	}
	return src, nil
}

func (s *Source) measure() error {
	if s.Vector() {
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(s.Data); err != nil {
			return err
		}
		w, h, err := metrics.SVGSize(doc.Root())
		if err != nil {
			return err
		}
		s.Width, s.Height = w, h
		return nil
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(s.Data))
	if err != nil {
		return err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%s image has empty dimensions", format)
	}
	s.Width = float64(cfg.Width) * units.PointsPerPixel
	s.Height = float64(cfg.Height) * units.PointsPerPixel
	return nil
}
