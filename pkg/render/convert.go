package render

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/matzehuels/figpanel/pkg/errors"
)

// converter is an external program used for format conversion.
type converter struct {
	name    string
	library string
	macOS   string
	linux   string
}

var (
	rsvgConvert = converter{"rsvg-convert", "librsvg", "brew install librsvg", "apt install librsvg2-bin"}
	pdfToCairo  = converter{"pdftocairo", "poppler", "brew install poppler", "apt install poppler-utils"}
)

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert.run(ctx, svg, "-f", "pdf")
}

// PDFPageToSVG converts the first page of a PDF file to SVG using pdftocairo.
// Requires poppler: brew install poppler (macOS), apt install poppler-utils (Linux).
func PDFPageToSVG(ctx context.Context, path string) ([]byte, error) {
	return pdfToCairo.run(ctx, nil, "-svg", "-f", "1", "-l", "1", path, "-")
}

func (c converter) available() bool {
	_, err := exec.LookPath(c.name)
	return err == nil
}

func (c converter) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	if !c.available() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s requires %s. Install with:\n  macOS:  %s\n  Linux:  %s", c.name, c.library, c.macOS, c.linux)
	}

	cmd := exec.CommandContext(ctx, c.name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeRender, err, "%s: %s", c.name, strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}
