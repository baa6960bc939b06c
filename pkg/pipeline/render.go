package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/figpanel/pkg/errors"
	"github.com/matzehuels/figpanel/pkg/geometry"
	"github.com/matzehuels/figpanel/pkg/observability"
	"github.com/matzehuels/figpanel/pkg/render"
)

// RenderResult is the encoded page and the panels that fell back to placeholders.
type RenderResult struct {
	Data         []byte
	Warnings     []string
	Placeholders int
}

// Render draws every placement of plan in placement order and encodes the page.
// Sources that cannot be drawn are replaced by a placeholder frame.
func Render(ctx context.Context, plan *Plan, opts Options) (*RenderResult, error) {
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, string(opts.Kind))

	res, err := renderPage(ctx, plan, opts)
	size := 0
	if res != nil {
		size = len(res.Data)
	}
	observability.Pipeline().OnRenderComplete(ctx, string(opts.Kind), size, time.Since(start), err)
	return res, err
}

func renderPage(ctx context.Context, plan *Plan, opts Options) (*RenderResult, error) {
	page := plan.Page
	canvas, err := render.NewCanvas(opts.Kind, page.Width, page.Height, opts.RenderOptions())
	if err != nil {
		return nil, err
	}

	strip := opts.LabelSize + geometry.LabelPadding
	res := &RenderResult{}
	for i, p := range page.Panels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		label := render.LabelFor(i, opts.Labels)
		content := p.Rect.TrimTop(strip)

		if err := placePanel(ctx, canvas, plan, p, content); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			canvas.Placeholder(content)
			res.Placeholders++
			if err != errFallback {
				msg := fmt.Sprintf("panel %s (%s): %s", label, p.Source, errors.UserMessage(err))
				res.Warnings = append(res.Warnings, msg)
				opts.Logger.Warn("drawing placeholder", "panel", label, "source", p.Source, "err", err)
			}
		}

		if opts.LabelSize > 0 && label != "" {
			canvas.Label(label, p.Rect.X0, p.Rect.Y0+opts.LabelSize, opts.LabelSize)
		}
	}

	var buf bytes.Buffer
	if err := canvas.Encode(ctx, &buf); err != nil {
		return nil, err
	}
	res.Data = buf.Bytes()
	return res, nil
}

// errFallback marks panels whose metrics already fell back; their warning was
// reported during extraction.
var errFallback = errors.New(errors.ErrCodeUnreadable, "source unreadable")

func placePanel(ctx context.Context, canvas render.Canvas, plan *Plan, p geometry.Placement, content geometry.Rect) error {
	if p.Index < len(plan.Metrics) && plan.Metrics[p.Index].IsFallback() {
		return errFallback
	}
	src, err := render.LoadSource(ctx, p.Source)
	if err != nil {
		return err
	}
	return canvas.Place(src, render.Fit(content, src.Width, src.Height))
}
