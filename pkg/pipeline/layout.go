package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/figpanel/pkg/errors"
	"github.com/matzehuels/figpanel/pkg/geometry"
	"github.com/matzehuels/figpanel/pkg/layout"
	"github.com/matzehuels/figpanel/pkg/metrics"
	"github.com/matzehuels/figpanel/pkg/observability"
	"github.com/matzehuels/figpanel/pkg/render"
	"github.com/matzehuels/figpanel/pkg/units"
)

// ComputeLayout parses the descriptor and computes the page for the given
// extraction results.
func ComputeLayout(ctx context.Context, descriptor string, results []metrics.Result, cfg geometry.Config) (layout.Structure, geometry.Page, error) {
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, descriptor, len(results))

	s := layout.Parse(descriptor, len(results))
	if err := s.Validate(len(results)); err != nil {
		err = errors.Wrap(errors.ErrCodeInternal, err, "layout %q", descriptor)
		observability.Pipeline().OnLayoutComplete(ctx, 0, time.Since(start), err)
		return nil, geometry.Page{}, err
	}

	page, err := geometry.Compute(s, metrics.Metrics(results), cfg)
	observability.Pipeline().OnLayoutComplete(ctx, len(page.Rows), time.Since(start), err)
	if err != nil {
		return nil, geometry.Page{}, err
	}
	return s, page, nil
}

// PanelReport describes one placed panel in millimetres.
type PanelReport struct {
	Index    int     `json:"index"`
	Label    string  `json:"label"`
	Source   string  `json:"source,omitempty"`
	Row      int     `json:"row"`
	Column   int     `json:"column"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Fallback bool    `json:"fallback,omitempty"`
}

// Report is a unit-converted summary of a plan for display and the HTTP API.
type Report struct {
	Descriptor string           `json:"descriptor"`
	Form       string           `json:"form"`
	Structure  layout.Structure `json:"structure"`
	Width      float64          `json:"width"`
	Height     float64          `json:"height"`
	Scale      float64          `json:"scale"`
	Panels     []PanelReport    `json:"panels"`
	Warnings   []string         `json:"warnings,omitempty"`
}

// Report summarizes the plan in millimetres. Labels follow placement order.
func (p *Plan) Report(descriptor string, labels []string) Report {
	r := Report{
		Descriptor: descriptor,
		Form:       p.Form.String(),
		Structure:  p.Structure,
		Width:      units.ToMM(p.Page.Width),
		Height:     units.ToMM(p.Page.Height),
		Scale:      p.Page.Scale,
		Panels:     make([]PanelReport, 0, len(p.Page.Panels)),
		Warnings:   p.Warnings,
	}
	if r.Structure == nil {
		r.Structure = layout.Structure{}
	}
	for i, pl := range p.Page.Panels {
		pr := PanelReport{
			Index:  pl.Index,
			Label:  render.LabelFor(i, labels),
			Source: pl.Source,
			Row:    pl.Row,
			Column: pl.Column,
			X:      units.ToMM(pl.Rect.X0),
			Y:      units.ToMM(pl.Rect.Y0),
			Width:  units.ToMM(pl.Rect.Width()),
			Height: units.ToMM(pl.Rect.Height()),
		}
		if pl.Index < len(p.Metrics) {
			pr.Fallback = p.Metrics[pl.Index].IsFallback()
		}
		r.Panels = append(r.Panels, pr)
	}
	return r
}
