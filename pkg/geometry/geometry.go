package geometry

import (
	"math"

	"github.com/matzehuels/figpanel/pkg/errors"
	"github.com/matzehuels/figpanel/pkg/layout"
	"github.com/matzehuels/figpanel/pkg/metrics"
)

// LabelPadding is the gap, in points, added below the label text in every row.
const LabelPadding = 4.0

// Config holds page dimensions in points.
type Config struct {
	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"` // 0 computes the height from content
	Margin     float64 `json:"margin"`
	Spacing    float64 `json:"spacing"`
	LabelSize  float64 `json:"label_size"`
}

// UsableWidth is the page width minus both margins.
func (c Config) UsableWidth() float64 {
	return c.PageWidth - 2*c.Margin
}

// LabelStrip is the height reserved for the label at the top of each panel.
func (c Config) LabelStrip() float64 {
	return c.LabelSize + LabelPadding
}

// FixedHeight reports whether the page height is fixed.
func (c Config) FixedHeight() bool {
	return c.PageHeight > 0
}

// Row is the computed geometry of one row.
type Row struct {
	Indices     []int   `json:"indices"`
	PanelWidth  float64 `json:"panel_width"`
	IdealHeight float64 `json:"ideal_height"`
	Height      float64 `json:"height"`
}

// Placement is the rectangle assigned to one input.
type Placement struct {
	Index  int    `json:"index"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Rect   Rect   `json:"rect"`
	Source string `json:"source"`
}

// Page is the outcome of a layout computation.
type Page struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Scale  float64     `json:"scale"`
	Rows   []Row       `json:"rows"`
	Panels []Placement `json:"panels"`
}

// Placement returns the placement for input index i.
func (p Page) Placement(i int) (Placement, bool) {
	for _, pl := range p.Panels {
		if pl.Index == i {
			return pl, true
		}
	}
	return Placement{}, false
}

// Compute derives row heights and panel rectangles. Panels are returned in
// placement order: rows top to bottom, panels left to right.
//
// An index in s that has no metric is reported as an INVALID_LAYOUT error.
func Compute(s layout.Structure, ms []metrics.Metric, cfg Config) (Page, error) {
	for _, row := range s {
		for _, idx := range row {
			if idx < 0 || idx >= len(ms) {
				return Page{}, errors.New(errors.ErrCodeInvalidLayout,
					"panel index %d out of range for %d inputs", idx, len(ms))
			}
		}
	}

	usable := cfg.UsableWidth()
	rows := make([]Row, 0, len(s))
	idealSum := 0.0
	for _, indices := range s {
		if len(indices) == 0 {
			continue
		}
		r := idealRow(indices, ms, usable, cfg)
		idealSum += r.IdealHeight
		rows = append(rows, r)
	}

	gaps := 0.0
	if len(rows) > 1 {
		gaps = float64(len(rows)-1) * cfg.Spacing
	}

	page := Page{Width: cfg.PageWidth, Scale: 1, Rows: rows}
	if cfg.FixedHeight() {
		page.Height = cfg.PageHeight
		page.Scale = fitScale(cfg.PageHeight-2*cfg.Margin-gaps, idealSum)
	} else {
		page.Height = idealSum + gaps + 2*cfg.Margin
	}
	for i := range rows {
		rows[i].Height = rows[i].IdealHeight * page.Scale
	}

	page.Panels = place(rows, ms, cfg)
	return page, nil
}

func idealRow(indices []int, ms []metrics.Metric, usable float64, cfg Config) Row {
	k := float64(len(indices))
	width := (usable - (k-1)*cfg.Spacing) / k

	required := 0.0
	for _, idx := range indices {
		ratio := ms[idx].Ratio
		if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
			ratio = 1
		}
		required = math.Max(required, width/ratio)
	}
	return Row{
		Indices:     append([]int(nil), indices...),
		PanelWidth:  width,
		IdealHeight: required + cfg.LabelStrip(),
	}
}

// fitScale is the factor applied to ideal heights to fill usable points.
// It is 1 when there is nothing to scale and never negative.
func fitScale(usable, idealSum float64) float64 {
	if idealSum == 0 {
		return 1
	}
	return math.Max(0, usable/idealSum)
}

func place(rows []Row, ms []metrics.Metric, cfg Config) []Placement {
	var out []Placement
	y := cfg.Margin
	for ri, r := range rows {
		x := cfg.Margin
		for ci, idx := range r.Indices {
			out = append(out, Placement{
				Index:  idx,
				Row:    ri,
				Column: ci,
				Rect:   Rect{X0: x, Y0: y, X1: x + r.PanelWidth, Y1: y + r.Height},
				Source: ms[idx].Source,
			})
			x += r.PanelWidth + cfg.Spacing
		}
		y += r.Height + cfg.Spacing
	}
	return out
}
