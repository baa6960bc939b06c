package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/matzehuels/figpanel/pkg/buildinfo"
	"github.com/matzehuels/figpanel/pkg/errors"
	"github.com/matzehuels/figpanel/pkg/layout"
	"github.com/matzehuels/figpanel/pkg/metrics"
	"github.com/matzehuels/figpanel/pkg/observability"
	"github.com/matzehuels/figpanel/pkg/pipeline"
)

// PanelSize is the size of one panel. Only the aspect ratio matters.
type PanelSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Source string  `json:"source,omitempty"`
}

// LayoutRequest is the body of POST /v1/layout. Omitted page fields take the
// built-in defaults.
type LayoutRequest struct {
	Layout     string      `json:"layout"`
	Panels     []PanelSize `json:"panels"`
	PageWidth  *float64    `json:"page_width,omitempty"`
	PageHeight *float64    `json:"page_height,omitempty"`
	Margin     *float64    `json:"margin,omitempty"`
	Spacing    *float64    `json:"spacing,omitempty"`
	LabelSize  *float64    `json:"label_size,omitempty"`
	Labels     []string    `json:"labels,omitempty"`
}

// LayoutResponse is the body of a successful POST /v1/layout.
type LayoutResponse struct {
	Structure layout.Structure `json:"structure"`
	Page      pipeline.Report  `json:"page"`
}

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

type healthBody struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Version: buildinfo.Current().Version})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	opts, results, err := req.options()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	structure, page, err := pipeline.ComputeLayout(r.Context(), opts.Layout, results, opts.GeometryConfig())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	plan := &pipeline.Plan{Structure: structure, Page: page, Metrics: results}
	plan.Form = layout.Detect(opts.Layout)
	for _, res := range results {
		if msg := res.Warning(); msg != "" {
			plan.Warnings = append(plan.Warnings, msg)
		}
	}
	report := plan.Report(opts.Layout, opts.Labels)
	writeJSON(w, http.StatusOK, LayoutResponse{Structure: report.Structure, Page: report})
}

// options validates the request and converts it to pipeline options and
// synthetic extraction results.
func (req *LayoutRequest) options() (pipeline.Options, []metrics.Result, error) {
	if len(req.Panels) == 0 {
		return pipeline.Options{}, nil, errors.New(errors.ErrCodeInvalidInput, "at least one panel is required")
	}
	if len(req.Panels) > maxPanels {
		return pipeline.Options{}, nil, errors.New(errors.ErrCodeInvalidInput, "too many panels (max %d)", maxPanels)
	}

	opts := pipeline.DefaultOptions()
	opts.Layout = req.Layout
	opts.Labels = req.Labels
	setFloat(&opts.PageWidth, req.PageWidth)
	setFloat(&opts.PageHeight, req.PageHeight)
	setFloat(&opts.Margin, req.Margin)
	setFloat(&opts.Spacing, req.Spacing)
	setFloat(&opts.LabelSize, req.LabelSize)

	results := make([]metrics.Result, len(req.Panels))
	opts.Inputs = make([]string, len(req.Panels))
	for i, p := range req.Panels {
		name := p.Source
		if name == "" {
			name = fmt.Sprintf("panel-%d", i)
		}
		opts.Inputs[i] = name
		if p.Width > 0 && p.Height > 0 {
			results[i] = metrics.Result{Metric: metrics.NewMetric(p.Width, p.Height, name)}
		} else {
			results[i] = metrics.Result{
				Metric: metrics.Fallback(name),
				Err:    fmt.Errorf("non-positive size %gx%g", p.Width, p.Height),
			}
		}
	}

	if err := opts.ValidateForPlan(); err != nil {
		return pipeline.Options{}, nil, err
	}
	return opts, results, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	status := statusFor(errors.GetCode(err))
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestIDFromContext(r.Context()))
	}
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	writeJSON(w, status, errorBody{Code: code, Error: errors.UserMessage(err)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidLayout, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidPath, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
