package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figpanel/pkg/cache"
	"github.com/matzehuels/figpanel/pkg/layout"
	"github.com/matzehuels/figpanel/pkg/metrics"
)

// Runner encapsulates pipeline execution with metric caching.
// Both CLI and server use it so that warnings and defaults stay identical.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache     cache.Cache
	Extractor *metrics.Extractor
	Logger    *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Extractor: metrics.NewExtractor(c, keyer, logger),
		Logger:    logger,
	}
}

// Plan runs the extract → parse → compute stages.
func (r *Runner) Plan(ctx context.Context, opts Options) (*Plan, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForPlan(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	plan := &Plan{Form: layout.Detect(opts.Layout)}

	// Stage 1: Extract
	extractStart := time.Now()
	results, err := r.Extractor.Extract(ctx, opts.Inputs)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	plan.Metrics = results
	plan.Stats.Inputs = len(results)
	plan.Stats.Fallbacks = metrics.Fallbacks(results)
	plan.Stats.ExtractTime = time.Since(extractStart)
	for _, res := range results {
		if w := res.Warning(); w != "" {
			plan.Warnings = append(plan.Warnings, w)
		}
	}

	r.Logger.Debug("measured inputs",
		"inputs", len(results),
		"fallbacks", plan.Stats.Fallbacks,
		"duration", plan.Stats.ExtractTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stages 2 and 3: Parse and Compute
	layoutStart := time.Now()
	s, page, err := ComputeLayout(ctx, opts.Layout, results, opts.GeometryConfig())
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	plan.Structure = s
	plan.Page = page
	plan.Stats.Rows = len(page.Rows)
	plan.Stats.LayoutTime = time.Since(layoutStart)

	r.Logger.Debug("computed layout",
		"form", plan.Form,
		"structure", s.String(),
		"scale", fmt.Sprintf("%.3f", page.Scale),
		"duration", plan.Stats.LayoutTime)

	return plan, nil
}

// Execute runs the complete pipeline and writes the output file once.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	plan, err := r.Plan(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 4: Render
	renderStart := time.Now()
	rendered, err := Render(ctx, plan, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	plan.Warnings = append(plan.Warnings, rendered.Warnings...)
	plan.Stats.Placeholders = rendered.Placeholders
	plan.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Debug("rendered page",
		"kind", opts.Kind,
		"bytes", len(rendered.Data),
		"duration", plan.Stats.RenderTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := WriteFile(opts.Output, rendered.Data); err != nil {
		return nil, err
	}

	return &Result{
		Plan:   plan,
		Output: opts.Output,
		Kind:   opts.Kind,
		Size:   len(rendered.Data),
	}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
