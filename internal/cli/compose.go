package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/figpanel/pkg/config"
	"github.com/matzehuels/figpanel/pkg/pipeline"
)

// pageFlags holds the flags shared by compose and layout. Values are only
// applied when the flag was set, so the config file fills the rest.
type pageFlags struct {
	layout     string
	inputs     []string
	pageWidth  float64
	pageHeight float64
	margin     float64
	spacing    float64
	labelSize  float64
	labels     []string
	configPath string
	noCache    bool
}

func (f *pageFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.layout, "layout", "l", "", `layout descriptor, e.g. "2x2", "2,1", "AB-C", "3"`)
	fs.StringArrayVarP(&f.inputs, "input", "i", nil, "input figure (repeatable, in panel order)")
	fs.Float64Var(&f.pageWidth, "page-width", pipeline.DefaultPageWidth, "page width in mm")
	fs.Float64Var(&f.pageHeight, "page-height", 0, "fixed page height in mm (0 = fit content)")
	fs.Float64Var(&f.margin, "margin", pipeline.DefaultMargin, "page margin in mm")
	fs.Float64Var(&f.spacing, "spacing", pipeline.DefaultSpacing, "gap between panels and rows in mm")
	fs.Float64Var(&f.labelSize, "label-size", pipeline.DefaultLabelSize, "label font size in pt (0 = no labels)")
	fs.StringArrayVar(&f.labels, "labels", nil, "panel label (repeatable, in placement order; default: A, B, C, ...)")
	fs.StringVar(&f.configPath, "config", "", "config file (default: discovered)")
	fs.BoolVar(&f.noCache, "no-cache", false, "bypass the metrics cache")
}

// options resolves flag > config file > built-in default.
func (f *pageFlags) options(fs *pflag.FlagSet, cfg *config.Config, args []string) pipeline.Options {
	opts := cfg.Options()
	opts.Layout = f.layout
	opts.Inputs = append(append([]string{}, f.inputs...), args...)

	if fs.Changed("page-width") {
		opts.PageWidth = f.pageWidth
	}
	if fs.Changed("page-height") {
		opts.PageHeight = f.pageHeight
	}
	if fs.Changed("margin") {
		opts.Margin = f.margin
	}
	if fs.Changed("spacing") {
		opts.Spacing = f.spacing
	}
	if fs.Changed("label-size") {
		opts.LabelSize = f.labelSize
	}
	if len(f.labels) > 0 {
		opts.Labels = append([]string{}, f.labels...)
	}
	return opts
}

// composeCommand creates the compose command, which writes the page.
func (c *CLI) composeCommand() *cobra.Command {
	var (
		flags  pageFlags
		output string
		dpi    int
	)

	cmd := &cobra.Command{
		Use:   "compose [inputs...]",
		Short: "Compose figures into one labelled page",
		Example: `  figpanel compose -l 2x2 -o figure.pdf a.pdf b.svg c.png d.pdf
  figpanel compose -l "2,1" --page-width 120 --labels "(a)" --labels "(b)" --labels "(c)" -o fig.svg a.svg b.svg c.svg
  figpanel compose -l 3 --dpi 600 -o fig.png *.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Discover(flags.configPath)
			if err != nil {
				return err
			}
			opts := flags.options(cmd.Flags(), cfg, args)
			opts.Output = output
			if cmd.Flags().Changed("dpi") {
				opts.DPI = dpi
			}
			return c.runCompose(cmd.Context(), cfg, opts, flags.noCache)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; the extension selects pdf, svg, png, jpg or tiff")
	cmd.Flags().IntVar(&dpi, "dpi", pipeline.DefaultDPI, "raster output resolution")
	_ = cmd.MarkFlagRequired("layout")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (c *CLI) runCompose(ctx context.Context, cfg *config.Config, opts pipeline.Options, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner := c.newRunner(ctx, cfg, noCache)
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Composing %d panels...", len(opts.Inputs)))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Composition failed")
		return err
	}
	spinner.Stop()

	printWarnings(result.Warnings)
	printSuccess("Wrote %s page (%s)", result.Kind, formatSize(result.Size))
	printFile(result.Output)
	printStats(result.Stats)
	prog.done(fmt.Sprintf("Composed %d panels", result.Stats.Inputs))
	return nil
}

// formatSize renders a byte count with a binary unit.
func formatSize(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
