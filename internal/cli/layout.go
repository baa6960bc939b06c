package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figpanel/pkg/config"
	"github.com/matzehuels/figpanel/pkg/pipeline"
)

// layoutCommand creates the layout command: a dry run that measures the
// inputs and prints the computed rows and panel rectangles.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  pageFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "layout [inputs...]",
		Short: "Print the computed page layout without rendering",
		Example: `  figpanel layout -l 2x2 a.pdf b.svg c.png d.pdf
  figpanel layout -l AB-C --json a.svg b.svg c.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Discover(flags.configPath)
			if err != nil {
				return err
			}
			opts := flags.options(cmd.Flags(), cfg, args)
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), cfg, opts, flags.noCache, asJSON)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout as JSON")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, w io.Writer, cfg *config.Config, opts pipeline.Options, noCache, asJSON bool) error {
	runner := c.newRunner(ctx, cfg, noCache)
	defer runner.Close()

	plan, err := runner.Plan(ctx, opts)
	if err != nil {
		return err
	}
	report := plan.Report(opts.Layout, opts.Labels)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printKeyValue("Layout", fmt.Sprintf("%q (%s)", report.Descriptor, report.Form))
	printKeyValue("Rows", report.Structure.String())
	printKeyValue("Page", fmt.Sprintf("%s x %s mm", mm(report.Width), mm(report.Height)))
	printKeyValue("Scale", strconv.FormatFloat(report.Scale, 'f', 3, 64))

	rows := make([][]string, 0, len(report.Panels))
	for _, p := range report.Panels {
		source := filepath.Base(p.Source)
		if p.Fallback {
			source += " (fallback)"
		}
		rows = append(rows, []string{
			p.Label, strconv.Itoa(p.Index), source,
			strconv.Itoa(p.Row), strconv.Itoa(p.Column),
			mm(p.X), mm(p.Y), mm(p.Width), mm(p.Height),
		})
	}
	printTable([]string{"LABEL", "INPUT", "SOURCE", "ROW", "COL", "X", "Y", "WIDTH", "HEIGHT"}, rows)
	printWarnings(report.Warnings)
	printNextStep("Render it with", "figpanel compose -o figure.pdf ...")
	return nil
}

func mm(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
