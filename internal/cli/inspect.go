package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fourcolor/pkg/imageio"
	"github.com/matzehuels/fourcolor/pkg/inspect"
	"github.com/matzehuels/fourcolor/pkg/palette"
	"github.com/matzehuels/fourcolor/pkg/pipeline"
)

// inspectCommand creates the inspect command, which reports how an image
// will separate before any plate is written.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags pipelineFlags
	var asJSON bool
	var method string

	cmd := &cobra.Command{
		Use:   "inspect IMAGE",
		Short: "Show dimensions, dominant colours and plate coverage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			m, err := inspect.ParseMethod(method)
			if err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), args[0], opts, m, asJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().StringVar(&method, "method", string(inspect.MethodDominant), "dominant colour method: dominant or kmeans")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, opts pipeline.Options, method inspect.Method, asJSON bool) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	src, err := imageio.Load(input)
	if err != nil {
		return err
	}
	report, err := runner.Inspect(ctx, src, opts, method)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(report)
	return nil
}

func printReport(r *inspect.Report) {
	fmt.Println(StyleTitle.Render(r.Path))
	printKeyValue("Format", r.Format)
	printKeyValue("Source", fmt.Sprintf("%d × %d px", r.SourceWidth, r.SourceHeight))
	printKeyValue("Print", fmt.Sprintf("%g mm → %d × %d px", r.WidthMM, r.PixelWidth, r.PixelHeight))
	printKeyValue("Denoise", fmt.Sprintf("level %d", r.Level))
	if r.Transparent {
		printKeyValue("Alpha", "has transparent pixels (left unprinted)")
	}

	printNewline()
	fmt.Println(StyleTitle.Render("Dominant colours") + " " + StyleDim.Render("("+string(r.Method)+")"))
	for _, s := range r.Dominant {
		nearest, _ := palette.Lookup(s.Nearest)
		fmt.Printf("  %s %s %s %s %s\n",
			swatch(s.Hex),
			StyleValue.Render(s.Hex),
			StyleDim.Render(fmt.Sprintf("%5.1f%%", 100*s.Weight)),
			StyleDim.Render("→"),
			fmt.Sprintf("%s %s %s", swatch(nearest.Hex()), nearest.Name, StyleDim.Render(fmt.Sprintf("ΔE %.1f", s.Delta))))
	}

	printNewline()
	fmt.Println(StyleTitle.Render("Plates"))
	for _, s := range r.Shares {
		c, _ := palette.Lookup(s.Color)
		fmt.Printf("  %s %-7s %s %s\n",
			swatch(c.Hex()),
			s.Color,
			StyleDim.Render(s.Rank),
			StyleNumber.Render(fmt.Sprintf("%6.2f%%  %d px", s.Percent, s.Pixels)))
	}
}
