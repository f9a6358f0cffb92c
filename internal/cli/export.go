package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	ferrors "github.com/matzehuels/fourcolor/pkg/errors"
	"github.com/matzehuels/fourcolor/pkg/export"
	"github.com/matzehuels/fourcolor/pkg/palette"
	"github.com/matzehuels/fourcolor/pkg/pipeline"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	colors   string // comma-separated palette names
	dir      string // output directory
	base     string // file name prefix, default the input file name
	formats  string // plate formats: svg,png
	manifest bool   // also write {base}_manifest.json
}

// exportCommand creates the export command, which writes one SVG and PNG
// plate per selected colour.
func (c *CLI) exportCommand() *cobra.Command {
	var flags pipelineFlags
	opts := exportOpts{manifest: true}

	cmd := &cobra.Command{
		Use:   "export IMAGE",
		Short: "Write per-colour SVG and PNG plates",
		Long: `Quantize IMAGE and write one plate per selected colour, named
{base}_{Color}_{rank}.svg and .png. The rank is the print pass: Black 1st,
Red 2nd, Yellow 3rd, White 4th.`,
		Example: `  fourcolor export photo.jpg --colors black,red --width 150
  fourcolor export photo.jpg --colors all --dir plates`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeOpts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			if opts.colors == "all" {
				opts.colors = strings.Join(allColorNames(), ",")
			}
			sel, err := c.selection(cmd, opts.colors)
			if err != nil {
				return err
			}
			exp := export.Options{
				Dir:      opts.dir,
				Base:     opts.base,
				Manifest: opts.manifest,
				Logger:   c.Logger,
			}
			if exp.Dir == "" {
				exp.Dir = c.Config.OutputDir
			}
			if opts.formats != "" {
				exp.Formats = strings.Split(opts.formats, ",")
			}
			return c.runExport(cmd.Context(), args[0], sel, pipeOpts, exp)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&opts.colors, "colors", "c", "", "colours to export: black,red,yellow,white or all")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "output directory (default from config, else .)")
	cmd.Flags().StringVar(&opts.base, "base", "", "file name prefix (default IMAGE name)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "plate formats: svg,png (default both)")
	cmd.Flags().BoolVar(&opts.manifest, "manifest", opts.manifest, "write {base}_manifest.json")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input string, sel palette.Selection, opts pipeline.Options, exp export.Options) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	session, err := c.newSession(runner, input, opts)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Exporting plates...")
	spinner.Start()
	report, err := session.Export(ctx, sel, exp)
	spinner.Stop()
	if err != nil {
		return err
	}

	if report.Warning != nil {
		printWarning("%s", ferrors.UserMessage(report.Warning))
		printDetail("Pick colours with --colors, e.g. --colors black,red")
		return nil
	}

	res := session.Current()
	printStats(res, res.CacheInfo.PreviewHit)
	for _, o := range report.Outcomes {
		if o.Err != nil {
			printError("%s %s: %s", o.Color.Name, StyleDim.Render(o.Color.RankLabel()), ferrors.UserMessage(o.Err))
			continue
		}
		printSuccess("%s %s %s", swatch(o.Color.Hex()), o.Color.Name,
			StyleDim.Render(o.Color.RankLabel()+" pass · "+plural(o.Rects, "run")))
		for _, f := range o.Files {
			printFile(f)
		}
	}
	if report.Manifest != "" {
		printFile(report.Manifest)
	}

	if err := report.Err(); err != nil {
		return err
	}
	prog.done("Exported " + plural(len(report.Outcomes), "plate"))
	return nil
}

func allColorNames() []string {
	var names []string
	for _, c := range palette.All() {
		names = append(names, string(c.Name))
	}
	return names
}
