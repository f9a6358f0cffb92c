package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/fourcolor/pkg/palette"
	"github.com/matzehuels/fourcolor/pkg/pipeline"
	"github.com/matzehuels/fourcolor/pkg/raster"
)

// pipelineFlags holds the flags shared by every command that runs the
// pipeline. Unset flags fall back to the config file.
type pipelineFlags struct {
	width   string // target width in millimetres, parsed like user input
	level   int    // denoise level 0..10
	workers int    // quantizer concurrency, 0 for GOMAXPROCS
	refresh bool   // bypass cached previews
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.width, "width", "w", "", "print width in millimetres, below 255 (default 127)")
	cmd.Flags().IntVarP(&f.level, "level", "l", 0, "denoise level 0-10")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "quantizer workers (0 = all CPUs)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute the preview even if cached")
}

// pipelineOptions merges config values with explicitly set flags.
func (c *CLI) pipelineOptions(cmd *cobra.Command, f *pipelineFlags) (pipeline.Options, error) {
	opts := pipeline.Options{
		WidthMM: c.Config.WidthMM,
		Level:   c.Config.Level,
		Workers: c.Config.Workers,
		Refresh: f.refresh,
		Logger:  c.Logger,
	}
	if cmd.Flags().Changed("width") {
		mm, err := raster.ParseWidth(f.width)
		if err != nil {
			return opts, err
		}
		opts.WidthMM = mm
	}
	if cmd.Flags().Changed("level") {
		if err := raster.ValidateLevel(f.level); err != nil {
			return opts, err
		}
		opts.Level = f.level
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = f.workers
	}
	return opts, opts.ValidateAndSetDefaults()
}

// selection returns --colors if set, otherwise the configured colours.
func (c *CLI) selection(cmd *cobra.Command, colors string) (palette.Selection, error) {
	if cmd.Flags().Changed("colors") {
		return palette.ParseSelectionString(colors)
	}
	return c.Config.Selection()
}

// newSession loads path into a session configured from opts.
func (c *CLI) newSession(runner *pipeline.Runner, path string, opts pipeline.Options) (*pipeline.Session, error) {
	s := pipeline.NewSession(runner)
	if err := s.Load(path); err != nil {
		return nil, err
	}
	if err := s.SetWidthMM(opts.WidthMM); err != nil {
		return nil, err
	}
	if err := s.SetLevel(opts.Level); err != nil {
		return nil, err
	}
	s.SetWorkers(opts.Workers)
	s.SetRefresh(opts.Refresh)
	return s, nil
}
