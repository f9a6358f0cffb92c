package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	ferrors "github.com/matzehuels/fourcolor/pkg/errors"
	"github.com/matzehuels/fourcolor/pkg/palette"
)

// Format constants for plate artifacts.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported plate formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
}

// Options controls where and how plates are written.
type Options struct {
	Dir         string   // output directory, created if missing
	Base        string   // artifact base name, usually the source file stem
	Formats     []string // plate formats; defaults to svg and png
	StrokeWidth float64  // border stroke width; defaults to DefaultStrokeWidth
	Manifest    bool     // also write {base}_manifest.json

	Logger *log.Logger
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Dir == "" {
		o.Dir = "."
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG, FormatPNG}
	}
	if o.StrokeWidth == 0 {
		o.StrokeWidth = DefaultStrokeWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the base name and formats.
func (o *Options) Validate() error {
	if err := ferrors.ValidateBaseName(o.Base); err != nil {
		return err
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return ferrors.New(ferrors.ErrCodeInvalidFormat, "invalid plate format: %q (must be one of: svg, png)", f)
		}
	}
	return nil
}

// Outcome is the result of exporting one colour.
type Outcome struct {
	Color  palette.Color
	Rects  int      // number of runs
	Pixels int      // pixels covered by the runs
	Files  []string // written paths, in format order
	Err    error    // non-nil if any artifact for this colour failed
}

// Report summarises an export run.
type Report struct {
	RunID    string
	Dir      string
	Base     string
	Outcomes []Outcome
	Manifest string // manifest path, empty if not written

	// Warning is set, and nothing is written, when the selection is empty.
	Warning error

	manifestErr error
}

// Err joins the per-colour and manifest failures, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Color.Name, o.Err))
		}
	}
	if r.manifestErr != nil {
		errs = append(errs, fmt.Errorf("manifest: %w", r.manifestErr))
	}
	return errors.Join(errs...)
}

// Files returns every artifact written, in outcome order.
func (r *Report) Files() []string {
	var files []string
	for _, o := range r.Outcomes {
		files = append(files, o.Files...)
	}
	if r.Manifest != "" {
		files = append(files, r.Manifest)
	}
	return files
}

// Write exports one plate per selected colour from the quantized image.
//
// An empty selection returns a Report whose Warning is an
// EMPTY_COLOR_SELECTION error and writes nothing. Failures are isolated per
// colour: a colour that cannot be written is recorded in its Outcome and
// the remaining colours are still exported. The returned error is reserved
// for problems that stop the whole run (invalid options, unusable output
// directory, cancellation).
func Write(ctx context.Context, img *image.NRGBA, sel palette.Selection, opts Options) (*Report, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	report := &Report{Dir: opts.Dir, Base: opts.Base}
	if sel.Empty() {
		report.Warning = ferrors.New(ferrors.ErrCodeEmptyColorSelection, "no colours selected for export")
		opts.Logger.Warn("nothing to export", "reason", "empty colour selection")
		return report, nil
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeIO, err, "create output directory %s", opts.Dir)
	}
	report.RunID = uuid.NewString()

	for _, c := range sel {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		start := time.Now()
		outcome := writeColor(img, c, opts)
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Err != nil {
			opts.Logger.Error("export failed", "color", c.Name, "err", outcome.Err)
			continue
		}
		opts.Logger.Debug("exported plate",
			"color", c.Name,
			"rank", c.RankLabel(),
			"rects", outcome.Rects,
			"duration", time.Since(start))
	}

	if opts.Manifest {
		path := filepath.Join(opts.Dir, opts.Base+"_manifest.json")
		if err := writeManifest(path, img, report); err != nil {
			report.manifestErr = err
		} else {
			report.Manifest = path
		}
	}

	return report, nil
}

// writeColor extracts and writes every artifact for one colour.
func writeColor(img *image.NRGBA, c palette.Color, opts Options) (outcome Outcome) {
	outcome.Color = c
	defer func() {
		if r := recover(); r != nil {
			outcome.Err = ferrors.New(ferrors.ErrCodeInternal, "export %s: %v", c.Name, r)
		}
	}()

	t := NewTarget(img, c)
	outcome.Rects = len(t.Rects)
	for _, r := range t.Rects {
		outcome.Pixels += r.Area()
	}

	stem := filepath.Join(opts.Dir, t.BaseName(opts.Base))
	for _, format := range opts.Formats {
		var data []byte
		var err error
		switch format {
		case FormatSVG:
			data = RenderSVG(t, WithStrokeWidth(opts.StrokeWidth))
		case FormatPNG:
			data, err = RenderPNG(t)
		}
		if err != nil {
			outcome.Err = ferrors.Wrap(ferrors.ErrCodeInternal, err, "render %s", format)
			return outcome
		}

		path := stem + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			outcome.Err = ferrors.Wrap(ferrors.ErrCodeIO, err, "write %s", path)
			return outcome
		}
		outcome.Files = append(outcome.Files, path)
	}
	return outcome
}
