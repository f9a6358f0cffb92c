// Package pipeline runs the four-colour preview pipeline for fourcolor.
//
// The CLI and the interactive tuner share this package so both produce the
// same pixels for the same inputs.
//
// # Architecture
//
// A preview is computed in three synchronous stages:
//
//  1. Resize: scale to the target width in millimetres at 96 DPI
//  2. Denoise: optional Gaussian blur, skipped at level 0
//  3. Quantize: map every opaque pixel to the nearest palette colour
//
// Export then extracts per-colour runs from the quantized image and writes
// the plate files through package export.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	src, _ := imageio.Load("photo.jpg")
//	res, err := runner.Preview(ctx, src, pipeline.Options{WidthMM: 127, Level: 2})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := runner.Export(ctx, res, sel, export.Options{Base: src.Base()})
//
// [Session] holds the mutable state of an interactive front end (loaded
// image, width, level) on top of a Runner.
package pipeline

import (
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fourcolor/pkg/cache"
	"github.com/matzehuels/fourcolor/pkg/palette"
	"github.com/matzehuels/fourcolor/pkg/raster"
)

// Options configures one preview run.
type Options struct {
	WidthMM float64 `json:"width_mm"`
	Level   int     `json:"level"`
	Workers int     `json:"workers,omitempty"` // quantizer bands; 0 means GOMAXPROCS
	Refresh bool    `json:"refresh,omitempty"` // bypass the preview cache

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults applies defaults and validates the width and level.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := raster.ValidateWidth(o.WidthMM); err != nil {
		return err
	}
	if err := raster.ValidateLevel(o.Level); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields. A zero width means the default width.
func (o *Options) SetDefaults() {
	if o.WidthMM == 0 {
		o.WidthMM = raster.DefaultWidthMM
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// PreviewKeyOpts returns the cache key options for this run.
func (o *Options) PreviewKeyOpts() cache.PreviewKeyOpts {
	return cache.PreviewKeyOpts{WidthMM: o.WidthMM, Level: o.Level}
}

// Result is the output of a preview run.
type Result struct {
	// Image is the quantized, resized image.
	Image *image.NRGBA

	// SourceHash identifies the source image.
	SourceHash string

	// WidthMM and Level are the parameters Image was produced with.
	WidthMM float64
	Level   int

	// Transparent is true if any pixel of Image is not fully opaque.
	Transparent bool

	// Histogram counts opaque pixels per palette colour, in palette order.
	Histogram [palette.Size]int

	Stats     Stats
	CacheInfo CacheInfo
}

// Matches reports whether r was produced from source with the given width
// and level.
func (r *Result) Matches(sourceHash string, widthMM float64, level int) bool {
	return r != nil && r.SourceHash == sourceHash && r.WidthMM == widthMM && r.Level == level
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Width        int
	Height       int
	ResizeTime   time.Duration
	DenoiseTime  time.Duration
	QuantizeTime time.Duration
}

// CacheInfo tracks cache use for a run.
type CacheInfo struct {
	PreviewHit bool // quantized image came from cache
}
