package pipeline

import (
	"context"

	ferrors "github.com/matzehuels/fourcolor/pkg/errors"
	"github.com/matzehuels/fourcolor/pkg/export"
	"github.com/matzehuels/fourcolor/pkg/imageio"
	"github.com/matzehuels/fourcolor/pkg/palette"
	"github.com/matzehuels/fourcolor/pkg/raster"
)

// Session is the mutable state of an interactive front end: the loaded
// image, the target width and the denoise level. Invalid inputs leave the
// state unchanged.
//
// A Session is not safe for concurrent use. Front ends that compute
// previews in the background take a [Session.Snapshot] and hand the result
// back with [Session.Accept].
type Session struct {
	runner  *Runner
	source  *imageio.Source
	hash    string
	widthMM float64
	level   int
	workers int
	refresh bool
	current *Result
}

// NewSession creates a session with the default width and level 0.
func NewSession(r *Runner) *Session {
	if r == nil {
		r = NewRunner(nil, nil, nil)
	}
	return &Session{
		runner:  r,
		widthMM: raster.DefaultWidthMM,
		level:   raster.MinLevel,
	}
}

// Load reads an image file and makes it the current source.
func (s *Session) Load(path string) error {
	src, err := imageio.Load(path)
	if err != nil {
		return err
	}
	s.SetSource(src)
	s.runner.Logger.Info("loaded image",
		"path", path,
		"format", src.Format,
		"width", src.Image.Bounds().Dx(),
		"height", src.Image.Bounds().Dy())
	return nil
}

// SetSource replaces the current source and drops the cached preview.
func (s *Session) SetSource(src *imageio.Source) {
	s.source = src
	s.hash = SourceHash(src)
	s.current = nil
}

// Source returns the loaded image, or nil.
func (s *Session) Source() *imageio.Source { return s.source }

// Loaded reports whether an image is loaded.
func (s *Session) Loaded() bool { return s.source != nil }

// Width returns the target width in millimetres.
func (s *Session) Width() float64 { return s.widthMM }

// Level returns the denoise level.
func (s *Session) Level() int { return s.level }

// SetWorkers bounds quantizer concurrency for later previews.
func (s *Session) SetWorkers(n int) { s.workers = n }

// SetRefresh makes the next previews bypass the cache.
func (s *Session) SetRefresh(refresh bool) { s.refresh = refresh }

// SetWidth parses and applies a user-entered width.
func (s *Session) SetWidth(text string) error {
	mm, err := raster.ParseWidth(text)
	if err != nil {
		return err
	}
	s.widthMM = mm
	return nil
}

// SetWidthMM applies a numeric width.
func (s *Session) SetWidthMM(mm float64) error {
	if err := raster.ValidateWidth(mm); err != nil {
		return err
	}
	s.widthMM = mm
	return nil
}

// SetLevel applies a denoise level in [0, 10].
func (s *Session) SetLevel(level int) error {
	if err := raster.ValidateLevel(level); err != nil {
		return err
	}
	s.level = level
	return nil
}

// AdjustLevel steps the level by delta, clamped to [0, 10], and returns it.
func (s *Session) AdjustLevel(delta int) int {
	s.level = raster.StepLevel(s.level, delta)
	return s.level
}

// Snapshot returns the source and options for a preview of the current
// state, for computing it off the session's goroutine.
func (s *Session) Snapshot() (*imageio.Source, Options, error) {
	if s.source == nil {
		return nil, Options{}, ferrors.New(ferrors.ErrCodeNoImageLoaded, "no image loaded")
	}
	return s.source, Options{WidthMM: s.widthMM, Level: s.level, Workers: s.workers, Refresh: s.refresh}, nil
}

// Accept stores a preview computed from a Snapshot. Results for another
// source or stale parameters are ignored; Accept reports whether res was
// kept.
func (s *Session) Accept(res *Result) bool {
	if !res.Matches(s.hash, s.widthMM, s.level) {
		return false
	}
	s.current = res
	return true
}

// Current returns the latest preview, or nil.
func (s *Session) Current() *Result { return s.current }

// Preview returns the quantized image for the current state, computing it
// if the width or level changed since the last preview.
func (s *Session) Preview(ctx context.Context) (*Result, error) {
	src, opts, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if s.current.Matches(s.hash, s.widthMM, s.level) {
		return s.current, nil
	}
	res, err := s.runner.Preview(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	s.current = res
	return res, nil
}

// SaveImage writes the current preview to path as PNG, JPEG or BMP.
func (s *Session) SaveImage(ctx context.Context, path string) error {
	res, err := s.Preview(ctx)
	if err != nil {
		return err
	}
	if err := imageio.Save(path, res.Image); err != nil {
		return err
	}
	s.runner.Logger.Info("saved preview", "path", path)
	return nil
}

// Export writes the plates of the current preview. An empty opts.Base uses
// the source file name.
func (s *Session) Export(ctx context.Context, sel palette.Selection, opts export.Options) (*export.Report, error) {
	res, err := s.Preview(ctx)
	if err != nil {
		return nil, err
	}
	if opts.Base == "" {
		opts.Base = s.source.Base()
	}
	return s.runner.Export(ctx, res, sel, opts)
}
