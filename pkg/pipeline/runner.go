package pipeline

import (
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fourcolor/pkg/cache"
	ferrors "github.com/matzehuels/fourcolor/pkg/errors"
	"github.com/matzehuels/fourcolor/pkg/export"
	"github.com/matzehuels/fourcolor/pkg/imageio"
	"github.com/matzehuels/fourcolor/pkg/observability"
	"github.com/matzehuels/fourcolor/pkg/palette"
	"github.com/matzehuels/fourcolor/pkg/quantize"
	"github.com/matzehuels/fourcolor/pkg/raster"
)

// Runner executes the pipeline with caching of quantized previews.
//
// The Runner holds no per-run state. Several goroutines may share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses the default keyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLPreview,
	}
}

// Preview runs resize, denoise and quantize on src, reading and filling the
// preview cache.
func (r *Runner) Preview(ctx context.Context, src *imageio.Source, opts Options) (*Result, error) {
	if src == nil || src.Image == nil {
		return nil, ferrors.New(ferrors.ErrCodeNoImageLoaded, "no image loaded")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	hash := SourceHash(src)
	key := r.Keyer.PreviewKey(hash, opts.PreviewKeyOpts())

	hooks := observability.Cache()
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if img, err := imageio.Decode(data); err == nil {
				hooks.OnCacheHit(ctx, "preview")
				res := newResult(img, hash, opts)
				res.CacheInfo.PreviewHit = true
				opts.Logger.Debug("preview cache hit", "width", res.Stats.Width, "height", res.Stats.Height)
				return res, nil
			}
		} else if err != nil {
			opts.Logger.Warn("preview cache read failed", "err", err)
		}
		hooks.OnCacheMiss(ctx, "preview")
	}

	res, err := r.Process(ctx, src.Image, opts)
	if err != nil {
		return nil, err
	}
	res.SourceHash = hash

	if data, err := imageio.EncodePNG(res.Image); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			opts.Logger.Warn("preview cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, "preview", len(data))
		}
	}
	return res, nil
}

// Process runs the stages on img without touching the cache.
func (r *Runner) Process(ctx context.Context, img image.Image, opts Options) (res *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	logger := opts.Logger

	hooks := observability.Pipeline()
	hooks.OnProcessStart(ctx, opts.WidthMM, opts.Level)
	begin := time.Now()
	defer func() {
		var w, h int
		if res != nil {
			w, h = res.Stats.Width, res.Stats.Height
		}
		hooks.OnProcessComplete(ctx, w, h, time.Since(begin), err)
	}()

	start := time.Now()
	resized, err := raster.Resize(img, opts.WidthMM)
	if err != nil {
		return nil, fmt.Errorf("resize: %w", err)
	}
	resizeTime := time.Since(start)
	b := resized.Bounds()
	logger.Debug("resized image",
		"width_mm", opts.WidthMM,
		"width", b.Dx(),
		"height", b.Dy(),
		"transparent", raster.HasTransparency(resized),
		"duration", resizeTime)

	start = time.Now()
	smoothed, err := raster.Denoise(resized, opts.Level)
	if err != nil {
		return nil, fmt.Errorf("denoise: %w", err)
	}
	denoiseTime := time.Since(start)
	if opts.Level > 0 {
		logger.Debug("denoised image", "level", opts.Level, "duration", denoiseTime)
	}

	start = time.Now()
	quantized, err := quantize.ImageContext(ctx, smoothed, quantize.Options{Workers: opts.Workers})
	if err != nil {
		return nil, fmt.Errorf("quantize: %w", err)
	}
	quantizeTime := time.Since(start)

	res = newResult(quantized, "", opts)
	res.Stats.ResizeTime = resizeTime
	res.Stats.DenoiseTime = denoiseTime
	res.Stats.QuantizeTime = quantizeTime
	logger.Debug("quantized image",
		"transparent", res.Transparent,
		"duration", quantizeTime)
	logger.Info("computed preview",
		"width", res.Stats.Width,
		"height", res.Stats.Height,
		"level", opts.Level,
		"duration", resizeTime+denoiseTime+quantizeTime)
	return res, nil
}

// Export writes the plates of res for sel. The report is returned even when
// individual colours fail; see [export.Report.Err].
func (r *Runner) Export(ctx context.Context, res *Result, sel palette.Selection, opts export.Options) (*export.Report, error) {
	if res == nil || res.Image == nil {
		return nil, ferrors.New(ferrors.ErrCodeNoImageLoaded, "no image loaded")
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}

	names := make([]string, len(sel))
	for i, c := range sel {
		names[i] = string(c.Name)
	}
	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, names)

	start := time.Now()
	report, err := export.Write(ctx, res.Image, sel, opts)
	if err != nil {
		hooks.OnExportComplete(ctx, names, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnExportComplete(ctx, names, len(report.Files()), time.Since(start), report.Err())
	if report.Warning == nil {
		r.Logger.Info("exported plates",
			"colors", len(report.Outcomes),
			"files", len(report.Files()),
			"duration", time.Since(start))
	}
	return report, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func newResult(img *image.NRGBA, hash string, opts Options) *Result {
	b := img.Bounds()
	return &Result{
		Image:       img,
		SourceHash:  hash,
		WidthMM:     opts.WidthMM,
		Level:       opts.Level,
		Transparent: raster.HasTransparency(img),
		Histogram:   quantize.Histogram(img),
		Stats:       Stats{Width: b.Dx(), Height: b.Dy()},
	}
}

// SourceHash identifies a source image: the hash of its file bytes, or of
// its pixels when it was not read from a file.
func SourceHash(src *imageio.Source) string {
	if len(src.Raw) > 0 {
		return cache.Hash(src.Raw)
	}
	b := src.Image.Bounds()
	buf := make([]byte, 0, 16+len(src.Image.Pix))
	buf = binary.BigEndian.AppendUint64(buf, uint64(b.Dx()))
	buf = binary.BigEndian.AppendUint64(buf, uint64(b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := src.Image.Pix[y*src.Image.Stride : y*src.Image.Stride+b.Dx()*4]
		buf = append(buf, row...)
	}
	return cache.Hash(buf)
}
