package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/fourcolor/pkg/cache"
	ferrors "github.com/matzehuels/fourcolor/pkg/errors"
	"github.com/matzehuels/fourcolor/pkg/imageio"
	"github.com/matzehuels/fourcolor/pkg/inspect"
	"github.com/matzehuels/fourcolor/pkg/observability"
)

// Inspect previews src with opts and describes it. Dominant colours depend
// only on the source and method, and are cached separately from the preview.
func (r *Runner) Inspect(ctx context.Context, src *imageio.Source, opts Options, method inspect.Method) (*inspect.Report, error) {
	if src == nil || src.Image == nil {
		return nil, ferrors.New(ferrors.ErrCodeNoImageLoaded, "no image loaded")
	}
	method, err := inspect.ParseMethod(string(method))
	if err != nil {
		return nil, err
	}
	start := time.Now()

	res, err := r.Preview(ctx, src, opts)
	if err != nil {
		return nil, err
	}

	b := src.Image.Bounds()
	report := &inspect.Report{
		Path:         src.Path,
		Format:       src.Format,
		SourceWidth:  b.Dx(),
		SourceHeight: b.Dy(),
		WidthMM:      res.WidthMM,
		Level:        res.Level,
		PixelWidth:   res.Stats.Width,
		PixelHeight:  res.Stats.Height,
		Transparent:  res.Transparent,
		Method:       method,
		Dominant:     r.dominant(ctx, src, res.SourceHash, method, opts.Refresh),
		Shares:       inspect.Shares(res.Histogram),
	}
	report.Elapsed = time.Since(start)
	return report, nil
}

func (r *Runner) dominant(ctx context.Context, src *imageio.Source, hash string, method inspect.Method, refresh bool) []inspect.Swatch {
	key := r.Keyer.InspectKey(hash, string(method))
	hooks := observability.Cache()
	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var swatches []inspect.Swatch
			if json.Unmarshal(data, &swatches) == nil {
				hooks.OnCacheHit(ctx, "inspect")
				return swatches
			}
		}
		hooks.OnCacheMiss(ctx, "inspect")
	}

	swatches := inspect.Swatches(src.Image, inspect.DefaultSwatches, method)
	if data, err := json.Marshal(swatches); err == nil {
		if r.Cache.Set(ctx, key, data, cache.TTLInspect) == nil {
			hooks.OnCacheSet(ctx, "inspect", len(data))
		}
	}
	return swatches
}
