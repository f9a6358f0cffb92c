// Package quantize maps every pixel of an image onto the fixed four-colour
// palette.
//
// Each pixel's RGB is replaced by the nearest palette colour under the exact
// RGB Euclidean distance; ties go to the colour declared first (Red, Yellow,
// White, Black). Alpha is copied through unchanged, including for fully
// transparent pixels, which are classified like any other.
//
// Large images are split into row bands processed concurrently. Every band
// writes only its own rows, so the result is byte-identical to a sequential
// scan.
package quantize

import (
	"context"
	"image"
	"runtime"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/fourcolor/pkg/palette"
)

// minParallelPixels is the image size below which banding is not worth it.
const minParallelPixels = 64 * 1024

// Options tunes how quantization is scheduled. The zero value picks
// GOMAXPROCS workers.
type Options struct {
	// Workers bounds the number of concurrent row bands. 1 forces a
	// sequential scan.
	Workers int
}

// Image returns a quantized copy of img.
func Image(img image.Image) *image.NRGBA {
	out, _ := ImageContext(context.Background(), img, Options{})
	return out
}

// ImageContext quantizes img, stopping early if ctx is cancelled.
func ImageContext(ctx context.Context, img image.Image, opts Options) (*image.NRGBA, error) {
	dst := imaging.Clone(img)
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return dst, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 1 || w*h < minParallelPixels {
		quantizeRows(dst, 0, h)
		return dst, ctx.Err()
	}

	band := (h + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y0 := 0; y0 < h; y0 += band {
		y1 := min(y0+band, h)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			quantizeRows(dst, y0, y1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dst, nil
}

// quantizeRows rewrites rows [y0,y1) of img in place.
func quantizeRows(img *image.NRGBA, y0, y1 int) {
	w := img.Bounds().Dx()
	for y := y0; y < y1; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			c := palette.At(palette.NearestIndex(row[i], row[i+1], row[i+2]))
			row[i], row[i+1], row[i+2] = c.R, c.G, c.B
		}
	}
}

// Histogram counts pixels per palette colour in a quantized image, in
// declaration order. Fully transparent pixels are skipped.
func Histogram(img *image.NRGBA) [palette.Size]int {
	var counts [palette.Size]int
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			if row[i+3] == 0 {
				continue
			}
			counts[palette.NearestIndex(row[i], row[i+1], row[i+2])]++
		}
	}
	return counts
}
