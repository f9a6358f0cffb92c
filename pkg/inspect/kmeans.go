package inspect

import (
	"cmp"
	"image"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	ferrors "github.com/matzehuels/fourcolor/pkg/errors"
	"github.com/matzehuels/fourcolor/pkg/palette"
)

// Method selects how dominant colours are found.
type Method string

const (
	// MethodDominant uses dominantcolor's weighted histogram.
	MethodDominant Method = "dominant"
	// MethodKMeans clusters a subsample of opaque pixels.
	MethodKMeans Method = "kmeans"
)

// maxSamples caps the pixels fed to k-means.
const maxSamples = 12000

// ParseMethod validates a method name. Empty means MethodDominant.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "", MethodDominant:
		return MethodDominant, nil
	case MethodKMeans:
		return MethodKMeans, nil
	}
	return "", ferrors.New(ferrors.ErrCodeInvalidFormat, "invalid inspect method: %q (must be dominant or kmeans)", s)
}

// Swatches finds up to n dominant colours of img with the given method.
// K-means falls back to the histogram when it finds no clusters.
func Swatches(img image.Image, n int, m Method) []Swatch {
	if m == MethodKMeans {
		if s := Clusters(img, n); len(s) > 0 {
			return s
		}
	}
	return Dominant(img, n)
}

// Clusters partitions opaque pixels of img into at most n k-means clusters
// and returns their centres, most populous first.
func Clusters(img image.Image, n int) []Swatch {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if n <= 0 || w == 0 || h == 0 {
		return nil
	}

	step := 1
	if w*h > maxSamples {
		step = int(math.Sqrt(float64(w*h)/float64(maxSamples))) + 1
	}

	data := make(clusters.Observations, 0, min(w*h, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			data = append(data, clusters.Coordinates{
				float64(r) / 0xffff,
				float64(g) / 0xffff,
				float64(bl) / 0xffff,
			})
		}
	}
	if len(data) == 0 {
		return nil
	}

	cc, err := kmeans.New().Partition(data, min(n, len(data)))
	if err != nil {
		return nil
	}

	out := make([]Swatch, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		r, g, bl := col.RGB255()
		nearest := palette.Nearest(r, g, bl)
		out = append(out, Swatch{
			Hex:     col.Hex(),
			Weight:  float64(len(c.Observations)) / float64(len(data)),
			Nearest: string(nearest.Name),
			Delta:   col.DistanceCIEDE2000(nearest.Colorful()),
		})
	}
	slices.SortStableFunc(out, func(a, b Swatch) int { return cmp.Compare(b.Weight, a.Weight) })
	return out
}
