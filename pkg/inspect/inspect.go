// Package inspect describes a source image in palette terms: its dominant
// colours, the palette entry each one falls to, and how the quantized
// pixels split across the four plates.
package inspect

import (
	"cmp"
	"image"
	"slices"
	"time"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/fourcolor/pkg/palette"
)

// DefaultSwatches is how many dominant colours a report lists.
const DefaultSwatches = 5

// Swatch is one dominant colour of the source.
type Swatch struct {
	Hex     string  `json:"hex"`
	Weight  float64 `json:"weight"`  // share of the sampled pixels
	Nearest string  `json:"nearest"` // palette colour it quantizes to
	// Delta is the CIEDE2000 difference to Nearest. Large values mean the
	// plate will look noticeably different from the source.
	Delta float64 `json:"delta"`
}

// Share is the pixel count of one palette colour after quantization.
type Share struct {
	Color   string  `json:"color"`
	Rank    string  `json:"rank"`
	Pixels  int     `json:"pixels"`
	Percent float64 `json:"percent"`
}

// Report is the full inspection result.
type Report struct {
	Path         string   `json:"path"`
	Format       string   `json:"format"`
	SourceWidth  int      `json:"source_width"`
	SourceHeight int      `json:"source_height"`
	WidthMM      float64  `json:"width_mm"`
	Level        int      `json:"level"`
	PixelWidth   int      `json:"pixel_width"`
	PixelHeight  int      `json:"pixel_height"`
	Transparent  bool     `json:"transparent"`
	Method       Method   `json:"method"`
	Dominant     []Swatch `json:"dominant"`
	Shares       []Share  `json:"shares"`

	Elapsed time.Duration `json:"-"`
}

// Dominant returns up to n dominant colours of img, heaviest first.
func Dominant(img image.Image, n int) []Swatch {
	if n <= 0 {
		return nil
	}
	found := dominantcolor.FindWeight(img, n)
	out := make([]Swatch, 0, len(found))
	for _, c := range found {
		col, _ := colorful.MakeColor(c.RGBA)
		nearest := palette.Nearest(c.RGBA.R, c.RGBA.G, c.RGBA.B)
		out = append(out, Swatch{
			Hex:     col.Clamped().Hex(),
			Weight:  c.Weight,
			Nearest: string(nearest.Name),
			Delta:   col.DistanceCIEDE2000(nearest.Colorful()),
		})
	}
	slices.SortStableFunc(out, func(a, b Swatch) int { return cmp.Compare(b.Weight, a.Weight) })
	return out
}

// Shares converts a palette-order histogram into print-order shares.
func Shares(hist [palette.Size]int) []Share {
	total := 0
	for _, n := range hist {
		total += n
	}
	shares := make([]Share, palette.Size)
	for i, c := range palette.All() {
		s := Share{Color: string(c.Name), Rank: c.RankLabel(), Pixels: hist[i]}
		if total > 0 {
			s.Percent = 100 * float64(hist[i]) / float64(total)
		}
		shares[c.Rank()-1] = s
	}
	return shares
}
