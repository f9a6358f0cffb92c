package export

import (
	"fmt"
	"image"

	"github.com/matzehuels/fourcolor/pkg/palette"
	"github.com/matzehuels/fourcolor/pkg/region"
)

// Target is one print plate: the runs of a single palette colour over an
// image of Width x Height pixels.
type Target struct {
	Color  palette.Color
	Width  int
	Height int
	Rects  []region.Rect
}

// NewTarget extracts the plate for c from a quantized image.
func NewTarget(img *image.NRGBA, c palette.Color) Target {
	b := img.Bounds()
	return Target{
		Color:  c,
		Width:  b.Dx(),
		Height: b.Dy(),
		Rects:  region.Extract(img, c),
	}
}

// Rank returns the print-pass label ("1st".."4th").
func (t Target) Rank() string { return t.Color.RankLabel() }

// BaseName returns "{base}_{Color}_{rank}" without extension.
func (t Target) BaseName(base string) string {
	return fmt.Sprintf("%s_%s_%s", base, t.Color.Name, t.Rank())
}
