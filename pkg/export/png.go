package export

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/fourcolor/pkg/region"
)

// RenderPNG renders t as an opaque raster: white background with the runs
// painted in the plate colour.
func RenderPNG(t Target) ([]byte, error) {
	img := region.Plate(t.Width, t.Height, t.Rects, t.Color)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
