// Package region turns a quantized image into per-colour rectangle runs.
//
// For a target palette colour, [Extract] scans each row left to right and
// merges horizontally adjacent pixels that pass the intensity test
//
//	r + g + b >= target.r + target.g + target.b
//
// into one-row rectangles. Fully transparent pixels never match and always
// end the current run. Rows are never merged with each other, so every
// rectangle has height 1 and the output is in row-major order.
//
// The test compares summed intensity, not colour identity: White (765)
// matches only white pixels while Black (0) matches every visible pixel.
// That asymmetry is what the exported print plates are built on and is kept
// as-is.
package region

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/matzehuels/fourcolor/pkg/palette"
)

// Rect is a run of pixels in image coordinates. H is always 1 for rects
// produced by Extract.
type Rect struct {
	X, Y, W, H int
}

// Image returns the rectangle as an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Area returns W*H.
func (r Rect) Area() int { return r.W * r.H }

// Matches reports whether a present pixel (r,g,b) belongs to target's plate.
func Matches(r, g, b uint8, target palette.Color) bool {
	return int(r)+int(g)+int(b) >= target.Sum()
}

// Extract returns the one-row runs of img that belong to target's plate.
// Coordinates are relative to img.Bounds().Min. An empty image yields nil.
func Extract(img *image.NRGBA, target palette.Color) []Rect {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	threshold := target.Sum()
	var rects []Rect
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		start := -1
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			if p[3] == 0 {
				if start >= 0 {
					rects = append(rects, Rect{X: start, Y: y, W: x - start, H: 1})
					start = -1
				}
				continue
			}
			if int(p[0])+int(p[1])+int(p[2]) >= threshold {
				if start < 0 {
					start = x
				}
			} else if start >= 0 {
				rects = append(rects, Rect{X: start, Y: y, W: x - start, H: 1})
				start = -1
			}
		}
		if start >= 0 {
			rects = append(rects, Rect{X: start, Y: y, W: w - start, H: 1})
		}
	}
	return rects
}

// Covered returns the number of pixels covered by rects.
func Covered(rects []Rect) int {
	n := 0
	for _, r := range rects {
		n += r.Area()
	}
	return n
}

// Paint fills rects onto dst in colour c.
func Paint(dst draw.Image, rects []Rect, c color.Color) {
	src := image.NewUniform(c)
	off := dst.Bounds().Min
	for _, r := range rects {
		draw.Draw(dst, r.Image().Add(off), src, image.Point{}, draw.Src)
	}
}

// Plate renders rects as a w x h opaque image: background white, runs in
// target's colour.
func Plate(w, h int, rects []Rect, target palette.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	Paint(img, rects, target.NRGBA())
	return img
}
