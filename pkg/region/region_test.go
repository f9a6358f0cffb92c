package region

import (
	"image"
	"image/color"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/fourcolor/pkg/palette"
	"github.com/matzehuels/fourcolor/pkg/quantize"
)

func mustColor(t *testing.T, name string) palette.Color {
	t.Helper()
	c, err := palette.Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func row(px ...color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, len(px), 1))
	for x, p := range px {
		img.SetNRGBA(x, 0, p)
	}
	return img
}

var (
	opaqueRed   = color.NRGBA{R: 255, A: 255}
	opaqueBlack = color.NRGBA{A: 255}
	opaqueWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	transparent = color.NRGBA{R: 255, G: 255, B: 255, A: 0}
)

func TestExtractScenarios(t *testing.T) {
	tests := []struct {
		name   string
		img    *image.NRGBA
		target string
		want   []Rect
	}{
		{
			name:   "black matches every present pixel",
			img:    row(opaqueRed, opaqueBlack),
			target: "black",
			want:   []Rect{{0, 0, 2, 1}},
		},
		{
			name:   "white threshold rejects red and black",
			img:    row(opaqueRed, opaqueBlack),
			target: "white",
			want:   nil,
		},
		{
			name:   "transparent pixel splits run",
			img:    row(opaqueWhite, transparent, opaqueWhite),
			target: "white",
			want:   []Rect{{0, 0, 1, 1}, {2, 0, 1, 1}},
		},
		{
			name:   "failing pixel closes run",
			img:    row(opaqueWhite, opaqueWhite, opaqueBlack, opaqueWhite),
			target: "yellow",
			want:   []Rect{{0, 0, 2, 1}, {3, 0, 1, 1}},
		},
		{
			name:   "run open at end of row",
			img:    row(opaqueBlack, opaqueRed, opaqueWhite),
			target: "red",
			want:   []Rect{{1, 0, 2, 1}},
		},
		{
			name:   "all transparent",
			img:    row(transparent, transparent, transparent),
			target: "black",
			want:   nil,
		},
		{
			name:   "translucent still present",
			img:    row(color.NRGBA{A: 1}),
			target: "black",
			want:   []Rect{{0, 0, 1, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.img, mustColor(t, tt.target))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Extract() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractEmpty(t *testing.T) {
	for _, r := range []image.Rectangle{image.Rect(0, 0, 0, 0), image.Rect(0, 0, 5, 0), image.Rect(0, 0, 0, 5)} {
		if got := Extract(image.NewNRGBA(r), mustColor(t, "black")); len(got) != 0 {
			t.Errorf("Extract(%v) = %v, want empty", r, got)
		}
	}
}

func TestExtractNoVerticalMerge(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 4))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	rects := Extract(img, mustColor(t, "black"))
	if len(rects) != 4 {
		t.Fatalf("got %d rects, want one per row", len(rects))
	}
	for y, r := range rects {
		if r != (Rect{0, y, 3, 1}) {
			t.Errorf("rect %d = %v", y, r)
		}
	}
}

func TestExtractOffsetBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 20, 13, 21))
	img.SetNRGBA(11, 20, opaqueWhite)
	got := Extract(img, mustColor(t, "white"))
	if want := []Rect{{1, 0, 1, 1}}; !slices.Equal(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func randomQuantized(w, h int, seed uint64) *image.NRGBA {
	rng := rand.New(rand.NewPCG(seed, 7))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.IntN(256))
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if rng.IntN(5) == 0 {
			img.Pix[i] = 0
		}
	}
	return quantize.Image(img)
}

func TestExtractProperties(t *testing.T) {
	img := randomQuantized(57, 23, 11)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	for _, target := range palette.All() {
		t.Run(string(target.Name), func(t *testing.T) {
			rects := Extract(img, target)

			// Row-major order, sorted and non-overlapping within a row.
			for i, r := range rects {
				if r.W < 1 || r.H != 1 || r.X < 0 || r.Y < 0 || r.X+r.W > w || r.Y >= h {
					t.Fatalf("rect %v out of bounds", r)
				}
				if i == 0 {
					continue
				}
				prev := rects[i-1]
				if r.Y < prev.Y || (r.Y == prev.Y && r.X < prev.X+prev.W) {
					t.Fatalf("rects %v and %v out of order or overlapping", prev, r)
				}
			}

			// Painting the runs reproduces the membership test exactly.
			canvas := image.NewAlpha(img.Bounds())
			Paint(canvas, rects, color.Alpha{A: 255})
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					p := img.NRGBAAt(x, y)
					want := p.A != 0 && Matches(p.R, p.G, p.B, target)
					got := canvas.AlphaAt(x, y).A == 255
					if got != want {
						t.Fatalf("pixel (%d,%d) covered=%v, want %v", x, y, got, want)
					}
				}
			}

			if n := Covered(rects); n != countMatches(img, target) {
				t.Errorf("Covered() = %d, want %d", n, countMatches(img, target))
			}
		})
	}
}

func countMatches(img *image.NRGBA, target palette.Color) int {
	n := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] != 0 && Matches(img.Pix[i], img.Pix[i+1], img.Pix[i+2], target) {
			n++
		}
	}
	return n
}

func TestPlate(t *testing.T) {
	red := mustColor(t, "red")
	plate := Plate(3, 2, []Rect{{1, 1, 2, 1}}, red)

	if got := plate.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("background = %v, want white", got)
	}
	for _, x := range []int{1, 2} {
		if got := plate.RGBAAt(x, 1); got != (color.RGBA{255, 0, 0, 255}) {
			t.Errorf("pixel (%d,1) = %v, want red", x, got)
		}
	}
	if got := plate.RGBAAt(0, 1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel (0,1) = %v, want white", got)
	}
}
