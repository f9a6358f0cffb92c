package raster

import (
	"image"
	"image/color"
	"math"
	"testing"

	ferrors "github.com/matzehuels/fourcolor/pkg/errors"
)

func TestPixelWidth(t *testing.T) {
	tests := []struct {
		mm   float64
		want int
	}{
		{127, 480},
		{25.4, 96},
		{254, 960},
		{1, 4},
		{0.1, 0},
	}
	for _, tt := range tests {
		if got := PixelWidth(tt.mm); got != tt.want {
			t.Errorf("PixelWidth(%v) = %d, want %d", tt.mm, got, tt.want)
		}
	}
}

func TestParseWidth(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"127", 127, false},
		{" 50.5 ", 50.5, false},
		{"254.9", 254.9, false},

		{"255", 0, true},
		{"300", 0, true},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWidth(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWidth(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !ferrors.Is(err, ferrors.ErrCodeInvalidDimension) {
				t.Errorf("ParseWidth(%q) wrong code: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseWidth(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func mmFor(px int) float64 {
	return float64(px) * MMPerInch / DPI
}

func TestResizeAspectRatio(t *testing.T) {
	sizes := []image.Point{{100, 50}, {640, 480}, {37, 91}, {1, 1}, {300, 7}}
	targets := []int{10, 96, 200, 480}

	for _, s := range sizes {
		src := solid(s.X, s.Y, color.NRGBA{R: 200, A: 255})
		for _, w := range targets {
			out, err := Resize(src, mmFor(w))
			if err != nil {
				t.Fatalf("Resize(%v, %dpx): %v", s, w, err)
			}
			b := out.Bounds()
			if b.Dx() != w {
				t.Errorf("Resize(%v) width = %d, want %d", s, b.Dx(), w)
			}
			want := float64(s.Y) * float64(w) / float64(s.X)
			if math.Abs(float64(b.Dy())-math.Round(want)) > 1 && !(want < 1 && b.Dy() == 1) {
				t.Errorf("Resize(%v -> %d) height = %d, want ~%.1f", s, w, b.Dy(), want)
			}
		}
	}
}

func TestResizeDeterministic(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 13, 9))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 37)
	}
	a, err := Resize(src, mmFor(40))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Resize(src, mmFor(40))
	if string(a.Pix) != string(b.Pix) {
		t.Error("Resize must be deterministic")
	}
}

func TestResizeErrors(t *testing.T) {
	src := solid(10, 10, color.NRGBA{A: 255})
	for _, mm := range []float64{0, -1, 255, 1000, 0.1} {
		if _, err := Resize(src, mm); !ferrors.Is(err, ferrors.ErrCodeInvalidDimension) {
			t.Errorf("Resize(%v mm) error = %v, want INVALID_DIMENSION", mm, err)
		}
	}
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	if _, err := Resize(empty, 50); !ferrors.Is(err, ferrors.ErrCodeInvalidDimension) {
		t.Errorf("Resize(empty) error = %v", err)
	}
}

func TestDenoiseLevelZeroIsIdentity(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 11)
	}
	orig := append([]uint8(nil), src.Pix...)

	out, err := Denoise(src, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out != image.Image(src) {
		t.Error("level 0 should return the input image")
	}
	if string(src.Pix) != string(orig) {
		t.Error("level 0 must not modify pixels")
	}
}

func TestDenoiseMonotonic(t *testing.T) {
	src := solid(41, 41, color.NRGBA{A: 255})
	src.SetNRGBA(20, 20, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	peak := func(level int) uint8 {
		out, err := Denoise(src, level)
		if err != nil {
			t.Fatalf("Denoise(%d): %v", level, err)
		}
		r, _, _, _ := out.At(20, 20).RGBA()
		return uint8(r >> 8)
	}

	p0, p1, p2, p4 := peak(0), peak(1), peak(2), peak(4)
	if !(p0 > p1 && p1 > p2 && p2 > p4) {
		t.Errorf("peak should shrink with level: %d %d %d %d", p0, p1, p2, p4)
	}
}

func TestDenoiseInvalidLevel(t *testing.T) {
	src := solid(2, 2, color.NRGBA{A: 255})
	for _, lvl := range []int{-1, 11, 100} {
		if _, err := Denoise(src, lvl); !ferrors.Is(err, ferrors.ErrCodeInvalidLevel) {
			t.Errorf("Denoise(%d) error = %v, want INVALID_LEVEL", lvl, err)
		}
	}
}

func TestStepLevel(t *testing.T) {
	tests := []struct {
		cur, delta, want int
	}{
		{0, 1, 1},
		{0, -1, 0},
		{10, 1, 10},
		{10, -1, 9},
		{5, 0, 5},
		{3, 20, 10},
	}
	for _, tt := range tests {
		if got := StepLevel(tt.cur, tt.delta); got != tt.want {
			t.Errorf("StepLevel(%d, %d) = %d, want %d", tt.cur, tt.delta, got, tt.want)
		}
	}
}

func TestHasTransparency(t *testing.T) {
	img := solid(3, 3, color.NRGBA{R: 1, A: 255})
	if HasTransparency(img) {
		t.Error("opaque image reported transparent")
	}
	img.SetNRGBA(2, 2, color.NRGBA{A: 254})
	if !HasTransparency(img) {
		t.Error("translucent pixel not detected")
	}
}
