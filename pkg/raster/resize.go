// Package raster implements the pre-classification stages: physical-width
// resizing and optional denoising.
//
// Both stages take an [image.Image] and return a fresh *image.NRGBA so the
// quantizer always sees non-premultiplied 8-bit channels. Denoise at level 0
// is the one exception and hands its input back untouched.
//
//	resized, err := raster.Resize(src, 127) // 127 mm at 96 DPI -> 480 px wide
//	smooth, err := raster.Denoise(resized, 2)
package raster

import (
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	ferrors "github.com/matzehuels/fourcolor/pkg/errors"
)

const (
	// DPI is the fixed physical-to-pixel density.
	DPI = 96.0

	// MMPerInch converts millimetres to inches.
	MMPerInch = 25.4

	// MaxWidthMM is the exclusive upper bound on the target width.
	MaxWidthMM = 255.0

	// DefaultWidthMM is the initial target width.
	DefaultWidthMM = 127.0
)

// ParseWidth parses a user-entered width in millimetres and validates it.
func ParseWidth(s string) (float64, error) {
	mm, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, ferrors.New(ferrors.ErrCodeInvalidDimension, "width %q is not a number", s)
	}
	if err := ValidateWidth(mm); err != nil {
		return 0, err
	}
	return mm, nil
}

// ValidateWidth checks 0 < mm < MaxWidthMM.
func ValidateWidth(mm float64) error {
	if math.IsNaN(mm) || math.IsInf(mm, 0) {
		return ferrors.New(ferrors.ErrCodeInvalidDimension, "width must be a finite number")
	}
	if mm <= 0 {
		return ferrors.New(ferrors.ErrCodeInvalidDimension, "width must be positive, got %g mm", mm)
	}
	if mm >= MaxWidthMM {
		return ferrors.New(ferrors.ErrCodeInvalidDimension, "width must be below %g mm, got %g mm", MaxWidthMM, mm)
	}
	return nil
}

// PixelWidth converts a width in millimetres to pixels at DPI.
func PixelWidth(mm float64) int {
	return int(math.Round(mm / (MMPerInch / DPI)))
}

// ScaledHeight returns the height that keeps srcW:srcH when the width
// becomes dstW. The result is at least 1.
func ScaledHeight(srcW, srcH, dstW int) int {
	if srcW <= 0 {
		return 0
	}
	h := int(math.Round(float64(srcH) * float64(dstW) / float64(srcW)))
	return max(h, 1)
}

// Resize rescales img so that it is mm millimetres wide at DPI, preserving
// the aspect ratio. Resampling is bilinear and deterministic.
func Resize(img image.Image, mm float64) (*image.NRGBA, error) {
	if err := ValidateWidth(mm); err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ferrors.New(ferrors.ErrCodeInvalidDimension, "source image is empty (%dx%d)", b.Dx(), b.Dy())
	}
	w := PixelWidth(mm)
	if w < 1 {
		return nil, ferrors.New(ferrors.ErrCodeInvalidDimension, "width %g mm is below one pixel", mm)
	}
	h := ScaledHeight(b.Dx(), b.Dy(), w)
	return imaging.Resize(img, w, h, imaging.Linear), nil
}

// HasTransparency reports whether any pixel of img is not fully opaque.
func HasTransparency(img *image.NRGBA) bool {
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for i := 3; i < len(row); i += 4 {
			if row[i] < 255 {
				return true
			}
		}
	}
	return false
}
