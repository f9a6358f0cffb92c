package raster

import (
	"image"

	"github.com/disintegration/imaging"

	ferrors "github.com/matzehuels/fourcolor/pkg/errors"
)

// Denoise level bounds.
const (
	MinLevel = 0
	MaxLevel = 10
)

// ValidateLevel checks MinLevel <= level <= MaxLevel.
func ValidateLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return ferrors.New(ferrors.ErrCodeInvalidLevel, "denoise level must be in [%d,%d], got %d", MinLevel, MaxLevel, level)
	}
	return nil
}

// Denoise smooths img with a Gaussian blur whose sigma equals level.
// Level 0 returns img itself.
func Denoise(img image.Image, level int) (image.Image, error) {
	if err := ValidateLevel(level); err != nil {
		return nil, err
	}
	if level == 0 {
		return img, nil
	}
	return imaging.Blur(img, float64(level)), nil
}

// StepLevel applies a ±delta adjustment to current and clamps the result to
// [MinLevel, MaxLevel]. It mirrors the up/down keys of an interactive front
// end without depending on one.
func StepLevel(current, delta int) int {
	return min(max(current+delta, MinLevel), MaxLevel)
}
