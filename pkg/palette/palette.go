// Package palette defines the fixed four-colour print palette.
//
// The palette is a process-wide constant: Red, Yellow, White and Black, in
// that declaration order. Declaration order decides quantization ties; the
// separate print rank (Black first, White last) decides the order in which
// exported plates are meant to be printed.
//
//	c, err := palette.Lookup("black")
//	fmt.Println(c.Name, c.Rank()) // Black 1st
package palette

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	ferrors "github.com/matzehuels/fourcolor/pkg/errors"
)

// Name is the stable identifier of a palette colour. It appears verbatim in
// exported file names.
type Name string

// Palette colour names.
const (
	Red    Name = "Red"
	Yellow Name = "Yellow"
	White  Name = "White"
	Black  Name = "Black"
)

// Color is one palette entry.
type Color struct {
	Name    Name
	R, G, B uint8
}

// Size is the number of palette entries.
const Size = 4

// colors is in declaration order; quantization ties resolve to the lower index.
var colors = [Size]Color{
	{Name: Red, R: 255, G: 0, B: 0},
	{Name: Yellow, R: 255, G: 255, B: 0},
	{Name: White, R: 255, G: 255, B: 255},
	{Name: Black, R: 0, G: 0, B: 0},
}

// printRanks is the fixed print-pass order.
var printRanks = map[Name]int{
	Black:  1,
	Red:    2,
	Yellow: 3,
	White:  4,
}

// All returns the palette in declaration order.
func All() []Color {
	out := make([]Color, Size)
	copy(out, colors[:])
	return out
}

// At returns the palette entry at index i in declaration order.
func At(i int) Color { return colors[i] }

// Lookup finds a palette colour by name, ignoring case and surrounding space.
func Lookup(name string) (Color, error) {
	n := strings.TrimSpace(name)
	for _, c := range colors {
		if strings.EqualFold(string(c.Name), n) {
			return c, nil
		}
	}
	return Color{}, ferrors.New(ferrors.ErrCodeInvalidColor,
		"unknown colour %q (must be one of: red, yellow, white, black)", name)
}

// Sum returns r+g+b, the intensity used by region extraction.
func (c Color) Sum() int { return int(c.R) + int(c.G) + int(c.B) }

// Rank returns the print-pass position, 1 for Black through 4 for White.
func (c Color) Rank() int { return printRanks[c.Name] }

// RankLabel returns the ordinal label used in file names ("1st".."4th").
func (c Color) RankLabel() string { return ordinal(c.Rank()) }

// NRGBA returns the colour as an opaque color.NRGBA.
func (c Color) NRGBA() color.NRGBA { return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255} }

// Colorful converts the entry to a go-colorful colour.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex returns "#rrggbb".
func (c Color) Hex() string { return c.Colorful().Hex() }

// CSS returns the "rgb(r,g,b)" form used as SVG fill.
func (c Color) CSS() string { return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B) }

func (c Color) String() string { return string(c.Name) }

// SquaredDistance is the exact squared RGB Euclidean distance between
// (r,g,b) and c.
func SquaredDistance(r, g, b uint8, c Color) int {
	dr := int(r) - int(c.R)
	dg := int(g) - int(c.G)
	db := int(b) - int(c.B)
	return dr*dr + dg*dg + db*db
}

// Distance is the RGB Euclidean distance between (r,g,b) and c.
func Distance(r, g, b uint8, c Color) float64 {
	return math.Sqrt(float64(SquaredDistance(r, g, b, c)))
}

// NearestIndex returns the declaration index of the closest palette colour.
// Squared integer distances order identically to the Euclidean distance and
// are exact, so the first colour reaching the minimum always wins.
func NearestIndex(r, g, b uint8) int {
	best := 0
	bestDist := SquaredDistance(r, g, b, colors[0])
	for i := 1; i < Size; i++ {
		if d := SquaredDistance(r, g, b, colors[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Nearest returns the closest palette colour to (r,g,b).
func Nearest(r, g, b uint8) Color { return colors[NearestIndex(r, g, b)] }

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", n)
	}
}
