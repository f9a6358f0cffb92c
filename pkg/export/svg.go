package export

import (
	"bytes"
	"strconv"

	svg "github.com/ajstarks/svgo"
)

// DefaultStrokeWidth is the stroke of the canvas border rectangle.
const DefaultStrokeWidth = 0.01

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	strokeWidth float64
	border      bool
}

// WithStrokeWidth sets the border stroke width.
func WithStrokeWidth(w float64) SVGOption { return func(r *svgRenderer) { r.strokeWidth = w } }

// WithoutBorder omits the canvas border rectangle.
func WithoutBorder() SVGOption { return func(r *svgRenderer) { r.border = false } }

// RenderSVG renders t as an SVG document of t.Width x t.Height user units:
// a stroke-only border around the full canvas followed by one filled rect
// per run, in run order.
func RenderSVG(t Target, opts ...SVGOption) []byte {
	r := svgRenderer{strokeWidth: DefaultStrokeWidth, border: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(t.Width, t.Height)
	if r.border {
		canvas.Rect(0, 0, t.Width, t.Height,
			"fill:none;stroke:black;stroke-width:"+strconv.FormatFloat(r.strokeWidth, 'g', -1, 64))
	}
	fill := "fill:" + t.Color.CSS()
	for _, rect := range t.Rects {
		canvas.Rect(rect.X, rect.Y, rect.W, rect.H, fill)
	}
	canvas.End()
	return buf.Bytes()
}
