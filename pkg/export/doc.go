// Package export writes per-colour print plates.
//
// # Overview
//
// A plate ([Target]) is the list of one-row runs that one palette colour
// contributes to a quantized image. [Write] produces, for every selected
// colour, an SVG and a PNG named
//
//	{base}_{Color}_{rank}.svg
//	{base}_{Color}_{rank}.png
//
// where rank is the fixed print order: Black 1st, Red 2nd, Yellow 3rd,
// White 4th.
//
// # SVG Output
//
// [RenderSVG] emits a document sized to the image with a stroke-only border
// rect over the whole canvas, then one filled rect per run. Runs keep the
// row-major order of extraction so repeated exports are byte-identical.
//
//	svg := export.RenderSVG(target, export.WithStrokeWidth(0.01))
//
// # PNG Output
//
// [RenderPNG] paints the same runs onto a white canvas of identical size.
//
// # Failure Isolation
//
// Each colour is written independently. A failure is recorded in that
// colour's [Outcome] and the run continues; [Report.Err] joins them. An
// empty selection is not an error: the report carries a Warning and no file
// is touched.
package export
