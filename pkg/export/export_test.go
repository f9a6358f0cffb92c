package export

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	ferrors "github.com/matzehuels/fourcolor/pkg/errors"
	"github.com/matzehuels/fourcolor/pkg/palette"
	"github.com/matzehuels/fourcolor/pkg/region"
)

type svgDoc struct {
	Width  string    `xml:"width,attr"`
	Height string    `xml:"height,attr"`
	Rects  []svgRect `xml:"rect"`
}

type svgRect struct {
	X      string `xml:"x,attr"`
	Y      string `xml:"y,attr"`
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
	Style  string `xml:"style,attr"`
}

func parseSVG(t *testing.T, data []byte) svgDoc {
	t.Helper()
	var doc svgDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse svg: %v\n%s", err, data)
	}
	return doc
}

func mustSelection(t *testing.T, names ...string) palette.Selection {
	t.Helper()
	sel, err := palette.ParseSelection(names)
	if err != nil {
		t.Fatal(err)
	}
	return sel
}

// testImage is a 3x2 quantized image:
//
//	row 0: white, transparent, red
//	row 1: black, yellow, yellow
func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 255, 255, 255})
	img.SetNRGBA(1, 0, color.NRGBA{255, 255, 255, 0})
	img.SetNRGBA(2, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(0, 1, color.NRGBA{0, 0, 0, 255})
	img.SetNRGBA(1, 1, color.NRGBA{255, 255, 0, 255})
	img.SetNRGBA(2, 1, color.NRGBA{255, 255, 0, 255})
	return img
}

func TestTargetNaming(t *testing.T) {
	tests := []struct {
		color string
		want  string
	}{
		{"black", "photo_Black_1st"},
		{"red", "photo_Red_2nd"},
		{"yellow", "photo_Yellow_3rd"},
		{"white", "photo_White_4th"},
	}
	for _, tt := range tests {
		c, _ := palette.Lookup(tt.color)
		if got := NewTarget(testImage(), c).BaseName("photo"); got != tt.want {
			t.Errorf("BaseName(%s) = %s, want %s", tt.color, got, tt.want)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	yellow, _ := palette.Lookup("yellow")
	target := NewTarget(testImage(), yellow)

	doc := parseSVG(t, RenderSVG(target))
	if doc.Width != "3" || doc.Height != "2" {
		t.Errorf("svg size = %sx%s, want 3x2", doc.Width, doc.Height)
	}
	if len(doc.Rects) != 3 {
		t.Fatalf("got %d rects, want border + 2 runs", len(doc.Rects))
	}

	border := doc.Rects[0]
	if border.X != "0" || border.Y != "0" || border.Width != "3" || border.Height != "2" {
		t.Errorf("border = %+v", border)
	}
	if !strings.Contains(border.Style, "fill:none") || !strings.Contains(border.Style, "stroke-width:0.01") {
		t.Errorf("border style = %q", border.Style)
	}

	// yellow threshold 510: white (0,0) and both yellows on row 1
	want := []svgRect{
		{X: "0", Y: "0", Width: "1", Height: "1", Style: "fill:rgb(255,255,0)"},
		{X: "1", Y: "1", Width: "2", Height: "1", Style: "fill:rgb(255,255,0)"},
	}
	if !slices.Equal(doc.Rects[1:], want) {
		t.Errorf("runs = %+v, want %+v", doc.Rects[1:], want)
	}
}

func TestRenderSVGOptions(t *testing.T) {
	black, _ := palette.Lookup("black")
	target := NewTarget(testImage(), black)

	doc := parseSVG(t, RenderSVG(target, WithoutBorder()))
	if len(doc.Rects) != len(target.Rects) {
		t.Errorf("without border: %d rects, want %d", len(doc.Rects), len(target.Rects))
	}

	doc = parseSVG(t, RenderSVG(target, WithStrokeWidth(0.5)))
	if !strings.Contains(doc.Rects[0].Style, "stroke-width:0.5") {
		t.Errorf("border style = %q", doc.Rects[0].Style)
	}
}

func TestRenderPNG(t *testing.T) {
	red, _ := palette.Lookup("red")
	target := NewTarget(testImage(), red)

	data, err := RenderPNG(target)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(strings.NewReader(string(data)))
	if err != nil {
		t.Fatal(err)
	}

	want := region.Plate(3, 2, target.Rects, red)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			gr, gg, gb, ga := img.At(x, y).RGBA()
			wr, wg, wb, wa := want.At(x, y).RGBA()
			if gr != wr || gg != wg || gb != wb || ga != wa {
				t.Errorf("pixel (%d,%d) differs", x, y)
			}
		}
	}
	// transparent pixel stays background white
	if r, g, b, _ := img.At(1, 0).RGBA(); r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Error("transparent source pixel should be white on the plate")
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	report, err := Write(context.Background(), testImage(), mustSelection(t, "red", "black"), Options{
		Dir:      dir,
		Base:     "photo",
		Manifest: true,
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := report.Err(); err != nil {
		t.Fatalf("report error: %v", err)
	}
	if report.RunID == "" {
		t.Error("missing run id")
	}

	wantFiles := []string{
		"photo_Black_1st.svg", "photo_Black_1st.png",
		"photo_Red_2nd.svg", "photo_Red_2nd.png",
		"photo_manifest.json",
	}
	var got []string
	for _, f := range report.Files() {
		got = append(got, filepath.Base(f))
	}
	if !slices.Equal(got, wantFiles) {
		t.Errorf("Files() = %v, want %v", got, wantFiles)
	}
	for _, f := range wantFiles {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("missing %s: %v", f, err)
		}
	}

	data, err := os.ReadFile(report.Manifest)
	if err != nil {
		t.Fatal(err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m.RunID != report.RunID || m.Width != 3 || m.Height != 2 || len(m.Plates) != 2 {
		t.Errorf("manifest = %+v", m)
	}
	// black matches all 5 present pixels: two runs (row 0 split by transparency) + one on row 1
	if m.Plates[0].Color != "Black" || m.Plates[0].Rects != 3 || m.Plates[0].Pixels != 5 {
		t.Errorf("black plate = %+v", m.Plates[0])
	}
}

func TestWriteEmptySelection(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	report, err := Write(context.Background(), testImage(), nil, Options{Dir: dir, Base: "photo", Manifest: true})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !ferrors.Is(report.Warning, ferrors.ErrCodeEmptyColorSelection) {
		t.Errorf("Warning = %v, want EMPTY_COLOR_SELECTION", report.Warning)
	}
	if len(report.Files()) != 0 {
		t.Errorf("files written: %v", report.Files())
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("output directory should not be created for an empty selection")
	}
}

func TestWriteIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	// A directory squatting on the red SVG path makes only red fail.
	if err := os.Mkdir(filepath.Join(dir, "photo_Red_2nd.svg"), 0o755); err != nil {
		t.Fatal(err)
	}

	report, err := Write(context.Background(), testImage(), mustSelection(t, "black", "red", "white"), Options{
		Dir:  dir,
		Base: "photo",
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(report.Outcomes) != 3 {
		t.Fatalf("got %d outcomes", len(report.Outcomes))
	}

	for _, o := range report.Outcomes {
		switch o.Color.Name {
		case palette.Red:
			if !ferrors.Is(o.Err, ferrors.ErrCodeIO) {
				t.Errorf("red error = %v, want IO_FAILURE", o.Err)
			}
		default:
			if o.Err != nil {
				t.Errorf("%s failed: %v", o.Color.Name, o.Err)
			}
			if len(o.Files) != 2 {
				t.Errorf("%s files = %v", o.Color.Name, o.Files)
			}
		}
	}
	if report.Err() == nil || !strings.Contains(report.Err().Error(), "Red") {
		t.Errorf("Err() = %v", report.Err())
	}
}

func TestWriteInvalidOptions(t *testing.T) {
	sel := mustSelection(t, "black")
	if _, err := Write(context.Background(), testImage(), sel, Options{Base: "a/b"}); !ferrors.Is(err, ferrors.ErrCodeInvalidFormat) {
		t.Errorf("bad base error = %v", err)
	}
	if _, err := Write(context.Background(), testImage(), sel, Options{Base: "a", Formats: []string{"pdf"}}); !ferrors.Is(err, ferrors.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v", err)
	}
}

func TestWriteDeterministic(t *testing.T) {
	black, _ := palette.Lookup("black")
	a := RenderSVG(NewTarget(testImage(), black))
	b := RenderSVG(NewTarget(testImage(), black))
	if string(a) != string(b) {
		t.Error("SVG output should be deterministic")
	}
}
