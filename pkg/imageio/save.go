package imageio

import (
	"bytes"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"

	ferrors "github.com/matzehuels/fourcolor/pkg/errors"
)

// JPEGQuality is used for .jpg and .jpeg output.
const JPEGQuality = 95

// formats maps output extensions to encoder names.
var formats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".bmp":  "bmp",
}

// FormatFor returns the encoder name for path's extension.
func FormatFor(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := formats[ext]
	if !ok {
		return "", ferrors.New(ferrors.ErrCodeInvalidFormat, "unsupported output extension %q (use .png, .jpg or .bmp)", ext)
	}
	return f, nil
}

// Save encodes img to path. The format follows the extension.
func Save(path string, img image.Image) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return ferrors.Wrap(ferrors.ErrCodeIO, err, "create %s", path)
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return ferrors.Wrap(ferrors.ErrCodeIO, err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeIO, err, "close %s", path)
	}
	return nil
}

// Encode writes img in the named format ("png", "jpeg" or "bmp").
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return imaging.Encode(w, img, imaging.PNG)
	case "jpeg":
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	case "bmp":
		return bmp.Encode(w, img)
	default:
		return ferrors.New(ferrors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}

// EncodePNG returns img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, "png"); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
