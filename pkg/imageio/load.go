package imageio

import (
	"bytes"
	"errors"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"

	ferrors "github.com/matzehuels/fourcolor/pkg/errors"
)

// Source is a decoded input image.
type Source struct {
	Path   string
	Format string // decoder name: "jpeg", "png", "gif", "bmp"
	Image  *image.NRGBA
	Raw    []byte // file contents, hashed for cache keys
}

// Base returns the file name without directory or extension, the default
// base name for exported plates.
func (s *Source) Base() string { return BaseName(s.Path) }

// Load reads and decodes an image file.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ferrors.Wrap(ferrors.ErrCodeIO, err, "image not found: %s", path)
	}
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeIO, err, "read %s", path)
	}

	img, format, err := decode(data)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode %s", path)
	}
	return &Source{Path: path, Format: format, Image: img, Raw: data}, nil
}

// Decode decodes an encoded image into NRGBA.
func Decode(data []byte) (*image.NRGBA, error) {
	img, _, err := decode(data)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode image")
	}
	return img, nil
}

func decode(data []byte) (*image.NRGBA, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", err
	}
	return imaging.Clone(img), format, nil
}

// BaseName strips the directory and extension from path.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
