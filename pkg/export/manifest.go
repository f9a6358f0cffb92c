package export

import (
	"encoding/json"
	"image"
	"os"

	ferrors "github.com/matzehuels/fourcolor/pkg/errors"
)

// Manifest describes one export run. It is written next to the plates so a
// plotter operator can check pass order without opening each file.
type Manifest struct {
	RunID  string          `json:"run_id"`
	Base   string          `json:"base"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Plates []ManifestPlate `json:"plates"`
}

// ManifestPlate is one colour entry of a Manifest.
type ManifestPlate struct {
	Color  string   `json:"color"`
	Hex    string   `json:"hex"`
	Rank   string   `json:"rank"`
	Rects  int      `json:"rects"`
	Pixels int      `json:"pixels"`
	Files  []string `json:"files,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// NewManifest builds the manifest for a report.
func NewManifest(img *image.NRGBA, r *Report) Manifest {
	b := img.Bounds()
	m := Manifest{
		RunID:  r.RunID,
		Base:   r.Base,
		Width:  b.Dx(),
		Height: b.Dy(),
		Plates: make([]ManifestPlate, 0, len(r.Outcomes)),
	}
	for _, o := range r.Outcomes {
		p := ManifestPlate{
			Color:  string(o.Color.Name),
			Hex:    o.Color.Hex(),
			Rank:   o.Color.RankLabel(),
			Rects:  o.Rects,
			Pixels: o.Pixels,
			Files:  o.Files,
		}
		if o.Err != nil {
			p.Error = ferrors.UserMessage(o.Err)
		}
		m.Plates = append(m.Plates, p)
	}
	return m
}

func writeManifest(path string, img *image.NRGBA, r *Report) error {
	data, err := json.MarshalIndent(NewManifest(img, r), "", "  ")
	if err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInternal, err, "encode manifest")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
