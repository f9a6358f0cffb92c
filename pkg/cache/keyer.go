package cache

import "fmt"

// Keyer builds cache keys.
type Keyer interface {
	// PreviewKey identifies a quantized preview of a source image.
	PreviewKey(sourceHash string, opts PreviewKeyOpts) string
	// InspectKey identifies the dominant colours of a source image found
	// with the named method.
	InspectKey(sourceHash, method string) string
}

// PreviewKeyOpts are the parameters that change a preview's pixels.
type PreviewKeyOpts struct {
	WidthMM float64 `json:"width_mm"`
	Level   int     `json:"level"`
}

// DefaultKeyer produces "kind:hash" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) PreviewKey(sourceHash string, opts PreviewKeyOpts) string {
	return hashKey("preview", sourceHash, opts)
}

func (DefaultKeyer) InspectKey(sourceHash, method string) string {
	return fmt.Sprintf("inspect:%s:%s", method, sourceHash)
}
