package cache

// ScopedKeyer prefixes every key of an inner Keyer. The CLI scopes keys by
// release so a new quantizer never reads an older build's previews.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner uses the default.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) PreviewKey(sourceHash string, opts PreviewKeyOpts) string {
	return k.prefix + k.inner.PreviewKey(sourceHash, opts)
}

func (k *ScopedKeyer) InspectKey(sourceHash, method string) string {
	return k.prefix + k.inner.InspectKey(sourceHash, method)
}
