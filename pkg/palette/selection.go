package palette

import (
	"cmp"
	"slices"
	"strings"
)

// Selection is a set of palette colours chosen for export, kept in print
// rank order. The zero value is an empty selection.
type Selection []Color

// ParseSelection resolves colour names into a Selection. Duplicates are
// dropped and empty names ignored, so "black,,Black" selects Black once.
func ParseSelection(names []string) (Selection, error) {
	var sel Selection
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		c, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		if !sel.Contains(c.Name) {
			sel = append(sel, c)
		}
	}
	slices.SortFunc(sel, func(a, b Color) int { return cmp.Compare(a.Rank(), b.Rank()) })
	return sel, nil
}

// ParseSelectionString parses a comma-separated list such as "black,red".
func ParseSelectionString(s string) (Selection, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return ParseSelection(strings.Split(s, ","))
}

// Contains reports whether name is selected.
func (s Selection) Contains(name Name) bool {
	return slices.ContainsFunc(s, func(c Color) bool { return c.Name == name })
}

// Empty reports whether no colour is selected.
func (s Selection) Empty() bool { return len(s) == 0 }

// Names returns the selected colour names in print rank order.
func (s Selection) Names() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = string(c.Name)
	}
	return out
}
