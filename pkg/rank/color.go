package rank

import (
	"cmp"
	"encoding/json"
	"slices"
	"strings"
)

// ColorSpec is the color configuration of a chart: unset, a single scalar
// color, or a sequence of colors.
type ColorSpec struct {
	colors []string
	scalar bool
}

// SingleColor returns a scalar color spec.
func SingleColor(c string) ColorSpec { return ColorSpec{colors: []string{c}, scalar: true} }

// ColorSequence returns a sequence color spec. A sequence of one color paints
// every label with it; longer sequences are assigned to the most frequent
// labels.
func ColorSequence(cs ...string) ColorSpec {
	return ColorSpec{colors: slices.Clone(cs)}
}

// IsZero reports whether no color was configured.
func (c ColorSpec) IsZero() bool { return len(c.colors) == 0 }

// Colors returns the configured colors.
func (c ColorSpec) Colors() []string { return slices.Clone(c.colors) }

// String renders the colors as a comma-separated list.
func (c ColorSpec) String() string { return strings.Join(c.colors, ",") }

// MarshalJSON encodes a scalar as a string and a sequence as an array.
func (c ColorSpec) MarshalJSON() ([]byte, error) {
	switch {
	case c.IsZero():
		return []byte("null"), nil
	case c.scalar:
		return json.Marshal(c.colors[0])
	}
	return json.Marshal(c.colors)
}

// UnmarshalJSON accepts null, a string or an array of strings.
func (c *ColorSpec) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = ColorSpec{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = SingleColor(s)
		return nil
	}
	var cs []string
	if err := json.Unmarshal(data, &cs); err != nil {
		return err
	}
	*c = ColorSequence(cs...)
	return nil
}

// ColorMap maps labels to colors.
type ColorMap map[string]string

// Lookup returns the color for label, or fallback when it has none.
func (m ColorMap) Lookup(label, fallback string) string {
	if c, ok := m[label]; ok {
		return c
	}
	return fallback
}

// resolveMode names the rule ResolveColors applied, for logging.
type resolveMode string

const (
	modeOverride  resolveMode = "override"
	modeUniform   resolveMode = "uniform"
	modeFrequency resolveMode = "frequency"
	modeScalar    resolveMode = "scalar"
)

// ResolveColors builds the label→color mapping for labels.
//
// An explicit override is returned as-is. Otherwise a one-color sequence paints
// every label, a longer sequence is zipped with the labels ranked by frequency
// (ties broken by first occurrence), and a valid scalar paints every label.
// Without a usable spec, palette is used as a sequence.
func ResolveColors(labels [][]string, spec ColorSpec, override map[string]string, palette []string, isColor func(string) bool) ColorMap {
	m, _ := resolveColors(labels, spec, override, palette, isColor)
	return m
}

func resolveColors(labels [][]string, spec ColorSpec, override map[string]string, palette []string, isColor func(string) bool) (ColorMap, resolveMode) {
	if override != nil {
		return ColorMap(override), modeOverride
	}
	switch {
	case spec.scalar && isColor(spec.colors[0]):
		return uniform(labels, spec.colors[0]), modeScalar
	case !spec.scalar && len(spec.colors) > 0:
		return fromSequence(labels, spec.colors)
	}
	return fromSequence(labels, palette)
}

func fromSequence(labels [][]string, seq []string) (ColorMap, resolveMode) {
	switch len(seq) {
	case 0:
		return ColorMap{}, modeFrequency
	case 1:
		return uniform(labels, seq[0]), modeUniform
	}
	m := make(ColorMap, len(seq))
	for i, label := range MostCommon(labels, len(seq)) {
		m[label] = seq[i]
	}
	return m, modeFrequency
}

func uniform(labels [][]string, color string) ColorMap {
	m := make(ColorMap)
	for _, row := range labels {
		for _, l := range row {
			m[l] = color
		}
	}
	return m
}

// MostCommon returns up to k labels ordered by descending frequency. Labels
// with equal counts keep the order in which they first appear, scanning rows
// in order.
func MostCommon(labels [][]string, k int) []string {
	type count struct {
		label string
		n     int
		first int
	}
	index := make(map[string]int)
	var counts []count
	for _, row := range labels {
		for _, l := range row {
			if i, ok := index[l]; ok {
				counts[i].n++
				continue
			}
			index[l] = len(counts)
			counts = append(counts, count{label: l, n: 1, first: len(counts)})
		}
	}
	slices.SortStableFunc(counts, func(a, b count) int {
		return cmp.Or(cmp.Compare(b.n, a.n), cmp.Compare(a.first, b.first))
	})

	k = min(k, len(counts))
	out := make([]string, k)
	for i := range out {
		out[i] = counts[i].label
	}
	return out
}
