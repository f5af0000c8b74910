// Package colors validates and resolves the color strings accepted by rankplot.
//
// A color string is one of:
//
//   - a hex triplet: "#rgb", "#rrggbb" or "#rrggbbaa" (alpha is ignored)
//   - a CSS color name: "grey", "steelblue", ...
//   - a single-letter code: "b", "g", "r", "c", "m", "y", "k", "w"
//   - a tableau name: "tab:blue", "tab:orange", ...
//   - a cycle reference "C0" to "C9" into [DefaultCycle]
//   - a grey level between "0" (black) and "1" (white)
package colors

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// DefaultCycle is the palette used when no colors are configured.
var DefaultCycle = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

var shortCodes = map[string]string{
	"b": "#0000ff",
	"g": "#008000",
	"r": "#ff0000",
	"c": "#00bfbf",
	"m": "#bf00bf",
	"y": "#bfbf00",
	"k": "#000000",
	"w": "#ffffff",
}

var tableau = map[string]string{
	"tab:blue":   "#1f77b4",
	"tab:orange": "#ff7f0e",
	"tab:green":  "#2ca02c",
	"tab:red":    "#d62728",
	"tab:purple": "#9467bd",
	"tab:brown":  "#8c564b",
	"tab:pink":   "#e377c2",
	"tab:gray":   "#7f7f7f",
	"tab:grey":   "#7f7f7f",
	"tab:olive":  "#bcbd22",
	"tab:cyan":   "#17becf",
}

// IsColor reports whether s denotes a valid color.
func IsColor(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Parse resolves a color string.
func Parse(s string) (colorful.Color, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return colorful.Color{}, fmt.Errorf("empty color")
	}

	if strings.HasPrefix(key, "#") {
		return parseHex(key)
	}
	if hex, ok := shortCodes[key]; ok {
		return colorful.Hex(hex)
	}
	if hex, ok := tableau[key]; ok {
		return colorful.Hex(hex)
	}
	if len(key) == 2 && key[0] == 'c' && key[1] >= '0' && key[1] <= '9' {
		return colorful.Hex(DefaultCycle[key[1]-'0'])
	}
	if rgba, ok := colornames.Map[key]; ok {
		c, _ := colorful.MakeColor(rgba)
		return c, nil
	}
	if level, err := strconv.ParseFloat(key, 64); err == nil {
		if math.IsNaN(level) || level < 0 || level > 1 {
			return colorful.Color{}, fmt.Errorf("grey level %q out of range [0, 1]", s)
		}
		return colorful.Color{R: level, G: level, B: level}, nil
	}
	return colorful.Color{}, fmt.Errorf("unknown color %q", s)
}

func parseHex(key string) (colorful.Color, error) {
	switch len(key) {
	case 4, 7:
		return colorful.Hex(key)
	case 9:
		return colorful.Hex(key[:7])
	}
	return colorful.Color{}, fmt.Errorf("invalid hex color %q", key)
}

// Hex returns the "#rrggbb" form of s, or fallback when s is not a color.
func Hex(s, fallback string) string {
	c, err := Parse(s)
	if err != nil {
		return fallback
	}
	return c.Clamped().Hex()
}
