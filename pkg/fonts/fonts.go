// Package fonts provides the fonts used to measure and draw chart text.
//
// Charts are measured and rendered with the Go font family bundled with
// golang.org/x/image, so label fitting does not depend on which fonts are
// installed. The TTF data is also exposed base64-encoded for embedding in SVG
// output.
package fonts

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family name of the bundled fonts.
const FontFamily = "Go"

// FallbackFontFamily lists fallbacks for viewers that ignore embedded fonts.
const FallbackFontFamily = `'Go', 'DejaVu Sans', 'Helvetica', 'Arial', sans-serif`

// LineSpacing is the distance between baselines as a multiple of the font size.
const LineSpacing = 1.2

var (
	regular = sync.OnceValue(func() *opentype.Font { return mustParse("regular", goregular.TTF) })
	bold    = sync.OnceValue(func() *opentype.Font { return mustParse("bold", gobold.TTF) })

	regularBase64 = sync.OnceValue(func() string { return base64.StdEncoding.EncodeToString(goregular.TTF) })
	boldBase64    = sync.OnceValue(func() string { return base64.StdEncoding.EncodeToString(gobold.TTF) })
)

func mustParse(name string, data []byte) *opentype.Font {
	f, err := opentype.Parse(data)
	if err != nil {
		panic(fmt.Sprintf("fonts: parse bundled %s font: %v", name, err))
	}
	return f
}

// Regular returns the parsed regular font.
func Regular() *opentype.Font { return regular() }

// Bold returns the parsed bold font.
func Bold() *opentype.Font { return bold() }

// TTF returns the raw font data.
func TTF(isBold bool) []byte {
	if isBold {
		return gobold.TTF
	}
	return goregular.TTF
}

// TTFBase64 returns the font data as a base64 string, computed once.
func TTFBase64(isBold bool) string {
	if isBold {
		return boldBase64()
	}
	return regularBase64()
}

// NewFace returns a face rendering at sizePx pixels per em. Faces are not safe
// for concurrent use; renderers create their own.
func NewFace(sizePx float64, isBold bool) (font.Face, error) {
	f := regular()
	if isBold {
		f = bold()
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

type faceKey struct {
	size float64
	bold bool
}

// FaceCache keeps recently used measuring faces. It is safe for concurrent use.
type FaceCache struct {
	mu  sync.Mutex
	lru *simplelru.LRU
}

// NewFaceCache returns a cache holding up to size faces.
func NewFaceCache(size int) *FaceCache {
	lru, err := simplelru.NewLRU(size, nil)
	if err != nil {
		panic(fmt.Sprintf("fonts: %v", err))
	}
	return &FaceCache{lru: lru}
}

// Faces is the process-wide measuring face cache.
var Faces = NewFaceCache(64)

// Measure returns the width and height in pixels of lines set at sizePx.
// Width is that of the widest line; height spans the first line's ascent to the
// last line's descent. Text without any characters has an empty extent.
func (c *FaceCache) Measure(lines []string, sizePx float64, isBold bool) (width, height float64, err error) {
	if sizePx <= 0 || blank(lines) {
		return 0, 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	face, err := c.face(sizePx, isBold)
	if err != nil {
		return 0, 0, err
	}
	for _, line := range lines {
		w := float64(font.MeasureString(face, line)) / 64
		width = math.Max(width, w)
	}
	m := face.Metrics()
	height = float64(m.Ascent+m.Descent)/64 + float64(len(lines)-1)*sizePx*LineSpacing
	return width, height, nil
}

func blank(lines []string) bool {
	for _, line := range lines {
		if line != "" {
			return false
		}
	}
	return true
}

// Metrics returns the ascent and descent in pixels of the face at sizePx.
func (c *FaceCache) Metrics(sizePx float64, isBold bool) (ascent, descent float64, err error) {
	if sizePx <= 0 {
		return 0, 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	face, err := c.face(sizePx, isBold)
	if err != nil {
		return 0, 0, err
	}
	m := face.Metrics()
	return float64(m.Ascent) / 64, float64(m.Descent) / 64, nil
}

// Len returns the number of cached faces.
func (c *FaceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *FaceCache) face(sizePx float64, isBold bool) (font.Face, error) {
	key := faceKey{size: sizePx, bold: isBold}
	if f, ok := c.lru.Get(key); ok {
		return f.(font.Face), nil
	}
	f, err := NewFace(sizePx, isBold)
	if err != nil {
		return nil, fmt.Errorf("new face %gpx: %w", sizePx, err)
	}
	c.lru.Add(key, f)
	return f, nil
}

// Measure measures text with the process-wide cache. Lines are separated by
// newlines.
func Measure(text string, sizePx float64, isBold bool) (width, height float64, err error) {
	return Faces.Measure(strings.Split(text, "\n"), sizePx, isBold)
}
