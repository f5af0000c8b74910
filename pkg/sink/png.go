package sink

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/rankplot/pkg/canvas"
	"github.com/matzehuels/rankplot/pkg/colors"
	"github.com/matzehuels/rankplot/pkg/errors"
	"github.com/matzehuels/rankplot/pkg/fonts"
)

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background string
}

// WithScale multiplies the scene resolution. Values below or equal to zero
// fall back to [DefaultScale].
func WithScale(scale float64) PNGOption { return func(r *pngRenderer) { r.scale = scale } }

// WithPNGBackground replaces the scene background.
func WithPNGBackground(color string) PNGOption {
	return func(r *pngRenderer) { r.background = color }
}

type faceKey struct {
	size float64
	bold bool
}

// RenderPNG rasterizes scene with the bundled fonts.
func RenderPNG(scene canvas.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: DefaultScale}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = DefaultScale
	}
	s := r.scale

	dc := gg.NewContext(int(math.Ceil(scene.Width*s)), int(math.Ceil(scene.Height*s)))
	background := scene.Background
	if r.background != "" {
		background = colors.Hex(r.background, background)
	}
	dc.SetHexColor(background)
	dc.Clear()

	for _, rect := range scene.Rects {
		dc.DrawRectangle(rect.X*s, rect.Y*s, rect.W*s, rect.H*s)
		dc.SetHexColor(rect.Fill)
		dc.Fill()
	}

	if f := scene.Frame; f != nil {
		dc.DrawRectangle(f.X*s, f.Y*s, f.W*s, f.H*s)
		dc.SetHexColor("#000000")
		dc.SetLineWidth(s)
		dc.Stroke()
	}

	faces := make(map[faceKey]font.Face)
	for _, t := range scene.Texts {
		key := faceKey{size: t.Size * s, bold: t.Bold}
		face, ok := faces[key]
		if !ok {
			var err error
			face, err = fonts.NewFace(key.size, key.bold)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render png")
			}
			faces[key] = face
		}
		dc.SetFontFace(face)
		dc.SetHexColor(t.Fill)
		for i, line := range t.Lines {
			dc.DrawString(line, t.X*s, (t.Baseline+float64(i)*t.LineHeight)*s)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}
