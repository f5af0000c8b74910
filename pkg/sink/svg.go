package sink

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/rankplot/pkg/canvas"
	"github.com/matzehuels/rankplot/pkg/colors"
	"github.com/matzehuels/rankplot/pkg/fonts"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title      string
	background string
	embedFonts bool
}

// WithTitle sets the document title.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithBackground replaces the scene background.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithEmbeddedFonts embeds the label fonts so the SVG renders the same
// without them installed.
func WithEmbeddedFonts() SVGOption { return func(r *svgRenderer) { r.embedFonts = true } }

// RenderSVG draws scene as an SVG document. Coordinates are rounded to whole
// pixels.
func RenderSVG(scene canvas.Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	doc := svg.New(&buf)
	w, h := px(scene.Width), px(scene.Height)
	doc.Start(w, h, fmt.Sprintf(`viewBox="0 0 %d %d"`, w, h))
	if r.title != "" {
		doc.Title(r.title)
	}
	if r.embedFonts {
		renderFontFaces(doc)
	}

	background := scene.Background
	if r.background != "" {
		background = colors.Hex(r.background, background)
	}
	doc.Rect(0, 0, w, h, "fill:"+background)

	if f := scene.Frame; f != nil {
		doc.Rect(px(f.X), px(f.Y), px(f.W), px(f.H), "fill:none;stroke:#000000;stroke-width:1")
	}

	for _, rect := range scene.Rects {
		doc.Rect(px(rect.X), px(rect.Y), px(rect.W), px(rect.H), "fill:"+rect.Fill)
	}

	doc.Gstyle("font-family:" + fonts.FallbackFontFamily)
	for _, t := range scene.Texts {
		style := fmt.Sprintf("fill:%s;font-size:%.2fpx", t.Fill, t.Size)
		if t.Bold {
			style += ";font-weight:bold"
		}
		for i, line := range t.Lines {
			doc.Text(px(t.X), px(t.Baseline+float64(i)*t.LineHeight), line, style)
		}
	}
	doc.Gend()

	doc.End()
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func renderFontFaces(doc *svg.SVG) {
	const face = `@font-face { font-family: '%s'; font-weight: %s; src: url(data:font/ttf;base64,%s) format('truetype'); }`
	doc.Def()
	doc.Style("text/css",
		fmt.Sprintf(face, fonts.FontFamily, "normal", fonts.TTFBase64(false)),
		fmt.Sprintf(face, fonts.FontFamily, "bold", fonts.TTFBase64(true)),
	)
	doc.DefEnd()
}

func px(v float64) int { return int(math.Round(v)) }
