// Package sink provides output format renderers for chart scenes.
//
// # Overview
//
// A "sink" transforms a [canvas.Scene] into a final output format:
//
//   - SVG: vector output written with svgo
//   - PNG: raster output drawn with gg using the bundled fonts
//   - PDF: print-ready output (requires rsvg-convert)
//   - JSON: the scene and layout parameters for other tools
//
// Basic usage:
//
//	fig := canvas.NewFigure()
//	if _, err := rank.Plot(fig, data, rank.Options{}); err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(fig.Scene(), sink.WithTitle("Cities"))
//	png, err := sink.RenderPNG(fig.Scene(), sink.WithScale(2))
//
// # SVG Options
//
//   - [WithTitle]: document title
//   - [WithBackground]: replace the scene background
//   - [WithEmbeddedFonts]: embed the bundled fonts so viewers draw text
//     exactly as it was measured
//
// # PDF Output
//
// [RenderPDF] generates SVG first and converts it with rsvg-convert:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [canvas.Scene]: github.com/matzehuels/rankplot/pkg/canvas.Scene
package sink
