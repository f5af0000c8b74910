package pipeline

import (
	"fmt"

	"github.com/matzehuels/rankplot/pkg/sink"
)

// contentTypes maps output formats to MIME types.
var contentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// ContentType returns the MIME type of an output format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Render encodes a plotted chart in one format.
func Render(p *Plotted, format string, opts Options) ([]byte, error) {
	var data []byte
	var err error

	switch format {
	case FormatSVG:
		data = sink.RenderSVG(p.Scene, svgOptions(opts)...)
	case FormatPNG:
		data, err = sink.RenderPNG(p.Scene, pngOptions(opts)...)
	case FormatPDF:
		data, err = sink.RenderPDF(p.Scene, svgOptions(opts)...)
	case FormatJSON:
		if p.data != nil {
			return p.data, nil
		}
		data, err = sink.RenderJSON(p.Scene, p.Layout)
	default:
		return nil, ValidateFormat(format)
	}

	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

func svgOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	if opts.EmbedFonts {
		svgOpts = append(svgOpts, sink.WithEmbeddedFonts())
	}
	return svgOpts
}

func pngOptions(opts Options) []sink.PNGOption {
	var pngOpts []sink.PNGOption
	if opts.Scale > 0 {
		pngOpts = append(pngOpts, sink.WithScale(opts.Scale))
	}
	if opts.Background != "" {
		pngOpts = append(pngOpts, sink.WithPNGBackground(opts.Background))
	}
	return pngOpts
}
