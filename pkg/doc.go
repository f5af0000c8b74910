// Package pkg provides the core libraries for rankplot stacked-rank charts.
//
// # Overview
//
// rankplot draws bump charts: every column is a vertical stack of rectangles
// sorted by value, each rectangle carries a category label and a color, and a
// category's rank can be followed from column to column. The pkg directory is
// organized into four main areas:
//
//  1. [rank] - Domain logic (input normalization, layout, colors, labels)
//  2. [canvas] and [sink] - Drawing surface and output formats
//  3. [io] - JSON and TOML documents
//  4. [pipeline] - Orchestration (decode → plot → render) with caching
//
// # Architecture
//
// The typical data flow through rankplot:
//
//	JSON / TOML document
//	         ↓
//	    [io] package (decode into rank.Input)
//	         ↓
//	    [rank] package (normalize, sort, place, color, fit labels)
//	         ↓
//	    [canvas] package (figure with real font metrics → Scene)
//	         ↓
//	    [sink] package (SVG/PNG/PDF/JSON)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/rankplot/pkg/canvas"
//	    "github.com/matzehuels/rankplot/pkg/io"
//	    "github.com/matzehuels/rankplot/pkg/rank"
//	    "github.com/matzehuels/rankplot/pkg/sink"
//	)
//
//	// 1. Read a document
//	in, _ := io.ImportFile("ranks.json")
//
//	// 2. Plot onto a figure
//	fig := canvas.NewFigure()
//	if _, err := rank.Plot(fig, in, rank.Options{}); err != nil {
//	    return err
//	}
//
//	// 3. Render to SVG
//	svg := sink.RenderSVG(fig.Scene())
//
// # Main Packages
//
// [rank] - Accepted input shapes, the [rank.Table] they normalize to, column
// sorting and rectangle placement, label-to-color resolution and the label
// renderer that measures text and trims or hides what does not fit.
//
// [canvas] - A [rank.Surface] backed by embedded Go fonts. The figure keeps
// data limits and converts to pixels, and [canvas.Figure.Scene] snapshots what
// was drawn.
//
// [sink] - Output formats. SVG via svgo, PNG via gg, PDF via rsvg-convert when
// available, and a JSON document holding the scene plus the computed layout.
//
// [colors] - Color name and hex parsing shared by the color resolver and the
// sinks.
//
// [fonts] - Embedded font faces and an LRU cache of measured faces.
//
// ## Infrastructure
//
// [pipeline] - Complete rendering pipeline used by the CLI and the HTTP server.
// Ensures consistent behavior across both entry points.
//
// [cache] - Cache backends (file, Redis, null) and the keyer that derives
// scene and artifact keys.
//
// [observability] - Hooks for decode, plot, encode, cache and HTTP events.
//
// [errors] - Coded errors with user-facing messages.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/rank/...     # Specific package
//	go test -run Example       # Examples only
//
// [rank]: https://pkg.go.dev/github.com/matzehuels/rankplot/pkg/rank
// [canvas]: https://pkg.go.dev/github.com/matzehuels/rankplot/pkg/canvas
// [sink]: https://pkg.go.dev/github.com/matzehuels/rankplot/pkg/sink
// [io]: https://pkg.go.dev/github.com/matzehuels/rankplot/pkg/io
// [colors]: https://pkg.go.dev/github.com/matzehuels/rankplot/pkg/colors
// [fonts]: https://pkg.go.dev/github.com/matzehuels/rankplot/pkg/fonts
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/rankplot/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/rankplot/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/rankplot/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/rankplot/pkg/errors
package pkg
