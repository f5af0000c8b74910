// Package pipeline provides the complete rankplot rendering pipeline.
//
// This package implements the decode → plot → render pipeline shared by the
// CLI and the HTTP server, so both entry points produce identical charts and
// use the same cache keys.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: Read a JSON or TOML document into a [rank.Input]
//  2. Plot: Draw the chart on a fresh [canvas.Figure] and snapshot its scene
//  3. Render: Encode the scene in every requested format (SVG, PNG, PDF, JSON)
//
// Scenes and encoded artifacts are cached separately. A change of output
// options such as the PNG scale re-encodes the cached scene without plotting
// again.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Document:  data,
//	    DocFormat: pipeline.DocJSON,
//	    Formats:   []string{"svg", "png"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rankplot/pkg/cache"
	"github.com/matzehuels/rankplot/pkg/canvas"
	"github.com/matzehuels/rankplot/pkg/errors"
	"github.com/matzehuels/rankplot/pkg/rank"
	"github.com/matzehuels/rankplot/pkg/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default figure width in inches.
	DefaultWidth = canvas.DefaultWidth

	// DefaultHeight is the default figure height in inches.
	DefaultHeight = canvas.DefaultHeight

	// DefaultDPI is the default figure resolution.
	DefaultDPI = canvas.DefaultDPI

	// MaxPixels bounds each side of a rendered image.
	MaxPixels = 8192
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Document formats accepted by the decode stage.
const (
	DocJSON = "json"
	DocTOML = "toml"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidDocFormats is the set of supported document formats.
var ValidDocFormats = map[string]bool{
	DocJSON: true,
	DocTOML: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Document is the raw chart data. It is ignored when Input is set.
	Document  []byte `json:"-"`
	DocFormat string `json:"doc_format,omitempty"`

	// Input is an already decoded chart.
	Input rank.Input `json:"-"`

	// Figure options
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	DPI    float64 `json:"dpi,omitempty"`

	// Plot holds the chart knobs passed to rank.Plot.
	Plot rank.Options `json:"plot"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Title      string   `json:"title,omitempty"`
	Background string   `json:"background,omitempty"`
	EmbedFonts bool     `json:"embed_fonts,omitempty"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the pixel-space snapshot every artifact was encoded from.
	Scene canvas.Scene

	// Layout is the chart geometry.
	Layout rank.Layout

	// DocHash is the content hash of the decoded document.
	DocHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Columns    int
	Rows       int
	DecodeTime time.Duration
	PlotTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SceneHit bool // Whether the scene came from cache
	Hit      bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDocFormat checks that a document format is valid.
func ValidateDocFormat(format string) error {
	if !ValidDocFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid document format: %q (must be one of: json, toml)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.DocFormat == "" {
		o.DocFormat = DocJSON
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options after defaults have been applied.
func (o *Options) Validate() error {
	if o.Input == nil && len(o.Document) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "document or input is required")
	}
	if o.Input == nil {
		if err := ValidateDocFormat(o.DocFormat); err != nil {
			return err
		}
	}
	if o.Width <= 0 || o.Height <= 0 || o.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidOption, "width, height and dpi must be positive, got %gx%g@%g", o.Width, o.Height, o.DPI)
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "scale must not be negative, got %g", o.Scale)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.validatePixels(); err != nil {
		return err
	}
	return o.Plot.Validate()
}

// validatePixels bounds the rendered image size. PNG output is checked at its
// scaled resolution.
func (o *Options) validatePixels() error {
	w, h := o.Width*o.DPI, o.Height*o.DPI
	if slices.Contains(o.Formats, FormatPNG) {
		scale := o.Scale
		if scale <= 0 {
			scale = sink.DefaultScale
		}
		w, h = w*scale, h*scale
	}
	if !(w <= MaxPixels && h <= MaxPixels) {
		return errors.New(errors.ErrCodeInvalidOption, "image of %gx%g pixels exceeds the %d pixel limit", math.Ceil(w), math.Ceil(h), MaxPixels)
	}
	return nil
}

// SceneKeyOpts returns cache key options for the plot stage.
func (o *Options) SceneKeyOpts() (cache.SceneKeyOpts, error) {
	plotHash, err := cache.HashJSON(o.Plot)
	if err != nil {
		return cache.SceneKeyOpts{}, fmt.Errorf("hash plot options: %w", err)
	}
	return cache.SceneKeyOpts{
		Width:    o.Width,
		Height:   o.Height,
		DPI:      o.DPI,
		PlotHash: plotHash,
	}, nil
}

// ArtifactKeyOpts returns cache key options for one output format.
// Options that do not affect the format are left out so they share entries.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPDF:
		k.Title = o.Title
		k.Background = o.Background
		k.EmbedFonts = o.EmbedFonts
	case FormatPNG:
		k.Scale = o.Scale
		k.Background = o.Background
	}
	return k
}

// figure creates the empty figure the chart is drawn on.
func (o *Options) figure() *canvas.Figure {
	return canvas.NewFigure(
		canvas.WithSize(o.Width, o.Height),
		canvas.WithDPI(o.DPI),
	)
}
