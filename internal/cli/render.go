package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rankplot/pkg/errors"
	"github.com/matzehuels/rankplot/pkg/pipeline"
	"github.com/matzehuels/rankplot/pkg/rank"
)

// stdinName is the input argument that reads the document from stdin.
const stdinName = "-"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file (single format) or base path
	formats   string // comma-separated output formats
	docFormat string // json or toml; guessed from the extension when empty
	noCache   bool
	refresh   bool

	width, height, dpi float64
	scale              float64
	title              string
	background         string
	embedFonts         bool

	color        []string
	colorMap     map[string]string
	palette      []string
	columnLabels []string
	plot         rank.Options
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a chart to SVG, PNG, PDF or JSON",
		Long: `Render a chart document (JSON or TOML) to one or more output formats.
Use "-" to read the document from stdin.`,
		Example: `  rankplot render data.json -f svg,png
  rankplot render data.toml -o chart.svg --color red,blue --no-trim
  cat data.json | rankplot render - -o chart -f png --scale 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyConfig(cmd, &opts)
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	f.StringVar(&opts.docFormat, "doc-format", "", "document format: json, toml (default: from extension)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	f.Float64Var(&opts.width, "width", pipeline.DefaultWidth, "figure width in inches")
	f.Float64Var(&opts.height, "height", pipeline.DefaultHeight, "figure height in inches")
	f.Float64Var(&opts.dpi, "dpi", pipeline.DefaultDPI, "figure resolution")
	f.Float64Var(&opts.scale, "scale", 0, "PNG resolution multiplier (default 2)")
	f.StringVar(&opts.title, "title", "", "SVG/PDF document title")
	f.StringVar(&opts.background, "background", "", "background color")
	f.BoolVar(&opts.embedFonts, "embed-fonts", false, "embed fonts in SVG output")

	f.StringSliceVar(&opts.color, "color", nil, "one color for every label, or colors for the most frequent labels")
	f.StringToStringVar(&opts.colorMap, "color-map", nil, "explicit label=color mapping")
	f.StringSliceVar(&opts.palette, "palette", nil, "fallback palette (default tab10)")
	f.StringSliceVar(&opts.columnLabels, "column-labels", nil, "labels drawn below the columns")
	f.StringVar(&opts.plot.GreyColor, "grey-color", rank.DefaultGreyColor, "color of labels without a color")
	f.StringVar(&opts.plot.TextColor, "text-color", rank.DefaultTextColor, "label and value color")
	f.StringVar(&opts.plot.TickColor, "tick-color", rank.DefaultTickColor, "column label color")
	f.BoolVar(&opts.plot.NoTrim, "no-trim", false, "never break labels onto two lines")
	f.BoolVar(&opts.plot.HideLabels, "hide-labels", false, "do not draw labels")
	f.BoolVar(&opts.plot.HideValues, "hide-values", false, "do not draw values")
	f.Float64Var(&opts.plot.HSpace, "hspace", 0, "extra horizontal spacing (below 12)")
	f.Float64Var(&opts.plot.VSpace, "vspace", 0, "extra vertical spacing (clamped to 7.9)")
	f.Float64Var(&opts.plot.LabelPad, "labelpad", 0, "extra label padding (below 20)")
	f.Float64Var(&opts.plot.LabelFontSize, "label-fontsize", rank.DefaultLabelFontSize, "label font size in points")
	f.Float64Var(&opts.plot.TickFontSize, "tick-fontsize", rank.DefaultTickFontSize, "column label font size in points")
	f.BoolVar(&opts.plot.MeasureEach, "measure-each", false, "measure every label instead of reusing the previous extent")

	return cmd
}

// applyConfig fills flags the user did not set from the config file.
func (c *CLI) applyConfig(cmd *cobra.Command, opts *renderOpts) {
	cfg := c.cfg()
	set := func(name string, apply func()) {
		if !cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("width", func() { opts.width = orFloat(cfg.Width, opts.width) })
	set("height", func() { opts.height = orFloat(cfg.Height, opts.height) })
	set("dpi", func() { opts.dpi = orFloat(cfg.DPI, opts.dpi) })
	set("scale", func() { opts.scale = orFloat(cfg.Scale, opts.scale) })
	set("format", func() {
		if len(cfg.Formats) > 0 {
			opts.formats = strings.Join(cfg.Formats, ",")
		}
	})
	set("palette", func() {
		if len(cfg.Plot.Palette) > 0 {
			opts.palette = cfg.Plot.Palette
		}
	})
	set("grey-color", func() { opts.plot.GreyColor = orString(cfg.Plot.GreyColor, opts.plot.GreyColor) })
	set("text-color", func() { opts.plot.TextColor = orString(cfg.Plot.TextColor, opts.plot.TextColor) })
	set("tick-color", func() { opts.plot.TickColor = orString(cfg.Plot.TickColor, opts.plot.TickColor) })
	set("label-fontsize", func() { opts.plot.LabelFontSize = orFloat(cfg.Plot.LabelFontSize, opts.plot.LabelFontSize) })
	set("tick-fontsize", func() { opts.plot.TickFontSize = orFloat(cfg.Plot.TickFontSize, opts.plot.TickFontSize) })
}

func orFloat(v, fallback float64) float64 {
	if v != 0 {
		return v
	}
	return fallback
}

func orString(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// plotOptions converts the flags to rank options.
func (o *renderOpts) plotOptions() rank.Options {
	p := o.plot
	switch len(o.color) {
	case 0:
	case 1:
		p.Color = rank.SingleColor(o.color[0])
	default:
		p.Color = rank.ColorSequence(o.color...)
	}
	if len(o.colorMap) > 0 {
		p.ColorMap = o.colorMap
	}
	p.Palette = o.palette
	p.ColumnLabels = o.columnLabels
	return p
}

// runRender reads the document, runs the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	paths := outputPaths(opts.output, input, formats)
	for _, path := range paths {
		if filepath.Clean(path) == filepath.Clean(input) {
			return errors.New(errors.ErrCodeInvalidOption, "output %s would overwrite the input document", path)
		}
	}

	doc, err := readDocument(input)
	if err != nil {
		return err
	}
	docFormat := opts.docFormat
	if docFormat == "" {
		docFormat = docFormatFor(input)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, pipeline.Options{
		Document:   doc,
		DocFormat:  docFormat,
		Width:      opts.width,
		Height:     opts.height,
		DPI:        opts.dpi,
		Plot:       opts.plotOptions(),
		Formats:    formats,
		Scale:      opts.scale,
		Title:      opts.title,
		Background: opts.background,
		EmbedFonts: opts.embedFonts,
		Refresh:    opts.refresh,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d columns", result.Stats.Columns))

	printStats(result.Stats.Columns, result.Stats.Rows, result.CacheInfo.Hit)
	for _, format := range formats {
		path := paths[format]
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// readDocument reads a file, or stdin for "-".
func readDocument(input string) ([]byte, error) {
	if input == stdinName {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(input)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s not found", input)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", input, err)
	}
	return data, nil
}

// docFormatFor guesses the document format from a file extension.
func docFormatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return pipeline.DocTOML
	}
	return pipeline.DocJSON
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == stdinName {
			return "chart"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to its output file. A single format written to
// an explicit output path keeps that path unchanged.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
