package rank

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rankplot/pkg/colors"
	"github.com/matzehuels/rankplot/pkg/errors"
)

// Default option values.
const (
	DefaultGreyColor     = "grey"
	DefaultTextColor     = "white"
	DefaultTickColor     = "black"
	DefaultLabelFontSize = 5.0
	DefaultTickFontSize  = 6.0

	// maxVSpace is the largest usable VSpace; larger values are clamped to it.
	maxVSpace = 7.9
)

// Options configures [Plot]. The zero value plus [Options.SetDefaults] gives
// the standard chart: labels and values shown, trimming on, no extra spacing.
type Options struct {
	// ColumnLabels are drawn below each column. When nil, labels derived from a
	// [NamedColumns] input are used.
	ColumnLabels []string `json:"column_labels,omitempty"`

	Color     ColorSpec         `json:"color"`
	ColorMap  map[string]string `json:"color_map,omitempty"`
	GreyColor string            `json:"grey_color,omitempty"`
	// Palette replaces the surface color cycle as the fallback palette.
	Palette   []string `json:"palette,omitempty"`
	TextColor string   `json:"text_color,omitempty"`
	TickColor string   `json:"tick_color,omitempty"`

	NoTrim     bool `json:"no_trim,omitempty"`
	HideLabels bool `json:"hide_labels,omitempty"`
	HideValues bool `json:"hide_values,omitempty"`

	HSpace   float64 `json:"hspace,omitempty"`
	VSpace   float64 `json:"vspace,omitempty"`
	LabelPad float64 `json:"labelpad,omitempty"`

	LabelFontSize float64 `json:"label_fontsize,omitempty"`
	TickFontSize  float64 `json:"tick_fontsize,omitempty"`

	// MeasureEach measures every label before deciding whether it fits instead
	// of reusing the extent of the previously drawn label.
	MeasureEach bool `json:"measure_each,omitempty"`

	IsColor func(string) bool `json:"-"`
	Logger  *log.Logger       `json:"-"`
}

// SetDefaults fills unset fields with their defaults.
func (o *Options) SetDefaults() {
	if o.GreyColor == "" {
		o.GreyColor = DefaultGreyColor
	}
	if o.TextColor == "" {
		o.TextColor = DefaultTextColor
	}
	if o.TickColor == "" {
		o.TickColor = DefaultTickColor
	}
	if o.LabelFontSize == 0 {
		o.LabelFontSize = DefaultLabelFontSize
	}
	if o.TickFontSize == 0 {
		o.TickFontSize = DefaultTickFontSize
	}
	if o.IsColor == nil {
		o.IsColor = colors.IsColor
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate rejects knob values that would divide by zero or flip geometry.
func (o *Options) Validate() error {
	if o.HSpace >= 12 {
		return errors.New(errors.ErrCodeInvalidOption, "hspace must be below 12, got %g", o.HSpace)
	}
	if o.LabelPad >= 20 {
		return errors.New(errors.ErrCodeInvalidOption, "labelpad must be below 20, got %g", o.LabelPad)
	}
	if o.LabelFontSize < 0 || o.TickFontSize < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "font sizes must be positive")
	}
	return nil
}

// effectiveVSpace clamps VSpace so the vertical spacing stays positive.
func (o *Options) effectiveVSpace() float64 {
	return min(o.VSpace, maxVSpace)
}
