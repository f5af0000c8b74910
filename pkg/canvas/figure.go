// Package canvas provides a retained-mode plotting figure that implements
// [rank.Surface].
//
// A [Figure] collects rectangles and text in data coordinates, measures text
// with the bundled fonts and converts everything to pixels on demand through
// [Figure.Scene]. The sink package turns a scene into SVG, PNG, PDF or JSON.
package canvas

import (
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/rankplot/pkg/colors"
	"github.com/matzehuels/rankplot/pkg/fonts"
	"github.com/matzehuels/rankplot/pkg/rank"
)

// Figure defaults.
const (
	DefaultWidth  = 6.4 // inches
	DefaultHeight = 4.8 // inches
	DefaultDPI    = 100
)

// DefaultAxes is the axes box as left, bottom, width and height fractions of
// the figure.
var DefaultAxes = [4]float64{0.125, 0.11, 0.775, 0.77}

type textItem struct {
	rank.Text
	visible bool
}

// Figure is a single-axes figure. It is not safe for concurrent use.
type Figure struct {
	width, height float64
	dpi           float64
	axes          [4]float64
	cycle         []string
	background    string
	faces         *fonts.FaceCache

	xlim, ylim [2]float64
	axisOn     bool

	rects []rank.Rect
	texts []textItem
}

// FigureOption configures a [Figure].
type FigureOption func(*Figure)

// WithSize sets the figure size in inches.
func WithSize(width, height float64) FigureOption {
	return func(f *Figure) { f.width, f.height = width, height }
}

// WithDPI sets the pixels per inch.
func WithDPI(dpi float64) FigureOption {
	return func(f *Figure) { f.dpi = dpi }
}

// WithAxes sets the axes box in figure fractions.
func WithAxes(box [4]float64) FigureOption {
	return func(f *Figure) { f.axes = box }
}

// WithColorCycle replaces the default palette.
func WithColorCycle(cycle []string) FigureOption {
	return func(f *Figure) { f.cycle = slices.Clone(cycle) }
}

// WithBackground sets the figure background color.
func WithBackground(color string) FigureOption {
	return func(f *Figure) { f.background = color }
}

// WithFaceCache sets the font face cache used for measuring.
func WithFaceCache(c *fonts.FaceCache) FigureOption {
	return func(f *Figure) { f.faces = c }
}

// NewFigure returns an empty figure.
func NewFigure(opts ...FigureOption) *Figure {
	f := &Figure{
		width:      DefaultWidth,
		height:     DefaultHeight,
		dpi:        DefaultDPI,
		axes:       DefaultAxes,
		cycle:      colors.DefaultCycle,
		background: "white",
		faces:      fonts.Faces,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.Reset()
	return f
}

// Reset clears all primitives and restores the default axis state.
func (f *Figure) Reset() {
	f.xlim = [2]float64{0, 1}
	f.ylim = [2]float64{0, 1}
	f.axisOn = true
	f.rects = nil
	f.texts = nil
}

// FigureSize returns the figure size in inches.
func (f *Figure) FigureSize() (float64, float64) { return f.width, f.height }

// SetXLim sets the x limits. Identical limits are widened, see [nonsingular].
func (f *Figure) SetXLim(lo, hi float64) { f.xlim = nonsingular(lo, hi) }

// SetYLim sets the y limits. Identical limits are widened, see [nonsingular].
func (f *Figure) SetYLim(lo, hi float64) { f.ylim = nonsingular(lo, hi) }

// limitExpander is the relative widening applied to identical limits.
const limitExpander = 0.05

// nonsingular keeps an axis from collapsing to a point. Identical limits are
// moved apart by 5% of their magnitude, or to ±0.05 around zero. Non-finite
// limits fall back to the same range around zero.
func nonsingular(lo, hi float64) [2]float64 {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return [2]float64{-limitExpander, limitExpander}
	}
	if hi != lo {
		return [2]float64{lo, hi}
	}
	if lo == 0 {
		return [2]float64{-limitExpander, limitExpander}
	}
	return [2]float64{lo - limitExpander*math.Abs(lo), hi + limitExpander*math.Abs(hi)}
}

// InvertYAxis swaps the y limits so that y grows downwards.
func (f *Figure) InvertYAxis() { f.ylim[0], f.ylim[1] = f.ylim[1], f.ylim[0] }

// AxisOff hides the axes frame.
func (f *Figure) AxisOff() { f.axisOn = false }

// XLim returns the current x limits.
func (f *Figure) XLim() [2]float64 { return f.xlim }

// YLim returns the current y limits, inverted if the axis is.
func (f *Figure) YLim() [2]float64 { return f.ylim }

func (f *Figure) AddRect(r rank.Rect) { f.rects = append(f.rects, r) }

func (f *Figure) AddText(t rank.Text) rank.TextID {
	f.texts = append(f.texts, textItem{Text: t, visible: true})
	return rank.TextID(len(f.texts) - 1)
}

func (f *Figure) SetTextVisible(id rank.TextID, visible bool) {
	if int(id) >= 0 && int(id) < len(f.texts) {
		f.texts[id].visible = visible
	}
}

// TextExtent measures a text in pixels and converts the box to data units
// through the current limits. Unknown ids have an empty extent.
func (f *Figure) TextExtent(id rank.TextID) rank.BBox {
	if int(id) < 0 || int(id) >= len(f.texts) {
		return rank.BBox{}
	}
	t := f.texts[id]
	wpx, hpx, err := f.faces.Measure(strings.Split(t.Content, "\n"), f.fontPx(t.FontSize), t.Bold)
	if err != nil {
		return rank.BBox{X0: t.X, Y0: t.Y, X1: t.X, Y1: t.Y}
	}
	sx, sy := f.dataPerPixel()
	return rank.BBox{X0: t.X, Y0: t.Y, X1: t.X + wpx*sx, Y1: t.Y + hpx*sy}
}

// ColorCycle returns the figure palette.
func (f *Figure) ColorCycle() []string { return slices.Clone(f.cycle) }

// fontPx converts a point size to pixels.
func (f *Figure) fontPx(pt float64) float64 { return pt * f.dpi / 72 }

// pixelSize returns the figure size in pixels.
func (f *Figure) pixelSize() (float64, float64) { return f.width * f.dpi, f.height * f.dpi }

// axesBox returns the axes box in pixels with the origin at the top left.
func (f *Figure) axesBox() (x, y, w, h float64) {
	pw, ph := f.pixelSize()
	w = f.axes[2] * pw
	h = f.axes[3] * ph
	x = f.axes[0] * pw
	y = (1 - f.axes[1] - f.axes[3]) * ph
	return x, y, w, h
}

// dataPerPixel returns the size of one pixel in data units along each axis.
func (f *Figure) dataPerPixel() (float64, float64) {
	_, _, w, h := f.axesBox()
	return math.Abs(f.xlim[1]-f.xlim[0]) / w, math.Abs(f.ylim[1]-f.ylim[0]) / h
}

// toPixel maps a data point to pixels with the origin at the top left.
func (f *Figure) toPixel(x, y float64) (float64, float64) {
	ax, ay, aw, ah := f.axesBox()
	fx := (x - f.xlim[0]) / (f.xlim[1] - f.xlim[0])
	fy := (y - f.ylim[0]) / (f.ylim[1] - f.ylim[0])
	return ax + fx*aw, ay + (1-fy)*ah
}

