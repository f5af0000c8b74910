package rank

import "math"

// Surface is the drawing target of [Plot]. Coordinates passed to AddRect and
// AddText are data coordinates within the limits set by SetXLim and SetYLim.
//
// Implementations must measure text after any axis limits and inversion
// already applied, since TextExtent converts the rendered extent back into data
// units.
type Surface interface {
	// FigureSize returns the figure width and height in any unit; only their
	// ratio is used.
	FigureSize() (width, height float64)
	SetXLim(lo, hi float64)
	SetYLim(lo, hi float64)
	InvertYAxis()
	// AxisOff hides ticks, spines and frame.
	AxisOff()
	AddRect(r Rect)
	AddText(t Text) TextID
	SetTextVisible(id TextID, visible bool)
	// TextExtent returns the rendered bounding box of a text in data coordinates.
	TextExtent(id TextID) BBox
	// ColorCycle returns the surface's default palette.
	ColorCycle() []string
}

// Rect is a filled rectangle primitive.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color"`
	Label  string  `json:"label,omitempty"`
}

// VAlign is the vertical anchor of a text primitive.
type VAlign int

const (
	AlignBaseline VAlign = iota
	AlignTop
)

// Text is a text primitive. Content may contain newlines.
type Text struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Content  string  `json:"content"`
	FontSize float64 `json:"font_size"`
	Color    string  `json:"color"`
	Bold     bool    `json:"bold,omitempty"`
	VAlign   VAlign  `json:"valign"`
}

// TextID identifies a text previously added to a [Surface].
type TextID int

// BBox is an axis-aligned box. Under an inverted axis Y1 may be below Y0.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 { return math.Abs(b.X1 - b.X0) }

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 { return math.Abs(b.Y1 - b.Y0) }
