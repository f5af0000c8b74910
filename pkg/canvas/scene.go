package canvas

import (
	"math"
	"strings"

	"github.com/matzehuels/rankplot/pkg/colors"
	"github.com/matzehuels/rankplot/pkg/fonts"
	"github.com/matzehuels/rankplot/pkg/rank"
)

// Scene is a pixel-space snapshot of a figure with the origin at the top left
// and every color resolved to hex.
type Scene struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Background string      `json:"background"`
	Frame      *Box        `json:"frame,omitempty"`
	Rects      []SceneRect `json:"rects"`
	Texts      []SceneText `json:"texts"`
}

// Box is a pixel rectangle.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// SceneRect is a filled rectangle.
type SceneRect struct {
	Box
	Fill  string `json:"fill"`
	Label string `json:"label,omitempty"`
}

// SceneText is a left-aligned block of text. Baseline is the baseline of the
// first line; later lines follow every LineHeight pixels.
type SceneText struct {
	X          float64  `json:"x"`
	Baseline   float64  `json:"baseline"`
	Lines      []string `json:"lines"`
	Size       float64  `json:"size"`
	LineHeight float64  `json:"line_height"`
	Fill       string   `json:"fill"`
	Bold       bool     `json:"bold,omitempty"`
}

const (
	fallbackFill = "#808080"
	fallbackText = "#000000"
)

// Scene converts the visible primitives to pixels.
func (f *Figure) Scene() Scene {
	w, h := f.pixelSize()
	s := Scene{
		Width:      w,
		Height:     h,
		Background: colors.Hex(f.background, "#ffffff"),
		Rects:      make([]SceneRect, 0, len(f.rects)),
		Texts:      make([]SceneText, 0, len(f.texts)),
	}
	if f.axisOn {
		x, y, aw, ah := f.axesBox()
		s.Frame = &Box{X: x, Y: y, W: aw, H: ah}
	}

	for _, r := range f.rects {
		x0, y0 := f.toPixel(r.X, r.Y)
		x1, y1 := f.toPixel(r.X+r.Width, r.Y+r.Height)
		s.Rects = append(s.Rects, SceneRect{
			Box: Box{
				X: math.Min(x0, x1),
				Y: math.Min(y0, y1),
				W: math.Abs(x1 - x0),
				H: math.Abs(y1 - y0),
			},
			Fill:  colors.Hex(r.Color, fallbackFill),
			Label: r.Label,
		})
	}

	for _, t := range f.texts {
		if !t.visible {
			continue
		}
		s.Texts = append(s.Texts, f.sceneText(t.Text))
	}
	return s
}

func (f *Figure) sceneText(t rank.Text) SceneText {
	size := f.fontPx(t.FontSize)
	x, y := f.toPixel(t.X, t.Y)
	baseline := y
	if t.VAlign == rank.AlignTop {
		ascent, _, err := f.faces.Metrics(size, t.Bold)
		if err != nil {
			ascent = size
		}
		baseline += ascent
	}
	return SceneText{
		X:          x,
		Baseline:   baseline,
		Lines:      strings.Split(t.Content, "\n"),
		Size:       size,
		LineHeight: size * fonts.LineSpacing,
		Fill:       colors.Hex(t.Color, fallbackText),
		Bold:       t.Bold,
	}
}
