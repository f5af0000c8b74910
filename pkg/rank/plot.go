package rank

import (
	"strings"

	"github.com/matzehuels/rankplot/pkg/errors"
)

// textBlock is the extent of the most recently measured label. It is carried
// from one rectangle to the next to decide whether the next label and value
// fit before anything is measured.
type textBlock struct {
	height, width float64
}

type plotter struct {
	s      Surface
	opts   Options
	layout Layout
	colors ColorMap
}

// Plot draws a bump chart of in onto s and returns s.
//
// Every column of the input becomes a stack of rectangles sorted from the
// largest value at the top to the smallest at the bottom. Labels are drawn
// inside the rectangles when they fit; a label wider than its rectangle is
// broken before its last word. Values are drawn below the label when there is
// room for a second text block.
//
// Plot fails before drawing anything if opts are invalid or in cannot be
// normalized.
func Plot(s Surface, in Input, opts Options) (Surface, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return s, err
	}

	t, err := Normalize(in)
	if err != nil {
		return s, err
	}

	figW, figH := s.FigureSize()
	if figW <= 0 || figH <= 0 {
		return s, errors.New(errors.ErrCodeInvalidOption, "figure size must be positive, got %gx%g", figW, figH)
	}
	l := ComputeLayout(t, figW/figH, opts)
	opts.Logger.Debug("computed layout",
		"columns", len(l.Columns),
		"max_row_length", l.MaxRowLength,
		"width", l.Width,
		"hspacing", l.HSpacing,
		"vspacing", l.VSpacing)

	palette := opts.Palette
	if len(palette) == 0 {
		palette = s.ColorCycle()
	}
	cm, mode := resolveColors(t.Labels, opts.Color, opts.ColorMap, palette, opts.IsColor)
	opts.Logger.Debug("resolved colors", "mode", mode, "mapped", len(cm))

	s.SetYLim(l.YLim[0], l.YLim[1])
	s.SetXLim(l.XLim[0], l.XLim[1])
	s.InvertYAxis()

	p := plotter{s: s, opts: opts, layout: l, colors: cm}
	var carry textBlock
	for _, col := range l.Columns {
		carry = p.drawColumn(col, carry)
	}

	s.AxisOff()
	return s, nil
}

func (p *plotter) drawColumn(col ColumnLayout, carry textBlock) textBlock {
	for _, r := range col.Rects {
		carry = p.drawRect(r, carry)
	}
	if col.Label != "" {
		p.s.AddText(Text{
			X:        col.X,
			Y:        -p.layout.Width / 7,
			Content:  col.Label,
			FontSize: p.opts.TickFontSize,
			Color:    p.opts.TickColor,
			VAlign:   AlignBaseline,
		})
	}
	return carry
}

func (p *plotter) drawRect(r Rect, carry textBlock) textBlock {
	l := p.layout
	r.Color = p.colors.Lookup(r.Label, p.opts.GreyColor)
	p.s.AddRect(r)

	if !p.opts.HideLabels && (p.opts.MeasureEach || r.Height > carry.height+l.PadY) {
		carry = p.drawLabel(r, carry)
	}

	if !p.opts.HideValues && r.Height > 2*carry.height+2*l.PadY {
		p.s.AddText(Text{
			X:        r.X + l.PadX,
			Y:        r.Y + l.PadY + carry.height + l.PadY,
			Content:  FormatValue(r.Height, l.MaxRowLength),
			FontSize: p.opts.LabelFontSize,
			Color:    p.opts.TextColor,
			VAlign:   AlignTop,
		})
	}
	return carry
}

// drawLabel draws, measures and possibly trims the label of r. It returns the
// measured extent of whatever label was drawn last.
func (p *plotter) drawLabel(r Rect, carry textBlock) textBlock {
	l := p.layout
	place := func(content string) (TextID, textBlock) {
		id := p.s.AddText(Text{
			X:        r.X + l.PadX,
			Y:        r.Y + l.PadY,
			Content:  content,
			FontSize: p.opts.LabelFontSize,
			Color:    p.opts.TextColor,
			Bold:     true,
			VAlign:   AlignTop,
		})
		bb := p.s.TextExtent(id)
		return id, textBlock{height: bb.Height(), width: bb.Width()}
	}

	// A label hidden for being too tall still gets its trim attempt.
	id, carry := place(r.Label)
	if r.Height < carry.height+l.PadY {
		p.s.SetTextVisible(id, false)
	}

	if p.opts.NoTrim || carry.width+2*l.PadX <= l.Width {
		return carry
	}
	trimmed, ok := TrimLabel(r.Label)
	if !ok {
		return carry
	}
	p.s.SetTextVisible(id, false)
	_, carry = place(trimmed)
	p.opts.Logger.Debug("trimmed label", "label", r.Label)
	return carry
}

// TrimLabel moves the last word of a multi-word label onto a second line.
// It reports false for single-word labels.
func TrimLabel(label string) (string, bool) {
	words := strings.Fields(label)
	if len(words) < 2 {
		return label, false
	}
	return strings.Join(words[:len(words)-1], " ") + "\n" + words[len(words)-1], true
}
