package rank

import (
	"math"
	"slices"
	"sort"
)

// Layout holds the geometry of a chart, computed once per call.
type Layout struct {
	MaxRowLength float64 `json:"max_row_length"`
	Width        float64 `json:"width"`
	HSpacing     float64 `json:"hspacing"`
	VSpacing     float64 `json:"vspacing"`
	PadX         float64 `json:"pad_x"`
	PadY         float64 `json:"pad_y"`

	XLim [2]float64 `json:"xlim"`
	YLim [2]float64 `json:"ylim"`

	Columns []ColumnLayout `json:"columns"`
}

// ColumnLayout is one positioned stack of rectangles.
type ColumnLayout struct {
	X     float64 `json:"x"`
	Label string  `json:"label,omitempty"`
	Rects []Rect  `json:"rects"`
}

// SortRows returns copies of values and labels with every row sorted in
// descending order. The order is an ascending stable sort reversed, so equal
// values end up in reverse input order.
func SortRows(values [][]float64, labels [][]string) ([][]float64, [][]string) {
	sv := make([][]float64, len(values))
	sl := make([][]string, len(labels))
	for i, row := range values {
		idx := make([]int, len(row))
		for j := range idx {
			idx[j] = j
		}
		sort.SliceStable(idx, func(a, b int) bool { return row[idx[a]] < row[idx[b]] })
		slices.Reverse(idx)

		sv[i] = make([]float64, len(row))
		sl[i] = make([]string, len(row))
		for j, k := range idx {
			sv[i][j] = row[k]
			sl[i][j] = labels[i][k]
		}
	}
	return sv, sl
}

// MaxRowSum returns the largest row sum.
func MaxRowSum(values [][]float64) float64 {
	var best float64
	for i, row := range values {
		var sum float64
		for _, v := range row {
			sum += v
		}
		if i == 0 || sum > best {
			best = sum
		}
	}
	return best
}

// ComputeLayout sorts t and positions every rectangle. aspect is the surface
// width divided by its height. Rectangle colors are left empty.
func ComputeLayout(t Table, aspect float64, opts Options) Layout {
	values, labels := SortRows(t.Values, t.Labels)
	n := float64(len(values))

	l := Layout{MaxRowLength: MaxRowSum(values)}
	l.Width = math.Floor(l.MaxRowLength / n)

	labelPad := l.Width / (20 - opts.LabelPad)
	l.PadX = labelPad
	l.PadY = labelPad * aspect
	l.HSpacing = l.Width / (12 - opts.HSpace)
	l.VSpacing = l.Width / (8 - opts.effectiveVSpace())

	l.YLim = [2]float64{0, l.MaxRowLength + l.VSpacing*float64(len(values[0]))}
	l.XLim = [2]float64{0, n*l.Width + n*l.HSpacing}

	columnLabels := opts.ColumnLabels
	if columnLabels == nil {
		columnLabels = t.ColumnLabels
	}

	l.Columns = make([]ColumnLayout, len(values))
	x := 0.0
	for i, row := range values {
		col := ColumnLayout{X: x, Rects: make([]Rect, len(row))}
		if i < len(columnLabels) {
			col.Label = columnLabels[i]
		}
		y := 0.0
		for j, h := range row {
			col.Rects[j] = Rect{X: x, Y: y, Width: l.Width, Height: h, Label: labels[i][j]}
			y += h + l.VSpacing
		}
		l.Columns[i] = col
		x += l.Width + l.HSpacing
	}
	return l
}
