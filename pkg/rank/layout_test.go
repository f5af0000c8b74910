package rank

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSortRows(t *testing.T) {
	tests := []struct {
		name       string
		values     [][]float64
		labels     [][]string
		wantValues [][]float64
		wantLabels [][]string
	}{
		{
			name:       "descending",
			values:     [][]float64{{1, 3, 2}},
			labels:     [][]string{{"a", "b", "c"}},
			wantValues: [][]float64{{3, 2, 1}},
			wantLabels: [][]string{{"b", "c", "a"}},
		},
		{
			name:       "ties reverse input order",
			values:     [][]float64{{5, 5, 3}},
			labels:     [][]string{{"a", "b", "c"}},
			wantValues: [][]float64{{5, 5, 3}},
			wantLabels: [][]string{{"b", "a", "c"}},
		},
		{
			name:       "rows sorted independently",
			values:     [][]float64{{1, 2}, {4, 3}},
			labels:     [][]string{{"x", "y"}, {"x", "y"}},
			wantValues: [][]float64{{2, 1}, {4, 3}},
			wantLabels: [][]string{{"y", "x"}, {"x", "y"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotValues, gotLabels := SortRows(tt.values, tt.labels)
			if diff := cmp.Diff(tt.wantValues, gotValues); diff != "" {
				t.Errorf("SortRows() values mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantLabels, gotLabels); diff != "" {
				t.Errorf("SortRows() labels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortRowsDoesNotMutateInput(t *testing.T) {
	values := [][]float64{{1, 2}}
	labels := [][]string{{"a", "b"}}
	SortRows(values, labels)
	if values[0][0] != 1 || labels[0][0] != "a" {
		t.Errorf("SortRows() mutated input: %v %v", values, labels)
	}
}

func TestMaxRowSum(t *testing.T) {
	if got := MaxRowSum([][]float64{{1, 2}, {4, 5}, {3, 3}}); got != 9 {
		t.Errorf("MaxRowSum() = %v, want 9", got)
	}
	if got := MaxRowSum([][]float64{{-1, -2}}); got != -3 {
		t.Errorf("MaxRowSum() = %v, want -3", got)
	}
}

func TestComputeLayout(t *testing.T) {
	table := Table{
		Values: [][]float64{{10, 30}, {20, 20}},
		Labels: [][]string{{"a", "b"}, {"a", "b"}},
	}
	l := ComputeLayout(table, 2, Options{})

	if l.MaxRowLength != 40 {
		t.Errorf("MaxRowLength = %v, want 40", l.MaxRowLength)
	}
	if l.Width != 20 {
		t.Errorf("Width = %v, want 20", l.Width)
	}
	if l.PadX != 1 || l.PadY != 2 {
		t.Errorf("PadX, PadY = %v, %v, want 1, 2", l.PadX, l.PadY)
	}
	if want := 20.0 / 12; l.HSpacing != want {
		t.Errorf("HSpacing = %v, want %v", l.HSpacing, want)
	}
	if l.VSpacing != 2.5 {
		t.Errorf("VSpacing = %v, want 2.5", l.VSpacing)
	}
	if want := [2]float64{0, 45}; l.YLim != want {
		t.Errorf("YLim = %v, want %v", l.YLim, want)
	}
	if want := [2]float64{0, 40 + 2*l.HSpacing}; l.XLim != want {
		t.Errorf("XLim = %v, want %v", l.XLim, want)
	}

	first := l.Columns[0].Rects
	if first[0].Label != "b" || first[0].Y != 0 || first[0].Height != 30 {
		t.Errorf("first rect = %+v, want b at y=0 with height 30", first[0])
	}
	if first[1].Label != "a" || first[1].Y != 32.5 {
		t.Errorf("second rect = %+v, want a at y=32.5", first[1])
	}
	if got, want := l.Columns[1].X, 20+l.HSpacing; got != want {
		t.Errorf("second column X = %v, want %v", got, want)
	}
	for _, col := range l.Columns {
		for _, r := range col.Rects {
			if r.Width != l.Width {
				t.Errorf("rect width = %v, want %v", r.Width, l.Width)
			}
		}
	}
}

func TestComputeLayoutWidthIsFloored(t *testing.T) {
	table := Table{
		Values: [][]float64{{5, 5, 3}, {1, 1, 1}},
		Labels: [][]string{{"a", "b", "c"}, {"a", "b", "c"}},
	}
	l := ComputeLayout(table, 1, Options{})
	if l.Width != 6 {
		t.Errorf("Width = %v, want 6", l.Width)
	}
}

func TestComputeLayoutVSpaceClamp(t *testing.T) {
	table := Table{
		Values: [][]float64{{5, 5, 3}},
		Labels: [][]string{{"a", "b", "c"}},
	}
	clamped := ComputeLayout(table, 1, Options{VSpace: 9})
	limit := ComputeLayout(table, 1, Options{VSpace: 7.9})
	if diff := cmp.Diff(limit, clamped); diff != "" {
		t.Errorf("VSpace 9 differs from 7.9 (-7.9 +9):\n%s", diff)
	}
	if clamped.VSpacing <= 0 || math.IsInf(clamped.VSpacing, 0) {
		t.Errorf("VSpacing = %v, want positive and finite", clamped.VSpacing)
	}
}

func TestComputeLayoutColumnLabels(t *testing.T) {
	table := Table{
		Values:       [][]float64{{1}, {2}, {3}},
		Labels:       [][]string{{"a"}, {"a"}, {"a"}},
		ColumnLabels: []string{"x", "y", "z"},
	}

	l := ComputeLayout(table, 1, Options{})
	if got := []string{l.Columns[0].Label, l.Columns[1].Label, l.Columns[2].Label}; !cmp.Equal(got, []string{"x", "y", "z"}) {
		t.Errorf("derived labels = %v", got)
	}

	l = ComputeLayout(table, 1, Options{ColumnLabels: []string{"2010"}})
	if l.Columns[0].Label != "2010" || l.Columns[1].Label != "" {
		t.Errorf("explicit labels = %q, %q, want 2010 and empty", l.Columns[0].Label, l.Columns[1].Label)
	}
}
