package rank

import (
	"fmt"

	"github.com/matzehuels/rankplot/pkg/errors"
)

// Input is one of the three data shapes accepted by [Plot]: [Columns],
// [NamedColumns] or [Matrix].
type Input interface {
	isInput()
}

// Entry is a single labeled value within a column.
type Entry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Column is an ordered label→value mapping for one chart column.
type Column []Entry

// Columns is a sequence of label→value mappings, one per chart column.
type Columns []Column

// NamedColumn is a column keyed by its column label.
type NamedColumn struct {
	Name    string `json:"name"`
	Entries Column `json:"entries"`
}

// NamedColumns is an ordered label-keyed mapping of columns. The names become
// the column labels of the chart.
type NamedColumns []NamedColumn

// Matrix is a raw 2D array of values, one row per chart column, with an
// optional label array of the same shape.
type Matrix struct {
	Values [][]float64 `json:"values"`
	Labels [][]string  `json:"labels,omitempty"`
}

func (Columns) isInput()      {}
func (NamedColumns) isInput() {}
func (Matrix) isInput()       {}

// Table is the normalized form of an [Input]: two index-aligned rectangular
// matrices plus optional column labels.
type Table struct {
	Values       [][]float64
	Labels       [][]string
	ColumnLabels []string
}

// Rows returns the number of chart columns.
func (t Table) Rows() int { return len(t.Values) }

// RowLen returns the number of values per chart column.
func (t Table) RowLen() int {
	if len(t.Values) == 0 {
		return 0
	}
	return len(t.Values[0])
}

// ShapeError reports a non-rectangular input.
type ShapeError struct {
	Matrix string // "values" or "labels"
	Row    int
	Want   int
	Got    int
	// Extra is set for a label row past the last values row.
	Extra bool
}

func (e *ShapeError) Error() string {
	if e.Extra {
		return fmt.Sprintf("%s: row %d has no matching values row", e.Matrix, e.Row)
	}
	if e.Want == 0 && e.Got == 0 {
		return fmt.Sprintf("%s: row %d is empty", e.Matrix, e.Row)
	}
	return fmt.Sprintf("%s: row %d has %d entries, want %d", e.Matrix, e.Row, e.Got, e.Want)
}

// UnsupportedInputError reports an input that is none of the recognized shapes.
type UnsupportedInputError struct {
	Kind string
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("unsupported input %s", e.Kind)
}

// Normalize converts in into a rectangular [Table].
//
// Errors carry [errors.ErrCodeInvalidShape] (wrapping a [*ShapeError]) when
// rows differ in length, a row is empty, or the labels of a [Matrix] do not
// match its values; and [errors.ErrCodeUnsupportedInput] (wrapping an
// [*UnsupportedInputError]) for nil or empty inputs.
func Normalize(in Input) (Table, error) {
	var t Table
	switch v := in.(type) {
	case Columns:
		t = fromColumns(v)
	case NamedColumns:
		cols := make(Columns, len(v))
		names := make([]string, len(v))
		for i, nc := range v {
			cols[i] = nc.Entries
			names[i] = nc.Name
		}
		t = fromColumns(cols)
		t.ColumnLabels = names
	case Matrix:
		t.Values = v.Values
		t.Labels = v.Labels
		if t.Labels == nil {
			t.Labels = blankLabels(v.Values)
		}
	case nil:
		return Table{}, unsupported("nil")
	default:
		return Table{}, unsupported(fmt.Sprintf("%T", in))
	}

	if len(t.Values) == 0 {
		return Table{}, unsupported("with no columns")
	}
	if err := checkRectangular(t); err != nil {
		return Table{}, err
	}
	return t, nil
}

func unsupported(kind string) error {
	return errors.Wrap(errors.ErrCodeUnsupportedInput, &UnsupportedInputError{Kind: kind}, "normalize input")
}

func fromColumns(cols Columns) Table {
	t := Table{
		Values: make([][]float64, len(cols)),
		Labels: make([][]string, len(cols)),
	}
	for i, col := range cols {
		t.Values[i] = make([]float64, len(col))
		t.Labels[i] = make([]string, len(col))
		for j, e := range col {
			t.Values[i][j] = e.Value
			t.Labels[i][j] = e.Label
		}
	}
	return t
}

func blankLabels(values [][]float64) [][]string {
	labels := make([][]string, len(values))
	for i, row := range values {
		labels[i] = make([]string, len(row))
	}
	return labels
}

func checkRectangular(t Table) error {
	want := len(t.Values[0])
	for i, row := range t.Values {
		if len(row) == 0 {
			return shapeError(&ShapeError{Matrix: "values", Row: i})
		}
		if len(row) != want {
			return shapeError(&ShapeError{Matrix: "values", Row: i, Want: want, Got: len(row)})
		}
	}
	for i, row := range t.Labels {
		if i >= len(t.Values) {
			return shapeError(&ShapeError{Matrix: "labels", Row: i, Got: len(row), Extra: true})
		}
		if len(row) != want {
			return shapeError(&ShapeError{Matrix: "labels", Row: i, Want: want, Got: len(row)})
		}
	}
	if len(t.Labels) < len(t.Values) {
		return shapeError(&ShapeError{Matrix: "labels", Row: len(t.Labels), Want: want, Got: 0})
	}
	return nil
}

func shapeError(e *ShapeError) error {
	return errors.Wrap(errors.ErrCodeInvalidShape, e, "normalize input")
}
