package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/rankplot/pkg/errors"
	"github.com/matzehuels/rankplot/pkg/rank"
)

// ReadJSON decodes a chart document from r.
//
// The shape of the document selects the input shape:
//
//	[{"John": 2, "Ali": 5}, {"John": 7, "Ali": 4}]             // rank.Columns
//	{"2010": {"John": 2, "Ali": 5}, "2011": {"John": 7}}      // rank.NamedColumns
//	[[2, 5], [7, 4]]                                          // rank.Matrix
//	{"values": [[2, 5], [7, 4]], "labels": [["J", "A"], ...]} // rank.Matrix
//
// Object keys keep their document order. Documents of any other shape fail
// with [errors.ErrCodeUnsupportedInput]; malformed JSON and non-numeric values
// fail with [errors.ErrCodeInvalidInput]. ReadJSON does not validate that the
// columns are rectangular; [rank.Normalize] does. ReadJSON does not close r.
func ReadJSON(r io.Reader) (rank.Input, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	doc, err := decodeValue(dec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
	}
	return inputFromJSON(doc)
}

// ReadTOML decodes a chart document from r.
//
// Top-level tables become [rank.NamedColumns] in document order:
//
//	[2010]
//	John = 2
//	Ali = 5
//
// An array of column tables becomes [rank.Columns], or [rank.NamedColumns] when
// every column has a name:
//
//	[[columns]]
//	name = "2010"
//	labels = ["John", "Ali"]
//	values = [2, 5]
//
// Top-level values and labels arrays become a [rank.Matrix].
func ReadTOML(r io.Reader) (rank.Input, error) {
	var raw map[string]any
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
	}

	if cols, ok := raw["columns"]; ok {
		tables, ok := cols.([]map[string]any)
		if !ok {
			return nil, unsupported("toml columns must be an array of tables")
		}
		return columnsFromTOML(tables)
	}
	if _, ok := raw["values"]; ok {
		return matrixFromAny(raw["values"], raw["labels"])
	}
	return namedFromTOML(raw, md)
}

// ImportFile reads the chart document at path. The format is chosen by the
// file extension: .json or .toml.
func ImportFile(path string) (rank.Input, error) {
	read, err := readerFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return read(f)
}

// Read decodes a document in the named format ("json" or "toml").
func Read(r io.Reader, format string) (rank.Input, error) {
	switch strings.ToLower(format) {
	case "json", "":
		return ReadJSON(r)
	case "toml":
		return ReadTOML(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", format)
}

func readerFor(path string) (func(io.Reader) (rank.Input, error), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadJSON, nil
	case ".toml":
		return ReadTOML, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported file extension %q (want .json or .toml)", filepath.Ext(path))
}

func unsupported(format string, args ...any) error {
	return errors.New(errors.ErrCodeUnsupportedInput, format, args...)
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidInput, format, args...)
}

func columnsFromTOML(tables []map[string]any) (rank.Input, error) {
	cols := make(rank.Columns, len(tables))
	names := make([]string, len(tables))
	named := len(tables) > 0
	for i, tbl := range tables {
		labels, err := toStrings(tbl["labels"])
		if err != nil {
			return nil, invalid("column %d labels: %v", i, err)
		}
		values, err := toFloats(tbl["values"])
		if err != nil {
			return nil, invalid("column %d values: %v", i, err)
		}
		if len(labels) != len(values) {
			return nil, errors.New(errors.ErrCodeInvalidShape, "column %d has %d labels and %d values", i, len(labels), len(values))
		}
		cols[i] = make(rank.Column, len(values))
		for j := range values {
			cols[i][j] = rank.Entry{Label: labels[j], Value: values[j]}
		}
		name, ok := tbl["name"].(string)
		named = named && ok
		names[i] = name
	}
	if !named {
		return cols, nil
	}
	out := make(rank.NamedColumns, len(cols))
	for i := range cols {
		out[i] = rank.NamedColumn{Name: names[i], Entries: cols[i]}
	}
	return out, nil
}

func namedFromTOML(raw map[string]any, md toml.MetaData) (rank.Input, error) {
	if len(raw) == 0 {
		return nil, unsupported("toml document has no columns")
	}
	index := make(map[string]int)
	var out rank.NamedColumns
	for _, key := range md.Keys() {
		switch len(key) {
		case 1:
			if _, ok := raw[key[0]].(map[string]any); !ok {
				return nil, unsupported("top-level key %q is not a table", key[0])
			}
			index[key[0]] = len(out)
			out = append(out, rank.NamedColumn{Name: key[0]})
		case 2:
			i, ok := index[key[0]]
			if !ok {
				continue
			}
			v, err := toFloat(raw[key[0]].(map[string]any)[key[1]])
			if err != nil {
				return nil, invalid("%s.%s: %v", key[0], key[1], err)
			}
			out[i].Entries = append(out[i].Entries, rank.Entry{Label: key[1], Value: v})
		}
	}
	return out, nil
}

func matrixFromAny(values, labels any) (rank.Input, error) {
	rows, ok := values.([]any)
	if !ok {
		return nil, unsupported("values must be an array of arrays")
	}
	m := rank.Matrix{Values: make([][]float64, len(rows))}
	for i, row := range rows {
		v, err := toFloats(row)
		if err != nil {
			return nil, invalid("values row %d: %v", i, err)
		}
		m.Values[i] = v
	}
	if labels == nil {
		return m, nil
	}
	lrows, ok := labels.([]any)
	if !ok {
		return nil, unsupported("labels must be an array of arrays")
	}
	m.Labels = make([][]string, len(lrows))
	for i, row := range lrows {
		l, err := toStrings(row)
		if err != nil {
			return nil, invalid("labels row %d: %v", i, err)
		}
		m.Labels[i] = l
	}
	return m, nil
}

func toFloats(v any) ([]float64, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("not an array")
	}
	out := make([]float64, len(arr))
	for i, x := range arr {
		f, err := toFloat(x)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

func toStrings(v any) ([]string, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("not an array")
	}
	out := make([]string, len(arr))
	for i, x := range arr {
		s, ok := x.(string)
		if !ok {
			return nil, fmt.Errorf("element %d is %T, want string", i, x)
		}
		out[i] = s
	}
	return out, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	}
	return 0, fmt.Errorf("%v is not a number", v)
}
