package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/rankplot/pkg/errors"
	"github.com/matzehuels/rankplot/pkg/rank"
)

// WriteJSON encodes in as a JSON document and writes it to w.
// The output uses the shape matching in and keeps entry order, so it can be
// re-imported with [ReadJSON] to the same input.
func WriteJSON(in rank.Input, w io.Writer) error {
	var buf bytes.Buffer
	switch v := in.(type) {
	case rank.Columns:
		buf.WriteByte('[')
		for i, col := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeColumn(&buf, col)
		}
		buf.WriteByte(']')
	case rank.NamedColumns:
		buf.WriteByte('{')
		for i, nc := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeKey(&buf, nc.Name)
			writeColumn(&buf, nc.Entries)
		}
		buf.WriteByte('}')
	case rank.Matrix:
		data, err := json.Marshal(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode matrix")
		}
		buf.Write(data)
	default:
		return errors.New(errors.ErrCodeUnsupportedInput, "cannot encode %T", in)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode json")
	}
	out.WriteByte('\n')
	if _, err := w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportJSON writes in as a JSON document to the file at path.
func ExportJSON(in rank.Input, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(in, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeColumn(buf *bytes.Buffer, col rank.Column) {
	buf.WriteByte('{')
	for i, e := range col {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeKey(buf, e.Label)
		data, _ := json.Marshal(e.Value)
		buf.Write(data)
	}
	buf.WriteByte('}')
}

func writeKey(buf *bytes.Buffer, key string) {
	data, _ := json.Marshal(key)
	buf.Write(data)
	buf.WriteByte(':')
}
