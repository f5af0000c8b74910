package io

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/rankplot/pkg/rank"
)

// value is a decoded JSON value that keeps object keys in document order.
type value struct {
	object  []member
	array   []value
	scalar  any
	isObj   bool
	isArray bool
}

type member struct {
	key string
	val value
}

func (v value) member(key string) (value, bool) {
	for _, m := range v.object {
		if m.key == key {
			return m.val, true
		}
	}
	return value{}, false
}

// decodeValue reads one JSON value token by token.
func decodeValue(dec *json.Decoder) (value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value{}, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return value{scalar: tok}, nil
	}

	switch delim {
	case '{':
		v := value{isObj: true}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return value{}, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return value{}, fmt.Errorf("object key %v is not a string", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return value{}, err
			}
			v.object = append(v.object, member{key: key, val: val})
		}
		if _, err := dec.Token(); err != nil {
			return value{}, err
		}
		return v, nil
	case '[':
		v := value{isArray: true}
		for dec.More() {
			elem, err := decodeValue(dec)
			if err != nil {
				return value{}, err
			}
			v.array = append(v.array, elem)
		}
		if _, err := dec.Token(); err != nil {
			return value{}, err
		}
		return v, nil
	}
	return value{}, fmt.Errorf("unexpected delimiter %v", delim)
}

// inputFromJSON picks the input shape of a decoded document.
func inputFromJSON(doc value) (rank.Input, error) {
	switch {
	case doc.isArray:
		return inputFromArray(doc.array)
	case doc.isObj:
		if vals, ok := doc.member("values"); ok && vals.isArray {
			labels, hasLabels := doc.member("labels")
			var anyLabels any
			if hasLabels && labels.isArray {
				anyLabels = labels.plain()
			}
			return matrixFromAny(vals.plain(), anyLabels)
		}
		return namedFromJSON(doc.object)
	}
	return nil, unsupported("document is a %T, want an array or object", doc.scalar)
}

func inputFromArray(elems []value) (rank.Input, error) {
	if len(elems) == 0 {
		return nil, unsupported("document has no columns")
	}
	switch {
	case all(elems, func(v value) bool { return v.isObj }):
		cols := make(rank.Columns, len(elems))
		for i, e := range elems {
			col, err := columnFromObject(e.object)
			if err != nil {
				return nil, invalid("column %d: %v", i, err)
			}
			cols[i] = col
		}
		return cols, nil
	case all(elems, func(v value) bool { return v.isArray }):
		plain := make([]any, len(elems))
		for i, e := range elems {
			plain[i] = e.plain()
		}
		return matrixFromAny(plain, nil)
	}
	return nil, unsupported("array elements must all be objects or all be arrays")
}

func namedFromJSON(members []member) (rank.Input, error) {
	if len(members) == 0 {
		return nil, unsupported("document has no columns")
	}
	out := make(rank.NamedColumns, len(members))
	for i, m := range members {
		if !m.val.isObj {
			return nil, unsupported("column %q is not an object", m.key)
		}
		col, err := columnFromObject(m.val.object)
		if err != nil {
			return nil, invalid("column %q: %v", m.key, err)
		}
		out[i] = rank.NamedColumn{Name: m.key, Entries: col}
	}
	return out, nil
}

func columnFromObject(members []member) (rank.Column, error) {
	col := make(rank.Column, len(members))
	for i, m := range members {
		v, err := toFloat(m.val.scalar)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", m.key, err)
		}
		col[i] = rank.Entry{Label: m.key, Value: v}
	}
	return col, nil
}

// plain converts arrays and scalars to the []any form shared with TOML.
// Objects become nil.
func (v value) plain() any {
	switch {
	case v.isArray:
		out := make([]any, len(v.array))
		for i, e := range v.array {
			out[i] = e.plain()
		}
		return out
	case v.isObj:
		return nil
	}
	return v.scalar
}

func all(vs []value, pred func(value) bool) bool {
	for _, v := range vs {
		if !pred(v) {
			return false
		}
	}
	return true
}
