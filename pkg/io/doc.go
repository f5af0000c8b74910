// Package io reads and writes chart documents.
//
// # Overview
//
// A chart document holds the data of a bump chart in one of the shapes
// accepted by [rank.Normalize]. Documents are JSON or TOML files, typically
// passed to the rankplot CLI or posted to its HTTP API.
//
// # JSON Format
//
// The top-level structure selects the shape:
//
//	[{"John": 2, "Ali": 5}, {"John": 7, "Ali": 4}]
//
// is one object per column ([rank.Columns]),
//
//	{"2010": {"John": 2, "Ali": 5}, "2011": {"John": 7, "Ali": 4}}
//
// names the columns ([rank.NamedColumns]), and
//
//	{"values": [[2, 5], [7, 4]], "labels": [["John", "Ali"], ["John", "Ali"]]}
//
// is a raw matrix ([rank.Matrix]); the labels member is optional and a bare
// array of arrays is accepted too. Object keys keep their document order,
// which matters because entries with equal values are ranked by position.
//
// # TOML Format
//
// Top-level tables are named columns. For labels that are awkward as keys,
// use an array of column tables with parallel labels and values arrays.
// Top-level values and labels arrays form a matrix. See [ReadTOML].
//
// # Import and Export
//
// Use [ImportFile] to read a document from a path (the extension picks the
// format), or [ReadJSON] and [ReadTOML] to read from any io.Reader:
//
//	in, err := io.ImportFile("cities.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// [WriteJSON] and [ExportJSON] write an input back in the JSON shape that
// matches it, so documents round-trip.
//
// [rank.Normalize]: github.com/matzehuels/rankplot/pkg/rank.Normalize
package io
