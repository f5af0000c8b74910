// Package rank draws stacked-rank ("bump") charts.
//
// # Overview
//
// A bump chart shows several ordered columns, for example years, each holding a
// vertical stack of rectangles. Rectangle heights are proportional to the
// values of that column and stacks are sorted from the largest value down.
// Every rectangle carries a category label and a color derived from it, which
// makes a category's rank easy to follow from one column to the next.
//
// # Pipeline
//
// [Plot] runs four steps:
//
//  1. [Normalize] turns one of the accepted input shapes into a [Table].
//  2. [ComputeLayout] sorts every column and positions the rectangles.
//  3. [ResolveColors] maps labels to colors.
//  4. The renderer draws rectangles, labels and values onto a [Surface],
//     measuring labels to decide whether they fit.
//
// # Input Shapes
//
//	rank.Columns{{{"John", 2}, {"Ali", 5}}}               // one mapping per column
//	rank.NamedColumns{{Name: "2010", Entries: ...}}       // column labels from names
//	rank.Matrix{Values: [][]float64{{2, 5}}}              // raw values, optional labels
//
// # Surfaces
//
// A [Surface] is anything that can hold rectangles and text in data
// coordinates and measure rendered text. The canvas package provides a figure
// backed by real font metrics that the sink package can export.
//
//	fig := canvas.NewFigure()
//	if _, err := rank.Plot(fig, data, rank.Options{}); err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(fig.Scene())
package rank
