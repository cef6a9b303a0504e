// Package graph draws the ownership hierarchy of a package as a node-link
// diagram.
//
// # Usage
//
// Convert a package to DOT, then render to SVG:
//
//	dot := graph.ToDOT(pkg, graph.Options{Highlight: []asset.Reference{res.Root}})
//	svg, err := graph.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Imports: draw imports, their outer chains and class edges
//   - Detailed: add class and export kind to labels
//   - Highlight: fill the subtree under the given exports, e.g. the root of a
//     freshly transplanted actor
//
// # DOT Format
//
// The generated DOT uses left-to-right layout (rankdir=LR) with rounded box
// nodes. Exports are named "e<index>" and imports "i<index>", using the
// zero-based table positions, so the DOT source can be post-processed with
// external Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package graph
