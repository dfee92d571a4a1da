// Package nodelink renders a highlighted knowledge graph as a static
// node-link diagram.
//
// The interactive adapters draw the graph themselves; this package produces
// a shareable snapshot of the same view. Every color goes through a
// view.Resolver with the current highlight.Set, so the snapshot shows
// exactly what the explorer shows.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, ctrl.Highlight(), resolver, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Zoom: applies the label thresholds as if viewed at that magnification
//   - FocusOnly: keeps only the highlighted neighborhood
//   - Engine: "dot" for a layered layout, "neato" to honor layout positions
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
