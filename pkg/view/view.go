// Package view resolves display decisions for a rendering surface.
//
// A rendering surface asks a [Resolver] for colors and label visibility on
// every redraw. Nothing here is cached and nothing is written back to the
// graph: the highlight overlay is applied at read time, so a node's
// OriginalColor is unchanged however often it is drawn highlighted.
package view

import (
	"time"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/highlight"
)

// Stock display settings.
const (
	DefaultHighlightColor = "#2a4d6f"
	DefaultNodeLabelZoom  = 1.5
	DefaultLinkLabelZoom  = 2.0
	DefaultSearchZoom     = 4.0
	DefaultSearchDuration = 1000 * time.Millisecond
)

// Palette holds the overlay color. Base colors live on the graph itself.
type Palette struct {
	Highlight string
}

// DefaultPalette returns the stock overlay color.
func DefaultPalette() Palette {
	return Palette{Highlight: DefaultHighlightColor}
}

// LabelThresholds are the minimum magnifications at which labels are painted.
type LabelThresholds struct {
	Node float64
	Link float64
}

// DefaultLabelThresholds returns the stock thresholds.
func DefaultLabelThresholds() LabelThresholds {
	return LabelThresholds{Node: DefaultNodeLabelZoom, Link: DefaultLinkLabelZoom}
}

// Resolver answers the per-redraw color and label queries.
type Resolver struct {
	Palette Palette
	Labels  LabelThresholds
}

// NewResolver returns a resolver with stock settings.
func NewResolver() Resolver {
	return Resolver{Palette: DefaultPalette(), Labels: DefaultLabelThresholds()}
}

// NodeColor returns the highlight color when n is in h, otherwise n's base color.
func (r Resolver) NodeColor(h highlight.Set, n *graph.Node) string {
	if h.HasNode(n.ID) {
		return r.highlightColor()
	}
	return n.OriginalColor()
}

// LinkColor returns the highlight color when l itself is in h, otherwise
// l's base color.
func (r Resolver) LinkColor(h highlight.Set, l *graph.Link) string {
	if h.HasLink(l) {
		return r.highlightColor()
	}
	return l.OriginalColor()
}

// NodeLabelVisible reports whether node labels are painted at zoom.
func (r Resolver) NodeLabelVisible(zoom float64) bool {
	return zoom >= r.Labels.Node
}

// LinkLabelVisible reports whether l's label is painted at zoom. Links
// without a label never paint one.
func (r Resolver) LinkLabelVisible(zoom float64, l *graph.Link) bool {
	return l.Label != "" && zoom >= r.Labels.Link
}

func (r Resolver) highlightColor() string {
	if r.Palette.Highlight == "" {
		return DefaultHighlightColor
	}
	return r.Palette.Highlight
}

// LinkMidpoint returns the point halfway between l's endpoints, where a link
// label is drawn. It reports false until both endpoints are bound to nodes.
func LinkMidpoint(l *graph.Link) (x, y float64, ok bool) {
	src, sok := l.Source.Node()
	tgt, tok := l.Target.Node()
	if !sok || !tok {
		return 0, 0, false
	}
	return (src.X + tgt.X) / 2, (src.Y + tgt.Y) / 2, true
}
