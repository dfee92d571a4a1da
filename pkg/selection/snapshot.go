package selection

import (
	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/highlight"
)

// Snapshot is a serializable copy of the view state. Nodes are referenced
// by id and links by their index in the graph.
type Snapshot struct {
	Kind           string   `json:"kind"`
	Node           string   `json:"node,omitempty"`
	Link           *int     `json:"link,omitempty"`
	HighlightNodes []string `json:"highlightNodes,omitempty"`
	HighlightLinks []int    `json:"highlightLinks,omitempty"`
}

// Snapshot captures the current selection and highlight.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{Kind: c.sel.Kind().String()}
	g, ok := c.store.Graph()
	if !ok {
		return snap
	}
	if n, ok := c.sel.Node(); ok {
		snap.Node = n.ID
	}
	if l, ok := c.sel.Link(); ok {
		if i, ok := g.IndexOf(l); ok {
			snap.Link = &i
		}
	}
	if !c.hl.Empty() {
		snap.HighlightNodes = c.hl.NodeIDs()
		for _, l := range c.hl.Links(g) {
			i, _ := g.IndexOf(l)
			snap.HighlightLinks = append(snap.HighlightLinks, i)
		}
	}
	return snap
}

// Restore replaces the view state with snap. References that do not resolve
// against the loaded graph fail with MALFORMED_SELECTION and leave the state
// untouched.
func (c *Controller) Restore(snap Snapshot) error {
	g, ok := c.store.Graph()
	if !ok {
		return kgerrors.New(kgerrors.ErrCodeNotLoaded, "graph not loaded")
	}

	kind, ok := ParseKind(snap.Kind)
	if !ok {
		return kgerrors.New(kgerrors.ErrCodeMalformedSelection, "unknown selection kind %q", snap.Kind)
	}

	var sel Selection
	switch kind {
	case KindNone:
		sel = None()
	case KindNode:
		n, ok := g.Node(snap.Node)
		if !ok {
			return kgerrors.New(kgerrors.ErrCodeMalformedSelection, "unknown node %q", snap.Node)
		}
		sel = OfNode(n)
	case KindLink:
		if snap.Link == nil {
			return kgerrors.New(kgerrors.ErrCodeMalformedSelection, "link selection without index")
		}
		l, ok := g.LinkAt(*snap.Link)
		if !ok {
			return kgerrors.New(kgerrors.ErrCodeMalformedSelection, "link index %d out of range", *snap.Link)
		}
		sel = OfLink(l)
	}

	links := make([]*graph.Link, 0, len(snap.HighlightLinks))
	for _, i := range snap.HighlightLinks {
		l, ok := g.LinkAt(i)
		if !ok {
			return kgerrors.New(kgerrors.ErrCodeMalformedSelection, "highlight link index %d out of range", i)
		}
		links = append(links, l)
	}

	c.sel = sel
	c.hl = highlight.FromParts(snap.HighlightNodes, links)
	return nil
}
