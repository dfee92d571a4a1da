// Package selection implements the interaction state machine of the explorer.
//
// A [Controller] tracks what is currently inspected (nothing, a node, or a
// link) together with the active highlight overlay, and is the only writer
// of either. Rendering surfaces feed it input events and read back
// [Controller.Selection], [Controller.Highlight] and [Controller.Panel].
//
// # States
//
//	Idle             + node click/drag(n) -> NodeFocused(n), highlight = neighborhood(n)
//	any              + link click(l)      -> LinkFocused(l), highlight unchanged
//	any              + dismiss            -> Idle, highlight cleared
//	any              + search hit(n)      -> as node click, then camera move
//	any              + search miss        -> unchanged, user notified
//
// Link clicks keep the node highlight so the neighborhood stays visible
// while an edge is inspected.
//
// # Concurrency
//
// A Controller is not safe for concurrent use. Each handler runs to
// completion; callers serving several goroutines serialize access.
package selection

import (
	"github.com/matzehuels/kgview/pkg/graph"
)

// Kind tags a Selection.
type Kind int

const (
	KindNone Kind = iota
	KindNode
	KindLink
)

// String returns "none", "node", "link", or "invalid".
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNode:
		return "node"
	case KindLink:
		return "link"
	}
	return "invalid"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "", "none":
		return KindNone, true
	case "node":
		return KindNode, true
	case "link":
		return KindLink, true
	}
	return 0, false
}

// Selection is the single entity shown in the inspector.
type Selection struct {
	kind Kind
	node *graph.Node
	link *graph.Link
}

// None is the idle selection.
func None() Selection { return Selection{} }

// OfNode selects n.
func OfNode(n *graph.Node) Selection { return Selection{kind: KindNode, node: n} }

// OfLink selects l.
func OfLink(l *graph.Link) Selection { return Selection{kind: KindLink, link: l} }

// Kind returns the selection tag.
func (s Selection) Kind() Kind { return s.kind }

// Node returns the selected node when the selection is a node.
func (s Selection) Node() (*graph.Node, bool) {
	return s.node, s.kind == KindNode && s.node != nil
}

// Link returns the selected link when the selection is a link.
func (s Selection) Link() (*graph.Link, bool) {
	return s.link, s.kind == KindLink && s.link != nil
}

// IsNone reports whether nothing is selected.
func (s Selection) IsNone() bool { return s.kind == KindNone }

// Valid reports whether the tag and payload agree.
func (s Selection) Valid() bool {
	switch s.kind {
	case KindNone:
		return true
	case KindNode:
		return s.node != nil
	case KindLink:
		return s.link != nil
	}
	return false
}

// ID returns the node id, "source->target" for links, or "" when idle.
func (s Selection) ID() string {
	if n, ok := s.Node(); ok {
		return n.ID
	}
	if l, ok := s.Link(); ok {
		return graph.EndpointID(l, graph.SourceEnd) + "->" + graph.EndpointID(l, graph.TargetEnd)
	}
	return ""
}
