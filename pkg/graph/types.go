package graph

import "encoding/json"

// Base colors assigned at load time.
const (
	DefaultNodeColor = "#4682B4" // soft blue
	DefaultLinkColor = "#cce5f6" // pale blue
)

// Colors selects the base colors [Parse] assigns to nodes and links.
// Empty fields fall back to the package defaults.
type Colors struct {
	Node string
	Link string
}

// DefaultColors returns the stock node and link colors.
func DefaultColors() Colors {
	return Colors{Node: DefaultNodeColor, Link: DefaultLinkColor}
}

func (c Colors) withDefaults() Colors {
	if c.Node == "" {
		c.Node = DefaultNodeColor
	}
	if c.Link == "" {
		c.Link = DefaultLinkColor
	}
	return c
}

// =============================================================================
// Node
// =============================================================================

// Node is a single entity in the knowledge graph.
type Node struct {
	ID    string
	Group string

	// X and Y belong to the layout engine. The explorer only reads them.
	X, Y       float64
	positioned bool

	originalColor string

	// Extra holds dataset fields the explorer does not interpret.
	Extra map[string]json.RawMessage
}

// OriginalColor returns the base color assigned when the graph was loaded.
func (n *Node) OriginalColor() string { return n.originalColor }

// SetPosition records layout coordinates. Only the layout owner calls this.
func (n *Node) SetPosition(x, y float64) {
	n.X, n.Y = x, y
	n.positioned = true
}

// Positioned reports whether the layout engine has placed the node.
func (n *Node) Positioned() bool { return n.positioned }

// =============================================================================
// Link
// =============================================================================

// End names one side of a link.
type End int

const (
	SourceEnd End = iota
	TargetEnd
)

// String returns "source" or "target".
func (e End) String() string {
	if e == TargetEnd {
		return "target"
	}
	return "source"
}

// Endpoint is one side of a link. It starts as a raw node id and may later be
// bound to the node object by the layout engine.
type Endpoint struct {
	raw  string
	node *Node
}

// RawEndpoint returns an unbound endpoint referring to id.
func RawEndpoint(id string) Endpoint { return Endpoint{raw: id} }

// NodeEndpoint returns an endpoint bound to n.
func NodeEndpoint(n *Node) Endpoint { return Endpoint{raw: n.ID, node: n} }

// ID returns the node id, whichever representation is present.
func (e Endpoint) ID() string {
	if e.node != nil {
		return e.node.ID
	}
	return e.raw
}

// Node returns the bound node, if any.
func (e Endpoint) Node() (*Node, bool) { return e.node, e.node != nil }

// Bound reports whether the endpoint references a node object.
func (e Endpoint) Bound() bool { return e.node != nil }

// Link connects two nodes.
type Link struct {
	Source Endpoint
	Target Endpoint
	Label  string

	originalColor string

	// Extra holds dataset fields the explorer does not interpret.
	Extra map[string]json.RawMessage
}

// OriginalColor returns the base color assigned when the graph was loaded.
func (l *Link) OriginalColor() string { return l.originalColor }

// Endpoint returns the requested side of the link.
func (l *Link) Endpoint(end End) Endpoint {
	if end == TargetEnd {
		return l.Target
	}
	return l.Source
}

// Bind replaces both endpoints with node references. This is the in-place
// mutation a layout engine performs after its first tick. A nil node leaves
// that side unchanged.
func (l *Link) Bind(source, target *Node) {
	if source != nil {
		l.Source = NodeEndpoint(source)
	}
	if target != nil {
		l.Target = NodeEndpoint(target)
	}
}

// EndpointID returns the id at the given end of l regardless of whether the
// endpoint is a raw id or a bound node.
func EndpointID(l *Link, end End) string {
	return l.Endpoint(end).ID()
}

// =============================================================================
// Graph
// =============================================================================

// Graph is an immutable-shape collection of nodes and links.
type Graph struct {
	Nodes []*Node
	Links []*Link

	// Extra holds top-level document fields other than nodes and links.
	Extra map[string]json.RawMessage

	byID      map[string]*Node
	linkIndex map[*Link]int
}

// New builds a graph from nodes and links and assigns base colors.
// When ids repeat, lookups resolve to the first node in sequence order.
func New(nodes []*Node, links []*Link, colors Colors) *Graph {
	colors = colors.withDefaults()
	g := &Graph{
		Nodes:     nodes,
		Links:     links,
		byID:      make(map[string]*Node, len(nodes)),
		linkIndex: make(map[*Link]int, len(links)),
	}
	for _, n := range nodes {
		n.originalColor = colors.Node
		if _, dup := g.byID[n.ID]; !dup {
			g.byID[n.ID] = n
		}
	}
	for i, l := range links {
		l.originalColor = colors.Link
		g.linkIndex[l] = i
	}
	return g
}

// Node returns the first node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// IndexOf returns the arena index of l. Links are compared by identity.
func (g *Graph) IndexOf(l *Link) (int, bool) {
	i, ok := g.linkIndex[l]
	return i, ok
}

// LinkAt returns the link stored at arena index i.
func (g *Graph) LinkAt(i int) (*Link, bool) {
	if i < 0 || i >= len(g.Links) {
		return nil, false
	}
	return g.Links[i], true
}

// BindEndpoints binds every raw endpoint whose id resolves to a node and
// returns the number of endpoints bound. Unresolvable ids stay raw.
func (g *Graph) BindEndpoints() int {
	bound := 0
	for _, l := range g.Links {
		for _, end := range []End{SourceEnd, TargetEnd} {
			if l.Endpoint(end).Bound() {
				continue
			}
			n, ok := g.Node(EndpointID(l, end))
			if !ok {
				continue
			}
			if end == SourceEnd {
				l.Bind(n, nil)
			} else {
				l.Bind(nil, n)
			}
			bound++
		}
	}
	return bound
}
