// Package highlight computes the one-hop neighborhood of a focal node.
//
// A [Set] is derived state: it is rebuilt from scratch by [Compute] whenever
// the focal node changes and is never patched in place. The zero Set means no
// highlighting is active.
//
// Links are members by identity. Two links with the same endpoints and label
// are still distinct, which is why the link half of a Set is keyed by
// *graph.Link rather than by value.
package highlight

import (
	"sort"

	"github.com/matzehuels/kgview/pkg/graph"
)

// Set is an immutable highlight overlay.
type Set struct {
	nodes map[string]struct{}
	links map[*graph.Link]struct{}
}

// Compute scans every link of g and returns the neighborhood of focal: the
// focal id, every link incident to it, and the ids at both ends of those
// links. Endpoints are read through graph.EndpointID, so the result does not
// depend on whether links have been bound yet.
//
// A nil focal or graph yields the empty set.
func Compute(focal *graph.Node, g *graph.Graph) Set {
	if focal == nil || g == nil {
		return Set{}
	}
	s := Set{
		nodes: map[string]struct{}{focal.ID: {}},
		links: make(map[*graph.Link]struct{}),
	}
	for _, l := range g.Links {
		src := graph.EndpointID(l, graph.SourceEnd)
		tgt := graph.EndpointID(l, graph.TargetEnd)
		if src != focal.ID && tgt != focal.ID {
			continue
		}
		s.nodes[src] = struct{}{}
		s.nodes[tgt] = struct{}{}
		s.links[l] = struct{}{}
	}
	return s
}

// FromParts rebuilds a set from previously captured members. It is used to
// restore persisted view state and performs no graph scan.
func FromParts(nodeIDs []string, links []*graph.Link) Set {
	if len(nodeIDs) == 0 && len(links) == 0 {
		return Set{}
	}
	s := Set{
		nodes: make(map[string]struct{}, len(nodeIDs)),
		links: make(map[*graph.Link]struct{}, len(links)),
	}
	for _, id := range nodeIDs {
		s.nodes[id] = struct{}{}
	}
	for _, l := range links {
		if l != nil {
			s.links[l] = struct{}{}
		}
	}
	return s
}

// HasNode reports whether id is highlighted.
func (s Set) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// HasLink reports whether l itself (not an equal link) is highlighted.
func (s Set) HasLink(l *graph.Link) bool {
	_, ok := s.links[l]
	return ok
}

// Empty reports whether no highlighting is active.
func (s Set) Empty() bool { return len(s.nodes) == 0 && len(s.links) == 0 }

// NodeCount returns the number of highlighted ids.
func (s Set) NodeCount() int { return len(s.nodes) }

// LinkCount returns the number of highlighted links.
func (s Set) LinkCount() int { return len(s.links) }

// NodeIDs returns the highlighted ids in sorted order.
func (s Set) NodeIDs() []string {
	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Links returns the highlighted links ordered by their position in g.
// Links that g does not contain are omitted.
func (s Set) Links(g *graph.Graph) []*graph.Link {
	if g == nil || len(s.links) == 0 {
		return nil
	}
	out := make([]*graph.Link, 0, len(s.links))
	for _, l := range g.Links {
		if _, ok := s.links[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Same reports whether s and o hold exactly the same members.
func (s Set) Same(o Set) bool {
	if len(s.nodes) != len(o.nodes) || len(s.links) != len(o.links) {
		return false
	}
	for id := range s.nodes {
		if _, ok := o.nodes[id]; !ok {
			return false
		}
	}
	for l := range s.links {
		if _, ok := o.links[l]; !ok {
			return false
		}
	}
	return true
}
