package highlight

import (
	"fmt"
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/kgview/pkg/graph"
)

func abc(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Parse([]byte(`{
		"nodes": [{"id": "A"}, {"id": "B"}, {"id": "C"}],
		"links": [
			{"source": "A", "target": "B", "label": "knows"},
			{"source": "B", "target": "C", "label": "owns"}
		]
	}`), graph.DefaultColors())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return g
}

func TestCompute(t *testing.T) {
	g := abc(t)
	a, b, c := g.Nodes[0], g.Nodes[1], g.Nodes[2]
	ab, bc := g.Links[0], g.Links[1]

	tests := []struct {
		name      string
		focal     *graph.Node
		wantNodes []string
		wantLinks []*graph.Link
	}{
		{"Leaf", a, []string{"A", "B"}, []*graph.Link{ab}},
		{"Middle", b, []string{"A", "B", "C"}, []*graph.Link{ab, bc}},
		{"OtherLeaf", c, []string{"B", "C"}, []*graph.Link{bc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compute(tt.focal, g)
			if got := s.NodeIDs(); !reflect.DeepEqual(got, tt.wantNodes) {
				t.Errorf("nodes = %v, want %v", got, tt.wantNodes)
			}
			if got := s.Links(g); !reflect.DeepEqual(got, tt.wantLinks) {
				t.Errorf("links = %v, want %v", got, tt.wantLinks)
			}
		})
	}
}

func TestComputeIsolatedNode(t *testing.T) {
	g := graph.New([]*graph.Node{{ID: "lonely"}}, nil, graph.DefaultColors())
	s := Compute(g.Nodes[0], g)
	if !s.HasNode("lonely") || s.NodeCount() != 1 || s.LinkCount() != 0 {
		t.Errorf("isolated focal should highlight only itself, got %v", s.NodeIDs())
	}
}

func TestComputeSelfLoopAndDangling(t *testing.T) {
	g, err := graph.Parse([]byte(`{
		"nodes": [{"id": "x"}],
		"links": [{"source": "x", "target": "x"}, {"source": "x", "target": "ghost"}]
	}`), graph.DefaultColors())
	if err != nil {
		t.Fatal(err)
	}
	s := Compute(g.Nodes[0], g)
	if got := s.NodeIDs(); !reflect.DeepEqual(got, []string{"ghost", "x"}) {
		t.Errorf("nodes = %v", got)
	}
	if s.LinkCount() != 2 {
		t.Errorf("links = %d, want 2", s.LinkCount())
	}
}

func TestComputeNil(t *testing.T) {
	g := abc(t)
	if !Compute(nil, g).Empty() {
		t.Error("nil focal should give the empty set")
	}
	if !Compute(g.Nodes[0], nil).Empty() {
		t.Error("nil graph should give the empty set")
	}
}

func TestLinkIdentity(t *testing.T) {
	g := abc(t)
	s := Compute(g.Nodes[0], g)
	twin := &graph.Link{Source: graph.RawEndpoint("A"), Target: graph.RawEndpoint("B"), Label: "knows"}
	if s.HasLink(twin) {
		t.Error("structurally equal link must not be a member")
	}
	if !s.HasLink(g.Links[0]) {
		t.Error("incident link should be a member")
	}
}

func TestFromParts(t *testing.T) {
	g := abc(t)
	orig := Compute(g.Nodes[0], g)
	restored := FromParts(orig.NodeIDs(), orig.Links(g))
	if !restored.Same(orig) {
		t.Error("restored set differs")
	}
	if !FromParts(nil, nil).Empty() {
		t.Error("no parts should give the empty set")
	}
	if orig.Same(Compute(g.Nodes[1], g)) {
		t.Error("different focal nodes should differ")
	}
}

// =============================================================================
// Properties
// =============================================================================

// drawGraph generates a graph with up to 12 nodes and 30 links. Some links
// reference ids missing from the node list.
func drawGraph(t *rapid.T) *graph.Graph {
	n := rapid.IntRange(1, 12).Draw(t, "nodes")
	nodes := make([]*graph.Node, n)
	for i := range nodes {
		nodes[i] = &graph.Node{ID: fmt.Sprintf("n%d", i)}
	}
	m := rapid.IntRange(0, 30).Draw(t, "links")
	links := make([]*graph.Link, m)
	for i := range links {
		src := rapid.IntRange(0, n).Draw(t, "src")
		tgt := rapid.IntRange(0, n).Draw(t, "tgt")
		links[i] = &graph.Link{
			Source: graph.RawEndpoint(fmt.Sprintf("n%d", src)),
			Target: graph.RawEndpoint(fmt.Sprintf("n%d", tgt)),
		}
	}
	return graph.New(nodes, links, graph.DefaultColors())
}

func TestPropertyNeighborhood(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := drawGraph(t)
		focal := g.Nodes[rapid.IntRange(0, len(g.Nodes)-1).Draw(t, "focal")]

		want := map[string]bool{focal.ID: true}
		for _, l := range g.Links {
			src, tgt := graph.EndpointID(l, graph.SourceEnd), graph.EndpointID(l, graph.TargetEnd)
			if src == focal.ID {
				want[tgt] = true
			}
			if tgt == focal.ID {
				want[src] = true
			}
		}

		s := Compute(focal, g)
		if s.NodeCount() != len(want) {
			t.Fatalf("got %v, want %v", s.NodeIDs(), want)
		}
		for id := range want {
			if !s.HasNode(id) {
				t.Fatalf("missing %s", id)
			}
		}
		for _, l := range g.Links {
			incident := graph.EndpointID(l, graph.SourceEnd) == focal.ID || graph.EndpointID(l, graph.TargetEnd) == focal.ID
			if s.HasLink(l) != incident {
				t.Fatalf("link %s-%s membership = %v, want %v",
					graph.EndpointID(l, graph.SourceEnd), graph.EndpointID(l, graph.TargetEnd), s.HasLink(l), incident)
			}
		}
	})
}

func TestPropertyEndpointDuality(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := drawGraph(t)
		focal := g.Nodes[rapid.IntRange(0, len(g.Nodes)-1).Draw(t, "focal")]

		before := Compute(focal, g)
		g.BindEndpoints()
		after := Compute(focal, g)

		if !before.Same(after) {
			t.Fatalf("raw %v != bound %v", before.NodeIDs(), after.NodeIDs())
		}
	})
}
