package graph

import (
	"encoding/json"
	"strings"
	"testing"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
)

const sampleDataset = `{
  "nodes": [
    {"id": "A", "group": "person", "description": "first"},
    {"id": "B"},
    {"id": "C", "x": 10, "y": -4}
  ],
  "links": [
    {"source": "A", "target": "B", "label": "knows", "weight": 3},
    {"source": {"id": "B"}, "target": "C", "label": "owns"}
  ],
  "directed": true
}`

func mustParse(t *testing.T, data string) *Graph {
	t.Helper()
	g, err := Parse([]byte(data), DefaultColors())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return g
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantNodes int
		wantLinks int
		wantErr   bool
	}{
		{"Sample", sampleDataset, 3, 2, false},
		{"Empty", `{"nodes": [], "links": []}`, 0, 0, false},
		{"NumericIDs", `{"nodes": [{"id": 1}, {"id": 2}], "links": [{"source": 1, "target": 2}]}`, 2, 1, false},
		{"DanglingEndpointAccepted", `{"nodes": [{"id": "a"}], "links": [{"source": "a", "target": "zz"}]}`, 1, 1, false},

		{"InvalidJSON", `{"nodes": [`, 0, 0, true},
		{"NotAnObject", `[1, 2, 3]`, 0, 0, true},
		{"Null", `null`, 0, 0, true},
		{"MissingNodes", `{"links": []}`, 0, 0, true},
		{"MissingLinks", `{"nodes": []}`, 0, 0, true},
		{"NodesNotArray", `{"nodes": {}, "links": []}`, 0, 0, true},
		{"LinksNull", `{"nodes": [], "links": null}`, 0, 0, true},
		{"NodeWithoutID", `{"nodes": [{"group": "x"}], "links": []}`, 0, 0, true},
		{"NodeIDIsObject", `{"nodes": [{"id": {"a": 1}}], "links": []}`, 0, 0, true},
		{"NullNode", `{"nodes": [null], "links": []}`, 0, 0, true},
		{"LinkWithoutTarget", `{"nodes": [{"id": "a"}], "links": [{"source": "a"}]}`, 0, 0, true},
		{"NodeIsString", `{"nodes": ["a"], "links": []}`, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse([]byte(tt.data), DefaultColors())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !kgerrors.Is(err, kgerrors.ErrCodeMalformedPayload) {
					t.Errorf("code = %v, want %v", kgerrors.GetCode(err), kgerrors.ErrCodeMalformedPayload)
				}
				if g != nil {
					t.Error("no graph should be returned on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := len(g.Nodes); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := len(g.Links); got != tt.wantLinks {
				t.Errorf("links = %d, want %d", got, tt.wantLinks)
			}
		})
	}
}

func TestParseFields(t *testing.T) {
	g := mustParse(t, sampleDataset)

	a := g.Nodes[0]
	if a.ID != "A" || a.Group != "person" {
		t.Errorf("node A = %+v", a)
	}
	if string(a.Extra["description"]) != `"first"` {
		t.Errorf("description extra = %s", a.Extra["description"])
	}
	if a.Positioned() {
		t.Error("A should not be positioned")
	}

	c := g.Nodes[2]
	if !c.Positioned() || c.X != 10 || c.Y != -4 {
		t.Errorf("C position = (%v, %v) positioned=%v", c.X, c.Y, c.Positioned())
	}

	l := g.Links[0]
	if l.Label != "knows" {
		t.Errorf("label = %q, want knows", l.Label)
	}
	if string(l.Extra["weight"]) != "3" {
		t.Errorf("weight extra = %s", l.Extra["weight"])
	}
	if got := EndpointID(g.Links[1], SourceEnd); got != "B" {
		t.Errorf("object endpoint id = %q, want B", got)
	}
	if g.Links[1].Source.Bound() {
		t.Error("decoded endpoints must start unbound")
	}
	if string(g.Extra["directed"]) != "true" {
		t.Errorf("document extra = %s", g.Extra["directed"])
	}
}

func TestParseAssignsColors(t *testing.T) {
	g := mustParse(t, `{"nodes": [{"id": "a", "originalColor": "#000"}], "links": [{"source": "a", "target": "a", "originalColor": "#111"}]}`)
	if got := g.Nodes[0].OriginalColor(); got != DefaultNodeColor {
		t.Errorf("node color = %q, want %q", got, DefaultNodeColor)
	}
	if got := g.Links[0].OriginalColor(); got != DefaultLinkColor {
		t.Errorf("link color = %q, want %q", got, DefaultLinkColor)
	}

	custom, err := Parse([]byte(`{"nodes": [{"id": "a"}], "links": []}`), Colors{Node: "#abcdef"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := custom.Nodes[0].OriginalColor(); got != "#abcdef" {
		t.Errorf("custom node color = %q", got)
	}
}

func TestEndpointDuality(t *testing.T) {
	a := &Node{ID: "A"}
	b := &Node{ID: "B"}

	raw := &Link{Source: RawEndpoint("A"), Target: RawEndpoint("B")}
	bound := &Link{Source: NodeEndpoint(a), Target: NodeEndpoint(b)}
	mixed := &Link{Source: NodeEndpoint(a), Target: RawEndpoint("B")}

	for name, l := range map[string]*Link{"raw": raw, "bound": bound, "mixed": mixed} {
		t.Run(name, func(t *testing.T) {
			if got := EndpointID(l, SourceEnd); got != "A" {
				t.Errorf("source = %q, want A", got)
			}
			if got := EndpointID(l, TargetEnd); got != "B" {
				t.Errorf("target = %q, want B", got)
			}
		})
	}

	if n, ok := bound.Source.Node(); !ok || n != a {
		t.Error("bound source should expose node A")
	}
	if _, ok := raw.Source.Node(); ok {
		t.Error("raw source should not expose a node")
	}
}

func TestBindEndpoints(t *testing.T) {
	g := mustParse(t, `{"nodes": [{"id": "a"}, {"id": "b"}], "links": [{"source": "a", "target": "b"}, {"source": "a", "target": "ghost"}]}`)

	if got := g.BindEndpoints(); got != 3 {
		t.Errorf("bound = %d, want 3", got)
	}
	if n, ok := g.Links[0].Target.Node(); !ok || n != g.Nodes[1] {
		t.Error("target of first link should be node b")
	}
	if g.Links[1].Target.Bound() {
		t.Error("unknown id must stay raw")
	}
	if got := EndpointID(g.Links[1], TargetEnd); got != "ghost" {
		t.Errorf("raw id = %q, want ghost", got)
	}
	if got := g.BindEndpoints(); got != 0 {
		t.Errorf("second bind = %d, want 0", got)
	}
}

func TestGraphLookups(t *testing.T) {
	g := mustParse(t, `{"nodes": [{"id": "dup", "group": "first"}, {"id": "dup", "group": "second"}], "links": [{"source": "dup", "target": "dup"}]}`)

	n, ok := g.Node("dup")
	if !ok || n.Group != "first" {
		t.Errorf("Node(dup) = %+v, want first occurrence", n)
	}
	if _, ok := g.Node("missing"); ok {
		t.Error("missing id should not resolve")
	}

	l := g.Links[0]
	if i, ok := g.IndexOf(l); !ok || i != 0 {
		t.Errorf("IndexOf = %d, %v", i, ok)
	}
	if _, ok := g.IndexOf(&Link{Source: RawEndpoint("dup"), Target: RawEndpoint("dup")}); ok {
		t.Error("structurally equal link must not match by identity")
	}
	if got, ok := g.LinkAt(0); !ok || got != l {
		t.Error("LinkAt(0) should return the first link")
	}
	if _, ok := g.LinkAt(5); ok {
		t.Error("LinkAt out of range should fail")
	}
}

func TestMarshalPreservesUnknownFields(t *testing.T) {
	g := mustParse(t, sampleDataset)
	g.BindEndpoints()

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var doc struct {
		Directed bool             `json:"directed"`
		Nodes    []map[string]any `json:"nodes"`
		Links    []map[string]any `json:"links"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !doc.Directed {
		t.Error("document extra lost")
	}
	if doc.Nodes[0]["description"] != "first" {
		t.Errorf("node extra lost: %v", doc.Nodes[0])
	}
	if doc.Nodes[0]["originalColor"] != DefaultNodeColor {
		t.Errorf("originalColor = %v", doc.Nodes[0]["originalColor"])
	}
	if _, ok := doc.Nodes[0]["x"]; ok {
		t.Error("unplaced node should not carry coordinates")
	}
	if doc.Links[1]["source"] != "B" {
		t.Errorf("bound endpoint should serialize as id, got %v", doc.Links[1]["source"])
	}
	if doc.Links[0]["weight"] != float64(3) {
		t.Errorf("link extra lost: %v", doc.Links[0])
	}

	again, err := Parse(data, DefaultColors())
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(again.Nodes) != 3 || len(again.Links) != 2 {
		t.Errorf("reparse shape = %d nodes, %d links", len(again.Nodes), len(again.Links))
	}
}

func TestRead(t *testing.T) {
	g, err := Read(strings.NewReader(sampleDataset), DefaultColors())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(g.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(g.Nodes))
	}
}
