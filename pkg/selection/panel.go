package selection

import "github.com/matzehuels/kgview/pkg/graph"

// FallbackMessage is shown for a selection whose tag is not understood.
const FallbackMessage = "No details available for this selection."

// Field is one labeled row of the inspector.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Panel is the read-only inspector projection of a Selection.
type Panel struct {
	Visible bool    `json:"visible"`
	Kind    string  `json:"kind"`
	Title   string  `json:"title,omitempty"`
	Fields  []Field `json:"fields,omitempty"`
	Message string  `json:"message,omitempty"`
}

// Panel returns the inspector for the current selection.
func (c *Controller) Panel() Panel { return PanelFor(c.sel) }

// PanelFor projects s. Idle is hidden; a node shows its id; a link shows
// both endpoint ids and its label when present. A malformed selection
// renders FallbackMessage instead of failing.
func PanelFor(s Selection) Panel {
	if s.IsNone() {
		return Panel{Kind: KindNone.String()}
	}
	if !s.Valid() {
		return Panel{Visible: true, Kind: s.kind.String(), Message: FallbackMessage}
	}

	p := Panel{Visible: true, Kind: s.kind.String()}
	if n, ok := s.Node(); ok {
		p.Title = "Node"
		p.Fields = []Field{{Name: "ID", Value: n.ID}}
		return p
	}

	l, _ := s.Link()
	p.Title = "Edge"
	p.Fields = []Field{
		{Name: "Source", Value: graph.EndpointID(l, graph.SourceEnd)},
		{Name: "Target", Value: graph.EndpointID(l, graph.TargetEnd)},
	}
	if l.Label != "" {
		p.Fields = append(p.Fields, Field{Name: "Label", Value: l.Label})
	}
	return p
}

// Value returns the value of the named field.
func (p Panel) Value(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}
