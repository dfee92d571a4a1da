package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Reserved field names on the wire.
const (
	keyID            = "id"
	keyGroup         = "group"
	keyX             = "x"
	keyY             = "y"
	keySource        = "source"
	keyTarget        = "target"
	keyLabel         = "label"
	keyOriginalColor = "originalColor"
	keyNodes         = "nodes"
	keyLinks         = "links"
)

// =============================================================================
// Node
// =============================================================================

// UnmarshalJSON decodes a node object. The id may be a JSON string or number.
// Fields other than id, group, x and y are kept in Extra. An incoming
// originalColor is discarded because base colors are assigned at load time.
func (n *Node) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data, "node")
	if err != nil {
		return err
	}

	raw, ok := fields[keyID]
	if !ok {
		return errors.New("node is missing an id")
	}
	id, ok := scalarString(raw)
	if !ok {
		return fmt.Errorf("node id must be a string or number, got %s", raw)
	}
	*n = Node{ID: id}
	delete(fields, keyID)

	if raw, ok := fields[keyGroup]; ok {
		if group, ok := scalarString(raw); ok {
			n.Group = group
			delete(fields, keyGroup)
		}
	}

	if rx, ok := fields[keyX]; ok {
		if ry, ok := fields[keyY]; ok {
			var x, y float64
			if json.Unmarshal(rx, &x) == nil && json.Unmarshal(ry, &y) == nil {
				n.SetPosition(x, y)
				delete(fields, keyX)
				delete(fields, keyY)
			}
		}
	}

	delete(fields, keyOriginalColor)
	if len(fields) > 0 {
		n.Extra = fields
	}
	return nil
}

// MarshalJSON encodes the node with its extra fields, id, group, position
// (once placed) and base color.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := withExtra(n.Extra)
	out[keyID] = n.ID
	if n.Group != "" {
		out[keyGroup] = n.Group
	}
	if n.positioned {
		out[keyX] = n.X
		out[keyY] = n.Y
	}
	out[keyOriginalColor] = n.originalColor
	return json.Marshal(out)
}

// =============================================================================
// Link
// =============================================================================

// UnmarshalJSON decodes a single endpoint: a string or number id, or an
// object carrying an id. Decoded endpoints are always unbound.
func (e *Endpoint) UnmarshalJSON(data []byte) error {
	if id, ok := scalarString(data); ok {
		*e = RawEndpoint(id)
		return nil
	}
	fields, err := decodeObject(data, "endpoint")
	if err != nil {
		return err
	}
	raw, ok := fields[keyID]
	if !ok {
		return errors.New("endpoint object is missing an id")
	}
	id, ok := scalarString(raw)
	if !ok {
		return fmt.Errorf("endpoint id must be a string or number, got %s", raw)
	}
	*e = RawEndpoint(id)
	return nil
}

// MarshalJSON encodes the endpoint as its node id.
func (e Endpoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ID())
}

// UnmarshalJSON decodes a link object. source and target are required.
func (l *Link) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data, "link")
	if err != nil {
		return err
	}

	*l = Link{}
	for _, side := range []struct {
		key string
		dst *Endpoint
	}{{keySource, &l.Source}, {keyTarget, &l.Target}} {
		raw, ok := fields[side.key]
		if !ok {
			return fmt.Errorf("link is missing %s", side.key)
		}
		if err := json.Unmarshal(raw, side.dst); err != nil {
			return fmt.Errorf("link %s: %w", side.key, err)
		}
		delete(fields, side.key)
	}

	if raw, ok := fields[keyLabel]; ok {
		var label string
		if json.Unmarshal(raw, &label) == nil {
			l.Label = label
			delete(fields, keyLabel)
		}
	}

	delete(fields, keyOriginalColor)
	if len(fields) > 0 {
		l.Extra = fields
	}
	return nil
}

// MarshalJSON encodes the link with endpoints written as ids.
func (l *Link) MarshalJSON() ([]byte, error) {
	out := withExtra(l.Extra)
	out[keySource] = l.Source
	out[keyTarget] = l.Target
	if l.Label != "" {
		out[keyLabel] = l.Label
	}
	out[keyOriginalColor] = l.originalColor
	return json.Marshal(out)
}

// =============================================================================
// Graph
// =============================================================================

// MarshalJSON encodes the graph in the dataset shape, including base colors.
func (g *Graph) MarshalJSON() ([]byte, error) {
	out := withExtra(g.Extra)
	nodes := g.Nodes
	if nodes == nil {
		nodes = []*Node{}
	}
	links := g.Links
	if links == nil {
		links = []*Link{}
	}
	out[keyNodes] = nodes
	out[keyLinks] = links
	return json.Marshal(out)
}

// =============================================================================
// Helpers
// =============================================================================

func decodeObject(data []byte, what string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%s must be an object: %w", what, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%s must be an object, got null", what)
	}
	return fields, nil
}

// scalarString returns the text of a JSON string or number.
func scalarString(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", false
	}
	switch c := trimmed[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case c == '-' || (c >= '0' && c <= '9'):
		var num json.Number
		if err := json.Unmarshal(trimmed, &num); err != nil {
			return "", false
		}
		return num.String(), true
	}
	return "", false
}

func withExtra(extra map[string]json.RawMessage) map[string]any {
	out := make(map[string]any, len(extra)+6)
	for k, v := range extra {
		out[k] = v
	}
	return out
}
