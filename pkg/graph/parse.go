package graph

import (
	"bytes"
	"encoding/json"
	"io"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
)

// Parse decodes a node-link dataset and assigns base colors.
//
// The document must be an object with "nodes" and "links" arrays. Anything
// else fails with a MALFORMED_PAYLOAD error and no graph is returned. Link
// endpoints are not checked against the node list.
func Parse(data []byte, colors Colors) (*Graph, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, kgerrors.Wrap(kgerrors.ErrCodeMalformedPayload, err, "decode dataset")
	}

	rawNodes, err := requireArray(doc, keyNodes)
	if err != nil {
		return nil, err
	}
	rawLinks, err := requireArray(doc, keyLinks)
	if err != nil {
		return nil, err
	}

	var nodes []*Node
	if err := json.Unmarshal(rawNodes, &nodes); err != nil {
		return nil, kgerrors.Wrap(kgerrors.ErrCodeMalformedPayload, err, "decode nodes")
	}
	for i, n := range nodes {
		if n == nil {
			return nil, kgerrors.New(kgerrors.ErrCodeMalformedPayload, "node %d is null", i)
		}
	}

	var links []*Link
	if err := json.Unmarshal(rawLinks, &links); err != nil {
		return nil, kgerrors.Wrap(kgerrors.ErrCodeMalformedPayload, err, "decode links")
	}
	for i, l := range links {
		if l == nil {
			return nil, kgerrors.New(kgerrors.ErrCodeMalformedPayload, "link %d is null", i)
		}
	}

	g := New(nodes, links, colors)
	delete(doc, keyNodes)
	delete(doc, keyLinks)
	if len(doc) > 0 {
		g.Extra = doc
	}
	return g, nil
}

// Read is like [Parse] but consumes r.
func Read(r io.Reader, colors Colors) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, kgerrors.Wrap(kgerrors.ErrCodeTransport, err, "read dataset")
	}
	return Parse(data, colors)
}

func requireArray(doc map[string]json.RawMessage, key string) (json.RawMessage, error) {
	raw, ok := doc[key]
	if !ok {
		return nil, kgerrors.New(kgerrors.ErrCodeMalformedPayload, "dataset is missing the %q array", key)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, kgerrors.New(kgerrors.ErrCodeMalformedPayload, "dataset field %q must be an array", key)
	}
	return trimmed, nil
}
