package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/kgview/pkg/buildinfo"
	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/view"
)

type healthResponse struct {
	Status  string         `json:"status"`
	Dataset string         `json:"dataset,omitempty"`
	Nodes   int            `json:"nodes"`
	Links   int            `json:"links"`
	Build   buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "loading", Dataset: s.dataset, Build: buildinfo.Current()}
	if g, ok := s.store.Graph(); ok {
		s.mu.Lock()
		resp.Status = "ok"
		resp.Nodes, resp.Links = len(g.Nodes), len(g.Links)
		s.mu.Unlock()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleGraph returns the dataset with the base colors assigned at load.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	g, ok := s.store.Graph()
	if !ok {
		s.writeLoading(w)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, graphResponse{Graph: g, Anchors: labelAnchors(g)})
}

type graphResponse struct {
	*graph.Graph
	Anchors []labelAnchor `json:"labelAnchors"`
}

// MarshalJSON merges the anchors into the dataset object.
func (r graphResponse) MarshalJSON() ([]byte, error) {
	data, err := r.Graph.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	anchors := r.Anchors
	if anchors == nil {
		anchors = []labelAnchor{}
	}
	raw, err := json.Marshal(anchors)
	if err != nil {
		return nil, err
	}
	doc["labelAnchors"] = raw
	return json.Marshal(doc)
}

// labelAnchor places a link label at the midpoint of its bound endpoints.
type labelAnchor struct {
	Link  int     `json:"link"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

func labelAnchors(g *graph.Graph) []labelAnchor {
	var out []labelAnchor
	for i, l := range g.Links {
		if l.Label == "" {
			continue
		}
		if x, y, ok := view.LinkMidpoint(l); ok {
			out = append(out, labelAnchor{Link: i, Label: l.Label, X: x, Y: y})
		}
	}
	return out
}

type position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type layoutRequest struct {
	Positions map[string]position `json:"positions"`
	Bind      bool                `json:"bind"`
}

type layoutResponse struct {
	Updated int      `json:"updated"`
	Unknown []string `json:"unknown,omitempty"`
	Bound   int      `json:"bound"`
}

// handleLayout receives node positions from the browser layout engine and
// optionally binds link endpoints to their nodes.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	g, ok := s.store.Graph()
	if !ok {
		s.writeLoading(w)
		return
	}
	var req layoutRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var resp layoutResponse
	for id, p := range req.Positions {
		n, ok := g.Node(id)
		if !ok {
			resp.Unknown = append(resp.Unknown, id)
			continue
		}
		n.SetPosition(p.X, p.Y)
		resp.Updated++
	}
	if req.Bind {
		resp.Bound = g.BindEndpoints()
	}
	s.logger.Debug("layout update", "updated", resp.Updated, "unknown", len(resp.Unknown), "bound", resp.Bound)
	s.writeJSON(w, http.StatusOK, resp)
}

type labelsResponse struct {
	Zoom       float64 `json:"zoom"`
	NodeLabels bool    `json:"nodeLabels"`
	LinkLabels bool    `json:"linkLabels"`
	NodeMin    float64 `json:"nodeMinZoom"`
	LinkMin    float64 `json:"linkMinZoom"`
}

// handleLabels reports which label layers are visible at a zoom level.
// LinkLabels applies to links with a non-empty label only.
func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	zoom, err := strconv.ParseFloat(r.URL.Query().Get("zoom"), 64)
	if err != nil {
		s.writeError(w, kgerrors.Wrap(kgerrors.ErrCodeInvalidInput, err, "zoom must be a number"))
		return
	}
	th := s.resolver.Labels
	s.writeJSON(w, http.StatusOK, labelsResponse{
		Zoom:       zoom,
		NodeLabels: s.resolver.NodeLabelVisible(zoom),
		LinkLabels: zoom >= th.Link,
		NodeMin:    th.Node,
		LinkMin:    th.Link,
	})
}
