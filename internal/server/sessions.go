package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/kgview/pkg/cache"
	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/render/nodelink"
	"github.com/matzehuels/kgview/pkg/selection"
	"github.com/matzehuels/kgview/pkg/session"
	"github.com/matzehuels/kgview/pkg/view"
)

// =============================================================================
// Session lifecycle
// =============================================================================

type createSessionResponse struct {
	ID        string `json:"id"`
	ExpiresAt string `json:"expiresAt"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := session.New(s.dataset, s.sessionTTL)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, kgerrors.Wrap(kgerrors.ErrCodeInternal, err, "store session"))
		return
	}
	s.logger.Debug("session created", "id", sess.ID)
	s.writeJSON(w, http.StatusCreated, createSessionResponse{
		ID:        sess.ID,
		ExpiresAt: sess.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := kgerrors.ValidateSessionID(id); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, kgerrors.Wrap(kgerrors.ErrCodeInternal, err, "delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Controller binding
// =============================================================================

// binding is a controller restored from a session for one request.
type binding struct {
	sess     *session.Session
	ctrl     *selection.Controller
	graph    *graph.Graph
	camera   *view.CameraRecorder
	messages []string
}

// bind loads the session named in the URL and restores a controller from it.
// The caller must hold s.mu.
func (s *Server) bind(ctx context.Context, r *http.Request) (*binding, error) {
	id := chi.URLParam(r, "id")
	if err := kgerrors.ValidateSessionID(id); err != nil {
		return nil, err
	}
	sess, err := session.Require(ctx, s.sessions, id)
	if err != nil {
		return nil, err
	}
	if s.dataset != "" && sess.Dataset != s.dataset {
		return nil, kgerrors.New(kgerrors.ErrCodeSessionNotFound, "session belongs to dataset %q", sess.Dataset)
	}
	g, ok := s.store.Graph()
	if !ok {
		return nil, kgerrors.New(kgerrors.ErrCodeNotLoaded, "graph not loaded")
	}

	b := &binding{sess: sess, graph: g, camera: &view.CameraRecorder{}}
	b.ctrl = selection.New(s.store,
		selection.WithViewport(b.camera),
		selection.WithNotifier(selection.NotifierFunc(func(msg string) {
			b.messages = append(b.messages, msg)
		})),
		selection.WithCamera(s.camera),
		selection.WithLogger(s.logger),
	)
	if err := b.ctrl.Restore(sess.View); err != nil {
		// A stale snapshot from another load of the dataset starts over idle.
		s.logger.Warn("discarding session view", "id", sess.ID, "err", err)
	}
	return b, nil
}

// save writes the controller state back to the session store.
func (s *Server) save(ctx context.Context, b *binding) error {
	b.sess.View = b.ctrl.Snapshot()
	b.sess.Touch(s.sessionTTL)
	if err := s.sessions.Set(ctx, b.sess); err != nil {
		return kgerrors.Wrap(kgerrors.ErrCodeInternal, err, "store session")
	}
	return nil
}

// =============================================================================
// View
// =============================================================================

type viewResponse struct {
	Selection  selection.Snapshot `json:"selection"`
	Panel      selection.Panel    `json:"panel"`
	NodeColors []string           `json:"nodeColors"`
	LinkColors []string           `json:"linkColors"`
}

// viewOf resolves every color of the graph for the bound controller. Colors
// are in graph order.
func (s *Server) viewOf(b *binding) viewResponse {
	h := b.ctrl.Highlight()
	resp := viewResponse{
		Selection:  b.ctrl.Snapshot(),
		Panel:      b.ctrl.Panel(),
		NodeColors: make([]string, len(b.graph.Nodes)),
		LinkColors: make([]string, len(b.graph.Links)),
	}
	for i, n := range b.graph.Nodes {
		resp.NodeColors[i] = s.resolver.NodeColor(h, n)
	}
	for i, l := range b.graph.Links {
		resp.LinkColors[i] = s.resolver.LinkColor(h, l)
	}
	return resp
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.bind(r.Context(), r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.viewOf(b))
}

type suggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if err := kgerrors.ValidateSearchTerm(q); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.bind(r.Context(), r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, suggestResponse{Query: q, Suggestions: b.ctrl.Suggest(q)})
}

// =============================================================================
// Events
// =============================================================================

// Event types accepted by the events endpoint.
const (
	eventNodeClick = "node-click"
	eventNodeDrag  = "node-drag"
	eventLinkClick = "link-click"
	eventDismiss   = "dismiss"
	eventSearch    = "search"
)

type eventRequest struct {
	Type string   `json:"type"`
	Node string   `json:"node,omitempty"`
	Link *int     `json:"link,omitempty"`
	Term string   `json:"term,omitempty"`
	X    *float64 `json:"x,omitempty"`
	Y    *float64 `json:"y,omitempty"`
}

type eventResponse struct {
	viewResponse
	Camera       *view.Camera `json:"camera,omitempty"`
	Notification string       `json:"notification,omitempty"`
}

// toEvent resolves the references in req against g. A drag carrying x and y
// also moves the node.
func toEvent(req eventRequest, g *graph.Graph) (selection.Event, error) {
	node := func() (*graph.Node, error) {
		n, ok := g.Node(req.Node)
		if !ok {
			return nil, kgerrors.New(kgerrors.ErrCodeMalformedSelection, "unknown node %q", req.Node)
		}
		return n, nil
	}

	switch req.Type {
	case eventNodeClick:
		n, err := node()
		if err != nil {
			return nil, err
		}
		return selection.NodeClicked{Node: n}, nil
	case eventNodeDrag:
		n, err := node()
		if err != nil {
			return nil, err
		}
		if req.X != nil && req.Y != nil {
			n.SetPosition(*req.X, *req.Y)
		}
		return selection.NodeDragged{Node: n}, nil
	case eventLinkClick:
		if req.Link == nil {
			return nil, kgerrors.New(kgerrors.ErrCodeMalformedSelection, "link-click without link index")
		}
		l, ok := g.LinkAt(*req.Link)
		if !ok {
			return nil, kgerrors.New(kgerrors.ErrCodeMalformedSelection, "link index %d out of range", *req.Link)
		}
		return selection.LinkClicked{Link: l}, nil
	case eventDismiss:
		return selection.Dismissed{}, nil
	case eventSearch:
		if err := kgerrors.ValidateSearchTerm(req.Term); err != nil {
			return nil, err
		}
		return selection.SearchSubmitted{Term: req.Term}, nil
	}
	return nil, kgerrors.New(kgerrors.ErrCodeInvalidInput, "unknown event type %q", req.Type)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.bind(r.Context(), r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ev, err := toEvent(req, b.graph)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// A search miss is reported through the notification, not as a failure.
	if err := b.ctrl.Dispatch(ev); err != nil && !kgerrors.Is(err, kgerrors.ErrCodeSearchNotFound) {
		s.writeError(w, err)
		return
	}
	if err := s.save(r.Context(), b); err != nil {
		s.writeError(w, err)
		return
	}

	resp := eventResponse{viewResponse: s.viewOf(b)}
	if cam, ok := b.camera.Take(); ok {
		resp.Camera = &cam
	}
	if len(b.messages) > 0 {
		resp.Notification = b.messages[len(b.messages)-1]
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Snapshot
// =============================================================================

// handleSnapshot renders the session's view to SVG. Query parameters:
// zoom (label thresholds) and focus=1 (only the highlighted neighborhood).
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	opts := nodelink.Options{FocusOnly: r.URL.Query().Get("focus") == "1"}
	if z := r.URL.Query().Get("zoom"); z != "" {
		zoom, err := strconv.ParseFloat(z, 64)
		if err != nil {
			s.writeError(w, kgerrors.Wrap(kgerrors.ErrCodeInvalidInput, err, "zoom must be a number"))
			return
		}
		opts.Zoom = zoom
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.bind(r.Context(), r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	snap := b.ctrl.Snapshot()
	key := s.keyer.SnapshotKey(s.hashGraph(b.graph), cache.SnapshotKeyOpts{
		Selection: b.ctrl.Selection().ID(),
		Highlight: snap.HighlightNodes,
		Links:     snap.HighlightLinks,
		Palette:   s.resolver.Palette.Highlight + "|" + strconv.FormatFloat(opts.Zoom, 'f', -1, 64) + "|" + strconv.FormatBool(opts.FocusOnly),
	})

	if svg, ok, err := s.cache.Get(r.Context(), key); err == nil && ok {
		writeSVG(w, svg)
		return
	}

	svg, err := nodelink.Render(r.Context(), b.graph, b.ctrl.Highlight(), s.resolver, opts)
	if err != nil {
		s.writeError(w, kgerrors.Wrap(kgerrors.ErrCodeInternal, err, "render snapshot"))
		return
	}
	if err := s.cache.Set(r.Context(), key, svg, cache.SnapshotTTL); err != nil {
		s.logger.Warn("cache snapshot", "err", err)
	}
	writeSVG(w, svg)
}

// hashGraph returns a content hash of g, computed once per loaded graph.
// The caller must hold s.mu.
func (s *Server) hashGraph(g *graph.Graph) string {
	if s.hashedFor == g {
		return s.graphHash
	}
	type link struct{ S, T, L string }
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	links := make([]link, len(g.Links))
	for i, l := range g.Links {
		links[i] = link{graph.EndpointID(l, graph.SourceEnd), graph.EndpointID(l, graph.TargetEnd), l.Label}
	}
	data, _ := json.Marshal(struct {
		Nodes []string
		Links []link
	}{ids, links})
	s.graphHash, s.hashedFor = cache.Hash(data), g
	return s.graphHash
}

func writeSVG(w http.ResponseWriter, svg []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}
