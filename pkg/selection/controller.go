package selection

import (
	"io"

	"github.com/charmbracelet/log"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/highlight"
	"github.com/matzehuels/kgview/pkg/observability"
	"github.com/matzehuels/kgview/pkg/search"
	"github.com/matzehuels/kgview/pkg/view"
)

// NotFoundMessage is shown when a submitted search matches no node.
const NotFoundMessage = "Node not found!"

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

// Notify calls f(msg).
func (f NotifierFunc) Notify(msg string) { f(msg) }

// Option configures a Controller.
type Option func(*Controller)

// WithViewport sets the surface that receives camera moves after a search.
func WithViewport(v view.Viewport) Option { return func(c *Controller) { c.viewport = v } }

// WithNotifier sets the surface that shows search failures.
func WithNotifier(n Notifier) Option { return func(c *Controller) { c.notifier = n } }

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *log.Logger) Option { return func(c *Controller) { c.logger = l } }

// WithCamera overrides the zoom and duration of search camera moves.
func WithCamera(s view.CameraSettings) Option { return func(c *Controller) { c.camera = s } }

// Controller owns the Selection and the highlight Set.
type Controller struct {
	store *graph.Store

	sel Selection
	hl  highlight.Set

	index   *search.Index
	indexed *graph.Graph

	viewport view.Viewport
	notifier Notifier
	logger   *log.Logger
	camera   view.CameraSettings
}

// New returns an idle controller reading from store. The store may still be
// unloaded; every handler is a no-op until it is loaded.
func New(store *graph.Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		camera: view.DefaultCameraSettings(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// Selection returns the current selection.
func (c *Controller) Selection() Selection { return c.sel }

// Highlight returns the active overlay.
func (c *Controller) Highlight() highlight.Set { return c.hl }

// Graph returns the loaded graph.
func (c *Controller) Graph() (*graph.Graph, bool) { return c.store.Graph() }

// NodeClick focuses n and replaces the highlight with its neighborhood.
func (c *Controller) NodeClick(n *graph.Node) {
	c.focusNode(n, "click")
}

// NodeDrag behaves like NodeClick. Each drag tick recomputes the
// neighborhood of the dragged node.
func (c *Controller) NodeDrag(n *graph.Node) {
	c.focusNode(n, "drag")
}

func (c *Controller) focusNode(n *graph.Node, cause string) {
	g, ok := c.store.Graph()
	if !ok || n == nil {
		return
	}
	c.sel = OfNode(n)
	c.hl = highlight.Compute(n, g)

	hooks := observability.Explorer()
	hooks.OnSelect(KindNode.String(), n.ID)
	hooks.OnHighlight(n.ID, c.hl.NodeCount(), c.hl.LinkCount())
	c.logger.Debug("node focused", "id", n.ID, "cause", cause, "nodes", c.hl.NodeCount(), "links", c.hl.LinkCount())
}

// LinkClick focuses l. The highlight is left as it was.
func (c *Controller) LinkClick(l *graph.Link) {
	if !c.store.Loaded() || l == nil {
		return
	}
	c.sel = OfLink(l)
	observability.Explorer().OnSelect(KindLink.String(), c.sel.ID())
	c.logger.Debug("link focused", "link", c.sel.ID())
}

// Dismiss returns to Idle and clears the highlight.
func (c *Controller) Dismiss() {
	if !c.store.Loaded() {
		return
	}
	c.sel = None()
	c.hl = highlight.Set{}
	observability.Explorer().OnSelect(KindNone.String(), "")
	c.logger.Debug("selection dismissed")
}

// Suggest returns ids matching the text typed so far.
func (c *Controller) Suggest(text string) []string {
	return c.searchIndex().Suggest(text)
}

// Search resolves term exactly. On a hit it focuses the node like NodeClick
// and asks the viewport to center on it. On a miss the state is unchanged,
// the notifier receives NotFoundMessage and a SEARCH_NOT_FOUND error is
// returned. While unloaded it returns NOT_LOADED without notifying.
func (c *Controller) Search(term string) error {
	if !c.store.Loaded() {
		return kgerrors.New(kgerrors.ErrCodeNotLoaded, "graph not loaded")
	}

	n, err := c.searchIndex().Resolve(term)
	observability.Explorer().OnSearch(term, err == nil)
	if err != nil {
		c.logger.Debug("search miss", "term", term)
		if c.notifier != nil {
			c.notifier.Notify(NotFoundMessage)
		}
		return err
	}

	c.focusNode(n, "search")
	if c.viewport != nil {
		c.viewport.CenterAndZoom(n.X, n.Y, c.camera.Zoom, c.camera.Duration)
	}
	return nil
}

// searchIndex returns an index over the loaded graph, building it the first
// time the graph is seen.
func (c *Controller) searchIndex() *search.Index {
	g, _ := c.store.Graph()
	if c.index == nil || c.indexed != g {
		c.index = search.New(g)
		c.indexed = g
	}
	return c.index
}
