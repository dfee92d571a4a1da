package graph

import (
	"context"
	"fmt"
	"sync"
	"time"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/observability"
)

// Fetcher retrieves a raw dataset. Implementations live in package source.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Store owns the canonical graph for the lifetime of an explorer.
//
// A Store starts unloaded. The first successful [Store.Load] publishes the
// graph; failed loads leave it unloaded and never expose a partial graph.
type Store struct {
	mu sync.RWMutex
	g  *Graph
}

// NewStore returns an unloaded store.
func NewStore() *Store {
	return &Store{}
}

// NewLoadedStore returns a store that already holds g.
func NewLoadedStore(g *Graph) *Store {
	return &Store{g: g}
}

// Graph returns the loaded graph, or false while unloaded.
func (s *Store) Graph() (*Graph, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g, s.g != nil
}

// Loaded reports whether a graph has been published.
func (s *Store) Loaded() bool {
	_, ok := s.Graph()
	return ok
}

// Load fetches and parses a dataset and publishes it.
//
// Fetch failures are reported as TRANSPORT_ERROR unless the fetcher already
// returned a load error; parse failures as MALFORMED_PAYLOAD. Nothing is
// retried. Loading into a store that already holds a graph fails with
// ALREADY_LOADED.
func (s *Store) Load(ctx context.Context, f Fetcher, colors Colors) (*Graph, error) {
	if s.Loaded() {
		return nil, kgerrors.New(kgerrors.ErrCodeAlreadyLoaded, "graph already loaded")
	}

	name := describe(f)
	hooks := observability.Explorer()
	hooks.OnLoadStart(ctx, name)
	start := time.Now()

	g, err := fetchAndParse(ctx, f, name, colors)
	if err != nil {
		hooks.OnLoadComplete(ctx, name, 0, 0, time.Since(start), err)
		return nil, err
	}

	s.mu.Lock()
	if s.g != nil {
		s.mu.Unlock()
		return nil, kgerrors.New(kgerrors.ErrCodeAlreadyLoaded, "graph already loaded")
	}
	s.g = g
	s.mu.Unlock()

	hooks.OnLoadComplete(ctx, name, len(g.Nodes), len(g.Links), time.Since(start), nil)
	return g, nil
}

func fetchAndParse(ctx context.Context, f Fetcher, name string, colors Colors) (*Graph, error) {
	data, err := f.Fetch(ctx)
	if err != nil {
		if kgerrors.IsLoadError(err) {
			return nil, err
		}
		return nil, kgerrors.Wrap(kgerrors.ErrCodeTransport, err, "fetch %s", name)
	}
	return Parse(data, colors)
}

func describe(f Fetcher) string {
	if s, ok := f.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", f)
}
