// Package search resolves user queries against node identifiers.
//
// An [Index] answers two questions for the search box: which ids contain the
// text typed so far ([Index.Suggest]), and which node an exact, submitted
// term names ([Index.Resolve]). Both comparisons are case-insensitive.
//
// An Index built from a nil graph represents the unloaded state: it never
// suggests anything and every resolve fails with NOT_LOADED.
package search

import (
	"strings"
	"unicode/utf8"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
)

const (
	// MaxSuggestions caps the number of ids returned by Suggest.
	MaxSuggestions = 10

	// MinQueryLength is the shortest query, in runes, that produces
	// suggestions. Shorter queries return nothing.
	MinQueryLength = 2
)

type entry struct {
	node  *graph.Node
	lower string
}

// Index is a read-only lookup structure derived from a loaded graph.
type Index struct {
	entries []entry
	loaded  bool
}

// New builds an index over g's nodes in sequence order. A nil g yields an
// unloaded index.
func New(g *graph.Graph) *Index {
	if g == nil {
		return &Index{}
	}
	entries := make([]entry, len(g.Nodes))
	for i, n := range g.Nodes {
		entries[i] = entry{node: n, lower: strings.ToLower(n.ID)}
	}
	return &Index{entries: entries, loaded: true}
}

// Loaded reports whether the index was built from a graph.
func (ix *Index) Loaded() bool { return ix != nil && ix.loaded }

// Suggest returns up to MaxSuggestions node ids containing prefix,
// preserving node order. Queries shorter than MinQueryLength runes return an
// empty slice.
func (ix *Index) Suggest(prefix string) []string {
	if !ix.Loaded() || utf8.RuneCountInString(prefix) < MinQueryLength {
		return []string{}
	}
	q := strings.ToLower(prefix)
	out := make([]string, 0, MaxSuggestions)
	for _, e := range ix.entries {
		if strings.Contains(e.lower, q) {
			out = append(out, e.node.ID)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}

// Resolve returns the first node whose id equals term, ignoring case.
// A miss fails with SEARCH_NOT_FOUND.
func (ix *Index) Resolve(term string) (*graph.Node, error) {
	if !ix.Loaded() {
		return nil, kgerrors.New(kgerrors.ErrCodeNotLoaded, "graph not loaded")
	}
	q := strings.ToLower(term)
	for _, e := range ix.entries {
		if e.lower == q {
			return e.node, nil
		}
	}
	return nil, kgerrors.New(kgerrors.ErrCodeSearchNotFound, "no node with id %q", term)
}
