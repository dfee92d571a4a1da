// Package pkg provides the core libraries of kgview, a knowledge-graph
// explorer.
//
// # Overview
//
// kgview loads a node-link dataset once and lets a user explore it: clicking
// a node highlights it together with its direct neighbors, clicking a link
// shows its endpoints, and an exact-match search jumps to a node by id.
// Rendering surfaces (a browser, a terminal) draw the graph; the libraries
// here decide what is selected, what is highlighted and which color every
// element is drawn in.
//
// # Architecture
//
// The data flow through kgview:
//
//	dataset (file, HTTP, MongoDB, SQLite)
//	         ↓
//	    [source] package (fetch raw JSON)
//	         ↓
//	    [graph] package (parse, assign base colors, publish once)
//	         ↓
//	    [selection] package (events → Selection + highlight.Set)
//	         ↓
//	    [view] package (per-redraw colors and label visibility)
//
// # Main Packages
//
// ## Explorer Core
//
// [graph] - Nodes, links and the load-once Store. Links are held in an arena
// and identified by pointer; endpoints may be raw ids or bound nodes.
//
// [search] - Suggestions (substring, capped at ten) and exact,
// case-insensitive resolution of node ids.
//
// [highlight] - The one-hop neighborhood of a node as a set of ids and links.
//
// [selection] - The controller that turns clicks, drags, dismissals and
// searches into a Selection and a highlight, and projects the inspector.
//
// [view] - Palette, label thresholds and camera requests.
//
// ## Infrastructure
//
// [source] - Dataset fetchers keyed by URI scheme.
//
// [cache] - Byte cache for remote datasets and rendered snapshots (file,
// Redis, null).
//
// [session] - Per-client view state for the HTTP adapter (memory, file,
// Redis).
//
// [config] - The TOML configuration file.
//
// [observability] - Hooks for load, interaction and cache events.
//
// [errors] - Coded errors shared by every adapter.
//
// ## Visualization
//
// [render/nodelink] - Graphviz SVG snapshots of a highlighted graph.
//
// # Quick Start
//
//	f, _ := source.Open("graph.json", source.Options{})
//	store := graph.NewStore()
//	if _, err := store.Load(ctx, f, graph.DefaultColors()); err != nil {
//	    return err
//	}
//
//	ctrl := selection.New(store)
//	_ = ctrl.Search("Albert Einstein")
//	for _, n := range g.Nodes {
//	    color := view.NewResolver().NodeColor(ctrl.Highlight(), n)
//	    // draw n with color
//	}
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	KGVIEW_REDIS_ADDR=localhost:6379 \
//	KGVIEW_MONGO_URI=mongodb://localhost \
//	    go test ./pkg/...                # Include live backend tests
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/graph
// [search]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/search
// [highlight]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/highlight
// [selection]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/selection
// [view]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/view
// [source]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/source
// [cache]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/errors
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/render/nodelink
package pkg
