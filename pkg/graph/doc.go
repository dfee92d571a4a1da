// Package graph holds the canonical knowledge graph an explorer session works on.
//
// # Data Model
//
//   - [Node]: a uniquely identified entity with an optional group and a base
//     color assigned once at load time
//   - [Link]: a labelled connection between two nodes
//   - [Endpoint]: one end of a link, either a raw id or a bound *[Node]
//   - [Graph]: ordered nodes plus an arena of links
//
// # Endpoint Duality
//
// Layout engines bind link endpoints to node objects in place, some time after
// the dataset was loaded. Code reading link endpoints must therefore accept
// both forms at any time. [EndpointID] is the single accessor for that:
//
//	src := graph.EndpointID(link, graph.SourceEnd)
//	dst := graph.EndpointID(link, graph.TargetEnd)
//
// Never read [Endpoint] internals directly to compare ids.
//
// # Loading
//
// Datasets use the node-link JSON shape produced by the knowledge-graph
// generator:
//
//	{
//	  "nodes": [{"id": "Albert Einstein", "group": "person"}],
//	  "links": [{"source": "Albert Einstein", "target": "relativity", "label": "developed"}]
//	}
//
// [Parse] validates the shape and assigns base colors. [Store] wraps
// fetching and parsing behind a loaded/unloaded state:
//
//	store := graph.NewStore()
//	g, err := store.Load(ctx, fetcher, graph.DefaultColors())
//	if errors.IsLoadError(err) {
//	    // store remains unloaded
//	}
//
// Unknown fields on nodes, links, and the document itself are preserved and
// written back untouched by MarshalJSON.
//
// # Base Colors
//
// [Node.OriginalColor] and [Link.OriginalColor] are assigned by [Parse] and
// have no setter. Highlighting never writes to them; it is computed at draw
// time by package view.
//
// # Concurrency
//
// A [Graph] is not safe for concurrent mutation ([Node.SetPosition],
// [Graph.BindEndpoints]). [Store] itself is safe for concurrent use.
package graph
