package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/highlight"
	"github.com/matzehuels/kgview/pkg/view"
)

// Layout engines.
const (
	EngineDot   = "dot"
	EngineNeato = "neato"
)

// Options configures snapshot rendering.
type Options struct {
	// Zoom feeds the label predicates of the resolver. Zero shows every label.
	Zoom float64

	// FocusOnly drops nodes and links outside the highlight. It has no
	// effect while the highlight is empty.
	FocusOnly bool

	// Engine is "dot" (default) or "neato". Positioned nodes are pinned when
	// neato is used.
	Engine string
}

// ToDOT converts g to Graphviz DOT, coloring every node and link through r
// with the overlay h. Base colors on the graph are only read.
func ToDOT(g *graph.Graph, h highlight.Set, r view.Resolver, opts Options) string {
	focus := opts.FocusOnly && !h.Empty()
	engine := opts.Engine
	if engine == "" {
		engine = EngineDot
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", engine)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontcolor=white, fontsize=12, fixedsize=false];\n")
	buf.WriteString("  edge [fontsize=10, arrowsize=0.6];\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("\n")

	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.ID] || (focus && !h.HasNode(n.ID)) {
			continue
		}
		seen[n.ID] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, h, r, opts, engine), ", "))
	}

	buf.WriteString("\n")
	for _, l := range g.Links {
		if focus && !h.HasLink(l) {
			continue
		}
		src := graph.EndpointID(l, graph.SourceEnd)
		tgt := graph.EndpointID(l, graph.TargetEnd)
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", src, tgt, strings.Join(linkAttrs(l, h, r, opts), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *graph.Node, h highlight.Set, r view.Resolver, opts Options, engine string) []string {
	label := ""
	if opts.Zoom == 0 || r.NodeLabelVisible(opts.Zoom) {
		label = n.ID
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", r.NodeColor(h, n)),
		fmt.Sprintf("color=%q", r.NodeColor(h, n)),
	}
	if n.Group != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Group))
	}
	if engine == EngineNeato && n.Positioned() {
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtCoord(n.X), fmtCoord(-n.Y)))
	}
	return attrs
}

func linkAttrs(l *graph.Link, h highlight.Set, r view.Resolver, opts Options) []string {
	attrs := []string{fmt.Sprintf("color=%q", r.LinkColor(h, l))}
	if l.Label != "" && (opts.Zoom == 0 || r.LinkLabelVisible(opts.Zoom, l)) {
		attrs = append(attrs, fmt.Sprintf("label=%q", l.Label))
	}
	if h.HasLink(l) {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

// fmtCoord converts layout units to Graphviz points.
func fmtCoord(v float64) string {
	return strconv.FormatFloat(v/72, 'f', 3, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Render is ToDOT followed by RenderSVG.
func Render(ctx context.Context, g *graph.Graph, h highlight.Set, r view.Resolver, opts Options) ([]byte, error) {
	return RenderSVG(ctx, ToDOT(g, h, r, opts))
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element to a zero-origin viewBox with
// matching width and height so the SVG scales when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
