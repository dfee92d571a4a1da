package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/render/nodelink"
	"github.com/matzehuels/kgview/pkg/selection"
	"github.com/matzehuels/kgview/pkg/view"
)

type inspectOptions struct {
	loadOptions
	svg    string
	focus  bool
	zoom   float64
	engine string
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOptions

	cmd := &cobra.Command{
		Use:   "inspect <dataset> <node-id>",
		Short: "Show a node's neighborhood",
		Long: `Select a node the way a click would and print the inspector and the
highlighted neighborhood.

With --svg, also render the graph with the highlight applied. --focus keeps
only the neighborhood; --zoom applies the label thresholds at that level.`,
		Example: `  kgview inspect graph.json "Albert Einstein"
  kgview inspect graph.json "Albert Einstein" --svg einstein.svg --focus`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], args[1], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.svg, "svg", "", "write an SVG snapshot to this file")
	cmd.Flags().BoolVar(&opts.focus, "focus", false, "snapshot only the highlighted neighborhood")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", 0, "apply label thresholds at this zoom (0 shows all labels)")
	cmd.Flags().StringVar(&opts.engine, "engine", nodelink.EngineDot, "graphviz layout engine: dot or neato")
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, location, id string, opts inspectOptions) error {
	store, cfg, err := c.loadStore(ctx, location, opts.loadOptions)
	if err != nil {
		return err
	}
	g, _ := store.Graph()

	n, ok := g.Node(id)
	if !ok {
		printWarning("%s", selection.NotFoundMessage)
		return kgerrors.New(kgerrors.ErrCodeNotFound, "no node with id %q", id)
	}

	ctrl := selection.New(store, selection.WithLogger(c.Logger))
	ctrl.NodeClick(n)

	printPanel(ctrl.Panel())
	fmt.Println()
	printNeighborhood(ctrl, g, cfg.Resolver())

	if opts.svg == "" {
		return nil
	}
	svg, err := nodelink.Render(ctx, g, ctrl.Highlight(), cfg.Resolver(), nodelink.Options{
		Zoom:      opts.zoom,
		FocusOnly: opts.focus,
		Engine:    opts.engine,
	})
	if err != nil {
		return fmt.Errorf("render snapshot: %w", err)
	}
	if err := os.WriteFile(opts.svg, svg, 0o644); err != nil {
		return err
	}
	fmt.Println()
	printSuccess("Wrote snapshot")
	printFile(opts.svg)
	return nil
}

func printPanel(p selection.Panel) {
	if !p.Visible {
		printInfo("Nothing selected")
		return
	}
	if p.Message != "" {
		printInfo("%s", p.Message)
		return
	}
	fmt.Println(StyleTitle.Render(p.Title))
	for _, f := range p.Fields {
		printKeyValue(f.Name, f.Value)
	}
}

// printNeighborhood lists the highlighted nodes and links in graph order.
func printNeighborhood(ctrl *selection.Controller, g *graph.Graph, r view.Resolver) {
	h := ctrl.Highlight()

	fmt.Println(StyleTitle.Render(fmt.Sprintf("Neighborhood (%d nodes, %d links)", h.NodeCount(), h.LinkCount())))
	for _, n := range g.Nodes {
		if h.HasNode(n.ID) {
			fmt.Println("  " + swatch(r.NodeColor(h, n), n.ID))
		}
	}
	for _, l := range h.Links(g) {
		text := graph.EndpointID(l, graph.SourceEnd) + " " + iconArrow + " " + graph.EndpointID(l, graph.TargetEnd)
		if l.Label != "" {
			text += StyleDim.Render(" (" + l.Label + ")")
		}
		fmt.Println("  " + swatch(r.LinkColor(h, l), text))
	}
}

// shellQuote quotes s for display in a suggested command.
func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t'\"\\$`!*?[]{}()<>|&;#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
