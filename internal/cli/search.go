package cli

import (
	"context"

	"github.com/spf13/cobra"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/selection"
)

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	var (
		opts    loadOptions
		suggest bool
	)

	cmd := &cobra.Command{
		Use:   "search <dataset> <term>",
		Short: "Resolve a node id, or list suggestions for a partial one",
		Long: `Resolve term against the node ids of a dataset.

The match is exact and case-insensitive; the first node in dataset order wins.
With --suggest, print up to ten ids containing term instead.`,
		Example: `  kgview search graph.json "albert einstein"
  kgview search graph.json eins --suggest`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd.Context(), args[0], args[1], suggest, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&suggest, "suggest", false, "list suggestions instead of resolving")
	return cmd
}

func (c *CLI) runSearch(ctx context.Context, location, term string, suggest bool, opts loadOptions) error {
	if err := kgerrors.ValidateSearchTerm(term); err != nil {
		return err
	}
	store, cfg, err := c.loadStore(ctx, location, opts)
	if err != nil {
		return err
	}

	ctrl := selection.New(store,
		selection.WithLogger(c.Logger),
		selection.WithNotifier(selection.NotifierFunc(func(msg string) { printWarning("%s", msg) })),
		selection.WithCamera(cfg.CameraSettings()),
	)

	if suggest {
		ids := ctrl.Suggest(term)
		if len(ids) == 0 {
			printInfo("No suggestions for %q", term)
			return nil
		}
		for _, id := range ids {
			printDetail("%s", id)
		}
		return nil
	}

	if err := ctrl.Search(term); err != nil {
		if kgerrors.Is(err, kgerrors.ErrCodeSearchNotFound) {
			return nil
		}
		return err
	}

	n, _ := ctrl.Selection().Node()
	h := ctrl.Highlight()
	printSuccess("Found %s", StyleHighlight.Render(n.ID))
	printDetail("%d neighbors, %d links", h.NodeCount()-1, h.LinkCount())
	printNextStep("Inspect it", "kgview inspect "+location+" "+shellQuote(n.ID))
	return nil
}
