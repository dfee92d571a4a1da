package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kgview/pkg/graph"
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var opts loadOptions

	cmd := &cobra.Command{
		Use:   "explore <dataset>",
		Short: "Explore a dataset in the terminal",
		Long: `Explore a dataset interactively.

Select a node to highlight it with its direct neighbors, select a link to
inspect it, or press / to search by node id. Suggestions appear after two
characters; choosing one submits it as the search.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd)
	return cmd
}

func (c *CLI) runExplore(ctx context.Context, location string, opts loadOptions) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	f, cleanup, err := c.openSource(cfg, location, opts)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := graph.NewStore()
	load := func() error {
		_, err := store.Load(ctx, f, cfg.Colors())
		return err
	}

	m := NewExploreModel(location, store, cfg.Resolver(), cfg.CameraSettings(), load)

	// Log lines would tear the alternate screen.
	c.Logger.SetOutput(io.Discard)
	err = runExplorer(ctx, m)
	c.Logger.SetOutput(os.Stderr)

	if loadErr := m.LoadErr(); loadErr != nil {
		c.Logger.Error("dataset load failed", "source", location, "err", loadErr)
	}
	return err
}
