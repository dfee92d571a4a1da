package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kgview/pkg/buildinfo"
	"github.com/matzehuels/kgview/pkg/cache"
	"github.com/matzehuels/kgview/pkg/config"
	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "kgview"

	// defaultLoadTimeout bounds a blocking dataset load in one-shot commands.
	defaultLoadTimeout = 2 * time.Minute
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "kgview explores knowledge graphs",
		Long: `kgview loads a node-link knowledge graph and lets you explore it: select
nodes and edges, highlight neighborhoods, and search by id. Use it from the
terminal (explore), serve it to a browser (serve), or script it (search,
inspect).`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration file once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache returns the cache configured for keyType ("dataset" or "snapshot").
// Redis entries are scoped by the configured prefix so several deployments
// can share a database.
func (c *CLI) newCache(cfg *config.Config, keyType string, noCache bool) (cache.Cache, cache.Keyer, error) {
	keyer := cache.NewDefaultKeyer()
	if noCache || cfg.Cache.Disabled {
		return cache.NewNullCache(), keyer, nil
	}
	if cfg.Cache.Redis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return cache.Instrumented(cache.NewRedisCache(client), keyType),
			cache.NewScopedKeyer(keyer, cfg.Redis.Prefix), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), keyer, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return cache.Instrumented(fc, keyType), keyer, nil
}

// =============================================================================
// Dataset Loading
// =============================================================================

// loadOptions are the dataset flags shared by every command.
type loadOptions struct {
	noCache bool
	refresh bool
}

func (o *loadOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching of remote datasets")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "refetch remote datasets even when cached")
}

// openSource maps a dataset location to a fetcher using the configured cache.
// The returned cleanup closes the cache.
func (c *CLI) openSource(cfg *config.Config, location string, opts loadOptions) (graph.Fetcher, func(), error) {
	dc, keyer, err := c.newCache(cfg, "dataset", opts.noCache)
	if err != nil {
		return nil, nil, err
	}
	f, err := source.Open(location, source.Options{
		Cache:           dc,
		Keyer:           keyer,
		CacheTTL:        cfg.Cache.TTL.Duration,
		Refresh:         opts.refresh,
		MongoDatabase:   cfg.Mongo.Database,
		MongoCollection: cfg.Mongo.Collection,
		Logger:          c.Logger,
	})
	if err != nil {
		dc.Close()
		return nil, nil, err
	}
	return f, func() { dc.Close() }, nil
}

// loadStore loads location into a new store, showing a spinner while it
// runs. It is used by the one-shot commands that need the graph up front.
func (c *CLI) loadStore(ctx context.Context, location string, opts loadOptions) (*graph.Store, *config.Config, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, nil, err
	}
	f, cleanup, err := c.openSource(cfg, location, opts)
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, defaultLoadTimeout)
	defer cancel()

	spinner := newSpinnerWithContext(ctx, "Loading "+location+"...")
	spinner.Start()
	prog := newProgress(c.Logger)

	store := graph.NewStore()
	g, err := store.Load(ctx, f, cfg.Colors())
	if err != nil {
		spinner.StopWithError("Failed to load " + location)
		return nil, nil, err
	}
	spinner.Stop()
	prog.done("Loaded " + location)
	printStats(len(g.Nodes), len(g.Links))
	return store, cfg, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/kgview/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
