package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/kgview/internal/server"
	"github.com/matzehuels/kgview/pkg/config"
	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/session"
)

const (
	shutdownTimeout = 10 * time.Second
	cleanupInterval = 10 * time.Minute
)

type serveOptions struct {
	loadOptions
	addr           string
	sessionBackend string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve <dataset>",
		Short: "Serve a dataset to the browser explorer",
		Long: `Serve a dataset over HTTP.

The server starts immediately and loads the dataset in the background; graph
endpoints answer 503 until it is loaded. A dataset that fails to load is
reported in the log and the explorer stays empty.

Datasets can be local files, "-" for stdin, http(s) URLs, mongodb:// URIs or
sqlite:// databases.`,
		Example: `  kgview serve graph.json
  kgview serve https://example.com/kg.json --addr :9000
  kgview serve "mongodb://localhost/kg?name=physics" --sessions redis`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&opts.sessionBackend, "sessions", "", "session backend: memory, file or redis")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, location string, opts serveOptions) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.sessionBackend != "" {
		cfg.Server.SessionBackend = opts.sessionBackend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	fetcher, closeSource, err := c.openSource(cfg, location, opts.loadOptions)
	if err != nil {
		return err
	}
	defer closeSource()

	sessions, err := c.newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer sessions.Close()

	snapshots, keyer, err := c.newCache(cfg, "snapshot", opts.noCache)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	store := graph.NewStore()
	srv := server.New(store,
		server.WithDataset(location),
		server.WithSessions(sessions),
		server.WithSessionTTL(cfg.Server.SessionTTL.Duration),
		server.WithCache(snapshots, keyer),
		server.WithResolver(cfg.Resolver()),
		server.WithCamera(cfg.CameraSettings()),
		server.WithLogger(c.Logger),
	)

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
	}
	httpServer := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	printSuccess("Serving %s", location)
	printKeyValue("Address", "http://"+ln.Addr().String())
	printKeyValue("Sessions", cfg.Server.SessionBackend)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		loadDataset(gctx, c, store, fetcher, cfg)
		return nil
	})

	g.Go(func() error {
		return srv.CleanupSessions(gctx, cleanupInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// loadDataset loads the dataset once. Failures are diagnostics only; the
// store stays unloaded and the server keeps answering.
func loadDataset(ctx context.Context, c *CLI, store *graph.Store, f graph.Fetcher, cfg *config.Config) {
	prog := newProgress(c.Logger)
	g, err := store.Load(ctx, f, cfg.Colors())
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.Logger.Error("dataset unavailable", "code", kgerrors.GetCode(err), "err", kgerrors.UserMessage(err))
		return
	}
	prog.done(fmt.Sprintf("Dataset ready: %d nodes, %d links", len(g.Nodes), len(g.Links)))
}

// newSessionStore opens the configured session backend.
func (c *CLI) newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.Server.SessionBackend {
	case config.BackendFile:
		return session.NewFileStore(cfg.SessionDir())
	case config.BackendRedis:
		return session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix + "session:",
		})
	}
	return session.NewMemoryStore(), nil
}
