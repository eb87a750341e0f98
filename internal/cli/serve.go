package cli

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/infinityflow/internal/api"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API used by canvas hosts.

Documents live in the configured store and layouts and renders go through
the configured cache. The server shuts down gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")
	return cmd
}

// indexer is implemented by stores that create their indexes on startup.
type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func (c *CLI) runServe(ctx context.Context) error {
	logger := loggerFromContext(ctx)
	sc := c.Config.Server

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	if ix, ok := st.(indexer); ok {
		if err := ix.EnsureIndexes(ctx); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := &http.Server{
		Addr: sc.Addr,
		Handler: api.New(st,
			api.WithLogger(logger),
			api.WithRunner(runner),
			api.WithLayoutOptions(c.Config.LayoutOptions()),
			api.WithMaxBodyBytes(sc.MaxBodyBytes),
		).Handler(),
		ReadTimeout:  sc.ReadTimeout.Duration,
		WriteTimeout: sc.WriteTimeout.Duration,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", sc.Addr, "store", c.Config.Storage.Backend, "cache", c.Config.Cache.Backend)
		if err := srv.ListenAndServe(); !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sc.ShutdownTimeout.Duration)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
