package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/edp1096/circuit-analyzer/internal/server"
	"github.com/edp1096/circuit-analyzer/pkg/cache"
	"github.com/edp1096/circuit-analyzer/pkg/store"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `Serve POST /process-netlist, GET /analyses/{id} and GET /health.

Results are cached in Redis when [cache] redis_url is set, and the analysis
history is kept in MongoDB when [store] mongo_uri is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)
			if addr != "" {
				cfg.Server.Addr = addr
			}

			c, err := cache.New(cfg.Cache.RedisURL)
			if err != nil {
				return err
			}
			defer c.Close()

			st, err := store.Open(ctx, cfg.Store.MongoURI, cfg.Store.Database, cfg.Store.Collection)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			logger.Debug("backends ready", "redis", cfg.Cache.RedisURL != "", "mongo", cfg.Store.MongoURI != "")
			return server.New(cfg, logger, c, st).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides [server] addr)")
	return cmd
}
