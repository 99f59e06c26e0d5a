package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/hashheat/hashheat/internal/api"
	"github.com/hashheat/hashheat/pkg/cache"
	"github.com/hashheat/hashheat/pkg/pipeline"
	"github.com/hashheat/hashheat/pkg/store"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr          string
		redisAddr     string
		redisPassword string
		redisDB       int
		cacheScope    string
		mongoURI      string
		mongoDB       string
		noCache       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator pipeline over HTTP",
		Long: `Serve the calculator pipeline over HTTP.

Endpoints live under /v1: charts, rankings and reports. With --redis-addr
the pipeline cache is shared across instances; with --mongo-uri reports are
persisted in MongoDB instead of the local filesystem.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), serveConfig{
				addr:          addr,
				redisAddr:     redisAddr,
				redisPassword: redisPassword,
				redisDB:       redisDB,
				cacheScope:    cacheScope,
				mongoURI:      mongoURI,
				mongoDB:       mongoDB,
				noCache:       noCache,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for a shared pipeline cache")
	cmd.Flags().StringVar(&redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&cacheScope, "cache-scope", appName, "key prefix isolating this deployment in a shared Redis cache")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB URI for report persistence")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", appName, "MongoDB database name")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the pipeline cache")

	return cmd
}

type serveConfig struct {
	addr          string
	redisAddr     string
	redisPassword string
	redisDB       int
	cacheScope    string
	mongoURI      string
	mongoDB       string
	noCache       bool
}

func (c *CLI) runServe(ctx context.Context, cfg serveConfig) error {
	pc, err := c.serveCache(ctx, cfg)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(pc, serveKeyer(cfg), c.Logger)
	defer runner.Close()

	st, err := c.serveStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	server := api.NewServer(runner, st, c.Logger)
	if err := server.ListenAndServe(ctx, cfg.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// serveKeyer scopes cache keys when the backend is shared. A Redis cache may
// serve several deployments, so keys get the configured scope prefix; the
// local file cache is already private to this machine and stays unscoped.
func serveKeyer(cfg serveConfig) cache.Keyer {
	if cfg.redisAddr == "" || cfg.cacheScope == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, cfg.cacheScope+":")
}

func (c *CLI) serveCache(ctx context.Context, cfg serveConfig) (cache.Cache, error) {
	if cfg.noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.redisAddr != "" {
		c.Logger.Info("using Redis cache", "addr", cfg.redisAddr)
		return cache.NewRedisCache(ctx, cfg.redisAddr, cfg.redisPassword, cfg.redisDB)
	}
	return newCache(false)
}

func (c *CLI) serveStore(ctx context.Context, cfg serveConfig) (store.Store, error) {
	if cfg.mongoURI != "" {
		c.Logger.Info("using MongoDB store", "database", cfg.mongoDB)
		return store.NewMongoStore(ctx, cfg.mongoURI, cfg.mongoDB)
	}
	st, err := newStore("")
	if err != nil {
		return nil, fmt.Errorf("open report store: %w", err)
	}
	return st, nil
}
