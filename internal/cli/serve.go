package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/slicekit/wallseq/internal/api"
	"github.com/slicekit/wallseq/pkg/cache"
	"github.com/slicekit/wallseq/pkg/jobstore"
	"github.com/slicekit/wallseq/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// serve command receives an interrupt.
const shutdownTimeout = 5 * time.Second

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string // listen address
	redisURL string // redis URL for the document cache, empty for file cache
	mongoURI string // mongodb URI for job records, empty for in-memory
	mongoDB  string // mongodb database name
	noCache  bool   // disable the document cache entirely
}

// serveCommand creates the serve command exposing the API over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reorder API over HTTP",
		Long: `Serve the reorder API over HTTP.

Routes:
  GET  /healthz              liveness probe
  GET  /v1/policies          declared wall sequence policies
  POST /v1/plan              print order for a wall count and policy
  POST /v1/reorder           reorder a sliced document (?async=1 for jobs)
  GET  /v1/jobs              recent jobs, newest first
  GET  /v1/jobs/{id}         job record
  GET  /v1/jobs/{id}/events  WebSocket stream of job progress

Reordered documents are cached in redis when --redis (or REDIS_URL) is
set, otherwise on local disk. Job records live in mongodb when --mongo
(or MONGO_URI) is set, otherwise in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", os.Getenv("REDIS_URL"), "redis URL for the document cache (default $REDIS_URL)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", os.Getenv("MONGO_URI"), "mongodb URI for job records (default $MONGO_URI)")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", "wallseq", "mongodb database name")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the document cache")

	return cmd
}

// runServe wires the cache, job store, and router together and serves
// until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	store, keyer, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	defer runner.Close()

	jobs, err := c.serveJobs(ctx, opts)
	if err != nil {
		return err
	}
	defer jobs.Close(context.Background())

	server := api.NewServer(api.Config{
		Runner: runner,
		Jobs:   jobs,
		Logger: c.Logger,
	})

	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	c.Logger.Infof("Listening on %s", opts.addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// serveCache picks the document cache backend for the server. A shared
// Redis instance gets a keyer scoped to a wallseq namespace; the other
// backends use the runner's default keyer.
func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, cache.Keyer, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil, nil
	}
	if opts.redisURL != "" {
		rc, err := cache.NewRedisCache(opts.redisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		// Redis often comes up alongside the service; give it a few
		// seconds before treating it as down.
		if err := cache.RetryWithBackoff(ctx, func() error { return rc.Ping(ctx) }); err != nil {
			rc.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		c.Logger.Info("Using redis document cache")
		return rc, cache.NewScopedKeyer(nil, "wallseq:"), nil
	}
	store, err := newCache(false)
	return store, nil, err
}

// serveJobs picks the job record backend for the server.
func (c *CLI) serveJobs(ctx context.Context, opts serveOpts) (jobstore.Store, error) {
	if opts.mongoURI == "" {
		return jobstore.NewMemoryStore(), nil
	}
	store, err := jobstore.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
	if err != nil {
		return nil, fmt.Errorf("mongo job store: %w", err)
	}
	c.Logger.Infof("Using mongodb job store (database %s)", opts.mongoDB)
	return store, nil
}
