// Package api exposes the reordering pipeline over HTTP.
//
// The server wraps a [pipeline.Runner] and a [jobstore.Store] behind a
// chi router:
//
//	GET  /healthz              liveness probe
//	GET  /v1/policies          declared wall sequence policies
//	POST /v1/plan              print order for a wall count and policy
//	POST /v1/reorder           reorder a sliced document (?async=1 for jobs)
//	GET  /v1/jobs              recent jobs, newest first
//	GET  /v1/jobs/{id}         job record
//	GET  /v1/jobs/{id}/events  WebSocket stream of job progress
//
// Synchronous reordering returns the document inline. Async submissions
// return a job ID; clients follow progress over the events socket and
// fetch the result with a second reorder call, which hits the document
// cache once the job completes.
package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/slicekit/wallseq/pkg/jobstore"
	"github.com/slicekit/wallseq/pkg/pipeline"
)

// Config carries the server's collaborators. Zero-value fields fall back
// to safe defaults.
type Config struct {
	// Runner executes reorder requests. Nil falls back to an uncached
	// runner with default settings.
	Runner *pipeline.Runner

	// Jobs stores async job records. Nil falls back to an in-memory store.
	Jobs jobstore.Store

	// Logger receives request and job logs. Nil falls back to the
	// standard logger.
	Logger *log.Logger
}

// Server handles HTTP and WebSocket traffic for the reorder service.
type Server struct {
	runner *pipeline.Runner
	jobs   jobstore.Store
	hub    *Hub
	logger *log.Logger
}

// NewServer creates a server from cfg, applying defaults for nil fields.
func NewServer(cfg Config) *Server {
	runner := cfg.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	jobs := cfg.Jobs
	if jobs == nil {
		jobs = jobstore.NewMemoryStore()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner: runner,
		jobs:   jobs,
		hub:    NewHub(),
		logger: logger,
	}
}

// Router builds the chi handler tree with logging, request IDs, and
// panic recovery applied to every route.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/policies", s.handlePolicies)
		r.Post("/plan", s.handlePlan)
		r.Post("/reorder", s.handleReorder)
		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Get("/jobs/{id}/events", s.handleJobEvents)
	})
	return r
}
