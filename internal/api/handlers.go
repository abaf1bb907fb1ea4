package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	apperrors "github.com/slicekit/wallseq/pkg/errors"
	"github.com/slicekit/wallseq/pkg/jobstore"
	"github.com/slicekit/wallseq/pkg/order"
	"github.com/slicekit/wallseq/pkg/pipeline"
	"github.com/slicekit/wallseq/pkg/profile"
	"github.com/slicekit/wallseq/pkg/slicedoc"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type policyInfo struct {
	Value int    `json:"value"`
	Key   string `json:"key"`
	Label string `json:"label"`
}

func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	policies := order.Policies()
	out := make([]policyInfo, len(policies))
	for i, p := range policies {
		out[i] = policyInfo{Value: int(p), Key: p.String(), Label: p.Label()}
	}
	writeJSON(w, http.StatusOK, map[string][]policyInfo{"policies": out})
}

type planRequest struct {
	WallCount int    `json:"wall_count"`
	Policy    string `json:"policy"`
}

type planResponse struct {
	WallCount int    `json:"wall_count"`
	Policy    string `json:"policy"`
	Order     []int  `json:"order"`
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	policy, err := resolvePolicy(req.Policy)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	seq := order.Sequence(req.WallCount, policy)
	if seq == nil {
		seq = []int{}
	}
	writeJSON(w, http.StatusOK, planResponse{
		WallCount: req.WallCount,
		Policy:    policy.String(),
		Order:     seq,
	})
}

// resolvePolicy parses a persisted policy key. An empty key falls back
// to the profile default.
func resolvePolicy(key string) (order.Policy, error) {
	if key == "" {
		key = profile.DefaultSequence
	}
	policy, err := order.ParsePolicy(key)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeInvalidPolicy, err, "policy %q", key)
	}
	return policy, nil
}

type reorderResponse struct {
	Document *slicedoc.Document `json:"document"`
	DocHash  string             `json:"doc_hash"`
	Stats    pipeline.Stats     `json:"stats"`
	Cache    pipeline.CacheInfo `json:"cache"`
}

// handleReorder reorders the document in the request body. The policy,
// worker count, and cache refresh come from query parameters; ?async=1
// queues a job instead of replying inline.
func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	policy, err := resolvePolicy(query.Get("policy"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	opts := pipeline.Options{Policy: policy, Logger: s.logger}
	if workers := query.Get("workers"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil || n < 0 {
			writeError(w, s.logger, apperrors.New(apperrors.ErrCodeInvalidInput, "workers must be a non-negative integer"))
			return
		}
		opts.Workers = n
	}
	opts.Refresh, _ = strconv.ParseBool(query.Get("refresh"))

	doc, err := slicedoc.ReadJSON(r.Body)
	if err != nil {
		writeError(w, s.logger, apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "read document"))
		return
	}
	if err := apperrors.ValidateDocumentName(doc.Name); err != nil {
		writeError(w, s.logger, err)
		return
	}

	if async, _ := strconv.ParseBool(query.Get("async")); async {
		s.submitJob(w, r, doc, opts)
		return
	}

	result, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reorderResponse{
		Document: result.Doc,
		DocHash:  result.DocHash,
		Stats:    result.Stats,
		Cache:    result.CacheInfo,
	})
}

func (s *Server) submitJob(w http.ResponseWriter, r *http.Request, doc *slicedoc.Document, opts pipeline.Options) {
	job := jobstore.New(opts.Policy.String())
	if err := s.jobs.Put(r.Context(), job); err != nil {
		writeError(w, s.logger, err)
		return
	}

	s.logger.Info("job queued", "job_id", job.ID, "policy", job.Policy)
	go s.runJob(job, doc, opts)

	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID})
}

// runJob drives one async job to completion. It runs detached from the
// submitting request; the reordered document lands in the runner's cache
// where a follow-up reorder call picks it up.
func (s *Server) runJob(job *jobstore.Job, doc *slicedoc.Document, opts pipeline.Options) {
	ctx := context.Background()

	job.MarkRunning()
	s.storeAndPublish(ctx, job)

	opts.Progress = func(done, total int) {
		s.hub.Publish(Event{JobID: job.ID, Type: EventProgress, Done: done, Total: total})
	}

	result, err := s.runner.Execute(ctx, doc, opts)
	if err != nil {
		job.MarkFailed(err)
		s.logger.Error("job failed", "job_id", job.ID, "err", err)
	} else {
		job.MarkDone(result.Stats)
		s.logger.Info("job done", "job_id", job.ID, "walls", result.Stats.Walls, "plan_time", result.Stats.PlanTime)
	}
	s.storeAndPublish(ctx, job)
}

func (s *Server) storeAndPublish(ctx context.Context, job *jobstore.Job) {
	if err := s.jobs.Put(ctx, job); err != nil {
		s.logger.Error("store job", "job_id", job.ID, "err", err)
	}
	s.hub.Publish(stateEvent(job))
}

func stateEvent(job *jobstore.Job) Event {
	return Event{JobID: job.ID, Type: EventState, State: string(job.State), Error: job.Error}
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			writeError(w, s.logger, apperrors.New(apperrors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	jobs, err := s.jobs.List(r.Context(), limit)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if jobs == nil {
		jobs = []*jobstore.Job{}
	}
	writeJSON(w, http.StatusOK, map[string][]*jobstore.Job{"jobs": jobs})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := s.jobs.Get(r.Context(), id)
	if errors.Is(err, jobstore.ErrNotFound) {
		writeError(w, s.logger, apperrors.New(apperrors.ErrCodeJobNotFound, "job %q not found", id))
		return
	}
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleJobEvents upgrades to a WebSocket and streams the job's state
// and progress events. The current state is sent immediately on connect
// so late subscribers still see finished jobs; clients close once they
// observe a terminal state.
func (s *Server) handleJobEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := s.jobs.Get(r.Context(), id)
	if errors.Is(err, jobstore.ErrNotFound) {
		writeError(w, s.logger, apperrors.New(apperrors.ErrCodeJobNotFound, "job %q not found", id))
		return
	}
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.logger.Error("websocket accept", "job_id", id, "err", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()
	if err := writeEvent(ctx, conn, stateEvent(job)); err != nil {
		return
	}
	if job.State.Terminal() {
		return
	}

	s.hub.Add(id, conn)
	defer s.hub.Remove(id, conn)

	// The job may have finished between the snapshot and the subscribe;
	// re-check so the terminal event is never missed.
	if job, err := s.jobs.Get(ctx, id); err == nil && job.State.Terminal() {
		_ = writeEvent(ctx, conn, stateEvent(job))
		return
	}

	// Block until the client disconnects. Reading also services control
	// frames; the hub writes events from other goroutines.
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, event Event) error {
	message, err := json.Marshal(event)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, message)
}
