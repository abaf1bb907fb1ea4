// Package jobstore tracks asynchronous reorder jobs.
//
// A job records one reorder request from submission to completion. The
// Store interface supports different backends:
//   - memory: in-memory storage for development and single-instance servers
//   - mongo: MongoDB-backed storage for deployments that need job history
//     to survive restarts
//
// # Usage
//
// Create a store and submit a job:
//
//	store := jobstore.NewMemoryStore()
//	job := jobstore.New(policy.String())
//	if err := store.Put(ctx, job); err != nil {
//	    return err
//	}
//
// Update it as the pipeline progresses:
//
//	job.MarkRunning()
//	store.Put(ctx, job)
//	// ... run the pipeline ...
//	job.MarkDone(result.Stats)
//	store.Put(ctx, job)
package jobstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/slicekit/wallseq/pkg/pipeline"
)

// ErrNotFound is returned when a job does not exist.
var ErrNotFound = errors.New("job not found")

// State is the lifecycle phase of a job.
type State string

// Job states. A job moves queued -> running -> done or failed.
const (
	StateQueued  State = "queued"
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// Terminal reports whether the state is final.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

// Job records one asynchronous reorder request.
type Job struct {
	ID         string         `json:"id" bson:"_id"`
	State      State          `json:"state" bson:"state"`
	Policy     string         `json:"policy" bson:"policy"`
	Stats      pipeline.Stats `json:"stats" bson:"stats"`
	Error      string         `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
	FinishedAt time.Time      `json:"finished_at" bson:"finished_at"`
}

// New creates a queued job for the given policy key.
func New(policy string) *Job {
	return &Job{
		ID:        uuid.NewString(),
		State:     StateQueued,
		Policy:    policy,
		CreatedAt: time.Now().UTC(),
	}
}

// MarkRunning transitions the job to running.
func (j *Job) MarkRunning() {
	j.State = StateRunning
}

// MarkDone transitions the job to done and records the pipeline stats.
func (j *Job) MarkDone(stats pipeline.Stats) {
	j.State = StateDone
	j.Stats = stats
	j.FinishedAt = time.Now().UTC()
}

// MarkFailed transitions the job to failed and records the error.
func (j *Job) MarkFailed(err error) {
	j.State = StateFailed
	if err != nil {
		j.Error = err.Error()
	}
	j.FinishedAt = time.Now().UTC()
}

// Store is the interface for job storage backends.
type Store interface {
	// Get retrieves a job by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Job, error)

	// Put stores a job, replacing any existing job with the same ID.
	Put(ctx context.Context, job *Job) error

	// List returns up to limit jobs, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*Job, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
