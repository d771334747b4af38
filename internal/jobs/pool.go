package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PoolType indicates what kind of work this pool handles.
type PoolType string

const (
	PoolTypeCPU PoolType = "cpu"
)

var (
	// ErrWorkerQueueFull is returned when a pool cannot accept more work.
	ErrWorkerQueueFull = errors.New("worker queue full")

	// ErrPoolNotRunning is returned when work is submitted before Start or after shutdown.
	ErrPoolNotRunning = errors.New("worker pool not running")

	// ErrNoHandler is returned when no handler is registered for a task.
	ErrNoHandler = errors.New("no handler registered for task")

	// ErrHandlerPanic is returned when a task handler panics.
	ErrHandlerPanic = errors.New("task handler panicked")
)

// PoolStatus reports a pool's current state.
type PoolStatus struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Running    bool   `json:"running"`
	Workers    int    `json:"workers"`
	InFlight   int    `json:"in_flight"`
	QueueDepth int    `json:"queue_depth"`
	QueueSize  int    `json:"queue_size"`
	Completed  int64  `json:"completed"`
	Failed     int64  `json:"failed"`
}

// CPUWorkRequest is the payload of a CPU work unit.
type CPUWorkRequest struct {
	Task string
	Data any
}

// CPUWorkResult is what a CPU task handler returns.
type CPUWorkResult struct {
	Data any
}

// CPUTaskHandler processes a CPU work request and returns a result.
// Implementations should be safe for concurrent use.
type CPUTaskHandler func(ctx context.Context, req *CPUWorkRequest) (*CPUWorkResult, error)

// WorkUnit is a single request queued on a pool.
type WorkUnit struct {
	ID          string
	CPURequest  *CPUWorkRequest
	SubmittedAt time.Time

	ctx  context.Context
	done chan WorkResult
}

// NewWorkUnit creates a work unit bound to ctx. The unit is skipped if ctx
// is done before a worker picks it up.
func NewWorkUnit(ctx context.Context, req *CPUWorkRequest) *WorkUnit {
	return &WorkUnit{
		ID:          uuid.New().String(),
		CPURequest:  req,
		SubmittedAt: time.Now(),
		ctx:         ctx,
		done:        make(chan WorkResult, 1),
	}
}

// Done returns the channel that receives the unit's result exactly once.
func (u *WorkUnit) Done() <-chan WorkResult {
	return u.done
}

// WorkResult is the outcome of a work unit.
type WorkResult struct {
	WorkUnitID string
	Success    bool
	CPUResult  *CPUWorkResult
	Error      error
	QueueWait  time.Duration
	Duration   time.Duration
}
