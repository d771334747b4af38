package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// CPUWorkerPool manages a pool of workers for CPU-bound tasks.
// All workers share a single bounded queue; a full queue rejects new work
// instead of blocking the caller.
type CPUWorkerPool struct {
	name        string
	logger      *slog.Logger
	workerCount int
	queueSize   int

	// Single shared queue (all workers pull from this)
	queue chan *WorkUnit

	// Task handlers by task name
	handlers map[string]CPUTaskHandler
	mu       sync.RWMutex

	running   atomic.Bool
	stopped   chan struct{}
	inFlight  atomic.Int32
	completed atomic.Int64
	failed    atomic.Int64
}

// CPUWorkerPoolConfig configures a new CPU worker pool.
type CPUWorkerPoolConfig struct {
	Name        string
	Logger      *slog.Logger
	WorkerCount int // Number of worker goroutines (default: 1)
	QueueSize   int // Queue size (default: 64)
}

// NewCPUWorkerPool creates a new CPU worker pool.
func NewCPUWorkerPool(cfg CPUWorkerPoolConfig) *CPUWorkerPool {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := cfg.Name
	if name == "" {
		name = "cpu"
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}

	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
	}

	return &CPUWorkerPool{
		name:        name,
		logger:      logger.With("pool", name, "type", PoolTypeCPU, "workers", workerCount),
		workerCount: workerCount,
		queueSize:   queueSize,
		queue:       make(chan *WorkUnit, queueSize),
		stopped:     make(chan struct{}),
		handlers:    make(map[string]CPUTaskHandler),
	}
}

// RegisterHandler registers a handler for a task type.
// Must be called before Start.
func (p *CPUWorkerPool) RegisterHandler(taskName string, handler CPUTaskHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[taskName] = handler
	p.logger.Debug("registered CPU task handler", "task", taskName)
}

// Name returns the pool name.
func (p *CPUWorkerPool) Name() string {
	return p.name
}

// Type returns PoolTypeCPU.
func (p *CPUWorkerPool) Type() PoolType {
	return PoolTypeCPU
}

// Running reports whether the pool is accepting work.
func (p *CPUWorkerPool) Running() bool {
	return p.running.Load()
}

// Start begins the pool's processing. Blocks until ctx cancelled.
// A pool cannot be restarted once stopped.
func (p *CPUWorkerPool) Start(ctx context.Context) {
	select {
	case <-p.stopped:
		p.logger.Warn("cpu pool already stopped, not restarting")
		return
	default:
	}
	p.logger.Info("cpu pool starting", "queue_size", p.queueSize)

	var wg sync.WaitGroup
	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.worker(ctx, id)
		}(i)
	}
	p.running.Store(true)

	<-ctx.Done()
	p.running.Store(false)
	close(p.stopped)
	wg.Wait()
	p.drain(ctx.Err())
	p.logger.Info("pool stopped")
}

// worker processes work units from the shared queue.
func (p *CPUWorkerPool) worker(ctx context.Context, id int) {
	p.logger.Debug("cpu worker started", "worker_id", id)
	for {
		select {
		case <-ctx.Done():
			return

		case unit := <-p.queue:
			p.inFlight.Add(1)
			result := p.process(unit)
			p.inFlight.Add(-1)
			if result.Success {
				p.completed.Add(1)
			} else {
				p.failed.Add(1)
			}
			p.logger.Debug("cpu worker completed unit", "worker_id", id, "unit_id", unit.ID,
				"success", result.Success, "duration", result.Duration)
			unit.done <- result
		}
	}
}

// drain fails every unit still queued when the pool stops.
func (p *CPUWorkerPool) drain(cause error) {
	for {
		select {
		case unit := <-p.queue:
			unit.done <- WorkResult{
				WorkUnitID: unit.ID,
				Error:      fmt.Errorf("%w: %v", ErrPoolNotRunning, cause),
			}
		default:
			return
		}
	}
}

// Submit adds a work unit to the pool's queue.
func (p *CPUWorkerPool) Submit(unit *WorkUnit) error {
	if !p.running.Load() {
		return fmt.Errorf("%w: %s", ErrPoolNotRunning, p.name)
	}
	select {
	case p.queue <- unit:
		p.logger.Debug("cpu pool accepted unit", "unit_id", unit.ID, "queue_len", len(p.queue))
		return nil
	default:
		p.logger.Warn("cpu pool queue full", "unit_id", unit.ID)
		return fmt.Errorf("%w: %s", ErrWorkerQueueFull, p.name)
	}
}

// Do submits req and waits for its result or for ctx to end, whichever
// comes first. A unit abandoned by its caller is skipped if still queued.
func (p *CPUWorkerPool) Do(ctx context.Context, req *CPUWorkRequest) (*CPUWorkResult, error) {
	unit := NewWorkUnit(ctx, req)
	if err := p.Submit(unit); err != nil {
		return nil, err
	}

	select {
	case res := <-unit.Done():
		if !res.Success {
			return nil, res.Error
		}
		return res.CPUResult, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%s task %s: %w", p.name, req.Task, ctx.Err())
	case <-p.stopped:
		// The worker may still deliver; prefer its result.
		select {
		case res := <-unit.Done():
			if !res.Success {
				return nil, res.Error
			}
			return res.CPUResult, nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrPoolNotRunning, p.name)
		}
	}
}

// Status returns current pool status.
func (p *CPUWorkerPool) Status() PoolStatus {
	return PoolStatus{
		Name:       p.name,
		Type:       string(PoolTypeCPU),
		Running:    p.running.Load(),
		Workers:    p.workerCount,
		InFlight:   int(p.inFlight.Load()),
		QueueDepth: len(p.queue),
		QueueSize:  p.queueSize,
		Completed:  p.completed.Load(),
		Failed:     p.failed.Load(),
	}
}

// process executes a CPU work unit.
func (p *CPUWorkerPool) process(unit *WorkUnit) WorkResult {
	start := time.Now()
	result := WorkResult{
		WorkUnitID: unit.ID,
		QueueWait:  start.Sub(unit.SubmittedAt),
	}

	ctx := unit.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		result.Error = fmt.Errorf("work unit abandoned before start: %w", err)
		return result
	}

	if unit.CPURequest == nil {
		result.Error = fmt.Errorf("CPU work unit missing CPURequest")
		return result
	}

	// Find handler for this task
	p.mu.RLock()
	handler, ok := p.handlers[unit.CPURequest.Task]
	p.mu.RUnlock()

	if !ok {
		result.Error = fmt.Errorf("%w: %s", ErrNoHandler, unit.CPURequest.Task)
		return result
	}

	cpuResult, err := p.runHandler(ctx, handler, unit.CPURequest)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err
		p.logger.Debug("CPU work unit failed", "unit_id", unit.ID, "task", unit.CPURequest.Task, "error", err)
		return result
	}

	result.Success = true
	result.CPUResult = cpuResult
	return result
}

// runHandler calls handler and reports a panic as ErrHandlerPanic.
func (p *CPUWorkerPool) runHandler(ctx context.Context, handler CPUTaskHandler, req *CPUWorkRequest) (res *CPUWorkResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("CPU task handler panicked", "task", req.Task, "panic", r)
			res, err = nil, fmt.Errorf("%w: %s: %v", ErrHandlerPanic, req.Task, r)
		}
	}()
	return handler(ctx, req)
}
