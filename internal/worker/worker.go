package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/custodia-labs/identity-core/internal/core/domain"
	"github.com/custodia-labs/identity-core/internal/core/ports/driven"
)

// retentionLockName guards the sweep so one instance runs it at a time
const retentionLockName = "audit-retention-sweep"

// Worker drains the task queue and writes audit entries to the audit
// store. It also runs the periodic retention sweep that purges entries
// older than the configured retention period.
type Worker struct {
	taskQueue  driven.TaskQueue
	auditStore driven.AuditStore
	lock       driven.DistributedLock
	logger     *slog.Logger

	// Configuration
	concurrency    int
	dequeueTimeout int // seconds
	retention      time.Duration
	sweepInterval  time.Duration

	// Internal state
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Config holds configuration for the worker.
type Config struct {
	TaskQueue      driven.TaskQueue
	AuditStore     driven.AuditStore
	Lock           driven.DistributedLock
	Logger         *slog.Logger
	Concurrency    int           // Number of concurrent task processors
	DequeueTimeout int           // Seconds to wait for a task before checking again
	Retention      time.Duration // How long audit entries are kept
	SweepInterval  time.Duration // How often the retention sweep runs
}

// New creates a new audit worker.
func New(cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	dequeueTimeout := cfg.DequeueTimeout
	if dequeueTimeout <= 0 {
		dequeueTimeout = 5
	}

	retention := cfg.Retention
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}

	sweepInterval := cfg.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = time.Hour
	}

	return &Worker{
		taskQueue:      cfg.TaskQueue,
		auditStore:     cfg.AuditStore,
		lock:           cfg.Lock,
		logger:         logger,
		concurrency:    concurrency,
		dequeueTimeout: dequeueTimeout,
		retention:      retention,
		sweepInterval:  sweepInterval,
	}
}

// Start begins the worker loop.
// It runs until Stop is called or context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info("worker starting",
		"concurrency", w.concurrency,
		"dequeue_timeout", w.dequeueTimeout,
		"retention", w.retention,
	)

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.processLoop(ctx, workerID)
		}(i)
	}

	// Retention sweep runs beside the task processors
	if w.lock != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.sweepLoop(ctx)
		}()
	}

	go func() {
		wg.Wait()
		close(w.doneCh)
	}()

	return nil
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()

	// Wait for processors to finish
	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("worker stopped")
}

// Wait blocks until the worker stops.
func (w *Worker) Wait() {
	<-w.doneCh
}

// processLoop is the main processing loop for a worker goroutine.
func (w *Worker) processLoop(ctx context.Context, workerID int) {
	logger := w.logger.With("worker_id", workerID)
	logger.Info("worker goroutine started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker context cancelled")
			return
		case <-w.stopCh:
			logger.Info("worker stop signal received")
			return
		default:
		}

		task, err := w.taskQueue.DequeueWithTimeout(ctx, w.dequeueTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			logger.Error("failed to dequeue task", "error", err)
			time.Sleep(time.Second) // Back off on error
			continue
		}

		if task == nil {
			// No task available, continue
			continue
		}

		w.processTask(ctx, task, logger)
	}
}

// processTask processes a single task.
func (w *Worker) processTask(ctx context.Context, task *domain.Task, logger *slog.Logger) {
	logger = logger.With("task_id", task.ID, "task_type", task.Type)
	logger.Info("processing task")

	startTime := time.Now()
	var err error

	switch task.Type {
	case domain.TaskTypeAuditRecord:
		err = w.handleAuditRecord(ctx, task)
	default:
		err = fmt.Errorf("unknown task type: %s", task.Type)
	}

	duration := time.Since(startTime)

	if err != nil {
		logger.Error("task failed",
			"duration", duration,
			"error", err,
		)

		// Nack the task so it can be retried
		if nackErr := w.taskQueue.Nack(ctx, task.ID, err.Error()); nackErr != nil {
			logger.Error("failed to nack task", "nack_error", nackErr)
		}
		return
	}

	logger.Info("task completed", "duration", duration)

	if ackErr := w.taskQueue.Ack(ctx, task.ID); ackErr != nil {
		logger.Error("failed to ack task", "ack_error", ackErr)
	}
}

// handleAuditRecord writes the audit entry carried by the task.
func (w *Worker) handleAuditRecord(ctx context.Context, task *domain.Task) error {
	entry, err := domain.AuditEntryFromTask(task)
	if err != nil {
		return fmt.Errorf("decode audit entry: %w", err)
	}

	if err := w.auditStore.Record(ctx, entry); err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}

	return nil
}

// sweepLoop periodically purges audit entries past the retention period.
func (w *Worker) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.runSweep(ctx)
		}
	}
}

// runSweep executes one retention sweep under the distributed lock so
// only one instance purges at a time.
func (w *Worker) runSweep(ctx context.Context) {
	acquired, err := w.lock.Acquire(ctx, retentionLockName, w.sweepInterval)
	if err != nil {
		w.logger.Error("failed to acquire retention lock", "error", err)
		return
	}
	if !acquired {
		// Another instance is sweeping
		return
	}
	defer func() {
		if err := w.lock.Release(ctx, retentionLockName); err != nil {
			w.logger.Error("failed to release retention lock", "error", err)
		}
	}()

	cutoff := time.Now().Add(-w.retention)
	purged, err := w.auditStore.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		w.logger.Error("retention sweep failed", "error", err)
		return
	}

	if purged > 0 {
		w.logger.Info("retention sweep completed", "purged", purged, "cutoff", cutoff)
	}
}

// Health returns health status of the worker.
type Health struct {
	Running     bool   `json:"running"`
	QueueHealth bool   `json:"queue_health"`
	Error       string `json:"error,omitempty"`
}

// Health returns the health status of the worker.
func (w *Worker) Health(ctx context.Context) Health {
	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()

	health := Health{
		Running: running,
	}

	if err := w.taskQueue.Ping(ctx); err != nil {
		health.QueueHealth = false
		health.Error = err.Error()
	} else {
		health.QueueHealth = true
	}

	return health
}
