package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/identity-core/internal/core/domain"
)

func setupTestQueue(t *testing.T) (*Queue, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	queue, err := NewQueue(client, "test-worker")
	if err != nil {
		t.Fatalf("failed to create queue: %v", err)
	}

	return queue, func() {
		client.Close()
		mr.Close()
	}
}

func newAuditTask(t *testing.T) *domain.Task {
	t.Helper()
	task, err := domain.NewAuditTask(&domain.AuditEntry{
		ID:        "entry-1",
		UserID:    "user-1",
		Action:    domain.AuditActionUserRegistered,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to build task: %v", err)
	}
	return task
}

func TestNewQueue_NilClient(t *testing.T) {
	if _, err := NewQueue(nil, "test-worker"); err == nil {
		t.Error("expected error for nil client")
	}
}

func TestQueue_EnqueueDequeue(t *testing.T) {
	queue, cleanup := setupTestQueue(t)
	defer cleanup()

	ctx := context.Background()
	task := newAuditTask(t)

	if err := queue.Enqueue(ctx, task); err != nil {
		t.Fatalf("failed to enqueue: %v", err)
	}

	got, err := queue.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("failed to dequeue: %v", err)
	}
	if got == nil {
		t.Fatal("expected a task")
	}
	if got.ID != task.ID {
		t.Errorf("expected task %s, got %s", task.ID, got.ID)
	}
	if got.Status != domain.TaskStatusProcessing {
		t.Errorf("expected processing status, got %s", got.Status)
	}

	entry, err := domain.AuditEntryFromTask(got)
	if err != nil {
		t.Fatalf("failed to decode entry: %v", err)
	}
	if entry.UserID != "user-1" {
		t.Errorf("expected user-1, got %s", entry.UserID)
	}
}

func TestQueue_Enqueue_NilTask(t *testing.T) {
	queue, cleanup := setupTestQueue(t)
	defer cleanup()

	if err := queue.Enqueue(context.Background(), nil); err == nil {
		t.Error("expected error for nil task")
	}
}

func TestQueue_Ack(t *testing.T) {
	queue, cleanup := setupTestQueue(t)
	defer cleanup()

	ctx := context.Background()
	task := newAuditTask(t)

	if err := queue.Enqueue(ctx, task); err != nil {
		t.Fatalf("failed to enqueue: %v", err)
	}
	got, err := queue.DequeueWithTimeout(ctx, 1)
	if err != nil || got == nil {
		t.Fatalf("failed to dequeue: task=%v err=%v", got, err)
	}

	if err := queue.Ack(ctx, got.ID); err != nil {
		t.Fatalf("failed to ack: %v", err)
	}

	stored, err := queue.getTask(ctx, got.ID)
	if err != nil {
		t.Fatalf("failed to load task: %v", err)
	}
	if stored.Status != domain.TaskStatusCompleted {
		t.Errorf("expected completed status, got %s", stored.Status)
	}
}

func TestQueue_Nack_Retries(t *testing.T) {
	queue, cleanup := setupTestQueue(t)
	defer cleanup()

	ctx := context.Background()
	task := newAuditTask(t)

	if err := queue.Enqueue(ctx, task); err != nil {
		t.Fatalf("failed to enqueue: %v", err)
	}
	got, err := queue.DequeueWithTimeout(ctx, 1)
	if err != nil || got == nil {
		t.Fatalf("failed to dequeue: task=%v err=%v", got, err)
	}

	if err := queue.Nack(ctx, got.ID, "store unavailable"); err != nil {
		t.Fatalf("failed to nack: %v", err)
	}

	// The task comes back for another attempt
	retried, err := queue.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("failed to dequeue retry: %v", err)
	}
	if retried == nil {
		t.Fatal("expected task to be re-enqueued")
	}
	if retried.ID != task.ID {
		t.Errorf("expected task %s, got %s", task.ID, retried.ID)
	}
	if retried.Retries != 1 {
		t.Errorf("expected 1 retry, got %d", retried.Retries)
	}
	if retried.LastError != "store unavailable" {
		t.Errorf("expected last error to be recorded, got %q", retried.LastError)
	}
}

func TestQueue_Nack_ExhaustsRetries(t *testing.T) {
	queue, cleanup := setupTestQueue(t)
	defer cleanup()

	ctx := context.Background()
	task := newAuditTask(t)

	if err := queue.Enqueue(ctx, task); err != nil {
		t.Fatalf("failed to enqueue: %v", err)
	}

	// Burn through the full retry budget
	for i := 0; i <= task.MaxRetries; i++ {
		got, err := queue.DequeueWithTimeout(ctx, 1)
		if err != nil {
			t.Fatalf("failed to dequeue attempt %d: %v", i, err)
		}
		if got == nil {
			t.Fatalf("expected task on attempt %d", i)
		}
		if err := queue.Nack(ctx, got.ID, "still failing"); err != nil {
			t.Fatalf("failed to nack attempt %d: %v", i, err)
		}
	}

	// Retries exhausted: nothing left to dequeue, task marked failed
	got, err := queue.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected dequeue error: %v", err)
	}
	if got != nil {
		t.Errorf("expected empty queue, got task %s", got.ID)
	}

	stored, err := queue.getTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("failed to load task: %v", err)
	}
	if stored.Status != domain.TaskStatusFailed {
		t.Errorf("expected failed status, got %s", stored.Status)
	}
}

func TestQueue_DequeueEmpty(t *testing.T) {
	queue, cleanup := setupTestQueue(t)
	defer cleanup()

	got, err := queue.DequeueWithTimeout(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil task on empty queue, got %+v", got)
	}
}

func TestQueue_Ping(t *testing.T) {
	queue, cleanup := setupTestQueue(t)
	defer cleanup()

	if err := queue.Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}
}
