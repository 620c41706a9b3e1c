package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/custodia-labs/identity-core/internal/config"
	"github.com/custodia-labs/identity-core/internal/core/ports/driven/mocks"
)

// Runs the worker mode against a cancelled context and verifies it
// returns instead of blocking. The call site also pins the by-value
// config plumbing shared with runAPI.
func TestRunWorkerModeStopsOnCancel(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg.Worker.Concurrency = 1
	cfg.Worker.DequeueTimeout = 1

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	done := make(chan struct{})
	go func() {
		runWorkerMode(ctx, cfg, mocks.NewMockTaskQueue(), mocks.NewMockAuditStore(), mocks.NewMockLock(), logger)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker mode did not stop after context cancellation")
	}
}
