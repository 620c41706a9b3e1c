package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TaskType identifies the type of background task
type TaskType string

const (
	// TaskTypeAuditRecord writes one audit entry to the audit store
	TaskTypeAuditRecord TaskType = "audit_record"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task represents a background job to be processed by workers
type Task struct {
	ID         string            `json:"id"`
	Type       TaskType          `json:"type"`
	Payload    map[string]string `json:"payload"`
	Status     TaskStatus        `json:"status"`
	Retries    int               `json:"retries"`
	MaxRetries int               `json:"max_retries"`
	LastError  string            `json:"last_error,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NewAuditTask builds a task carrying a serialized audit entry.
func NewAuditTask(entry *AuditEntry) (*Task, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	return &Task{
		ID:         uuid.NewString(),
		Type:       TaskTypeAuditRecord,
		Payload:    map[string]string{"entry": string(data)},
		Status:     TaskStatusPending,
		MaxRetries: 3,
		CreatedAt:  time.Now(),
	}, nil
}

// MarkProcessing transitions the task to processing
func (t *Task) MarkProcessing() {
	t.Status = TaskStatusProcessing
}

// MarkCompleted transitions the task to completed
func (t *Task) MarkCompleted() {
	t.Status = TaskStatusCompleted
}

// MarkFailed transitions the task to failed with the final error
func (t *Task) MarkFailed(reason string) {
	t.Status = TaskStatusFailed
	t.LastError = reason
}

// CanRetry reports whether the task has retry budget left
func (t *Task) CanRetry() bool {
	return t.Retries < t.MaxRetries
}

// Retry consumes one retry and returns the task to pending
func (t *Task) Retry(reason string) {
	t.Retries++
	t.LastError = reason
	t.Status = TaskStatusPending
}

// AuditEntryFromTask decodes the audit entry carried by an audit_record task.
func AuditEntryFromTask(task *Task) (*AuditEntry, error) {
	raw, ok := task.Payload["entry"]
	if !ok {
		return nil, ErrInvalidInput
	}
	var entry AuditEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
