package domain

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"time"
)

// GenerateID creates a unique random ID.
func GenerateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// TaskType identifies the type of background task
type TaskType string

const (
	// TaskTypeIngestDocuments bulk-loads a batch of documents into the
	// knowledge base, computing embeddings off the request path
	TaskTypeIngestDocuments TaskType = "ingest_documents"
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
	ID          string     `json:"id"`
	Type        TaskType   `json:"type"`
	Payload     string     `json:"payload"` // JSON-encoded, type-specific
	Status      TaskStatus `json:"status"`
	Attempts    int        `json:"attempts"`
	MaxAttempts int        `json:"max_attempts"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MarkProcessing transitions the task to processing and counts the attempt
func (t *Task) MarkProcessing() {
	t.Status = TaskStatusProcessing
	t.Attempts++
	t.UpdatedAt = time.Now()
}

// MarkCompleted transitions the task to completed
func (t *Task) MarkCompleted() {
	t.Status = TaskStatusCompleted
	t.Error = ""
	t.UpdatedAt = time.Now()
}

// MarkFailed transitions the task to failed with a terminal reason
func (t *Task) MarkFailed(reason string) {
	t.Status = TaskStatusFailed
	t.Error = reason
	t.UpdatedAt = time.Now()
}

// CanRetry reports whether the task has attempts left
func (t *Task) CanRetry() bool {
	return t.Attempts < t.MaxAttempts
}

// Retry resets the task to pending, recording the failure reason
func (t *Task) Retry(reason string) {
	t.Status = TaskStatusPending
	t.Error = reason
	t.UpdatedAt = time.Now()
}

// IngestPayload is the payload of a TaskTypeIngestDocuments task
type IngestPayload struct {
	Documents []*Document `json:"documents"`
}

// NewIngestTask creates a bulk-ingest task for the given documents
func NewIngestTask(docs []*Document) (*Task, error) {
	payload, err := json.Marshal(IngestPayload{Documents: docs})
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Task{
		ID:          GenerateID(),
		Type:        TaskTypeIngestDocuments,
		Payload:     string(payload),
		Status:      TaskStatusPending,
		MaxAttempts: 3,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// DecodeIngestPayload parses the payload of an ingest task
func (t *Task) DecodeIngestPayload() (*IngestPayload, error) {
	var p IngestPayload
	if err := json.Unmarshal([]byte(t.Payload), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
