// Package tasks tracks try-on request state for the HTTP surface.
package tasks

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrTaskNotFound = errors.New("tasks: task not found")

// Status of a try-on task.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Task is a snapshot of one try-on request's progress.
type Task struct {
	ID        string         `json:"id"`
	Status    Status         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Error     string         `json:"error,omitempty"`
	Result    map[string]any `json:"result,omitempty"`
}

// Manager is an in-memory task registry safe for concurrent use.
type Manager struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewManager creates an empty task registry.
func NewManager() *Manager {
	return &Manager{tasks: make(map[string]*Task)}
}

// Create registers a new queued task and returns its id.
func (m *Manager) Create() string {
	id := uuid.NewString()
	now := time.Now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[id] = &Task{ID: id, Status: StatusQueued, CreatedAt: now, UpdatedAt: now}
	return id
}

// Start marks the task as running.
func (m *Manager) Start(id string) error {
	return m.update(id, func(t *Task) {
		t.Status = StatusRunning
	})
}

// Complete marks the task as done and attaches its result payload.
func (m *Manager) Complete(id string, result map[string]any) error {
	return m.update(id, func(t *Task) {
		t.Status = StatusDone
		t.Result = result
	})
}

// Fail marks the task as failed and records the failure description.
func (m *Manager) Fail(id string, cause error) error {
	return m.update(id, func(t *Task) {
		t.Status = StatusFailed
		if cause != nil {
			t.Error = cause.Error()
		}
	})
}

// Get returns a copy of the task's current state.
func (m *Manager) Get(id string) (Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	task, ok := m.tasks[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	return *task, nil
}

func (m *Manager) update(id string, apply func(*Task)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	apply(task)
	task.UpdatedAt = time.Now().UTC()
	return nil
}
