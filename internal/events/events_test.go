package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTask(t *testing.T) domain.Task {
	t.Helper()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	task, err := domain.NewAssignedTask(42, domain.ReferenceTypeShipment, domain.TaskTypePickup, 7, now)
	require.NoError(t, err)
	task.ID = 3
	return task
}

func TestNewTaskEvent(t *testing.T) {
	task := sampleTask(t)
	at := time.Date(2025, 3, 10, 11, 0, 0, 0, time.FixedZone("CET", 3600))

	event := NewTaskEvent(TaskCreated, task, at)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TaskCreated, event.Type)
	assert.Equal(t, int64(3), event.TaskID)
	assert.Equal(t, int64(42), event.ReferenceID)
	assert.Equal(t, domain.ReferenceTypeShipment, event.ReferenceType)
	assert.Equal(t, domain.TaskTypePickup, event.TaskType)
	assert.Equal(t, int64(7), event.AssigneeID)
	assert.Equal(t, domain.TaskStatusAssigned, event.Status)
	assert.Equal(t, domain.PriorityMedium, event.Priority)
	assert.Equal(t, time.UTC, event.OccurredAt.Location())
	assert.True(t, at.Equal(event.OccurredAt))

	other := NewTaskEvent(TaskCreated, task, at)
	assert.NotEqual(t, event.ID, other.ID)
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *TaskEvent
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestHandlerFunc(t *testing.T) {
	var got *TaskEvent
	expectedErr := errors.New("handler error")
	h := HandlerFunc(func(_ context.Context, e *TaskEvent) error {
		got = e
		return expectedErr
	})

	event := NewTaskEvent(TaskCommented, sampleTask(t), time.Now())
	err := h.HandleEvent(context.Background(), event)

	assert.Equal(t, expectedErr, err)
	assert.Same(t, event, got)
}

func TestNopEmitter(t *testing.T) {
	var emitter EventEmitter = NopEmitter{}
	assert.NoError(t, emitter.EmitEvent(context.Background(), NewTaskEvent(TaskUpdated, sampleTask(t), time.Now())))
}
