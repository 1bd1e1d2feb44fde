package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/workforce-api/internal/domain"
)

// EventType names a task transition.
type EventType string

// Task event types.
const (
	TaskCreated         EventType = "task.created"
	TaskReassigned      EventType = "task.reassigned"
	TaskCancelled       EventType = "task.cancelled"
	TaskUpdated         EventType = "task.updated"
	TaskPriorityChanged EventType = "task.priority_changed"
	TaskCommented       EventType = "task.commented"
)

// TaskEvent describes a task as it was persisted by one transition.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Type          EventType            `json:"type"`
	TaskID        int64                `json:"task_id"`
	ReferenceID   int64                `json:"reference_id"`
	ReferenceType domain.ReferenceType `json:"reference_type"`
	TaskType      domain.TaskType      `json:"task"`
	AssigneeID    int64                `json:"assignee_id"`
	Status        domain.TaskStatus    `json:"status"`
	Priority      domain.Priority      `json:"priority"`

	// OccurredAt is the time of the transition, not of delivery
	OccurredAt time.Time `json:"occurred_at"`
}

// NewTaskEvent creates a TaskEvent of the given type for task.
func NewTaskEvent(eventType EventType, task domain.Task, occurredAt time.Time) *TaskEvent {
	return &TaskEvent{
		ID:            uuid.New(),
		Type:          eventType,
		TaskID:        task.ID,
		ReferenceID:   task.ReferenceID,
		ReferenceType: task.ReferenceType,
		TaskType:      task.Type,
		AssigneeID:    task.AssigneeID,
		Status:        task.Status,
		Priority:      task.Priority,
		OccurredAt:    occurredAt.UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// HandlerFunc adapts an ordinary function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *TaskEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *TaskEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}

// NopEmitter discards every event.
type NopEmitter struct{}

// EmitEvent implements EventEmitter.
func (NopEmitter) EmitEvent(context.Context, *TaskEvent) error { return nil }
