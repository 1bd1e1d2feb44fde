package domain

import (
	"fmt"
	"time"
)

// Descriptions written by automated transitions.
const (
	DescriptionCreated            = "New task created."
	DescriptionCreatedByAssign    = "New task created by assign-by-ref."
	DescriptionReassigned         = "Task reassigned to new user."
	DescriptionDuplicateCancelled = "Duplicate task cancelled during reassignment."
)

// DefaultAssignDeadline is how far in the future a task created by
// assign-by-reference is due.
const DefaultAssignDeadline = 24 * time.Hour

// Comment is a note left on a task by a user.
type Comment struct {
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityLog is an automatically recorded entry in a task's history.
type ActivityLog struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Task is a unit of work tied to an external business reference.
//
// Task is handled as a value: every transition returns a new Task and never
// mutates the receiver, so copies handed out by a store cannot alias.
type Task struct {
	ID            int64         `json:"id"`
	ReferenceID   int64         `json:"reference_id"`
	ReferenceType ReferenceType `json:"reference_type"`
	Type          TaskType      `json:"task"`
	AssigneeID    int64         `json:"assignee_id"`
	Status        TaskStatus    `json:"status"`
	Priority      Priority      `json:"priority"`
	Deadline      *time.Time    `json:"task_deadline_time,omitempty"`
	Description   string        `json:"description"`
	Comments      []Comment     `json:"comments"`
	ActivityLogs  []ActivityLog `json:"activity_logs"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewTaskParams holds the caller-supplied attributes of a new task.
type NewTaskParams struct {
	ReferenceID   int64
	ReferenceType ReferenceType
	Type          TaskType
	AssigneeID    int64
	Priority      Priority
	Deadline      *time.Time
	Description   string
}

// NewTask creates an ASSIGNED task that has not been persisted yet (ID 0).
// Returns an error if validation fails.
func NewTask(params NewTaskParams, now time.Time) (Task, error) {
	now = now.UTC()
	task := Task{
		ReferenceID:   params.ReferenceID,
		ReferenceType: params.ReferenceType,
		Type:          params.Type,
		AssigneeID:    params.AssigneeID,
		Status:        TaskStatusAssigned,
		Priority:      params.Priority,
		Deadline:      copyTime(params.Deadline),
		Description:   params.Description,
		Comments:      []Comment{},
		ActivityLogs:  []ActivityLog{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := task.Validate(); err != nil {
		return Task{}, err
	}
	return task, nil
}

// NewAssignedTask creates the task assign-by-reference uses when a reference
// has no open task of the given type: MEDIUM priority, due in 24 hours.
func NewAssignedTask(refID int64, refType ReferenceType, taskType TaskType, assigneeID int64, now time.Time) (Task, error) {
	deadline := now.UTC().Add(DefaultAssignDeadline)
	return NewTask(NewTaskParams{
		ReferenceID:   refID,
		ReferenceType: refType,
		Type:          taskType,
		AssigneeID:    assigneeID,
		Priority:      PriorityMedium,
		Deadline:      &deadline,
		Description:   DescriptionCreatedByAssign,
	}, now)
}

// Validate checks if the Task has valid data.
func (t Task) Validate() error {
	if !t.ReferenceType.IsValid() {
		return NewValidationError("reference_type", fmt.Sprintf("%q is not supported", t.ReferenceType), ErrInvalidReferenceType)
	}
	if !t.Type.IsValid() {
		return NewValidationError("task", fmt.Sprintf("%q is not supported", t.Type), ErrInvalidTaskType)
	}
	if !t.Status.IsValid() {
		return NewValidationError("status", fmt.Sprintf("%q is not supported", t.Status), ErrInvalidTaskStatus)
	}
	if !t.Priority.IsValid() {
		return NewValidationError("priority", fmt.Sprintf("%q is not supported", t.Priority), ErrInvalidPriority)
	}
	return nil
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	c := t
	c.Deadline = copyTime(t.Deadline)
	c.Comments = append([]Comment{}, t.Comments...)
	c.ActivityLogs = append([]ActivityLog{}, t.ActivityLogs...)
	return c
}

// AssignTo returns a copy of t owned by assigneeID and back in ASSIGNED.
func (t Task) AssignTo(assigneeID int64, now time.Time) Task {
	c := t.Clone()
	c.AssigneeID = assigneeID
	c.Status = TaskStatusAssigned
	c.Description = DescriptionReassigned
	c.UpdatedAt = now.UTC()
	return c
}

// CancelAsDuplicate returns a CANCELLED copy of t.
func (t Task) CancelAsDuplicate(now time.Time) Task {
	c := t.Clone()
	c.Status = TaskStatusCancelled
	c.Description = DescriptionDuplicateCancelled
	c.UpdatedAt = now.UTC()
	return c
}

// WithStatus returns a copy of t in the given status.
func (t Task) WithStatus(status TaskStatus, now time.Time) (Task, error) {
	if !status.IsValid() {
		return Task{}, NewValidationError("status", fmt.Sprintf("%q is not supported", status), ErrInvalidTaskStatus)
	}
	c := t.Clone()
	c.Status = status
	c.UpdatedAt = now.UTC()
	return c, nil
}

// WithDescription returns a copy of t carrying description.
func (t Task) WithDescription(description string, now time.Time) Task {
	c := t.Clone()
	c.Description = description
	c.UpdatedAt = now.UTC()
	return c
}

// WithPriority returns a copy of t with the given priority.
func (t Task) WithPriority(priority Priority, now time.Time) (Task, error) {
	if !priority.IsValid() {
		return Task{}, NewValidationError("priority", fmt.Sprintf("%q is not supported", priority), ErrInvalidPriority)
	}
	c := t.Clone()
	c.Priority = priority
	c.UpdatedAt = now.UTC()
	return c, nil
}

// WithComment returns a copy of t with one more comment and the matching
// activity log entry.
func (t Task) WithComment(author, message string, now time.Time) (Task, error) {
	if author == "" {
		return Task{}, NewValidationError("author", "cannot be empty", ErrEmptyCommentAuthor)
	}
	if message == "" {
		return Task{}, NewValidationError("message", "cannot be empty", ErrEmptyCommentMessage)
	}

	now = now.UTC()
	c := t.Clone()
	c.Comments = append(c.Comments, Comment{Author: author, Message: message, Timestamp: now})
	c.ActivityLogs = append(c.ActivityLogs, ActivityLog{
		Message:   author + " added a comment.",
		Timestamp: now,
	})
	c.UpdatedAt = now
	return c, nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
