package api

import (
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/service"
)

// Timestamps travel as milliseconds since the Unix epoch.

func toEpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromEpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// CreateTaskRequest describes one task to create.
type CreateTaskRequest struct {
	ReferenceID      int64  `json:"reference_id"       validate:"required,gt=0"`
	ReferenceType    string `json:"reference_type"     validate:"required"`
	Task             string `json:"task"               validate:"required"`
	AssigneeID       int64  `json:"assignee_id"        validate:"required,gt=0"`
	Priority         string `json:"priority"           validate:"required"`
	TaskDeadlineTime *int64 `json:"task_deadline_time"`
}

// CreateTasksRequest defines the payload for POST /task-mgmt/create.
type CreateTasksRequest struct {
	Requests []CreateTaskRequest `json:"requests" validate:"required,min=1,dive"`
}

// UpdateTaskRequest describes one partial task update. Absent fields are
// left unchanged.
type UpdateTaskRequest struct {
	TaskID      int64   `json:"task_id"     validate:"required,gt=0"`
	TaskStatus  *string `json:"task_status"`
	Description *string `json:"description"`
}

// UpdateTasksRequest defines the payload for POST /task-mgmt/update.
type UpdateTasksRequest struct {
	Requests []UpdateTaskRequest `json:"requests" validate:"required,min=1,dive"`
}

// AssignByReferenceRequest defines the payload for POST /task-mgmt/assign-by-ref.
type AssignByReferenceRequest struct {
	ReferenceID   int64  `json:"reference_id"   validate:"required,gt=0"`
	ReferenceType string `json:"reference_type" validate:"required"`
	AssigneeID    int64  `json:"assignee_id"    validate:"required,gt=0"`
}

// FetchByDateRequest defines the payload for POST /task-mgmt/fetch-by-date/v2.
type FetchByDateRequest struct {
	AssigneeIDs []int64 `json:"assignee_ids" validate:"required"`
	StartDate   *int64  `json:"start_date"   validate:"required"`
	EndDate     *int64  `json:"end_date"     validate:"required"`
}

// CommentResponse is a comment as returned to clients.
type CommentResponse struct {
	Author    string `json:"author"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// ActivityLogResponse is an activity log entry as returned to clients.
type ActivityLogResponse struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID               int64                 `json:"id"`
	ReferenceID      int64                 `json:"reference_id"`
	ReferenceType    string                `json:"reference_type"`
	Task             string                `json:"task"`
	AssigneeID       int64                 `json:"assignee_id"`
	Status           string                `json:"status"`
	Priority         string                `json:"priority"`
	TaskDeadlineTime *int64                `json:"task_deadline_time"`
	Description      string                `json:"description"`
	Comments         []CommentResponse     `json:"comments"`
	ActivityLogs     []ActivityLogResponse `json:"activity_logs"`
	CreatedAt        int64                 `json:"created_at"`
	UpdatedAt        int64                 `json:"updated_at"`
}

// toParams converts the request into domain parameters, rejecting unknown
// enum names.
func (r CreateTaskRequest) toParams() (domain.NewTaskParams, error) {
	refType, err := domain.ParseReferenceType(r.ReferenceType)
	if err != nil {
		return domain.NewTaskParams{}, domain.NewValidationError("reference_type", "is not supported", err)
	}
	taskType, err := domain.ParseTaskType(r.Task)
	if err != nil {
		return domain.NewTaskParams{}, domain.NewValidationError("task", "is not supported", err)
	}
	priority, err := domain.ParsePriority(r.Priority)
	if err != nil {
		return domain.NewTaskParams{}, domain.NewValidationError("priority", "is not supported", err)
	}

	params := domain.NewTaskParams{
		ReferenceID:   r.ReferenceID,
		ReferenceType: refType,
		Type:          taskType,
		AssigneeID:    r.AssigneeID,
		Priority:      priority,
	}
	if r.TaskDeadlineTime != nil {
		deadline := fromEpochMillis(*r.TaskDeadlineTime)
		params.Deadline = &deadline
	}
	return params, nil
}

func (r UpdateTaskRequest) toInput() (service.UpdateTaskInput, error) {
	input := service.UpdateTaskInput{
		TaskID:      r.TaskID,
		Description: r.Description,
	}
	if r.TaskStatus != nil {
		status, err := domain.ParseTaskStatus(*r.TaskStatus)
		if err != nil {
			return service.UpdateTaskInput{}, domain.NewValidationError("task_status", "is not supported", err)
		}
		input.Status = &status
	}
	return input, nil
}

func taskToResponse(task domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:            task.ID,
		ReferenceID:   task.ReferenceID,
		ReferenceType: string(task.ReferenceType),
		Task:          string(task.Type),
		AssigneeID:    task.AssigneeID,
		Status:        string(task.Status),
		Priority:      string(task.Priority),
		Description:   task.Description,
		Comments:      make([]CommentResponse, 0, len(task.Comments)),
		ActivityLogs:  make([]ActivityLogResponse, 0, len(task.ActivityLogs)),
		CreatedAt:     toEpochMillis(task.CreatedAt),
		UpdatedAt:     toEpochMillis(task.UpdatedAt),
	}
	if task.Deadline != nil {
		ms := toEpochMillis(*task.Deadline)
		resp.TaskDeadlineTime = &ms
	}
	for _, c := range task.Comments {
		resp.Comments = append(resp.Comments, CommentResponse{
			Author:    c.Author,
			Message:   c.Message,
			Timestamp: toEpochMillis(c.Timestamp),
		})
	}
	for _, l := range task.ActivityLogs {
		resp.ActivityLogs = append(resp.ActivityLogs, ActivityLogResponse{
			Message:   l.Message,
			Timestamp: toEpochMillis(l.Timestamp),
		})
	}
	return resp
}

func tasksToResponse(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}
