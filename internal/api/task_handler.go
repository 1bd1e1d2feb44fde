package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/workforce-api/internal/api/shared"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/platform/logger"
	"github.com/phrazzld/workforce-api/internal/service"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for TaskHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// RegisterRoutes mounts the task routes under /task-mgmt.
func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Route("/task-mgmt", func(r chi.Router) {
		r.Post("/create", h.CreateTasks)
		r.Post("/update", h.UpdateTasks)
		r.Post("/assign-by-ref", h.AssignByReference)
		r.Post("/fetch-by-date/v2", h.FetchByDate)
		r.Get("/priority/{priority}", h.GetTasksByPriority)
		r.Get("/{id}", h.GetTask)
		r.Put("/{id}/priority", h.UpdatePriority)
		r.Get("/{id}/details", h.GetTaskDetails)
		r.Post("/{id}/comment", h.AddComment)
	})
}

// GetTask handles GET /task-mgmt/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := h.taskService.FindTaskByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, taskToResponse(*task))
}

// CreateTasks handles POST /task-mgmt/create
func (h *TaskHandler) CreateTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTasksRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}

	params := make([]domain.NewTaskParams, 0, len(req.Requests))
	for _, item := range req.Requests {
		p, err := item.toParams()
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		params = append(params, p)
	}

	tasks, err := h.taskService.CreateTasks(r.Context(), params)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create tasks")
		return
	}

	log.Debug("created tasks", slog.Int("count", len(tasks)))
	shared.RespondWithData(w, r, http.StatusOK, tasksToResponse(tasks))
}

// UpdateTasks handles POST /task-mgmt/update
func (h *TaskHandler) UpdateTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req UpdateTasksRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}

	inputs := make([]service.UpdateTaskInput, 0, len(req.Requests))
	for _, item := range req.Requests {
		in, err := item.toInput()
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		inputs = append(inputs, in)
	}

	tasks, err := h.taskService.UpdateTasks(r.Context(), inputs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update tasks")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, tasksToResponse(tasks))
}

// AssignByReference handles POST /task-mgmt/assign-by-ref
func (h *TaskHandler) AssignByReference(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req AssignByReferenceRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}

	refType, err := domain.ParseReferenceType(req.ReferenceType)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("reference_type", "is not supported", err), "")
		return
	}

	msg, err := h.taskService.AssignByReference(r.Context(), req.ReferenceID, refType, req.AssigneeID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to assign tasks")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, msg)
}

// FetchByDate handles POST /task-mgmt/fetch-by-date/v2
func (h *TaskHandler) FetchByDate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req FetchByDateRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}

	tasks, err := h.taskService.FetchTasksByDate(
		r.Context(),
		req.AssigneeIDs,
		fromEpochMillis(*req.StartDate),
		fromEpochMillis(*req.EndDate),
	)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch tasks")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, tasksToResponse(tasks))
}

// UpdatePriority handles PUT /task-mgmt/{id}/priority?priority=HIGH
func (h *TaskHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	priority, err := domain.ParsePriority(r.URL.Query().Get("priority"))
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("priority", "is not supported", err), "")
		return
	}

	msg, err := h.taskService.UpdatePriority(r.Context(), id, priority)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update priority")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, msg)
}

// GetTasksByPriority handles GET /task-mgmt/priority/{priority}
func (h *TaskHandler) GetTasksByPriority(w http.ResponseWriter, r *http.Request) {
	priority, err := domain.ParsePriority(chi.URLParam(r, "priority"))
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("priority", "is not supported", err), "")
		return
	}

	tasks, err := h.taskService.GetTasksByPriority(r.Context(), priority)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get tasks")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTaskDetails handles GET /task-mgmt/{id}/details
func (h *TaskHandler) GetTaskDetails(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := h.taskService.GetTaskDetails(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task details")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, taskToResponse(*task))
}

// AddComment handles POST /task-mgmt/{id}/comment?author=..&message=..
func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathID(w, r, "id", log)
	if !ok {
		return
	}

	query := r.URL.Query()
	task, err := h.taskService.AddComment(r.Context(), id, query.Get("author"), query.Get("message"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add comment")
		return
	}

	log.Debug("comment added", slog.Int64("task_id", id))
	shared.RespondWithData(w, r, http.StatusOK, taskToResponse(*task))
}
