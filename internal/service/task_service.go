package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/events"
	"github.com/phrazzld/workforce-api/internal/platform/logger"
	"github.com/phrazzld/workforce-api/internal/store"
)

// Confirmation messages returned by command operations.
const (
	MsgAssignedFormat  = "Tasks assigned successfully for reference %d"
	MsgPriorityUpdated = "Priority updated successfully."
)

// UpdateTaskInput describes one partial task update. Nil fields are left
// unchanged.
type UpdateTaskInput struct {
	TaskID      int64
	Status      *domain.TaskStatus
	Description *string
}

// TaskService provides task management operations
type TaskService interface {
	// FindTaskByID retrieves a task by its ID.
	// Returns store.ErrTaskNotFound (wrapped) if it does not exist.
	FindTaskByID(ctx context.Context, id int64) (*domain.Task, error)

	// CreateTasks creates one ASSIGNED task per input, in order.
	CreateTasks(ctx context.Context, inputs []domain.NewTaskParams) ([]domain.Task, error)

	// UpdateTasks applies each partial update, in order. Processing stops at
	// the first unknown task ID.
	UpdateTasks(ctx context.Context, inputs []UpdateTaskInput) ([]domain.Task, error)

	// AssignByReference hands every task the catalog requires for the
	// reference to assigneeID, creating, reassigning or cancelling tasks so
	// that exactly one task per type ends up ASSIGNED.
	AssignByReference(
		ctx context.Context,
		refID int64,
		refType domain.ReferenceType,
		assigneeID int64,
	) (string, error)

	// FetchTasksByDate returns the tasks of the given assignees that match
	// InDateWindow for [start, end].
	FetchTasksByDate(ctx context.Context, assigneeIDs []int64, start, end time.Time) ([]domain.Task, error)

	// UpdatePriority sets the priority of one task.
	UpdatePriority(ctx context.Context, id int64, priority domain.Priority) (string, error)

	// GetTasksByPriority returns every task with the given priority.
	GetTasksByPriority(ctx context.Context, priority domain.Priority) ([]domain.Task, error)

	// GetTaskDetails returns a task with its comments and activity log.
	GetTaskDetails(ctx context.Context, id int64) (*domain.Task, error)

	// AddComment appends a comment and the matching activity log entry.
	AddComment(ctx context.Context, id int64, author, message string) (*domain.Task, error)
}

// Option configures a TaskService.
type Option func(*taskServiceImpl)

// WithClock overrides the time source used for deadlines and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *taskServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	store   store.TaskStore
	catalog *domain.Catalog
	emitter events.EventEmitter
	now     func() time.Time
	logger  *slog.Logger
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
// It returns an error if the store or catalog is nil. A nil emitter discards
// events and a nil logger falls back to the default logger.
func NewTaskService(
	taskStore store.TaskStore,
	catalog *domain.Catalog,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...Option,
) (TaskService, error) {
	if taskStore == nil {
		return nil, domain.NewValidationError("taskStore", "cannot be nil", domain.ErrValidation)
	}
	if catalog == nil {
		return nil, domain.NewValidationError("catalog", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		store:   taskStore,
		catalog: catalog,
		emitter: emitter,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "task_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// FindTaskByID implements TaskService.FindTaskByID
func (s *taskServiceImpl) FindTaskByID(ctx context.Context, id int64) (*domain.Task, error) {
	return s.getTask(ctx, "find_task_by_id", id)
}

// CreateTasks implements TaskService.CreateTasks
func (s *taskServiceImpl) CreateTasks(ctx context.Context, inputs []domain.NewTaskParams) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	created := make([]domain.Task, 0, len(inputs))
	for i, params := range inputs {
		params.Description = domain.DescriptionCreated
		task, err := domain.NewTask(params, s.now())
		if err != nil {
			log.Debug("rejected task creation request",
				slog.Int("index", i),
				slog.String("error", err.Error()))
			return nil, err
		}

		saved, err := s.store.Save(ctx, task)
		if err != nil {
			log.Error("failed to save new task",
				slog.String("error", err.Error()),
				slog.Int64("reference_id", params.ReferenceID))
			return nil, NewTaskServiceError("create_tasks", "failed to save task", err)
		}

		s.emit(ctx, events.TaskCreated, *saved)
		created = append(created, *saved)
	}

	log.Info("created tasks", slog.Int("count", len(created)))
	return created, nil
}

// UpdateTasks implements TaskService.UpdateTasks
func (s *taskServiceImpl) UpdateTasks(ctx context.Context, inputs []UpdateTaskInput) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	updated := make([]domain.Task, 0, len(inputs))
	for _, in := range inputs {
		task, err := s.getTask(ctx, "update_tasks", in.TaskID)
		if err != nil {
			return nil, err
		}

		now := s.now()
		next := *task
		if in.Status != nil {
			next, err = next.WithStatus(*in.Status, now)
			if err != nil {
				return nil, err
			}
		}
		if in.Description != nil {
			next = next.WithDescription(*in.Description, now)
		}

		saved, err := s.save(ctx, "update_tasks", next)
		if err != nil {
			return nil, err
		}
		s.emit(ctx, events.TaskUpdated, *saved)
		updated = append(updated, *saved)
	}

	log.Info("updated tasks", slog.Int("count", len(updated)))
	return updated, nil
}

// AssignByReference implements TaskService.AssignByReference
func (s *taskServiceImpl) AssignByReference(
	ctx context.Context,
	refID int64,
	refType domain.ReferenceType,
	assigneeID int64,
) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.Int64("reference_id", refID),
		slog.String("reference_type", string(refType)),
		slog.Int64("assignee_id", assigneeID))

	taskTypes := s.catalog.TasksFor(refType)
	var persisted []taskChange

	err := s.store.WithReferenceLock(ctx, refID, refType, func(ctx context.Context, tx store.TaskStore) error {
		existing, err := tx.FindByReference(ctx, refID, refType)
		if err != nil {
			log.Error("failed to load tasks for reference", slog.String("error", err.Error()))
			return NewTaskServiceError("assign_by_reference", "failed to load tasks", err)
		}

		changes, err := reconcile(existing, taskTypes, refID, refType, assigneeID, s.now())
		if err != nil {
			return NewTaskServiceError("assign_by_reference", "failed to plan assignment", err)
		}

		persisted = make([]taskChange, 0, len(changes))
		for _, change := range changes {
			saved, err := tx.Save(ctx, change.task)
			if err != nil {
				log.Error("failed to save reconciled task",
					slog.String("error", err.Error()),
					slog.Int64("task_id", change.task.ID),
					slog.String("task", string(change.task.Type)))
				return NewTaskServiceError("assign_by_reference", "failed to save task", err)
			}
			persisted = append(persisted, taskChange{task: *saved, event: change.event})
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	// Emitted after the lock is released so observers only see committed writes.
	for _, change := range persisted {
		s.emit(ctx, change.event, change.task)
	}

	log.Info("assigned tasks for reference", slog.Int("changes", len(persisted)))
	return fmt.Sprintf(MsgAssignedFormat, refID), nil
}

// FetchTasksByDate implements TaskService.FetchTasksByDate
func (s *taskServiceImpl) FetchTasksByDate(
	ctx context.Context,
	assigneeIDs []int64,
	start, end time.Time,
) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.store.FindByAssigneeIDs(ctx, assigneeIDs)
	if err != nil {
		log.Error("failed to load tasks for assignees",
			slog.String("error", err.Error()),
			slog.Int("assignee_count", len(assigneeIDs)))
		return nil, NewTaskServiceError("fetch_tasks_by_date", "failed to load tasks", err)
	}

	result := filterTasks(tasks, func(t domain.Task) bool { return InDateWindow(t, start, end) })

	log.Debug("fetched tasks by date",
		slog.Int("candidates", len(tasks)),
		slog.Int("matched", len(result)))
	return result, nil
}

// UpdatePriority implements TaskService.UpdatePriority
func (s *taskServiceImpl) UpdatePriority(ctx context.Context, id int64, priority domain.Priority) (string, error) {
	if !priority.IsValid() {
		return "", domain.NewValidationError("priority", fmt.Sprintf("%q is not supported", priority), domain.ErrInvalidPriority)
	}

	task, err := s.getTask(ctx, "update_priority", id)
	if err != nil {
		return "", err
	}

	next, err := task.WithPriority(priority, s.now())
	if err != nil {
		return "", err
	}

	saved, err := s.save(ctx, "update_priority", next)
	if err != nil {
		return "", err
	}
	s.emit(ctx, events.TaskPriorityChanged, *saved)
	return MsgPriorityUpdated, nil
}

// GetTasksByPriority implements TaskService.GetTasksByPriority
func (s *taskServiceImpl) GetTasksByPriority(ctx context.Context, priority domain.Priority) ([]domain.Task, error) {
	if !priority.IsValid() {
		return nil, domain.NewValidationError("priority", fmt.Sprintf("%q is not supported", priority), domain.ErrInvalidPriority)
	}

	tasks, err := s.store.FindAll(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load tasks",
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("get_tasks_by_priority", "failed to load tasks", err)
	}

	return filterTasks(tasks, func(t domain.Task) bool { return t.Priority == priority }), nil
}

// GetTaskDetails implements TaskService.GetTaskDetails
func (s *taskServiceImpl) GetTaskDetails(ctx context.Context, id int64) (*domain.Task, error) {
	return s.getTask(ctx, "get_task_details", id)
}

// AddComment implements TaskService.AddComment
func (s *taskServiceImpl) AddComment(ctx context.Context, id int64, author, message string) (*domain.Task, error) {
	task, err := s.getTask(ctx, "add_comment", id)
	if err != nil {
		return nil, err
	}

	next, err := task.WithComment(author, message, s.now())
	if err != nil {
		return nil, err
	}

	saved, err := s.save(ctx, "add_comment", next)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.TaskCommented, *saved)
	return saved, nil
}

func (s *taskServiceImpl) getTask(ctx context.Context, operation string, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.store.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found",
				slog.String("operation", operation),
				slog.Int64("task_id", id))
			return nil, NewTaskServiceError(operation, "task not found", store.ErrTaskNotFound)
		}
		log.Error("failed to retrieve task",
			slog.String("error", err.Error()),
			slog.String("operation", operation),
			slog.Int64("task_id", id))
		return nil, NewTaskServiceError(operation, "failed to retrieve task", err)
	}
	return task, nil
}

func (s *taskServiceImpl) save(ctx context.Context, operation string, task domain.Task) (*domain.Task, error) {
	saved, err := s.store.Save(ctx, task)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save task",
			slog.String("error", err.Error()),
			slog.String("operation", operation),
			slog.Int64("task_id", task.ID))
		return nil, NewTaskServiceError(operation, "failed to save task", err)
	}
	return saved, nil
}

// emit publishes a task event. Handler failures are logged and never undo
// the write that caused the event.
func (s *taskServiceImpl) emit(ctx context.Context, eventType events.EventType, task domain.Task) {
	if err := s.emitter.EmitEvent(ctx, events.NewTaskEvent(eventType, task, s.now())); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit task event",
			slog.String("error", err.Error()),
			slog.String("event_type", string(eventType)),
			slog.Int64("task_id", task.ID))
	}
}
