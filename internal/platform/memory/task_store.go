// Package memory provides an in-process implementation of store.TaskStore.
// It behaves like a single, strongly consistent map and is the default
// driver for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/platform/logger"
	"github.com/phrazzld/workforce-api/internal/store"
)

// TaskStore keeps tasks in memory. All reads return deep copies.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  map[int64]domain.Task
	nextID int64
	locks  *keyedMutex
	logger *slog.Logger
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty TaskStore. If logger is nil, a default
// logger will be used.
func NewTaskStore(logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		tasks:  make(map[int64]domain.Task),
		locks:  newKeyedMutex(),
		logger: logger.With(slog.String("component", "memory_task_store")),
	}
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	task, ok := s.tasks[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: id %d", store.ErrTaskNotFound, id)
	}
	c := task.Clone()
	return &c, nil
}

// Save implements store.TaskStore.Save.
func (s *TaskStore) Save(ctx context.Context, task domain.Task) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during save",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == 0 {
		s.nextID++
		task.ID = s.nextID
	} else if _, ok := s.tasks[task.ID]; !ok {
		return nil, fmt.Errorf("%w: id %d", store.ErrTaskNotFound, task.ID)
	}

	stored := task.Clone()
	s.tasks[stored.ID] = stored

	log.Debug("task saved",
		slog.Int64("task_id", stored.ID),
		slog.String("status", string(stored.Status)))

	c := stored.Clone()
	return &c, nil
}

// FindAll implements store.TaskStore.FindAll.
func (s *TaskStore) FindAll(ctx context.Context) ([]domain.Task, error) {
	return s.filter(ctx, func(domain.Task) bool { return true })
}

// FindByReference implements store.TaskStore.FindByReference.
func (s *TaskStore) FindByReference(
	ctx context.Context,
	refID int64,
	refType domain.ReferenceType,
) ([]domain.Task, error) {
	return s.filter(ctx, func(t domain.Task) bool {
		return t.ReferenceID == refID && t.ReferenceType == refType
	})
}

// FindByAssigneeIDs implements store.TaskStore.FindByAssigneeIDs.
func (s *TaskStore) FindByAssigneeIDs(ctx context.Context, assigneeIDs []int64) ([]domain.Task, error) {
	wanted := make(map[int64]struct{}, len(assigneeIDs))
	for _, id := range assigneeIDs {
		wanted[id] = struct{}{}
	}
	return s.filter(ctx, func(t domain.Task) bool {
		_, ok := wanted[t.AssigneeID]
		return ok
	})
}

// WithReferenceLock implements store.TaskStore.WithReferenceLock using a
// per-reference mutex. fn receives this store.
func (s *TaskStore) WithReferenceLock(
	ctx context.Context,
	refID int64,
	refType domain.ReferenceType,
	fn func(ctx context.Context, s store.TaskStore) error,
) error {
	key := referenceKey{id: refID, refType: refType}
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, s)
}

func (s *TaskStore) filter(ctx context.Context, keep func(domain.Task) bool) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	result := make([]domain.Task, 0)
	for _, t := range s.tasks {
		if keep(t) {
			result = append(result, t.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
