package service

import (
	"context"
	"sync"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/events"
	"github.com/phrazzld/workforce-api/internal/store"
)

// stubTaskStore delegates to an underlying store unless the matching
// function field is set.
type stubTaskStore struct {
	store.TaskStore

	GetByIDFn           func(ctx context.Context, id int64) (*domain.Task, error)
	SaveFn              func(ctx context.Context, task domain.Task) (*domain.Task, error)
	FindAllFn           func(ctx context.Context) ([]domain.Task, error)
	FindByReferenceFn   func(ctx context.Context, refID int64, refType domain.ReferenceType) ([]domain.Task, error)
	FindByAssigneeIDsFn func(ctx context.Context, ids []int64) ([]domain.Task, error)
}

func (s *stubTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return s.TaskStore.GetByID(ctx, id)
}

func (s *stubTaskStore) Save(ctx context.Context, task domain.Task) (*domain.Task, error) {
	if s.SaveFn != nil {
		return s.SaveFn(ctx, task)
	}
	return s.TaskStore.Save(ctx, task)
}

func (s *stubTaskStore) FindAll(ctx context.Context) ([]domain.Task, error) {
	if s.FindAllFn != nil {
		return s.FindAllFn(ctx)
	}
	return s.TaskStore.FindAll(ctx)
}

func (s *stubTaskStore) FindByReference(
	ctx context.Context,
	refID int64,
	refType domain.ReferenceType,
) ([]domain.Task, error) {
	if s.FindByReferenceFn != nil {
		return s.FindByReferenceFn(ctx, refID, refType)
	}
	return s.TaskStore.FindByReference(ctx, refID, refType)
}

func (s *stubTaskStore) FindByAssigneeIDs(ctx context.Context, ids []int64) ([]domain.Task, error) {
	if s.FindByAssigneeIDsFn != nil {
		return s.FindByAssigneeIDsFn(ctx, ids)
	}
	return s.TaskStore.FindByAssigneeIDs(ctx, ids)
}

// WithReferenceLock hands the stub itself to fn so overrides stay active
// inside the critical section.
func (s *stubTaskStore) WithReferenceLock(
	ctx context.Context,
	refID int64,
	refType domain.ReferenceType,
	fn func(ctx context.Context, s store.TaskStore) error,
) error {
	return s.TaskStore.WithReferenceLock(ctx, refID, refType, func(ctx context.Context, _ store.TaskStore) error {
		return fn(ctx, s)
	})
}

// recordingEmitter keeps every emitted event.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.TaskEvent
	err    error
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.TaskEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return e.err
}

func (e *recordingEmitter) types() []events.EventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]events.EventType, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Type)
	}
	return out
}
