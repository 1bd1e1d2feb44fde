package store

import (
	"context"

	"github.com/phrazzld/workforce-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
//
// Every method returns copies: mutating a returned task has no effect on the
// store until it is passed back to Save. List results are ordered by ID
// ascending, which is also creation order.
type TaskStore interface {
	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Save inserts the task when its ID is zero and replaces the stored
	// task otherwise. It returns the stored version, with the ID assigned
	// on insert. Returns ErrTaskNotFound when replacing an unknown ID.
	Save(ctx context.Context, task domain.Task) (*domain.Task, error)

	// FindAll returns every task.
	FindAll(ctx context.Context) ([]domain.Task, error)

	// FindByReference returns the tasks serving one business reference.
	FindByReference(ctx context.Context, refID int64, refType domain.ReferenceType) ([]domain.Task, error)

	// FindByAssigneeIDs returns the tasks owned by any of the given users.
	// An empty ID list yields an empty result.
	FindByAssigneeIDs(ctx context.Context, assigneeIDs []int64) ([]domain.Task, error)

	// WithReferenceLock runs fn with exclusive access to the given reference:
	// two calls for the same reference never overlap. fn receives the store
	// it must use for its reads and writes, which may be bound to a
	// transaction. The error returned by fn is returned unchanged.
	WithReferenceLock(
		ctx context.Context,
		refID int64,
		refType domain.ReferenceType,
		fn func(ctx context.Context, s TaskStore) error,
	) error
}
